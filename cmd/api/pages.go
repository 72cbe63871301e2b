// cmd/api/pages.go
// This file contains the form-interface handlers. They render pages through
// the views.Renderer and answer successful submissions with a redirect to /.
package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aoideee/watchlog/internal/data"
	"github.com/aoideee/watchlog/internal/movies"
	"github.com/aoideee/watchlog/internal/validator"
	"github.com/aoideee/watchlog/internal/views"
)

// homePage handles GET / and renders the movie list.
func (app *applicationDependencies) homePage(w http.ResponseWriter, r *http.Request) {
	listing, err := app.movies.List(r.Context())
	if err != nil {
		app.pageServerError(w, r, err)
		return
	}

	app.render(w, r, views.PageIndex, views.IndexPage{
		Movies:        listing.Movies,
		AverageRating: listing.AverageRating,
		ShowAverage:   listing.ShowAverage,
	})
}

// addEditForm handles GET /add_edit and GET /add_edit/:id.
func (app *applicationDependencies) addEditForm(w http.ResponseWriter, r *http.Request) {
	page := views.AddEditPage{
		Action:           "/add_edit",
		RequireExtension: app.movies.Profile().Extended(),
	}

	if hasIDParam(r) {
		movie, ok := app.pageMovie(w, r)
		if !ok {
			return
		}
		page.Movie = movie
		page.Action = fmt.Sprintf("/add_edit/%d", movie.ID)
	}

	app.render(w, r, views.PageAddEdit, page)
}

// addEditSubmit handles POST /add_edit (create) and POST /add_edit/:id
// (replace the whole record with the submitted form).
func (app *applicationDependencies) addEditSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)
	if err := r.ParseForm(); err != nil {
		app.pageError(w, http.StatusBadRequest)
		return
	}

	v := validator.New()
	fields := data.ParseFormFields(r.PostForm, v)
	if !v.Valid() {
		app.pageError(w, http.StatusBadRequest)
		return
	}

	var err error
	if hasIDParam(r) {
		id, idErr := app.readIDParam(r)
		if idErr != nil {
			app.pageError(w, http.StatusNotFound)
			return
		}
		_, err = app.movies.Replace(r.Context(), id, fields)
	} else {
		_, err = app.movies.Create(r.Context(), fields)
	}
	if err != nil {
		app.pageErrorFor(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// deletePage handles POST /delete/:id.
func (app *applicationDependencies) deletePage(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.pageError(w, http.StatusNotFound)
		return
	}

	if err := app.movies.Delete(r.Context(), id); err != nil {
		app.pageErrorFor(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// pageMovie loads the movie named by the :id parameter, writing a 404 page
// when it does not exist.
func (app *applicationDependencies) pageMovie(w http.ResponseWriter, r *http.Request) (*data.Movie, bool) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.pageError(w, http.StatusNotFound)
		return nil, false
	}

	movie, err := app.movies.Get(r.Context(), id)
	if err != nil {
		app.pageErrorFor(w, r, err)
		return nil, false
	}
	return movie, true
}

// pageErrorFor maps a movie service error onto an error page.
func (app *applicationDependencies) pageErrorFor(w http.ResponseWriter, r *http.Request, err error) {
	var verr *movies.ValidationError

	switch {
	case errors.Is(err, data.ErrRecordNotFound):
		app.pageError(w, http.StatusNotFound)
	case errors.Is(err, movies.ErrMissingData), errors.As(err, &verr):
		app.pageError(w, http.StatusBadRequest)
	default:
		app.pageServerError(w, r, err)
	}
}

// render writes page as HTML, or a 500 page if the renderer fails.
func (app *applicationDependencies) render(w http.ResponseWriter, r *http.Request, page string, pageData any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := app.views.Render(w, page, pageData); err != nil {
		w.Header().Del("Content-Type")
		app.pageServerError(w, r, err)
	}
}
