// cmd/api/movies.go
// This file contains the JSON API handlers for the movies resource.
package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aoideee/watchlog/internal/data"
	"github.com/aoideee/watchlog/internal/movies"
	"github.com/aoideee/watchlog/internal/validator"
)

// listMoviesHandler handles GET /movies and returns every movie as a JSON array.
func (app *applicationDependencies) listMoviesHandler(w http.ResponseWriter, r *http.Request) {
	listing, err := app.movies.List(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, listing.Movies, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// showMovieHandler handles GET /movies/:id.
func (app *applicationDependencies) showMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.movieNotFoundResponse(w, r)
		return
	}

	movie, err := app.movies.Get(r.Context(), id)
	if err != nil {
		app.movieErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, movie, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// createMovieHandler handles POST /movies. Every required field must be
// present and correctly typed; the response carries the assigned id.
func (app *applicationDependencies) createMovieHandler(w http.ResponseWriter, r *http.Request) {
	fields, ok := app.readMovieFields(w, r)
	if !ok {
		return
	}

	movie, err := app.movies.Create(r.Context(), fields)
	if err != nil {
		app.movieErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", fmt.Sprintf("/movies/%d", movie.ID))

	err = app.writeJSON(w, http.StatusCreated, envelope{"message": "Movie added", "id": movie.ID}, headers)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// updateMovieHandler handles PUT /movies/:id. Only the supplied fields are
// overwritten.
func (app *applicationDependencies) updateMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.movieNotFoundResponse(w, r)
		return
	}

	if _, err := app.movies.Get(r.Context(), id); err != nil {
		app.movieErrorResponse(w, r, err)
		return
	}

	fields, ok := app.readMovieFields(w, r)
	if !ok {
		return
	}

	_, err = app.movies.Update(r.Context(), id, fields)
	if err != nil {
		app.movieErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "Movie updated"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// deleteMovieHandler handles DELETE /movies/:id.
func (app *applicationDependencies) deleteMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r)
	if err != nil {
		app.movieNotFoundResponse(w, r)
		return
	}

	err = app.movies.Delete(r.Context(), id)
	if err != nil {
		app.movieErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "Movie deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// readMovieFields decodes and type-checks the request body. On failure it has
// already written the response and returns false.
func (app *applicationDependencies) readMovieFields(w http.ResponseWriter, r *http.Request) (data.MovieFields, bool) {
	raw, err := app.readJSONObject(w, r)
	switch {
	case errors.Is(err, errNullBody):
		app.missingDataResponse(w, r)
		return data.MovieFields{}, false
	case err != nil:
		app.badRequestResponse(w, r, err)
		return data.MovieFields{}, false
	}

	v := validator.New()
	fields, err := data.ParseJSONFields(raw, v)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return data.MovieFields{}, false
	}
	if !v.Valid() {
		app.failedValidationResponse(w, r, v.Errors)
		return data.MovieFields{}, false
	}
	return fields, true
}

// movieErrorResponse maps a movie service error onto the API's responses.
func (app *applicationDependencies) movieErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var verr *movies.ValidationError

	switch {
	case errors.Is(err, data.ErrRecordNotFound):
		app.movieNotFoundResponse(w, r)
	case errors.Is(err, movies.ErrMissingData):
		app.missingDataResponse(w, r)
	case errors.As(err, &verr):
		app.failedValidationResponse(w, r, verr.Errors)
	default:
		app.serverErrorResponse(w, r, err)
	}
}
