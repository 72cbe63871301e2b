// cmd/api/routes.go
package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// routes registers all HTTP endpoints and returns the configured router
// wrapped in middleware.
//
// Middleware chain (outermost → innermost):
//
//	recoverPanic → requestID → logRequest → rateLimit → router
//
// Form interface:
//
//	GET    /                – list page
//	GET    /add_edit[/:id]  – blank or prefilled movie form
//	POST   /add_edit[/:id]  – create or replace a movie, redirect to /
//	POST   /delete/:id      – delete a movie, redirect to /
//
// JSON API:
//
//	GET    /movies          – list all movies
//	GET    /movies/:id      – retrieve a single movie
//	POST   /movies          – create a movie
//	PUT    /movies/:id      – update the supplied fields of a movie
//	DELETE /movies/:id      – delete a movie
//	GET    /healthcheck     – liveness and version
func (app *applicationDependencies) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/", app.homePage)
	router.HandlerFunc(http.MethodGet, "/add_edit", app.addEditForm)
	router.HandlerFunc(http.MethodGet, "/add_edit/:id", app.addEditForm)
	router.HandlerFunc(http.MethodPost, "/add_edit", app.addEditSubmit)
	router.HandlerFunc(http.MethodPost, "/add_edit/:id", app.addEditSubmit)
	router.HandlerFunc(http.MethodPost, "/delete/:id", app.deletePage)

	router.HandlerFunc(http.MethodGet, "/movies", app.listMoviesHandler)
	router.HandlerFunc(http.MethodGet, "/movies/:id", app.showMovieHandler)
	router.HandlerFunc(http.MethodPost, "/movies", app.createMovieHandler)
	router.HandlerFunc(http.MethodPut, "/movies/:id", app.updateMovieHandler)
	router.HandlerFunc(http.MethodDelete, "/movies/:id", app.deleteMovieHandler)

	router.HandlerFunc(http.MethodGet, "/healthcheck", app.healthcheckHandler)

	return app.recoverPanic(app.requestID(app.logRequest(app.rateLimit(router))))
}
