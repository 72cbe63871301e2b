// cmd/api/helpers.go
// This file contains general-purpose helper functions for the application.
// Error-response helpers live in errors.go; only non-error utilities are here.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
)

// envelope is the JSON object wrapper used for message and error responses.
type envelope map[string]any

// readIDParam extracts and validates the ":id" URL parameter added by httprouter.
// Returns an error if the value is missing, non-numeric, or less than 1.
func (app *applicationDependencies) readIDParam(r *http.Request) (int64, error) {
	params := httprouter.ParamsFromContext(r.Context())
	id, err := strconv.ParseInt(params.ByName("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, errors.New("invalid id parameter")
	}
	return id, nil
}

// hasIDParam reports whether the matched route carries an ":id" parameter,
// which distinguishes /add_edit from /add_edit/:id.
func hasIDParam(r *http.Request) bool {
	return httprouter.ParamsFromContext(r.Context()).ByName("id") != ""
}

// writeJSON marshals data to indented JSON, applies any custom headers,
// sets Content-Type to "application/json", writes the status code, and
// streams the body to the client.
func (app *applicationDependencies) writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)
	return nil
}

// errNullBody is returned by readJSONObject when the body is the JSON literal null.
var errNullBody = errors.New("body must not be null")

// readJSONObject decodes the request body as a single JSON object whose
// values are left raw for the movie schema step. It enforces a 1 MB size
// limit and ensures the body contains exactly one JSON value.
func (app *applicationDependencies) readJSONObject(w http.ResponseWriter, r *http.Request) (map[string]json.RawMessage, error) {
	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)

	dec := json.NewDecoder(r.Body)

	var dst map[string]json.RawMessage
	err := dec.Decode(&dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var maxBytesError *http.MaxBytesError

		switch {
		case errors.As(err, &syntaxError):
			return nil, fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return nil, errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			return nil, errors.New("body must be a JSON object")
		case errors.Is(err, io.EOF):
			return nil, errors.New("body must not be empty")
		case errors.As(err, &maxBytesError):
			return nil, fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		default:
			return nil, err
		}
	}
	// A literal null decodes without error and leaves the map nil.
	if dst == nil {
		return nil, errNullBody
	}

	// Ensure there is no second JSON value in the body.
	err = dec.Decode(&struct{}{})
	if err != io.EOF {
		return nil, errors.New("body must only contain a single JSON value")
	}

	return dst, nil
}
