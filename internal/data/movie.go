// Package data provides the data models and database interaction logic
// for the movie-watch tracker.
package data

import (
	"bytes"
	"encoding/json"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/aoideee/watchlog/internal/validator"
)

// Movie represents a single watched movie stored in the database.
// It maps directly to a row in the "movies" table.
type Movie struct {
	ID          int64   `json:"id"`             // Unique identifier assigned by the database
	Title       string  `json:"title"`          // Title of the movie
	Genre       string  `json:"genre"`          // Free-text genre
	Type        *string `json:"type,omitempty"` // "Film", "Serial", ... (nil when not recorded)
	Year        *int    `json:"year,omitempty"` // Release year (nil when not recorded)
	Rating      float64 `json:"rating"`         // Personal rating, unbounded
	Comment     *string `json:"comment"`        // Optional free text, null when absent
	WatchedDate string  `json:"watched_date"`   // Date the movie was watched, free format
}

// Profile selects which optional movie fields are mandatory.
type Profile string

const (
	// ProfileBasic requires title, genre, rating and watched_date.
	ProfileBasic Profile = "basic"
	// ProfileExtended additionally requires type and year.
	ProfileExtended Profile = "extended"
)

// Extended reports whether the type/year extension is mandatory.
func (p Profile) Extended() bool {
	return p == ProfileExtended
}

// Column size limits, mirrored in the migrations.
const (
	maxTitleChars       = 100
	maxGenreChars       = 50
	maxTypeChars        = 50
	maxWatchedDateChars = 20
)

// MovieFields holds movie values parsed from client input. A nil pointer
// means the field was not supplied. Comment is tracked separately with
// CommentSet because an explicit null clears it.
type MovieFields struct {
	Title       *string
	Genre       *string
	Type        *string
	Year        *int
	Rating      *float64
	Comment     *string
	CommentSet  bool
	WatchedDate *string
}

// MissingRequired returns the names of the fields p requires that are absent.
func (f MovieFields) MissingRequired(p Profile) []string {
	var missing []string
	if f.Title == nil {
		missing = append(missing, "title")
	}
	if f.Genre == nil {
		missing = append(missing, "genre")
	}
	if p.Extended() {
		if f.Type == nil {
			missing = append(missing, "type")
		}
		if f.Year == nil {
			missing = append(missing, "year")
		}
	}
	if f.Rating == nil {
		missing = append(missing, "rating")
	}
	if f.WatchedDate == nil {
		missing = append(missing, "watched_date")
	}
	return missing
}

// Apply overwrites the fields of m that are present in f.
func (f MovieFields) Apply(m *Movie) {
	if f.Title != nil {
		m.Title = *f.Title
	}
	if f.Genre != nil {
		m.Genre = *f.Genre
	}
	if f.Type != nil {
		m.Type = f.Type
	}
	if f.Year != nil {
		m.Year = f.Year
	}
	if f.Rating != nil {
		m.Rating = *f.Rating
	}
	if f.CommentSet {
		m.Comment = f.Comment
	}
	if f.WatchedDate != nil {
		m.WatchedDate = *f.WatchedDate
	}
}

// ValidateMovieFields checks the content of every supplied text field.
// Presence is checked separately with MissingRequired.
func ValidateMovieFields(v *validator.Validator, f MovieFields) {
	checkText(v, "title", f.Title, maxTitleChars)
	checkText(v, "genre", f.Genre, maxGenreChars)
	checkText(v, "type", f.Type, maxTypeChars)
	checkText(v, "watched_date", f.WatchedDate, maxWatchedDateChars)
}

func checkText(v *validator.Validator, key string, value *string, limit int) {
	if value == nil {
		return
	}
	v.Check(validator.NotBlank(*value), key, "must not be empty")
	v.Check(validator.MaxChars(*value, limit), key, "must not be more than "+strconv.Itoa(limit)+" characters long")
}

// ParseJSONFields converts a decoded JSON object into MovieFields. Each key is
// decoded with the type its column declares; mismatches are recorded in v.
// Unknown keys are returned as an error since the body cannot be trusted.
func ParseJSONFields(raw map[string]json.RawMessage, v *validator.Validator) (MovieFields, error) {
	var f MovieFields
	for key, value := range raw {
		isNull := bytes.Equal(bytes.TrimSpace(value), []byte("null"))

		switch key {
		case "title":
			f.Title = jsonString(v, key, value, isNull)
		case "genre":
			f.Genre = jsonString(v, key, value, isNull)
		case "type":
			f.Type = jsonString(v, key, value, isNull)
		case "watched_date":
			f.WatchedDate = jsonString(v, key, value, isNull)
		case "comment":
			f.CommentSet = true
			if !isNull {
				f.Comment = jsonString(v, key, value, false)
			}
		case "rating":
			if isNull {
				v.AddError(key, "must not be null")
				continue
			}
			var rating float64
			if err := json.Unmarshal(value, &rating); err != nil {
				v.AddError(key, "must be a number")
				continue
			}
			f.Rating = &rating
		case "year":
			if isNull {
				v.AddError(key, "must not be null")
				continue
			}
			var year int
			if err := json.Unmarshal(value, &year); err != nil {
				v.AddError(key, "must be an integer")
				continue
			}
			f.Year = &year
		default:
			return MovieFields{}, &UnknownFieldError{Field: key}
		}
	}
	return f, nil
}

func jsonString(v *validator.Validator, key string, value json.RawMessage, isNull bool) *string {
	if isNull {
		v.AddError(key, "must not be null")
		return nil
	}
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		v.AddError(key, "must be a string")
		return nil
	}
	return &s
}

// ParseFormFields converts submitted HTML form values into MovieFields.
// Browsers submit empty inputs as empty strings, so an empty value counts
// as absent.
func ParseFormFields(form url.Values, v *validator.Validator) MovieFields {
	var f MovieFields

	text := func(key string) *string {
		s := strings.TrimSpace(form.Get(key))
		if s == "" {
			return nil
		}
		return &s
	}

	f.Title = text("title")
	f.Genre = text("genre")
	f.Type = text("type")
	f.WatchedDate = text("watched_date")

	f.CommentSet = true
	f.Comment = text("comment")

	if s := text("rating"); s != nil {
		rating, err := strconv.ParseFloat(*s, 64)
		if err != nil || math.IsNaN(rating) || math.IsInf(rating, 0) {
			v.AddError("rating", "must be a number")
		} else {
			f.Rating = &rating
		}
	}
	if s := text("year"); s != nil {
		year, err := strconv.Atoi(*s)
		if err != nil {
			v.AddError("year", "must be an integer")
		} else {
			f.Year = &year
		}
	}
	return f
}

// UnknownFieldError reports a JSON key that does not belong to a movie.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return "body contains unknown key " + strconv.Quote(e.Field)
}
