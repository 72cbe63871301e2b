// Package movies holds the watch-tracker logic that sits between the HTTP
// handlers and the record store.
package movies

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/aoideee/watchlog/internal/data"
	"github.com/aoideee/watchlog/internal/validator"
)

// ErrMissingData is returned when a required movie field was not supplied.
var ErrMissingData = errors.New("missing data")

// MissingFieldsError lists the required fields absent from a create or replace.
// It matches ErrMissingData with errors.Is.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return "missing data: " + strings.Join(e.Fields, ", ")
}

func (e *MissingFieldsError) Is(target error) bool {
	return target == ErrMissingData
}

// ValidationError carries field-level problems found in supplied values.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Errors))
	for k := range e.Errors {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Errors[k])
	}
	return "invalid movie fields: " + strings.Join(parts, "; ")
}

// Store is the persistence contract the service relies on.
// data.MovieModel satisfies it.
type Store interface {
	Insert(ctx context.Context, movie *data.Movie) error
	Get(ctx context.Context, id int64) (*data.Movie, error)
	GetAll(ctx context.Context) ([]*data.Movie, error)
	Update(ctx context.Context, movie *data.Movie) error
	Delete(ctx context.Context, id int64) error
}

// Listing is the result of List.
type Listing struct {
	Movies        []*data.Movie
	AverageRating float64 // mean rating rounded to 2 places, 0 when empty
	ShowAverage   bool    // set for the extended profile
}

// Service applies the tracker's rules on top of a Store.
type Service struct {
	store   Store
	profile data.Profile
}

// NewService returns a Service storing movies in store and enforcing the
// required fields of profile.
func NewService(store Store, profile data.Profile) *Service {
	return &Service{store: store, profile: profile}
}

// Profile returns the profile the service enforces.
func (s *Service) Profile() data.Profile {
	return s.profile
}

// List returns every movie in insertion order together with the average rating.
func (s *Service) List(ctx context.Context) (Listing, error) {
	all, err := s.store.GetAll(ctx)
	if err != nil {
		return Listing{}, fmt.Errorf("list movies: %w", err)
	}

	return Listing{
		Movies:        all,
		AverageRating: AverageRating(all),
		ShowAverage:   s.profile.Extended(),
	}, nil
}

// AverageRating returns the arithmetic mean of the ratings of all movies,
// rounded to two decimal places. An empty slice averages to 0.
func AverageRating(all []*data.Movie) float64 {
	if len(all) == 0 {
		return 0
	}
	var sum float64
	for _, m := range all {
		sum += m.Rating
	}
	return math.Round(sum/float64(len(all))*100) / 100
}

// Get returns the movie with id or data.ErrRecordNotFound.
func (s *Service) Get(ctx context.Context, id int64) (*data.Movie, error) {
	return s.store.Get(ctx, id)
}

// Create stores a new movie built from fields. Every required field must be
// present; values are stored exactly as supplied.
func (s *Service) Create(ctx context.Context, fields data.MovieFields) (*data.Movie, error) {
	if err := s.checkComplete(fields); err != nil {
		return nil, err
	}

	movie := &data.Movie{}
	fields.Apply(movie)

	if err := s.store.Insert(ctx, movie); err != nil {
		return nil, fmt.Errorf("insert movie: %w", err)
	}
	return movie, nil
}

// Update overwrites only the fields present in fields, leaving the rest of the
// stored movie unchanged.
func (s *Service) Update(ctx context.Context, id int64, fields data.MovieFields) (*data.Movie, error) {
	if err := validate(fields); err != nil {
		return nil, err
	}

	movie, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fields.Apply(movie)

	if err := s.store.Update(ctx, movie); err != nil {
		return nil, err
	}
	return movie, nil
}

// Replace overwrites the whole movie with fields, as submitted by the edit form.
// The form renders every column, so a field left empty there is cleared and
// every required field must be present.
func (s *Service) Replace(ctx context.Context, id int64, fields data.MovieFields) (*data.Movie, error) {
	if err := s.checkComplete(fields); err != nil {
		return nil, err
	}

	if _, err := s.store.Get(ctx, id); err != nil {
		return nil, err
	}

	movie := &data.Movie{ID: id}
	fields.Apply(movie)

	if err := s.store.Update(ctx, movie); err != nil {
		return nil, err
	}
	return movie, nil
}

// Delete removes the movie with id or returns data.ErrRecordNotFound.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.store.Delete(ctx, id)
}

func (s *Service) checkComplete(fields data.MovieFields) error {
	if missing := fields.MissingRequired(s.profile); len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return validate(fields)
}

func validate(fields data.MovieFields) error {
	v := validator.New()
	if data.ValidateMovieFields(v, fields); !v.Valid() {
		return &ValidationError{Errors: v.Errors}
	}
	return nil
}
