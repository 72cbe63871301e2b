package movies_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aoideee/watchlog/internal/data"
	"github.com/aoideee/watchlog/internal/movies"
)

func newService(t *testing.T, profile data.Profile) *movies.Service {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := data.OpenDB(context.Background(), data.DBConfig{
		Driver: data.DriverSQLite,
		DSN:    filepath.Join(t.TempDir(), "movies.db"),
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return movies.NewService(data.NewModels(db).Movies, profile)
}

func str(s string) *string { return &s }
func num(f float64) *float64 { return &f }
func year(i int) *int { return &i }

func duneFields() data.MovieFields {
	return data.MovieFields{
		Title:       str("Dune"),
		Genre:       str("Sci-Fi"),
		Type:        str("Film"),
		Year:        year(2021),
		Rating:      num(4.5),
		WatchedDate: str("2024-01-01"),
	}
}

func TestCreateStoresSubmittedValues(t *testing.T) {
	svc := newService(t, data.ProfileExtended)
	ctx := context.Background()

	created, err := svc.Create(ctx, duneFields())
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, "Sci-Fi", got.Genre)
	assert.Equal(t, "Film", *got.Type)
	assert.Equal(t, 2021, *got.Year)
	assert.Equal(t, 4.5, got.Rating)
	assert.Equal(t, "2024-01-01", got.WatchedDate)
	assert.Nil(t, got.Comment)
}

func TestCreateMissingFieldPersistsNothing(t *testing.T) {
	svc := newService(t, data.ProfileBasic)
	ctx := context.Background()

	fields := duneFields()
	fields.Rating = nil

	_, err := svc.Create(ctx, fields)
	require.ErrorIs(t, err, movies.ErrMissingData)

	var missing *movies.MissingFieldsError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"rating"}, missing.Fields)

	listing, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, listing.Movies)
}

func TestCreateProfileRequirements(t *testing.T) {
	fields := duneFields()
	fields.Type = nil
	fields.Year = nil

	_, err := newService(t, data.ProfileExtended).Create(context.Background(), fields)
	assert.ErrorIs(t, err, movies.ErrMissingData)

	created, err := newService(t, data.ProfileBasic).Create(context.Background(), fields)
	require.NoError(t, err)
	assert.Nil(t, created.Type)
	assert.Nil(t, created.Year)
}

func TestCreateRejectsBlankTitle(t *testing.T) {
	fields := duneFields()
	fields.Title = str(" ")

	_, err := newService(t, data.ProfileExtended).Create(context.Background(), fields)

	var verr *movies.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Errors, "title")
}

func TestGetMissing(t *testing.T) {
	_, err := newService(t, data.ProfileExtended).Get(context.Background(), 9999)
	assert.ErrorIs(t, err, data.ErrRecordNotFound)
}

func TestUpdateOnlyCommentLeavesOtherFields(t *testing.T) {
	svc := newService(t, data.ProfileExtended)
	ctx := context.Background()

	created, err := svc.Create(ctx, duneFields())
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, data.MovieFields{Comment: str("worth a rewatch"), CommentSet: true})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "worth a rewatch", *got.Comment)
	assert.Equal(t, "Dune", got.Title)
	assert.Equal(t, "Sci-Fi", got.Genre)
	assert.Equal(t, "Film", *got.Type)
	assert.Equal(t, 2021, *got.Year)
	assert.Equal(t, 4.5, got.Rating)
	assert.Equal(t, "2024-01-01", got.WatchedDate)
}

func TestUpdateMissing(t *testing.T) {
	_, err := newService(t, data.ProfileExtended).Update(context.Background(), 9999, data.MovieFields{Title: str("x")})
	assert.ErrorIs(t, err, data.ErrRecordNotFound)
}

func TestReplaceClearsAbsentOptionalFields(t *testing.T) {
	svc := newService(t, data.ProfileBasic)
	ctx := context.Background()

	fields := duneFields()
	fields.Comment = str("first")
	fields.CommentSet = true
	created, err := svc.Create(ctx, fields)
	require.NoError(t, err)

	_, err = svc.Replace(ctx, created.ID, data.MovieFields{
		Title:       str("Dune: Part Two"),
		Genre:       str("Sci-Fi"),
		Rating:      num(5),
		WatchedDate: str("2024-03-01"),
		CommentSet:  true,
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Dune: Part Two", got.Title)
	assert.Nil(t, got.Comment)
	assert.Nil(t, got.Type)

	_, err = svc.Replace(ctx, 9999, duneFields())
	assert.ErrorIs(t, err, data.ErrRecordNotFound)
}

func TestDeleteThenGet(t *testing.T) {
	svc := newService(t, data.ProfileExtended)
	ctx := context.Background()

	created, err := svc.Create(ctx, duneFields())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, data.ErrRecordNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, created.ID), data.ErrRecordNotFound)
}

func TestListAverageRating(t *testing.T) {
	svc := newService(t, data.ProfileExtended)
	ctx := context.Background()

	listing, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0.0, listing.AverageRating)
	assert.True(t, listing.ShowAverage)

	for _, r := range []float64{4.0, 5.0, 3.5} {
		fields := duneFields()
		fields.Rating = num(r)
		_, err := svc.Create(ctx, fields)
		require.NoError(t, err)
	}

	listing, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, listing.Movies, 3)
	assert.Equal(t, 4.17, listing.AverageRating)
}

type failingStore struct {
	movies.Store
	err error
}

func (f failingStore) GetAll(context.Context) ([]*data.Movie, error) { return nil, f.err }

func TestListWrapsStoreError(t *testing.T) {
	boom := errors.New("disk I/O error")
	svc := movies.NewService(failingStore{err: boom}, data.ProfileBasic)

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, boom)
}
