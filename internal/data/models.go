// internal/data/models.go
package data

import (
	"context"
	"database/sql"
	"errors"
)

// Models is a top-level container that groups all database model types together.
// It is handed to the movie service so nothing above this package imports sql directly.
type Models struct {
	Movies MovieModel // Handles all database operations for the movies table
}

// NewModels constructs a Models value wired up to the given database connection pool.
func NewModels(db *sql.DB) Models {
	return Models{
		Movies: MovieModel{DB: db},
	}
}

// ErrRecordNotFound is returned when a query finds no matching row.
var ErrRecordNotFound = errors.New("record not found")

// MovieModel wraps a *sql.DB connection and provides methods for
// creating, reading, updating, and deleting movie records.
//
// Queries use $N placeholders, which both PostgreSQL and SQLite accept.
type MovieModel struct {
	DB *sql.DB // Shared database connection pool
}

// Insert adds a new movie record to the database.
// After a successful insert, the database-assigned id is written back into movie.
func (m MovieModel) Insert(ctx context.Context, movie *Movie) error {
	query := `
		INSERT INTO movies (title, genre, type, year, rating, comment, watched_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	args := []any{
		movie.Title,
		movie.Genre,
		movie.Type,
		movie.Year,
		movie.Rating,
		movie.Comment,
		movie.WatchedDate,
	}

	return m.DB.QueryRowContext(ctx, query, args...).Scan(&movie.ID)
}

// Get retrieves a single movie by its primary key.
// Returns ErrRecordNotFound if no movie with the given id exists.
func (m MovieModel) Get(ctx context.Context, id int64) (*Movie, error) {
	if id < 1 {
		return nil, ErrRecordNotFound
	}

	query := `
		SELECT id, title, genre, type, year, rating, comment, watched_date
		FROM movies
		WHERE id = $1`

	var movie Movie
	err := m.DB.QueryRowContext(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Genre,
		&movie.Type,
		&movie.Year,
		&movie.Rating,
		&movie.Comment,
		&movie.WatchedDate,
	)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, ErrRecordNotFound
		default:
			return nil, err
		}
	}
	return &movie, nil
}

// GetAll retrieves every movie in insertion order.
func (m MovieModel) GetAll(ctx context.Context) ([]*Movie, error) {
	query := `
		SELECT id, title, genre, type, year, rating, comment, watched_date
		FROM movies
		ORDER BY id ASC`

	rows, err := m.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []*Movie{}

	for rows.Next() {
		var movie Movie
		err := rows.Scan(
			&movie.ID,
			&movie.Title,
			&movie.Genre,
			&movie.Type,
			&movie.Year,
			&movie.Rating,
			&movie.Comment,
			&movie.WatchedDate,
		)
		if err != nil {
			return nil, err
		}
		movies = append(movies, &movie)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return movies, nil
}

// Update saves every mutable column of movie back to the database.
// Returns ErrRecordNotFound if the row no longer exists.
func (m MovieModel) Update(ctx context.Context, movie *Movie) error {
	query := `
		UPDATE movies
		SET title = $1, genre = $2, type = $3, year = $4,
		    rating = $5, comment = $6, watched_date = $7
		WHERE id = $8`

	args := []any{
		movie.Title,
		movie.Genre,
		movie.Type,
		movie.Year,
		movie.Rating,
		movie.Comment,
		movie.WatchedDate,
		movie.ID,
	}

	result, err := m.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	return checkAffected(result)
}

// Delete removes the movie with the given id from the database.
// Returns ErrRecordNotFound if no matching record exists.
func (m MovieModel) Delete(ctx context.Context, id int64) error {
	if id < 1 {
		return ErrRecordNotFound
	}

	result, err := m.DB.ExecContext(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return err
	}

	return checkAffected(result)
}

func checkAffected(result sql.Result) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}
