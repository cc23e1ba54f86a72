package domain

import (
	"context"
)

// Columns the remote table can be ordered by
const (
	OrderByCreatedAt = "created_at"
	OrderByTitle     = "title"
)

// SelectOptions controls a read-all query against the movies table.
type SelectOptions struct {
	OrderBy   string // column name, empty for backend default
	Ascending bool
	Limit     int // 0 means no limit
}

// MovieTable is the remote "movies" table.
// Implementations make exactly one attempt per call.
type MovieTable interface {
	// Select returns every row, ordered as requested
	Select(ctx context.Context, opts SelectOptions) ([]Movie, error)

	// Count returns the number of rows in the table
	Count(ctx context.Context) (int, error)

	// Insert creates a row and returns it with the server-assigned ID
	Insert(ctx context.Context, movie MovieInput) (Movie, error)

	// Update replaces the row keyed by movie.ID and returns the stored row.
	// Returns ErrMovieNotFound when no row has that ID.
	Update(ctx context.Context, movie Movie) (Movie, error)

	// Delete removes the row keyed by id. A missing row is not an error.
	Delete(ctx context.Context, id string) error
}

// SnapshotStore persists the working set on the local device.
type SnapshotStore interface {
	GetMovies() ([]Movie, bool)
	SaveMovies(movies []Movie) error
	Clear() error
	Close() error
}
