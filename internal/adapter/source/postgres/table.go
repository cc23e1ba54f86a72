package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/mmcdole/reel/internal/domain"
)

// orderColumns whitelists the columns Select may order by
var orderColumns = map[string]bool{
	domain.OrderByCreatedAt: true,
	domain.OrderByTitle:     true,
	"year":                  true,
	"rating":                true,
}

const selectColumns = "id::text, created_at, title, director, year::text, rating::text, poster, description"

// Table implements domain.MovieTable directly against a Postgres database.
type Table struct {
	db     *sql.DB
	name   string
	logger *slog.Logger

	schemaOnce sync.Once
	schemaErr  error
}

var _ domain.MovieTable = (*Table)(nil)

// Open creates a table handle. The connection is established lazily, so an
// unreachable server surfaces on the first query rather than here.
func Open(dsn, table string, logger *slog.Logger) (*Table, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if table == "" {
		table = "movies"
	}
	db, err := sql.Open("pgx", strings.TrimSpace(dsn))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &Table{
		db:     db,
		name:   pgx.Identifier{table}.Sanitize(),
		logger: logger,
	}, nil
}

// Close releases the connection pool
func (t *Table) Close() error {
	return t.db.Close()
}

func (t *Table) ensureSchema(ctx context.Context) error {
	t.schemaOnce.Do(func() {
		_, t.schemaErr = t.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS `+t.name+` (
	id          text PRIMARY KEY DEFAULT gen_random_uuid()::text,
	created_at  timestamptz NOT NULL DEFAULT now(),
	title       text NOT NULL,
	director    text,
	year        integer,
	rating      double precision,
	poster      text,
	description text
)`)
		if t.schemaErr != nil {
			t.schemaErr = fmt.Errorf("%w: %v", domain.ErrBackendUnavailable, t.schemaErr)
		}
	})
	return t.schemaErr
}

// Select returns every row, ordered as requested
func (t *Table) Select(ctx context.Context, opts domain.SelectOptions) ([]domain.Movie, error) {
	if err := t.ensureSchema(ctx); err != nil {
		return nil, err
	}

	query := "SELECT " + selectColumns + " FROM " + t.name + orderClause(opts)
	var args []any
	if opts.Limit > 0 {
		query += " LIMIT $1"
		args = append(args, opts.Limit)
	}

	rows, err := t.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	var movies []domain.Movie
	for rows.Next() {
		m, err := t.scan(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read movies: %w", err)
	}
	return movies, nil
}

// Count returns the number of rows
func (t *Table) Count(ctx context.Context) (int, error) {
	if err := t.ensureSchema(ctx); err != nil {
		return 0, err
	}
	var n int
	if err := t.db.QueryRowContext(ctx, "SELECT count(*) FROM "+t.name).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	return n, nil
}

// Insert creates a row and returns it with the generated id and timestamp
func (t *Table) Insert(ctx context.Context, in domain.MovieInput) (domain.Movie, error) {
	if err := t.ensureSchema(ctx); err != nil {
		return domain.Movie{}, err
	}
	row := t.db.QueryRowContext(ctx,
		"INSERT INTO "+t.name+" (title, director, year, rating, poster, description) VALUES ($1, $2, $3, $4, $5, $6) RETURNING "+selectColumns,
		in.Title, in.Director, in.Year, in.Rating, in.Poster, in.Description,
	)
	m, err := t.scan(row)
	if err != nil {
		return domain.Movie{}, fmt.Errorf("failed to insert movie: %w", err)
	}
	return m, nil
}

// Update replaces the row keyed by movie.ID
func (t *Table) Update(ctx context.Context, movie domain.Movie) (domain.Movie, error) {
	if err := t.ensureSchema(ctx); err != nil {
		return domain.Movie{}, err
	}
	row := t.db.QueryRowContext(ctx,
		"UPDATE "+t.name+" SET title = $2, director = $3, year = $4, rating = $5, poster = $6, description = $7 WHERE id::text = $1 RETURNING "+selectColumns,
		movie.ID, movie.Title, movie.Director, movie.Year, movie.Rating, movie.Poster, movie.Description,
	)
	m, err := t.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Movie{}, domain.ErrMovieNotFound
	}
	if err != nil {
		return domain.Movie{}, fmt.Errorf("failed to update movie: %w", err)
	}
	return m, nil
}

// Delete removes the row keyed by id. Deleting a missing row is a no-op.
func (t *Table) Delete(ctx context.Context, id string) error {
	if err := t.ensureSchema(ctx); err != nil {
		return err
	}
	res, err := t.db.ExecContext(ctx, "DELETE FROM "+t.name+" WHERE id::text = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		t.logger.Debug("delete matched no rows", "id", id)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scan reads one row. year and rating are selected as text so legacy tables
// that store them as strings decode the same way as numeric ones.
func (t *Table) scan(s scanner) (domain.Movie, error) {
	var (
		m                             domain.Movie
		director, poster, description sql.NullString
		year, rating                  sql.NullString
	)
	if err := s.Scan(&m.ID, &m.CreatedAt, &m.Title, &director, &year, &rating, &poster, &description); err != nil {
		return domain.Movie{}, err
	}
	m.Director = director.String
	m.Poster = poster.String
	m.Description = description.String
	m.Year = int(math.Round(t.number(m.ID, "year", year)))
	m.Rating = t.number(m.ID, "rating", rating)
	return m, nil
}

func (t *Table) number(id, column string, v sql.NullString) float64 {
	if !v.Valid {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v.String), 64)
	if err != nil {
		t.logger.Debug("unparseable number", "id", id, "column", column, "value", v.String)
		return 0
	}
	return f
}

// orderClause renders ORDER BY for whitelisted columns; anything else is ignored
func orderClause(opts domain.SelectOptions) string {
	if !orderColumns[opts.OrderBy] {
		return ""
	}
	dir := "DESC"
	if opts.Ascending {
		dir = "ASC"
	}
	return " ORDER BY " + opts.OrderBy + " " + dir
}
