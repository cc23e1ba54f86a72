package rest

import (
	"log/slog"
	"math"
	"time"

	"github.com/mmcdole/reel/internal/domain"
)

// MapMovies converts table rows to domain movies
func MapMovies(rows []MovieRow, logger *slog.Logger) []domain.Movie {
	movies := make([]domain.Movie, 0, len(rows))
	for _, row := range rows {
		movies = append(movies, MapMovie(row, logger))
	}
	return movies
}

// MapMovie converts a single row, coercing year and rating and reading
// null text columns as empty strings.
func MapMovie(row MovieRow, logger *slog.Logger) domain.Movie {
	id := rowID(row.ID)

	if row.Year.Raw != "" && !row.Year.Valid {
		logger.Debug("unparseable year", "id", id, "value", row.Year.Raw)
	}
	if row.Rating.Raw != "" && !row.Rating.Valid {
		logger.Debug("unparseable rating", "id", id, "value", row.Rating.Raw)
	}

	return domain.Movie{
		ID:          id,
		CreatedAt:   parseTimestamp(row.CreatedAt),
		Title:       deref(row.Title),
		Director:    deref(row.Director),
		Year:        int(math.Round(row.Year.Value)),
		Rating:      row.Rating.Value,
		Poster:      deref(row.Poster),
		Description: deref(row.Description),
	}
}

// MapBody converts a domain input to the JSON write body
func MapBody(in domain.MovieInput) MovieBody {
	return MovieBody{
		Title:       in.Title,
		Director:    in.Director,
		Year:        in.Year,
		Rating:      in.Rating,
		Poster:      in.Poster,
		Description: in.Description,
	}
}

// parseTimestamp accepts the timestamptz formats PostgREST emits
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05.999999-07"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
