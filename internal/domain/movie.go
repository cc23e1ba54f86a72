package domain

import (
	"fmt"
	"strings"
	"time"
)

// Movie is a single catalog record.
type Movie struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
	Title       string    `json:"title"`
	Director    string    `json:"director"`
	Year        int       `json:"year"`
	Rating      float64   `json:"rating"`
	Poster      string    `json:"poster"`
	Description string    `json:"description"`
}

// MovieInput is a movie that has not been assigned an ID yet.
type MovieInput struct {
	Title       string  `json:"title"`
	Director    string  `json:"director"`
	Year        int     `json:"year"`
	Rating      float64 `json:"rating"`
	Poster      string  `json:"poster"`
	Description string  `json:"description"`
}

// Input strips the identity fields from m.
func (m Movie) Input() MovieInput {
	return MovieInput{
		Title:       m.Title,
		Director:    m.Director,
		Year:        m.Year,
		Rating:      m.Rating,
		Poster:      m.Poster,
		Description: m.Description,
	}
}

// WithID builds a Movie from the input using the given identifier.
func (in MovieInput) WithID(id string) Movie {
	return Movie{
		ID:          id,
		Title:       in.Title,
		Director:    in.Director,
		Year:        in.Year,
		Rating:      in.Rating,
		Poster:      in.Poster,
		Description: in.Description,
	}
}

// HasPoster reports whether a poster URL is set. Renderers show a
// placeholder otherwise.
func (m Movie) HasPoster() bool {
	return strings.TrimSpace(m.Poster) != ""
}

// FormattedRating returns the rating as "8.8/10".
func (m Movie) FormattedRating() string {
	return fmt.Sprintf("%.1f/10", m.Rating)
}

// SortTitle returns the title used for alphabetical sorting
// ("The Godfather" sorts under "Godfather").
func (m Movie) SortTitle() string {
	lower := strings.ToLower(m.Title)
	for _, article := range []string{"the ", "a ", "an "} {
		if strings.HasPrefix(lower, article) {
			return strings.TrimSpace(lower[len(article):])
		}
	}
	return lower
}

// FindMovie returns the index of the movie with the given ID, or -1.
func FindMovie(movies []Movie, id string) int {
	for i := range movies {
		if movies[i].ID == id {
			return i
		}
	}
	return -1
}
