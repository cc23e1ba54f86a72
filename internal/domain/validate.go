package domain

import (
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"
)

// Form bounds for movie fields. The store itself never enforces these.
const (
	MinYear              = 1888
	MaxYearsAhead        = 5
	MinRating            = 0.0
	MaxRating            = 10.0
	MaxTitleLength       = 500
	MaxDescriptionLength = 5000
)

// Validate applies the form rules to the input. It returns nil or a
// ValidationError describing every failing field.
func (in MovieInput) Validate(now time.Time) error {
	v := ValidationError{}

	v.check(strings.TrimSpace(in.Title) != "", "title", "Title is required")
	v.check(len(in.Title) <= MaxTitleLength, "title", fmt.Sprintf("Title must be at most %d characters", MaxTitleLength))
	v.check(strings.TrimSpace(in.Director) != "", "director", "Director is required")

	maxYear := now.Year() + MaxYearsAhead
	v.check(in.Year >= MinYear, "year", fmt.Sprintf("Year must be %d or later", MinYear))
	v.check(in.Year <= maxYear, "year", fmt.Sprintf("Year must be no later than %d", maxYear))

	v.check(!math.IsNaN(in.Rating), "rating", "Rating must be a number")
	v.check(in.Rating >= MinRating, "rating", "Rating must be at least 0")
	v.check(in.Rating <= MaxRating, "rating", "Rating must be at most 10")

	v.check(in.Poster == "" || isWebURL(in.Poster), "poster", "Must be a valid URL")
	v.check(len(in.Description) <= MaxDescriptionLength, "description", fmt.Sprintf("Description must be at most %d characters", MaxDescriptionLength))

	if len(v) == 0 {
		return nil
	}
	return v
}

func isWebURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
