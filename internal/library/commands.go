package library

import (
	"context"
	"fmt"

	"github.com/mmcdole/reel/internal/domain"
)

// Add creates a movie. While connected the remote row (with its
// server-assigned ID) is prepended; otherwise the input is prepended under
// a locally generated ID.
func (s *Service) Add(ctx context.Context, in domain.MovieInput) (domain.Movie, error) {
	var added domain.Movie

	if s.Connected() {
		m, err := s.table.Insert(ctx, in)
		if err != nil {
			return domain.Movie{}, s.fail("add", err)
		}
		added = m
		s.mutate(func(movies []domain.Movie) ([]domain.Movie, bool) {
			if i := domain.FindMovie(movies, m.ID); i >= 0 {
				movies = append(movies[:i], movies[i+1:]...)
			}
			return append([]domain.Movie{m}, movies...), true
		})
	} else {
		s.mutate(func(movies []domain.Movie) ([]domain.Movie, bool) {
			added = in.WithID(s.uniqueID(movies))
			return append([]domain.Movie{added}, movies...), true
		})
	}

	s.logger.Debug("added movie", "id", added.ID, "title", added.Title)
	s.notifier.Notify(domain.Notification{
		Title:       "Movie Added",
		Description: fmt.Sprintf("%q has been added to your collection.", added.Title),
	})
	return added, nil
}

// Update replaces the movie keyed by movie.ID. While connected the local
// entry changes only after the remote update succeeds. An ID missing from
// the working set leaves it unchanged and sends no notification when
// offline.
func (s *Service) Update(ctx context.Context, movie domain.Movie) (domain.Movie, error) {
	remote := s.Connected()
	if remote {
		if _, err := s.table.Update(ctx, movie); err != nil {
			return domain.Movie{}, s.fail("update", err)
		}
	}

	changed := s.mutate(func(movies []domain.Movie) ([]domain.Movie, bool) {
		i := domain.FindMovie(movies, movie.ID)
		if i < 0 {
			s.logger.Debug("update for movie not in working set", "id", movie.ID)
			return movies, false
		}
		movies[i] = movie
		return movies, true
	})

	if !remote && !changed {
		return movie, nil
	}
	s.notifier.Notify(domain.Notification{
		Title:       "Movie Updated",
		Description: fmt.Sprintf("%q has been updated.", movie.Title),
	})
	return movie, nil
}

// Delete removes the movie keyed by id. Deleting an unknown id succeeds
// without changing anything; offline it also sends no notification.
func (s *Service) Delete(ctx context.Context, id string) error {
	remote := s.Connected()
	if remote {
		if err := s.table.Delete(ctx, id); err != nil {
			return s.fail("delete", err)
		}
	}

	title := "Movie"
	changed := s.mutate(func(movies []domain.Movie) ([]domain.Movie, bool) {
		i := domain.FindMovie(movies, id)
		if i < 0 {
			return movies, false
		}
		title = movies[i].Title
		return append(movies[:i], movies[i+1:]...), true
	})

	if !remote && !changed {
		return nil
	}
	s.notifier.Notify(domain.Notification{
		Title:       "Movie Deleted",
		Description: fmt.Sprintf("%q has been removed from your collection.", title),
		Variant:     domain.VariantDestructive,
	})
	return nil
}
