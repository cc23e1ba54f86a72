package library

import "github.com/mmcdole/reel/internal/domain"

// Snapshot is a point-in-time copy of the working set.
type Snapshot struct {
	Movies    []domain.Movie
	Loading   bool
	Connected bool
}

// List returns a copy of the working set with the loading and connectivity flags
func (s *Service) List() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Movies:    cloneMovies(s.movies),
		Loading:   s.loading,
		Connected: s.connected,
	}
}

// Get looks up a movie in the working set
func (s *Service) Get(id string) (domain.Movie, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := domain.FindMovie(s.movies, id); i >= 0 {
		return s.movies[i], true
	}
	return domain.Movie{}, false
}

// Len returns the size of the working set
func (s *Service) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.movies)
}

// Connected reports whether initialization reached the remote table
func (s *Service) Connected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected
}
