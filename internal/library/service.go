package library

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/mmcdole/reel/internal/domain"
)

// Where the working set came from at initialization
const (
	SourceRemote   = "remote"
	SourceSnapshot = "snapshot"
	SourceSample   = "sample"
)

// Status reports the outcome of Initialize.
type Status struct {
	Connected bool
	Source    string
	Count     int
	Err       error // why the remote read failed, nil when connected
}

// Service owns the working set for the session and keeps it in step with
// the remote table. Mutations reach the remote table first while connected
// and the working set changes only after the remote call succeeds.
type Service struct {
	table     domain.MovieTable // nil when the backend is not configured
	snapshots domain.SnapshotStore
	notifier  domain.Notifier
	opts      domain.SelectOptions
	logger    *slog.Logger
	newID     func() string

	mu        sync.RWMutex // Protects the fields below
	movies    []domain.Movie
	loading   bool
	connected bool
}

// NewService creates a Service. A nil table means the backend is not
// configured; snapshots and notifier may be nil.
func NewService(
	table domain.MovieTable,
	snapshots domain.SnapshotStore,
	notifier domain.Notifier,
	opts domain.SelectOptions,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if notifier == nil {
		notifier = domain.NoOpNotifier{}
	}
	return &Service{
		table:     table,
		snapshots: snapshots,
		notifier:  notifier,
		opts:      opts,
		logger:    logger,
		newID:     uuid.NewString,
		loading:   true,
	}
}

// Initialize performs one read of the remote table. On failure the working
// set falls back to the local snapshot (when one exists) or the sample
// movies, and the service stays disconnected for the rest of the session.
// It never returns an error; the reason is carried in Status.Err.
func (s *Service) Initialize(ctx context.Context) Status {
	movies, err := s.fetch(ctx)
	if err == nil {
		s.replace(movies, true)
		s.saveSnapshot(movies)
		s.logger.Info("loaded movies from backend", "count", len(movies))
		return Status{Connected: true, Source: SourceRemote, Count: len(movies)}
	}

	s.logger.Warn("backend unavailable, using local data", "error", err)
	s.notifier.Notify(domain.Notification{
		Title:       "Database Error",
		Description: "Could not connect to the movies database. Please check your backend configuration.",
		Variant:     domain.VariantDestructive,
	})

	source := SourceSample
	fallback := domain.SampleMovies()
	if s.snapshots != nil {
		if cached, ok := s.snapshots.GetMovies(); ok {
			source = SourceSnapshot
			fallback = cached
		}
	}
	s.replace(fallback, false)
	s.logger.Debug("working set from fallback", "source", source, "count", len(fallback))
	return Status{Connected: false, Source: source, Count: len(fallback), Err: err}
}

// Seed inserts the sample movies when the remote table is empty and reloads
// the working set. Returns the number of rows inserted.
func (s *Service) Seed(ctx context.Context) (int, error) {
	if !s.Connected() {
		return 0, fmt.Errorf("cannot seed: %w", domain.ErrBackendUnavailable)
	}

	n, err := s.table.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count movies: %w", err)
	}
	if n > 0 {
		s.logger.Debug("table already has movies, skipping seed", "count", n)
		return 0, nil
	}

	inserted := 0
	var insertErr error
	for _, m := range domain.SampleMovies() {
		if _, err := s.table.Insert(ctx, m.Input()); err != nil {
			insertErr = fmt.Errorf("failed to insert sample movie %q: %w", m.Title, err)
			break
		}
		inserted++
	}

	// Reload even after a partial seed so the working set matches the table
	if inserted > 0 || insertErr == nil {
		if err := s.reload(ctx); err != nil {
			return inserted, errors.Join(insertErr, err)
		}
	}
	if insertErr != nil {
		s.logger.Warn("seed stopped early", "inserted", inserted, "error", insertErr)
		return inserted, insertErr
	}
	s.logger.Info("seeded movies table", "inserted", inserted)
	return inserted, nil
}

func (s *Service) reload(ctx context.Context) error {
	movies, err := s.fetch(ctx)
	if err != nil {
		return fmt.Errorf("failed to reload movies: %w", err)
	}
	s.replace(movies, true)
	s.saveSnapshot(movies)
	return nil
}

func (s *Service) fetch(ctx context.Context) ([]domain.Movie, error) {
	if s.table == nil {
		return nil, domain.ErrNotConfigured
	}
	movies, err := s.table.Select(ctx, s.opts)
	if err != nil {
		return nil, err
	}
	if movies == nil {
		movies = []domain.Movie{}
	}
	return movies, nil
}

// replace swaps in a new working set and clears the loading flag
func (s *Service) replace(movies []domain.Movie, connected bool) {
	s.mu.Lock()
	s.movies = movies
	s.connected = connected
	s.loading = false
	s.mu.Unlock()
}

// mutate applies fn to a copy of the working set and swaps the result in.
// fn returning false leaves the working set untouched. Reports whether the
// working set changed.
func (s *Service) mutate(fn func(movies []domain.Movie) ([]domain.Movie, bool)) bool {
	s.mu.Lock()
	next, changed := fn(cloneMovies(s.movies))
	if changed {
		s.movies = next
	}
	current := s.movies
	s.mu.Unlock()

	if changed {
		s.saveSnapshot(current)
	}
	return changed
}

func (s *Service) saveSnapshot(movies []domain.Movie) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.SaveMovies(movies); err != nil {
		s.logger.Error("failed to save snapshot", "error", err)
	}
}

// uniqueID generates an ID not present in movies
func (s *Service) uniqueID(movies []domain.Movie) string {
	for {
		id := s.newID()
		if id != "" && domain.FindMovie(movies, id) < 0 {
			return id
		}
		s.logger.Debug("generated id collided, retrying", "id", id)
	}
}

func (s *Service) fail(action string, err error) error {
	s.logger.Error("failed to "+action+" movie", "error", err)
	s.notifier.Notify(domain.Notification{
		Title:       "Error",
		Description: fmt.Sprintf("Failed to %s movie: %s", action, err),
		Variant:     domain.VariantDestructive,
	})
	return fmt.Errorf("failed to %s movie: %w", action, err)
}

func cloneMovies(movies []domain.Movie) []domain.Movie {
	out := make([]domain.Movie, len(movies))
	copy(out, movies)
	return out
}
