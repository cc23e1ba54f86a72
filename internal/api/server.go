package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/mmcdole/reel/internal/adapter"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/library"
	"github.com/mmcdole/reel/internal/metrics"
)

// Collection is the part of library.Service the API drives
type Collection interface {
	List() library.Snapshot
	Get(id string) (domain.Movie, bool)
	Add(ctx context.Context, in domain.MovieInput) (domain.Movie, error)
	Update(ctx context.Context, movie domain.Movie) (domain.Movie, error)
	Delete(ctx context.Context, id string) error
}

// Server serves the JSON API over a Collection.
type Server struct {
	movies  Collection
	limiter *rateLimiter
	logger  *slog.Logger
	version string
	now     func() time.Time
}

// NewServer creates an API server. A zero RateLimit disables rate limiting.
func NewServer(movies Collection, cfg adapter.ServerConfig, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		movies:  movies,
		logger:  logger,
		version: version,
		now:     time.Now,
	}
	if cfg.RateLimit > 0 {
		s.limiter = newRateLimiter(cfg.RateLimit, cfg.Burst)
	}
	return s
}

// Routes returns the HTTP handler with middleware applied
func (s *Server) Routes() http.Handler {
	router := httprouter.New()
	router.NotFound = http.HandlerFunc(s.notFoundResponse)
	router.MethodNotAllowed = http.HandlerFunc(s.methodNotAllowedResponse)

	router.HandlerFunc(http.MethodGet, "/v1/healthcheck", s.healthcheckHandler)

	router.HandlerFunc(http.MethodGet, "/v1/movies", s.listMoviesHandler)
	router.HandlerFunc(http.MethodPost, "/v1/movies", s.createMovieHandler)
	router.HandlerFunc(http.MethodGet, "/v1/movies/:id", s.showMovieHandler)
	router.HandlerFunc(http.MethodPut, "/v1/movies/:id", s.updateMovieHandler)
	router.HandlerFunc(http.MethodDelete, "/v1/movies/:id", s.deleteMovieHandler)

	router.Handler(http.MethodGet, "/metrics", metrics.Handler())

	return s.recoverPanic(s.instrument(s.rateLimit(router)))
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Routes(),
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info("shutting down server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
