package api

import (
	"errors"
	"net/http"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/search"
)

func (s *Server) healthcheckHandler(w http.ResponseWriter, r *http.Request) {
	snap := s.movies.List()
	status := "available"
	if !snap.Connected {
		status = "degraded"
	}

	env := envelope{
		"status": status,
		"system_info": map[string]any{
			"version":   s.version,
			"connected": snap.Connected,
			"loading":   snap.Loading,
			"movies":    len(snap.Movies),
		},
	}
	if err := s.writeJSON(w, http.StatusOK, env, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) listMoviesHandler(w http.ResponseWriter, r *http.Request) {
	movies := s.movies.List().Movies
	if q := r.URL.Query().Get("q"); q != "" {
		movies = search.Rank(q, movies)
	}

	if err := s.writeJSON(w, http.StatusOK, envelope{"movies": movies}, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) showMovieHandler(w http.ResponseWriter, r *http.Request) {
	movie, ok := s.movies.Get(idParam(r))
	if !ok {
		s.notFoundResponse(w, r)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, envelope{"movie": movie}, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

// validate runs the form rules, writing a response when they fail
func (s *Server) validate(w http.ResponseWriter, r *http.Request, in domain.MovieInput) bool {
	err := in.Validate(s.now())
	if err == nil {
		return true
	}
	var verr domain.ValidationError
	if errors.As(err, &verr) {
		s.failedValidationResponse(w, r, verr)
	} else {
		s.badRequestResponse(w, r, err)
	}
	return false
}

func (s *Server) createMovieHandler(w http.ResponseWriter, r *http.Request) {
	var in domain.MovieInput
	if err := s.readJSON(w, r, &in); err != nil {
		s.badRequestResponse(w, r, err)
		return
	}
	if !s.validate(w, r, in) {
		return
	}

	movie, err := s.movies.Add(r.Context(), in)
	if err != nil {
		s.mutationErrorResponse(w, r, err)
		return
	}

	headers := make(http.Header)
	headers.Set("Location", "/v1/movies/"+movie.ID)
	if err := s.writeJSON(w, http.StatusCreated, envelope{"movie": movie}, headers); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

// updateMovieHandler replaces every editable field of a movie
func (s *Server) updateMovieHandler(w http.ResponseWriter, r *http.Request) {
	existing, ok := s.movies.Get(idParam(r))
	if !ok {
		s.notFoundResponse(w, r)
		return
	}

	var in domain.MovieInput
	if err := s.readJSON(w, r, &in); err != nil {
		s.badRequestResponse(w, r, err)
		return
	}
	if !s.validate(w, r, in) {
		return
	}

	movie := in.WithID(existing.ID)
	movie.CreatedAt = existing.CreatedAt

	movie, err := s.movies.Update(r.Context(), movie)
	if err != nil {
		s.mutationErrorResponse(w, r, err)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, envelope{"movie": movie}, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}

func (s *Server) deleteMovieHandler(w http.ResponseWriter, r *http.Request) {
	id := idParam(r)
	if _, ok := s.movies.Get(id); !ok {
		s.notFoundResponse(w, r)
		return
	}

	if err := s.movies.Delete(r.Context(), id); err != nil {
		s.mutationErrorResponse(w, r, err)
		return
	}

	if err := s.writeJSON(w, http.StatusOK, envelope{"message": "movie successfully deleted"}, nil); err != nil {
		s.serverErrorResponse(w, r, err)
	}
}
