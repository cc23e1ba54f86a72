package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mmcdole/reel/internal/domain"
)

func (s *Server) logError(r *http.Request, err error) {
	s.logger.Error("request failed", "error", err, "method", r.Method, "uri", r.URL.RequestURI())
}

func (s *Server) errorResponse(w http.ResponseWriter, r *http.Request, status int, message any) {
	if err := s.writeJSON(w, status, envelope{"error": message}, nil); err != nil {
		s.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (s *Server) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	s.logError(r, err)
	s.errorResponse(w, r, http.StatusInternalServerError, "the server encountered a problem and could not process your request")
}

func (s *Server) backendErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	s.logError(r, err)
	s.errorResponse(w, r, http.StatusBadGateway, "the movie backend could not complete the request")
}

func (s *Server) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	s.errorResponse(w, r, http.StatusNotFound, "the requested resource could not be found")
}

func (s *Server) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	s.errorResponse(w, r, http.StatusMethodNotAllowed, fmt.Sprintf("the %s method is not supported for this resource", r.Method))
}

func (s *Server) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	s.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (s *Server) failedValidationResponse(w http.ResponseWriter, r *http.Request, errs domain.ValidationError) {
	s.errorResponse(w, r, http.StatusUnprocessableEntity, map[string]string(errs))
}

func (s *Server) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request) {
	s.errorResponse(w, r, http.StatusTooManyRequests, "rate limit exceeded")
}

// mutationErrorResponse maps a collection error to a response
func (s *Server) mutationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrMovieNotFound):
		s.notFoundResponse(w, r)
	case errors.Is(err, domain.ErrBackendUnavailable), errors.Is(err, domain.ErrAuthFailed):
		s.backendErrorResponse(w, r, err)
	default:
		s.serverErrorResponse(w, r, err)
	}
}
