package domain

import (
	"errors"
	"sort"
	"strings"
)

// Sentinel errors for catalog operations
var (
	// ErrMovieNotFound indicates no record exists for the requested ID
	ErrMovieNotFound = errors.New("movie not found")

	// ErrBackendUnavailable indicates the remote table could not be reached
	ErrBackendUnavailable = errors.New("movie backend is unreachable")

	// ErrNotConfigured indicates the backend endpoint or key is missing
	ErrNotConfigured = errors.New("movie backend is not configured")

	// ErrAuthFailed indicates the backend rejected the access key
	ErrAuthFailed = errors.New("backend access key was rejected")
)

// ValidationError maps field names to human readable problems.
type ValidationError map[string]string

// Error implements the error interface
func (v ValidationError) Error() string {
	fields := make([]string, 0, len(v))
	for field := range v {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+v[field])
	}
	return "invalid movie: " + strings.Join(parts, "; ")
}

// add records msg for field unless the field already has a problem.
func (v ValidationError) add(field, msg string) {
	if _, exists := v[field]; !exists {
		v[field] = msg
	}
}

// check records msg for field when ok is false.
func (v ValidationError) check(ok bool, field, msg string) {
	if !ok {
		v.add(field, msg)
	}
}
