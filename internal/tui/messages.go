package tui

import (
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/library"
)

// Message types for the TUI

// ErrMsg represents a failed operation
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// InitializedMsg signals that the collection finished its initial load
type InitializedMsg struct {
	Status library.Status
}

// MovieSavedMsg signals that a movie was added or updated
type MovieSavedMsg struct {
	Movie   domain.Movie
	Created bool
}

// MovieDeletedMsg signals that a movie was removed
type MovieDeletedMsg struct {
	ID string
}

// NotificationMsg carries a notification from the collection
type NotificationMsg struct {
	Notification domain.Notification
}

// ToastExpiredMsg signals that a toast should be dismissed
type ToastExpiredMsg struct {
	ID int
}

// TickMsg drives the loading spinner
type TickMsg struct{}
