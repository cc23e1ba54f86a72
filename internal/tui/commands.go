package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/library"
)

// Collection is the part of library.Service the TUI drives
type Collection interface {
	Initialize(ctx context.Context) library.Status
	List() library.Snapshot
	Get(id string) (domain.Movie, bool)
	Add(ctx context.Context, in domain.MovieInput) (domain.Movie, error)
	Update(ctx context.Context, movie domain.Movie) (domain.Movie, error)
	Delete(ctx context.Context, id string) error
}

// Command factories for async operations

// InitializeCmd performs the initial load of the collection
func InitializeCmd(svc Collection, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		return InitializedMsg{Status: svc.Initialize(ctx)}
	}
}

// AddMovieCmd creates a movie
func AddMovieCmd(svc Collection, in domain.MovieInput, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		movie, err := svc.Add(ctx, in)
		if err != nil {
			return ErrMsg{Err: err, Context: "adding movie"}
		}
		return MovieSavedMsg{Movie: movie, Created: true}
	}
}

// UpdateMovieCmd replaces a movie
func UpdateMovieCmd(svc Collection, movie domain.Movie, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		updated, err := svc.Update(ctx, movie)
		if err != nil {
			return ErrMsg{Err: err, Context: "updating movie"}
		}
		return MovieSavedMsg{Movie: updated}
	}
}

// DeleteMovieCmd removes a movie
func DeleteMovieCmd(svc Collection, id string, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := svc.Delete(ctx, id); err != nil {
			return ErrMsg{Err: err, Context: "deleting movie"}
		}
		return MovieDeletedMsg{ID: id}
	}
}

// WaitForNotificationCmd blocks until the next notification arrives
func WaitForNotificationCmd(ch <-chan domain.Notification) tea.Cmd {
	return func() tea.Msg {
		n, ok := <-ch
		if !ok {
			return nil
		}
		return NotificationMsg{Notification: n}
	}
}

// ToastExpiryCmd dismisses a toast after d
func ToastExpiryCmd(id int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ToastExpiredMsg{ID: id}
	})
}

// TickCmd advances the spinner
func TickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return TickMsg{}
	})
}
