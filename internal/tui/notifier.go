package tui

import "github.com/mmcdole/reel/internal/domain"

// Notifier forwards collection notifications into the bubbletea program.
// Notifications are dropped when the buffer is full.
type Notifier struct {
	ch chan domain.Notification
}

var _ domain.Notifier = (*Notifier)(nil)

// NewNotifier creates a Notifier with a small buffer
func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan domain.Notification, 16)}
}

// Notify implements domain.Notifier
func (n *Notifier) Notify(note domain.Notification) {
	select {
	case n.ch <- note:
	default:
	}
}

// C returns the receive side of the notification channel
func (n *Notifier) C() <-chan domain.Notification {
	return n.ch
}
