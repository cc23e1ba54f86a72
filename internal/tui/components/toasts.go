package components

import (
	"strings"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/mmcdole/reel/internal/tui/styles"
)

// MaxToasts is the number of toasts shown at once
const MaxToasts = 3

const toastWidth = 40

type toast struct {
	id   int
	note domain.Notification
}

// Toasts is a stack of transient notifications, newest last
type Toasts struct {
	items  []toast
	nextID int
}

// Push adds a notification and returns its id for later dismissal
func (t *Toasts) Push(note domain.Notification) int {
	t.nextID++
	t.items = append(t.items, toast{id: t.nextID, note: note})
	if len(t.items) > MaxToasts {
		t.items = t.items[len(t.items)-MaxToasts:]
	}
	return t.nextID
}

// Dismiss removes the toast with id
func (t *Toasts) Dismiss(id int) {
	for i, item := range t.items {
		if item.id == id {
			t.items = append(t.items[:i], t.items[i+1:]...)
			return
		}
	}
}

// Len returns the number of visible toasts
func (t Toasts) Len() int {
	return len(t.items)
}

// Latest returns the newest notification
func (t Toasts) Latest() (domain.Notification, bool) {
	if len(t.items) == 0 {
		return domain.Notification{}, false
	}
	return t.items[len(t.items)-1].note, true
}

// View renders the stack
func (t Toasts) View() string {
	if len(t.items) == 0 {
		return ""
	}

	rendered := make([]string, 0, len(t.items))
	for _, item := range t.items {
		style := styles.ToastStyle
		titleStyle := styles.SuccessStyle.Bold(true)
		if item.note.Variant == domain.VariantDestructive {
			style = styles.DestructiveToastStyle
			titleStyle = styles.ErrorStyle.Bold(true)
		}
		body := titleStyle.Render(item.note.Title)
		if item.note.Description != "" {
			body += "\n" + styles.SubtitleStyle.Render(wordWrap(item.note.Description, toastWidth-4))
		}
		rendered = append(rendered, style.Width(toastWidth).Render(body))
	}
	return strings.Join(rendered, "\n")
}
