package domain

// Variant selects how a notification is presented.
type Variant int

const (
	VariantDefault Variant = iota
	VariantDestructive
)

// String returns the variant name
func (v Variant) String() string {
	if v == VariantDestructive {
		return "destructive"
	}
	return "default"
}

// Notification is a user-facing message about the outcome of an operation.
type Notification struct {
	Title       string
	Description string
	Variant     Variant
}

// Notifier receives notifications from the collection store.
type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(Notification)

// Notify calls f(n)
func (f NotifierFunc) Notify(n Notification) { f(n) }

// NoOpNotifier discards notifications (for batch commands and tests).
type NoOpNotifier struct{}

func (NoOpNotifier) Notify(Notification) {}
