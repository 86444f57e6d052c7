package models

// Element is the control a confirmation was started from.
type Element interface {
	ElementID() string
	Name() string
}

// ConfirmationEvent is emitted once per trigger activation when its modal
// resolves.
type ConfirmationEvent struct {
	ID      string  // Correlation id of the activation
	Value   bool    // true = confirmed, false = cancelled
	Element Element // Trigger that opened the modal
}
