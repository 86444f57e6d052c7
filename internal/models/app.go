package models

// ActionState tracks where a batch action is in its lifecycle.
type ActionState int

const (
	ActionIdle ActionState = iota
	ActionAwaiting
	ActionRunning
	ActionSucceeded
	ActionFailed
	ActionCancelled
)

func (s ActionState) String() string {
	switch s {
	case ActionIdle:
		return "idle"
	case ActionAwaiting:
		return "awaiting confirmation"
	case ActionRunning:
		return "running"
	case ActionSucceeded:
		return "done"
	case ActionFailed:
		return "failed"
	case ActionCancelled:
		return "cancelled"
	}
	return "unknown"
}

// ActionView is the UI copy of one action row
type ActionView struct {
	Name        string
	Description string
	Command     string
	Dangerous   bool
	State       ActionState
	TriggerTag  string // Trigger state tag: no-confirmation-action, confirmed, not-confirmed
	Output      string // Last lines of command output
}

// AppModel represents the UI state - only local UI concerns
type AppModel struct {
	Actions     []ActionView // One row per trigger
	Cursor      int          // Selected row
	Status      string       // Status bar text
	Loading     bool         // A command is running
	LoadingDots int          // Animation counter for loading dots
	Width       int          // Terminal width
	Height      int          // Terminal height
	Quitting    bool
}
