package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/typedconfirm/internal/eventbus"
	"github.com/Rorical/typedconfirm/internal/models"
	"github.com/Rorical/typedconfirm/internal/trigger"
)

// ActivateMsg asks the application to open the trigger of row Index.
type ActivateMsg struct {
	Index int
}

// HandleKeyMsg handles keyboard input while no modal is open
func HandleKeyMsg(appModel *models.AppModel, keyMsg tea.KeyMsg) tea.Cmd {
	switch keyMsg.String() {
	case "ctrl+c", "q":
		appModel.Quitting = true
		return tea.Quit
	case "up", "k":
		if appModel.Cursor > 0 {
			appModel.Cursor--
		}
	case "down", "j":
		if appModel.Cursor < len(appModel.Actions)-1 {
			appModel.Cursor++
		}
	case "enter", " ":
		if len(appModel.Actions) == 0 {
			return nil
		}
		action := &appModel.Actions[appModel.Cursor]
		switch action.State {
		case models.ActionRunning, models.ActionAwaiting:
			appModel.Status = action.Name + " is already " + action.State.String()
			return nil
		}
		action.State = models.ActionAwaiting
		index := appModel.Cursor
		return func() tea.Msg {
			return ActivateMsg{Index: index}
		}
	}
	return nil
}

// CoreEventMsg wraps core events for Bubble Tea
type CoreEventMsg struct {
	Event eventbus.CoreEvent
}

// HandleCoreEvent processes events from the core
func HandleCoreEvent(appModel *models.AppModel, coreEventMsg CoreEventMsg) tea.Cmd {
	switch event := coreEventMsg.Event.(type) {
	case eventbus.ActionUpdateEvent:
		action := find(appModel, event.Action)
		if action == nil {
			return nil
		}
		action.State = event.State
		action.Output = event.Output
		if event.Error != nil {
			appModel.Status = fmt.Sprintf("Error: %s: %v", event.Action, event.Error)
		}

	case eventbus.StateUpdateEvent:
		appModel.Loading = event.Running > 0
		switch {
		case event.Running > 0:
			appModel.Status = fmt.Sprintf("Running %d", event.Running)
		case event.Done+event.Failed > 0:
			appModel.Status = fmt.Sprintf("Ready: %d done, %d failed", event.Done, event.Failed)
		default:
			appModel.Status = "Ready"
		}
	}

	return nil
}

// HandleConfirmation records a trigger's decision on its row. The core
// reports what happens to the command afterwards.
func HandleConfirmation(appModel *models.AppModel, ev models.ConfirmationEvent) {
	if ev.Element == nil {
		return
	}
	action := find(appModel, ev.Element.Name())
	if action == nil {
		return
	}
	if ev.Value {
		action.TriggerTag = trigger.StateConfirmed
		return
	}
	action.TriggerTag = trigger.StateNotConfirmed
	action.State = models.ActionCancelled
}

// HandleSettledWithoutEvent returns a row to idle when its modal closed
// without emitting, as happens with suppressed cancellations.
func HandleSettledWithoutEvent(appModel *models.AppModel, name string) {
	if action := find(appModel, name); action != nil && action.State == models.ActionAwaiting {
		action.State = models.ActionIdle
	}
}

func find(appModel *models.AppModel, name string) *models.ActionView {
	for i := range appModel.Actions {
		if appModel.Actions[i].Name == name {
			return &appModel.Actions[i]
		}
	}
	return nil
}

type TickMsg time.Time

func TickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func HandleWindowSizeMsg(appModel *models.AppModel, sizeMsg tea.WindowSizeMsg) {
	appModel.Width = sizeMsg.Width
	appModel.Height = sizeMsg.Height
}

func HandleTickMsg(appModel *models.AppModel) tea.Cmd {
	// Only handle UI animations - loading dots
	if appModel.Loading {
		appModel.LoadingDots = (appModel.LoadingDots + 1) % 4
	}
	return TickCmd()
}
