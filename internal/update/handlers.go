package update

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Rorical/typedconfirm/internal/models"
	"github.com/Rorical/typedconfirm/internal/trigger"
)

// HandleUpdate dispatches messages the open modal did not capture.
func HandleUpdate(appModel *models.AppModel, msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return HandleKeyMsg(appModel, msg)
	case tea.WindowSizeMsg:
		HandleWindowSizeMsg(appModel, msg)
		return nil
	case TickMsg:
		return HandleTickMsg(appModel)
	case CoreEventMsg:
		return HandleCoreEvent(appModel, msg)
	case trigger.EventMsg:
		HandleConfirmation(appModel, msg.Event)
		return nil
	}
	return nil
}
