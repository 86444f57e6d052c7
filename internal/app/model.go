package app

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Rorical/typedconfirm/internal/config"
	"github.com/Rorical/typedconfirm/internal/dispatcher"
	"github.com/Rorical/typedconfirm/internal/eventbus"
	"github.com/Rorical/typedconfirm/internal/host"
	"github.com/Rorical/typedconfirm/internal/models"
	"github.com/Rorical/typedconfirm/internal/trigger"
	"github.com/Rorical/typedconfirm/internal/update"
	"github.com/Rorical/typedconfirm/ui/components"
)

const title = "typedconfirm"

// ReloadMsg carries a freshly loaded batch, or the error loading it.
type ReloadMsg struct {
	Batch *config.Batch
	Err   error
}

type AppModel struct {
	appModel   models.AppModel
	dispatcher *dispatcher.EventDispatcher
	host       *host.Host
	builder    *triggerBuilder
	triggers   []*trigger.Trigger
}

func newAppModel(disp *dispatcher.EventDispatcher, h *host.Host, builder *triggerBuilder, triggers []*trigger.Trigger, views []models.ActionView) *AppModel {
	return &AppModel{
		appModel: models.AppModel{
			Actions: views,
			Status:  "Ready",
		},
		dispatcher: disp,
		host:       h,
		builder:    builder,
		triggers:   triggers,
	}
}

func (m *AppModel) Init() tea.Cmd {
	return tea.Batch(
		update.TickCmd(),
		m.dispatcher.ListenForCoreEvents(),
	)
}

func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case update.CoreEventMsg:
		// Handle core events and continue listening
		cmd := update.HandleCoreEvent(&m.appModel, msg)
		return m, tea.Batch(cmd, m.dispatcher.ListenForCoreEvents())
	case ReloadMsg:
		return m, m.reload(msg)
	}

	hostCmd, captured := m.host.Update(msg)
	if captured {
		return m, hostCmd
	}

	switch msg := msg.(type) {
	case update.ActivateMsg:
		if msg.Index < 0 || msg.Index >= len(m.triggers) {
			return m, hostCmd
		}
		tr := m.triggers[msg.Index]
		cmd := tr.Activate()
		if cmd == nil {
			update.HandleSettledWithoutEvent(&m.appModel, tr.Name())
			m.appModel.Status = "Cannot open confirmation for " + tr.Name()
		}
		return m, tea.Batch(hostCmd, cmd)

	case trigger.ResultMsg:
		for _, tr := range m.triggers {
			if !msg.From(tr) {
				continue
			}
			cmd := tr.Update(msg)
			if cmd == nil {
				update.HandleSettledWithoutEvent(&m.appModel, tr.Name())
			}
			return m, tea.Batch(hostCmd, cmd)
		}
		return m, hostCmd
	}

	return m, tea.Batch(hostCmd, update.HandleUpdate(&m.appModel, msg))
}

// reload swaps in the triggers of a changed batch file. An open modal is
// cancelled first; rows that survive keep their state.
func (m *AppModel) reload(msg ReloadMsg) tea.Cmd {
	if msg.Err != nil {
		m.appModel.Status = "Reload failed: " + msg.Err.Error()
		return nil
	}

	triggers, views, err := m.builder.build(msg.Batch)
	if err != nil {
		m.appModel.Status = "Reload failed: " + err.Error()
		return nil
	}

	var cmd tea.Cmd
	if active := m.host.Active(); active != nil {
		cmd = active.Cancel()
	}
	disposeAll(m.triggers)

	previous := make(map[string]models.ActionView, len(m.appModel.Actions))
	for _, v := range m.appModel.Actions {
		previous[v.Name] = v
	}
	for i, v := range views {
		if old, ok := previous[v.Name]; ok && old.State != models.ActionAwaiting {
			views[i].State = old.State
			views[i].Output = old.Output
		}
	}

	m.triggers = triggers
	m.appModel.Actions = views
	if m.appModel.Cursor >= len(views) {
		m.appModel.Cursor = len(views) - 1
	}
	if m.appModel.Cursor < 0 {
		m.appModel.Cursor = 0
	}

	if err := m.dispatcher.GetEventBus().SendToCore(eventbus.ReloadActionsEvent{Actions: msg.Batch.Actions}); err != nil {
		m.builder.logger.Error("failed to send reload to core", zap.Error(err))
	}
	m.appModel.Status = "Reloaded"
	return cmd
}

func (m *AppModel) View() string {
	var b strings.Builder

	b.WriteString(components.RenderTitle(title))
	b.WriteString(components.RenderActions(m.appModel.Actions, m.appModel.Cursor, m.appModel.Width))
	b.WriteString(components.RenderStatus(m.appModel.Status, m.appModel.Loading, m.appModel.LoadingDots, m.appModel.Width))

	return m.host.View(b.String())
}
