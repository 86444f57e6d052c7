package app

import (
	"context"
	"errors"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Rorical/typedconfirm/internal/config"
	"github.com/Rorical/typedconfirm/internal/host"
	"github.com/Rorical/typedconfirm/internal/models"
	"github.com/Rorical/typedconfirm/internal/registry"
	"github.com/Rorical/typedconfirm/internal/trigger"
)

// ConfirmModel opens one trigger on start and quits once it settles.
type ConfirmModel struct {
	host     *host.Host
	trigger  *trigger.Trigger
	decision Decision
	done     bool
}

// Decision is the outcome of a single confirmation. ID is the correlation id
// of the activation, empty when no modal could be opened.
type Decision struct {
	ID        string
	Confirmed bool
}

func NewConfirmModel(h *host.Host, tr *trigger.Trigger) *ConfirmModel {
	return &ConfirmModel{host: h, trigger: tr}
}

func (m *ConfirmModel) Init() tea.Cmd {
	cmd := m.trigger.Activate()
	if cmd == nil {
		m.done = true
		return tea.Quit
	}
	return cmd
}

func (m *ConfirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	hostCmd, captured := m.host.Update(msg)
	if captured {
		return m, hostCmd
	}

	switch msg := msg.(type) {
	case trigger.ResultMsg:
		if msg.From(m.trigger) {
			m.decision.ID = msg.ID
		}
		cmd := m.trigger.Update(msg)
		if cmd == nil {
			// Settled without an event: a suppressed cancellation.
			m.done = true
			return m, tea.Quit
		}
		return m, tea.Batch(hostCmd, cmd)
	case trigger.EventMsg:
		m.decision = Decision{ID: msg.Event.ID, Confirmed: msg.Event.Value}
		m.done = true
		return m, tea.Quit
	}
	return m, hostCmd
}

func (m *ConfirmModel) View() string {
	if m.done {
		return ""
	}
	return m.host.View("")
}

// Confirmed reports the decision once the program has exited.
func (m *ConfirmModel) Confirmed() bool {
	return m.decision.Confirmed
}

func (m *ConfirmModel) Decision() Decision {
	return m.decision
}

// Confirm shows a single modal for kw on stderr and reports whether the
// user confirmed. Interrupting ctx counts as a cancellation.
func Confirm(ctx context.Context, root config.Config, kw models.Keyword, opts config.Options, logger *zap.Logger) (Decision, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	reg := registry.New(registry.WithLogger(logger))
	h := host.New(host.WithLogger(logger))
	tr := trigger.New(reg, h, root, kw, opts, trigger.WithName("run"), trigger.WithLogger(logger))
	defer tr.Dispose()

	m := NewConfirmModel(h, tr)
	p := tea.NewProgram(m, tea.WithContext(ctx), tea.WithOutput(os.Stderr))
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return Decision{ID: m.decision.ID}, nil
		}
		return Decision{}, err
	}
	return m.Decision(), nil
}
