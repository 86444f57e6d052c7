// Package host is the mount point modals are shown on. It owns at most one
// modal at a time and renders it over the application view.
package host

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/Rorical/typedconfirm/internal/modal"
	"github.com/Rorical/typedconfirm/internal/registry"
	"github.com/Rorical/typedconfirm/internal/trigger"
)

type Host struct {
	active *modal.Model
	width  int
	height int
	logger *zap.Logger
}

type Option func(*Host)

func WithLogger(l *zap.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.logger = l
		}
	}
}

// WithBoard publishes the host so triggers created without a mount point
// can find it.
func WithBoard(b *registry.HostBoard[trigger.Mounter]) Option {
	return func(h *Host) {
		b.Publish(h)
	}
}

func New(opts ...Option) *Host {
	h := &Host{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Mount shows m. A modal that is still open is cancelled first so its
// trigger is not left waiting.
func (h *Host) Mount(m *modal.Model) tea.Cmd {
	var cancel tea.Cmd
	if h.active != nil && !h.active.Closed() {
		h.logger.Debug("replacing open modal", zap.String("id", h.active.ID()))
		cancel = h.active.Cancel()
	}

	h.active = m
	if h.width > 0 {
		m.SetWidth(h.width - 4)
	}
	return tea.Batch(cancel, m.Init())
}

// Update routes msg to the open modal. The second result reports whether
// the modal captured the message, in which case the caller must not handle
// it again (keyboard input belongs to the modal while it is open).
func (h *Host) Update(msg tea.Msg) (tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h.width, h.height = msg.Width, msg.Height
		if h.active != nil {
			h.active.SetWidth(h.width - 4)
		}
		return nil, false

	case modal.ClosedMsg:
		if h.active != nil && h.active.ID() == msg.ID {
			h.active = nil
		}
		return nil, false
	}

	if h.active == nil {
		return nil, false
	}

	_, cmd := h.active.Update(msg)
	_, isKey := msg.(tea.KeyMsg)
	return cmd, isKey
}

// Active returns the open modal, or nil.
func (h *Host) Active() *modal.Model {
	if h.active == nil || h.active.Closed() {
		return nil
	}
	return h.active
}

// View renders background, or the open modal centred in the terminal.
func (h *Host) View(background string) string {
	m := h.Active()
	if m == nil {
		return background
	}
	if h.width == 0 || h.height == 0 {
		return m.View() + "\n"
	}
	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, m.View())
}
