// Package trigger turns any control into a type-to-confirm button. A Trigger
// opens a modal on activation and reports the outcome as a
// models.ConfirmationEvent.
package trigger

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Rorical/typedconfirm/internal/config"
	"github.com/Rorical/typedconfirm/internal/modal"
	"github.com/Rorical/typedconfirm/internal/models"
	"github.com/Rorical/typedconfirm/internal/registry"
	"github.com/Rorical/typedconfirm/internal/utils"
)

// State tags a trigger carries between activations.
const (
	StateNoAction     = "no-confirmation-action"
	StateConfirmed    = "confirmed"
	StateNotConfirmed = "not-confirmed"
)

const subscriberBuffer = 16

// Mounter shows a modal. host.Host is the usual implementation.
type Mounter interface {
	Mount(m *modal.Model) tea.Cmd
}

// ResultMsg carries the settled value of one activation back into the
// update loop. Delivered is false when the correlation was released.
type ResultMsg struct {
	trigger   *Trigger
	ID        string
	Value     bool
	Delivered bool
}

// From reports whether r belongs to an activation of t.
func (r ResultMsg) From(t *Trigger) bool {
	return r.trigger == t
}

// EventMsg is returned by Update after a ConfirmationEvent was emitted, so
// the enclosing model can react in the same loop.
type EventMsg struct {
	Event models.ConfirmationEvent
}

type Trigger struct {
	elementID string
	name      string
	replace   bool

	reg     *registry.Registry
	mount   Mounter
	board   *registry.HostBoard[Mounter]
	cfg     config.Config
	keyword models.Keyword
	logger  *zap.Logger

	state    string
	current  string
	disposed bool

	mu          sync.Mutex
	subscribers []chan models.ConfirmationEvent
	listeners   []func(models.ConfirmationEvent)
}

type Option func(*Trigger)

func WithName(name string) Option {
	return func(t *Trigger) {
		t.name = name
	}
}

func WithElementID(id string) Option {
	return func(t *Trigger) {
		if id != "" {
			t.elementID = id
		}
	}
}

// WithHostBoard is consulted when no mount point was passed to New.
func WithHostBoard(b *registry.HostBoard[Mounter]) Option {
	return func(t *Trigger) {
		t.board = b
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(t *Trigger) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithReplace makes the per-trigger options replace whole config sections
// instead of being merged into the root config.
func WithReplace() Option {
	return func(t *Trigger) {
		t.replace = true
	}
}

// New binds a trigger to a registry, a mount point and a keyword. An empty
// literal keyword means a random one is drawn on every activation.
func New(reg *registry.Registry, mount Mounter, root config.Config, kw models.Keyword, opts config.Options, options ...Option) *Trigger {
	t := &Trigger{
		elementID: uuid.NewString(),
		reg:       reg,
		mount:     mount,
		logger:    zap.NewNop(),
		state:     StateNoAction,
	}
	for _, opt := range options {
		opt(t)
	}
	if t.name == "" {
		t.name = t.elementID
	}

	t.cfg = config.Merge(root, opts, t.replace)

	if !kw.IsAsync() && kw.Literal != "" && t.cfg.Settings.ReplaceKeywordSpaces {
		kw.Literal = utils.ReplaceSpaces(kw.Literal)
	}
	t.keyword = kw
	t.logger = t.logger.With(zap.String("trigger", t.name))

	return t
}

// Open creates a trigger and subscribes to it in one step.
func Open(reg *registry.Registry, mount Mounter, root config.Config, kw models.Keyword, opts config.Options, options ...Option) (*Trigger, <-chan models.ConfirmationEvent) {
	t := New(reg, mount, root, kw, opts, options...)
	return t, t.Subscribe()
}

func (t *Trigger) ElementID() string {
	return t.elementID
}

func (t *Trigger) Name() string {
	return t.name
}

// State returns the trigger's tag: no-confirmation-action, confirmed or
// not-confirmed.
func (t *Trigger) State() string {
	return t.state
}

// CorrelationID is the id of the open activation, empty when none is open.
func (t *Trigger) CorrelationID() string {
	return t.current
}

// Config is the merged configuration modals of this trigger use.
func (t *Trigger) Config() config.Config {
	return t.cfg
}

func (t *Trigger) Keyword() models.Keyword {
	return t.keyword
}

// Activate opens a modal for this trigger. The correlation id is registered
// before the modal exists so the modal can always resolve it.
func (t *Trigger) Activate() tea.Cmd {
	if t.disposed {
		return nil
	}

	mount := t.mounter()
	if mount == nil {
		t.logger.Warn("activation without a mount point ignored")
		return nil
	}

	kw, random := t.effectiveKeyword()

	id, ch := t.reg.CreateChannel()
	t.current = id

	m := modal.New(modal.Params{
		ID:       id,
		Keyword:  kw,
		Random:   random,
		Config:   t.cfg,
		Resolver: t.reg,
		Logger:   t.logger,
	})

	t.logger.Debug("trigger activated", zap.String("id", id))
	return tea.Batch(mount.Mount(m), t.listen(id, ch))
}

func (t *Trigger) effectiveKeyword() (models.Keyword, bool) {
	if t.keyword.IsEmpty() {
		return models.Literal(utils.GenerateRandomString(t.cfg.Settings.KeywordLength())), true
	}
	return t.keyword, false
}

func (t *Trigger) mounter() Mounter {
	if t.mount != nil {
		return t.mount
	}
	if t.board != nil {
		if h, ok := t.board.Current(); ok {
			return h
		}
	}
	return nil
}

func (t *Trigger) listen(id string, ch <-chan bool) tea.Cmd {
	return func() tea.Msg {
		v, ok := <-ch
		return ResultMsg{trigger: t, ID: id, Value: v, Delivered: ok}
	}
}

// Update consumes the trigger's own ResultMsg and emits the event.
func (t *Trigger) Update(msg tea.Msg) tea.Cmd {
	r, ok := msg.(ResultMsg)
	if !ok || r.trigger != t {
		return nil
	}

	if r.ID == t.current {
		t.current = ""
	}
	if !r.Delivered || t.disposed {
		t.logger.Debug("activation settled without emission", zap.String("id", r.ID))
		return nil
	}
	if !r.Value && t.cfg.Settings.DisableFalseEmission {
		return nil
	}

	if r.Value {
		t.state = StateConfirmed
	} else {
		t.state = StateNotConfirmed
	}

	ev := models.ConfirmationEvent{ID: r.ID, Value: r.Value, Element: t}
	t.emit(ev)

	return func() tea.Msg {
		return EventMsg{Event: ev}
	}
}

// Subscribe returns a channel receiving every future event of this trigger.
// It is closed by Dispose.
func (t *Trigger) Subscribe() <-chan models.ConfirmationEvent {
	t.mu.Lock()
	defer t.mu.Unlock()

	ch := make(chan models.ConfirmationEvent, subscriberBuffer)
	if t.disposed {
		close(ch)
		return ch
	}
	t.subscribers = append(t.subscribers, ch)
	return ch
}

// OnConfirmation registers fn to run inside the update loop for every event.
func (t *Trigger) OnConfirmation(fn func(models.ConfirmationEvent)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.listeners = append(t.listeners, fn)
}

func (t *Trigger) emit(ev models.ConfirmationEvent) {
	t.mu.Lock()
	subs := t.subscribers
	listeners := t.listeners
	t.mu.Unlock()

	for _, sub := range subs {
		select {
		case sub <- ev:
		default:
			t.logger.Warn("subscriber full, confirmation event dropped", zap.String("id", ev.ID))
		}
	}
	for _, fn := range listeners {
		fn(ev)
	}

	t.logger.Info("confirmation", zap.String("id", ev.ID), zap.Bool("value", ev.Value))
}

// Dispose releases the open activation, if any, and closes subscriptions.
func (t *Trigger) Dispose() {
	if t.disposed {
		return
	}
	t.disposed = true

	if t.current != "" {
		t.reg.Release(t.current)
		t.current = ""
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	for _, sub := range t.subscribers {
		close(sub)
	}
	t.subscribers = nil
	t.listeners = nil
}
