// Package modal implements the confirmation dialog: one input field that
// must match a keyword, or satisfy an async check, before the action is
// confirmed.
package modal

import (
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Rorical/typedconfirm/internal/config"
	"github.com/Rorical/typedconfirm/internal/models"
	"github.com/Rorical/typedconfirm/internal/utils"
	"github.com/Rorical/typedconfirm/internal/validation"
	"github.com/Rorical/typedconfirm/ui/components"
)

const DefaultWidth = 60

// Phase is where the modal is in its lifecycle. A modal leaves Open through
// exactly one of Confirming or Cancelling and ends Closed.
type Phase int

const (
	Open Phase = iota
	Confirming
	Cancelling
	Closed
)

func (p Phase) String() string {
	switch p {
	case Open:
		return "open"
	case Confirming:
		return "confirming"
	case Cancelling:
		return "cancelling"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Resolver settles the correlation a modal was opened for.
type Resolver interface {
	Resolve(id string, value bool) bool
	Release(id string) bool
}

type Params struct {
	ID       string
	Keyword  models.Keyword
	Random   bool // Keyword was generated, not chosen by the caller
	Config   config.Config
	Resolver Resolver
	Logger   *zap.Logger
}

// ClosedMsg is sent once when a modal closes.
type ClosedMsg struct {
	ID        string
	Confirmed bool
}

type autoConfirmMsg struct {
	model *Model
	async bool
	seq   uint64
}

// Regenerator is only handed out by modals whose keyword may be redrawn.
type Regenerator interface {
	RegenerateKeyword() tea.Cmd
}

type Model struct {
	id       string
	keyword  models.Keyword
	random   bool
	cfg      config.Config
	resolver Resolver
	logger   *zap.Logger

	input   textinput.Model
	spinner spinner.Model
	width   int

	match  validation.Func
	engine *validation.Engine
	latch  *validation.Latch

	value         string
	verdict       validation.Verdict
	dirty         bool
	touched       bool
	rightProgress bool
	phase         Phase
	seq           uint64
}

func New(p Params) *Model {
	logger := p.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Model{
		id:            p.ID,
		keyword:       p.Keyword,
		random:        p.Random,
		cfg:           p.Config,
		resolver:      p.Resolver,
		logger:        logger.With(zap.String("modal", p.ID)),
		width:         DefaultWidth,
		latch:         &validation.Latch{},
		rightProgress: true,
	}

	m.input = m.newInput()
	m.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))

	if p.Keyword.IsAsync() {
		s := p.Config.Settings
		opts := []validation.Option{
			validation.WithDebounce(s.Debounce()),
			validation.WithSettle(s.Settle()),
			validation.WithTimeout(s.Timeout()),
			validation.WithMinLength(s.AsyncMinLength),
			validation.WithLatch(m.latch),
			validation.WithLogger(m.logger),
		}
		if s.AutoConfirm {
			opts = append(opts, validation.WithOnSuccess(func() tea.Msg {
				return autoConfirmMsg{model: m, async: true}
			}))
		}
		m.engine = validation.NewEngine(p.Keyword.Predicate, opts...)
	} else {
		m.match = validation.MatchValue(p.Keyword.Literal)
	}

	m.logger.Debug("modal opened",
		zap.Bool("async", p.Keyword.IsAsync()),
		zap.Bool("random", p.Random))
	return m
}

func (m *Model) newInput() textinput.Model {
	s := m.cfg.Settings

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Width = m.width - 10
	ti.KeyMap.Paste.SetEnabled(false)

	if s.SecretKeyword {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	if !s.DisablePlaceholder && !s.SecretKeyword && !m.keyword.IsAsync() {
		ti.Placeholder = m.keyword.Literal
	}
	if s.DisableAnimations {
		ti.Cursor.SetMode(cursor.CursorStatic)
	}

	ti.Focus()
	return ti
}

func (m *Model) Init() tea.Cmd {
	if m.cfg.Settings.DisableAnimations {
		return nil
	}
	if m.engine != nil && !m.cfg.Settings.HideLoader {
		return tea.Batch(textinput.Blink, m.spinner.Tick)
	}
	return textinput.Blink
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.phase != Open {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)

	case autoConfirmMsg:
		if msg.model != m {
			return m, nil
		}
		if !msg.async && msg.seq != m.seq {
			return m, nil
		}
		return m, m.Confirm()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.engine != nil && m.engine.Owns(msg) {
		return m, m.engine.Update(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		return m.Confirm()
	case "esc", "ctrl+c":
		return m.Cancel()
	case "ctrl+r":
		if r, ok := m.Regenerator(); ok {
			return r.RegenerateKeyword()
		}
		return nil
	}

	if msg.Paste {
		m.logger.Debug("paste ignored")
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return tea.Batch(cmd, m.inputChanged())
}

// SetInput replaces the typed text as if the user had typed it.
func (m *Model) SetInput(value string) tea.Cmd {
	if m.phase != Open {
		return nil
	}
	m.input.SetValue(value)
	return m.inputChanged()
}

func (m *Model) inputChanged() tea.Cmd {
	value := m.input.Value()
	if value == m.value {
		return nil
	}
	m.value = value
	m.seq++

	// Clearing the field returns it to pristine.
	m.dirty = value != ""
	m.touched = m.dirty

	if m.engine != nil {
		return m.engine.Input(value)
	}

	m.verdict = m.match(value)
	m.rightProgress = validation.RightProgress(value, m.keyword.Literal)

	if m.verdict == validation.Match && m.cfg.Settings.AutoConfirm {
		seq := m.seq
		return tea.Tick(m.cfg.Settings.Settle(), func(time.Time) tea.Msg {
			return autoConfirmMsg{model: m, seq: seq}
		})
	}
	return nil
}

// Confirm closes the modal with true. It does nothing unless the modal is
// open, the input is valid and no check is pending.
func (m *Model) Confirm() tea.Cmd {
	if m.phase != Open || !m.Valid() || m.Pending() {
		return nil
	}
	m.phase = Confirming
	return m.close(true)
}

// Cancel closes the modal with false. Under DisableFalseEmission the
// correlation is released and nothing is delivered.
func (m *Model) Cancel() tea.Cmd {
	if m.phase != Open {
		return nil
	}
	m.phase = Cancelling
	return m.close(false)
}

func (m *Model) close(confirmed bool) tea.Cmd {
	if m.engine != nil {
		m.engine.Stop()
	}

	if m.resolver != nil {
		if !confirmed && m.cfg.Settings.DisableFalseEmission {
			m.resolver.Release(m.id)
		} else {
			m.resolver.Resolve(m.id, confirmed)
		}
	}

	m.phase = Closed
	m.input.Blur()
	m.logger.Debug("modal closed", zap.Bool("confirmed", confirmed))

	id := m.id
	return func() tea.Msg {
		return ClosedMsg{ID: id, Confirmed: confirmed}
	}
}

// Regenerator exposes keyword regeneration for generated literal keywords
// when it is enabled.
func (m *Model) Regenerator() (Regenerator, bool) {
	if m.engine != nil || !m.random || m.cfg.Settings.DisableRandomRegeneration {
		return nil, false
	}
	return regenerator{m}, true
}

type regenerator struct {
	m *Model
}

// RegenerateKeyword draws a new keyword and resets the input. It is ignored
// once the modal is closing.
func (r regenerator) RegenerateKeyword() tea.Cmd {
	m := r.m
	if m.phase != Open || m.Pending() {
		return nil
	}

	m.keyword = models.Literal(utils.GenerateRandomString(m.cfg.Settings.KeywordLength()))
	m.match = validation.MatchValue(m.keyword.Literal)

	m.input.SetValue("")
	if m.input.Placeholder != "" {
		m.input.Placeholder = m.keyword.Literal
	}
	m.value = ""
	m.seq++
	m.verdict = validation.Mismatch
	m.dirty, m.touched = false, false
	m.rightProgress = true

	m.logger.Debug("keyword regenerated")
	return nil
}

// SetWidth resizes the modal, keeping room for the terminal border.
func (m *Model) SetWidth(w int) {
	if w <= 0 {
		return
	}
	m.width = min(DefaultWidth, w)
	m.input.Width = m.width - 10
}

func (m *Model) ID() string {
	return m.id
}

// Keyword returns the literal currently expected, empty in async mode.
func (m *Model) Keyword() string {
	return m.keyword.Literal
}

func (m *Model) IsAsync() bool {
	return m.engine != nil
}

func (m *Model) Phase() Phase {
	return m.phase
}

func (m *Model) Closed() bool {
	return m.phase == Closed
}

func (m *Model) Input() string {
	return m.value
}

func (m *Model) Valid() bool {
	if m.engine != nil {
		return m.engine.State() == validation.Matched
	}
	return m.verdict == validation.Match
}

func (m *Model) Pending() bool {
	return m.engine != nil && m.engine.Pending()
}

func (m *Model) Dirty() bool {
	return m.dirty
}

func (m *Model) Touched() bool {
	return m.touched
}

func (m *Model) ValidatedOnce() bool {
	return m.latch.Fired()
}

func (m *Model) RightProgress() bool {
	return m.rightProgress
}

// ShowError reports whether the error line is visible: the user typed
// something wrong and, for async keywords, a check has completed at least
// once.
func (m *Model) ShowError() bool {
	s := m.cfg.Settings
	if s.HideErrorMessage || m.cfg.Translations.Error == "" {
		return false
	}
	if !m.dirty || m.Valid() || m.Pending() {
		return false
	}
	return m.engine == nil || m.ValidatedOnce()
}

func (m *Model) View() string {
	if m.phase == Closed {
		return ""
	}

	t := m.cfg.Translations
	s := m.cfg.Settings

	v := components.ModalView{
		InstructionPrefix: t.InstructionPrefix,
		InstructionSuffix: t.InstructionSuffix,
		Input:             m.input.View(),
		InputBorder: components.InputColor(m.dirty, m.Valid(), m.rightProgress, m.Pending(),
			s.DisableInputValidationColors),
		Width: m.width,
	}
	if !s.HideHeader {
		v.Header = t.ModalHeader
	}
	if m.engine == nil && !s.HideKeywordIndication && !s.SecretKeyword {
		v.Keyword = m.keyword.Literal
	}
	if m.Pending() && !s.HideLoader {
		v.Loader = t.LoadingLabel
		if !s.DisableAnimations {
			v.Loader = m.spinner.View() + " " + v.Loader
		}
	}
	if m.ShowError() {
		v.Error = t.Error
	}

	c := m.cfg.Classes
	if _, ok := m.Regenerator(); ok {
		v.Buttons = append(v.Buttons, components.Button{
			Label: t.RegenerateLabel, Key: "ctrl+r", Color: c.RegenerateBtn, Disabled: m.Pending(),
		})
	}
	v.Buttons = append(v.Buttons, components.Button{Label: t.CancelLabel, Key: "esc", Color: c.CancelBtn})
	if !s.AutoConfirm {
		v.Buttons = append(v.Buttons, components.Button{
			Label: t.ConfirmLabel, Key: "enter", Color: c.ConfirmBtn, Disabled: !m.Valid() || m.Pending(),
		})
	}

	return components.RenderModal(v)
}
