// Package validation decides whether typed input confirms a modal: exact
// matching for literal keywords and a debounced, cancellable engine for
// asynchronous predicates.
package validation

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/Rorical/typedconfirm/internal/models"
)

const (
	DefaultDebounce = 500 * time.Millisecond
	DefaultSettle   = 300 * time.Millisecond
)

// State of the async engine.
type State int

const (
	Idle State = iota
	Debouncing
	Evaluating
	Matched
	Mismatched
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Debouncing:
		return "debouncing"
	case Evaluating:
		return "evaluating"
	case Matched:
		return "matched"
	case Mismatched:
		return "mismatched"
	}
	return "unknown"
}

// Pending is true while a check is scheduled or running.
func (s State) Pending() bool {
	return s == Debouncing || s == Evaluating
}

// Engine runs an async predicate against the input of one modal. It is not
// safe for concurrent use: Input, Update and Stop belong to the bubbletea
// update loop, and the predicate runs inside a tea.Cmd.
//
// Every Input starts a new cycle. The previous cycle's context is cancelled
// and its pending messages carry a stale sequence number, so only the
// latest cycle can change State.
type Engine struct {
	predicate models.Predicate
	debounce  time.Duration
	settle    time.Duration
	timeout   time.Duration
	minLength int
	onSuccess tea.Cmd
	latch     *Latch
	logger    *zap.Logger

	state   State
	value   string
	seq     uint64
	cancel  context.CancelFunc
	outcome models.Outcome
	err     error
}

type Option func(*Engine)

func WithDebounce(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.debounce = d
		}
	}
}

func WithSettle(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.settle = d
		}
	}
}

// WithTimeout bounds each predicate call. Zero disables the deadline.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithMinLength treats input shorter than n runes like empty input.
func WithMinLength(n int) Option {
	return func(e *Engine) {
		e.minLength = n
	}
}

// WithOnSuccess runs cmd one settle delay after a successful check, provided
// the input has not changed in the meantime.
func WithOnSuccess(cmd tea.Cmd) Option {
	return func(e *Engine) {
		e.onSuccess = cmd
	}
}

// WithLatch fires l when the first check completes.
func WithLatch(l *Latch) Option {
	return func(e *Engine) {
		e.latch = l
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

func NewEngine(p models.Predicate, opts ...Option) *Engine {
	e := &Engine{
		predicate: p,
		debounce:  DefaultDebounce,
		settle:    DefaultSettle,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type debounceMsg struct {
	engine *Engine
	seq    uint64
}

type resultMsg struct {
	engine  *Engine
	seq     uint64
	outcome models.Outcome
	err     error
}

type settleMsg struct {
	engine *Engine
	seq    uint64
}

// Input starts a new validation cycle for value and returns the debounce
// timer, or nil when the input is rejected without a check.
func (e *Engine) Input(value string) tea.Cmd {
	e.supersede()
	e.value = value

	if value == "" || utf8.RuneCountInString(value) < e.minLength {
		e.state = Mismatched
		return nil
	}

	e.state = Debouncing
	seq := e.seq
	return tea.Tick(e.debounce, func(time.Time) tea.Msg {
		return debounceMsg{engine: e, seq: seq}
	})
}

// Update consumes the engine's own messages and ignores everything else.
func (e *Engine) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case debounceMsg:
		if msg.engine != e || msg.seq != e.seq || e.state != Debouncing {
			return nil
		}
		return e.evaluate()

	case resultMsg:
		if msg.engine != e {
			return nil
		}
		if msg.seq != e.seq || e.state != Evaluating {
			e.logger.Debug("discarding superseded check result",
				zap.Uint64("seq", msg.seq), zap.Uint64("current", e.seq))
			return nil
		}
		return e.finish(msg.outcome, msg.err)

	case settleMsg:
		if msg.engine != e || msg.seq != e.seq || e.state != Matched {
			return nil
		}
		return e.onSuccess
	}
	return nil
}

// Owns reports whether msg was produced by this engine, current or not.
func (e *Engine) Owns(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case debounceMsg:
		return msg.engine == e
	case resultMsg:
		return msg.engine == e
	case settleMsg:
		return msg.engine == e
	}
	return false
}

// Stop cancels whatever is in flight. The engine stays usable.
func (e *Engine) Stop() {
	e.supersede()
	if e.state.Pending() {
		e.state = Idle
	}
}

func (e *Engine) State() State {
	return e.state
}

func (e *Engine) Pending() bool {
	return e.state.Pending()
}

func (e *Engine) Verdict() Verdict {
	if e.state == Matched {
		return Match
	}
	return Mismatch
}

// Outcome returns the result of the last completed check and its error.
func (e *Engine) Outcome() (models.Outcome, error) {
	return e.outcome, e.err
}

func (e *Engine) supersede() {
	e.seq++
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

func (e *Engine) evaluate() tea.Cmd {
	e.state = Evaluating

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if e.timeout > 0 {
		ctx, cancel = context.WithTimeout(context.Background(), e.timeout)
	} else {
		ctx, cancel = context.WithCancel(context.Background())
	}
	e.cancel = cancel

	seq, value, predicate := e.seq, e.value, e.predicate
	return func() tea.Msg {
		outcome, err := callPredicate(ctx, predicate, value)
		return resultMsg{engine: e, seq: seq, outcome: outcome, err: err}
	}
}

func (e *Engine) finish(outcome models.Outcome, err error) tea.Cmd {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	if e.latch != nil {
		e.latch.Fire()
	}
	e.outcome, e.err = outcome, err

	if err != nil {
		e.logger.Warn("keyword check failed", zap.Error(err))
		e.state = Mismatched
		return nil
	}
	if !outcome.Success {
		e.state = Mismatched
		return nil
	}

	e.state = Matched
	if e.onSuccess == nil {
		return nil
	}

	seq := e.seq
	return tea.Tick(e.settle, func(time.Time) tea.Msg {
		return settleMsg{engine: e, seq: seq}
	})
}

// callPredicate fails closed: errors, panics and deadlines all count as a
// failed check.
func callPredicate(ctx context.Context, p models.Predicate, value string) (outcome models.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome, err = models.Outcome{}, fmt.Errorf("keyword check panicked: %v", r)
		}
	}()

	if err := ctx.Err(); err != nil {
		return models.Outcome{}, err
	}

	outcome, err = p(ctx, value)
	if err == nil && ctx.Err() != nil {
		return models.Outcome{}, ctx.Err()
	}
	return outcome, err
}
