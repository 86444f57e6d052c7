package core

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Rorical/typedconfirm/internal/config"
	"github.com/Rorical/typedconfirm/internal/eventbus"
	"github.com/Rorical/typedconfirm/internal/history"
	"github.com/Rorical/typedconfirm/internal/models"
	"github.com/Rorical/typedconfirm/internal/tools"
)

const outputTailLines = 5

// Runner executes a confirmed command. tools.RunCommand in production.
type Runner func(ctx context.Context, argv []string, timeout time.Duration) (*tools.Result, error)

// Recorder persists decisions. *history.Store satisfies it.
type Recorder interface {
	Record(ctx context.Context, e history.Entry) error
}

// ActionService runs the commands of a batch once their triggers confirm.
// It only ever learns about decisions through the event bus.
type ActionService struct {
	actions  map[string]config.ActionSpec
	state    *BatchState
	eventBus *eventbus.EventBus
	runner   Runner
	recorder Recorder
	logger   *zap.Logger
}

type Option func(*ActionService)

func WithRunner(r Runner) Option {
	return func(s *ActionService) {
		if r != nil {
			s.runner = r
		}
	}
}

func WithRecorder(r Recorder) Option {
	return func(s *ActionService) {
		s.recorder = r
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(s *ActionService) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewActionService(actions []config.ActionSpec, eb *eventbus.EventBus, opts ...Option) *ActionService {
	byName, names := index(actions)

	s := &ActionService{
		actions:  byName,
		state:    NewBatchState(names),
		eventBus: eb,
		runner:   tools.RunCommand,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run handles UI events until ctx is cancelled or the bus is closed, then
// waits for running commands. Cancelling ctx also kills them.
func (s *ActionService) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	s.pushStateToUI()

loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case event, ok := <-s.eventBus.UIToCore():
			if !ok {
				break loop
			}
			s.handleUIEvent(gctx, g, event)
		}
	}

	return g.Wait()
}

// State exposes the tracked statuses.
func (s *ActionService) State() *BatchState {
	return s.state
}

func (s *ActionService) handleUIEvent(ctx context.Context, g *errgroup.Group, event eventbus.UIEvent) {
	switch e := event.(type) {
	case eventbus.ActionDecisionEvent:
		s.handleDecision(ctx, g, e)
	case eventbus.ReloadActionsEvent:
		s.handleReload(e)
	}
}

// handleReload swaps the action set. Commands already running finish with
// the spec they started with.
func (s *ActionService) handleReload(e eventbus.ReloadActionsEvent) {
	byName, names := index(e.Actions)
	s.actions = byName
	s.state.Sync(names)
	s.logger.Info("actions reloaded", zap.Int("count", len(names)))
	s.pushStateToUI()
}

func index(actions []config.ActionSpec) (map[string]config.ActionSpec, []string) {
	byName := make(map[string]config.ActionSpec, len(actions))
	names := make([]string, 0, len(actions))
	for _, a := range actions {
		byName[a.Name] = a
		names = append(names, a.Name)
	}
	return byName, names
}

func (s *ActionService) handleDecision(ctx context.Context, g *errgroup.Group, e eventbus.ActionDecisionEvent) {
	spec, ok := s.actions[e.Action]
	if !ok {
		s.logger.Warn("decision for unknown action", zap.String("action", e.Action))
		return
	}

	id := e.Confirmation.ID
	log := s.logger.With(zap.String("action", spec.Name), zap.String("id", id))

	if !e.Confirmation.Value {
		if s.state.Cancel(spec.Name, id) {
			log.Info("action cancelled")
			s.record(ctx, spec, id, false, models.ActionCancelled, 0)
			s.pushAction(spec.Name)
		}
		return
	}

	if !s.state.StartRun(spec.Name, id) {
		log.Warn("action already running, confirmation ignored")
		return
	}
	log.Info("action confirmed, running", zap.String("command", spec.Run))
	s.pushAction(spec.Name)

	g.Go(func() error {
		s.execute(ctx, spec, id)
		return nil
	})
}

func (s *ActionService) execute(ctx context.Context, spec config.ActionSpec, id string) {
	timeout := time.Duration(spec.Timeout) * time.Second

	res, err := s.runner(ctx, tools.ShellCommand(spec.Run), timeout)

	var output string
	exitCode := -1
	if res != nil {
		output = tail(res.Output, outputTailLines)
		exitCode = res.ExitCode
	}
	s.state.Finish(spec.Name, output, exitCode, err)

	status, _ := s.state.Get(spec.Name)
	if err != nil {
		s.logger.Warn("action failed", zap.String("action", spec.Name), zap.Error(err))
	} else {
		s.logger.Info("action finished", zap.String("action", spec.Name))
	}

	s.record(ctx, spec, id, true, status.State, exitCode)
	s.pushAction(spec.Name)
}

func (s *ActionService) record(ctx context.Context, spec config.ActionSpec, id string, confirmed bool, state models.ActionState, exitCode int) {
	if s.recorder == nil {
		return
	}
	// Recording must survive shutdown cancelling ctx.
	ctx = context.WithoutCancel(ctx)
	err := s.recorder.Record(ctx, history.Entry{
		CorrelationID: id,
		Action:        spec.Name,
		Command:       spec.Run,
		Confirmed:     confirmed,
		Status:        state.String(),
		ExitCode:      exitCode,
	})
	if err != nil {
		s.logger.Warn("failed to record decision", zap.Error(err))
	}
}

func (s *ActionService) pushAction(name string) {
	status, ok := s.state.Get(name)
	if !ok {
		return
	}
	s.send(eventbus.ActionUpdateEvent{
		Action:   name,
		State:    status.State,
		Output:   status.Output,
		ExitCode: status.ExitCode,
		Error:    status.Err,
	})
	s.pushStateToUI()
}

func (s *ActionService) pushStateToUI() {
	running, done, failed := s.state.Counts()
	s.send(eventbus.StateUpdateEvent{Running: running, Done: done, Failed: failed})
}

func (s *ActionService) send(event eventbus.CoreEvent) {
	if err := s.eventBus.SendToUI(event); err != nil {
		s.logger.Warn("failed to send event to UI", zap.Error(err))
	}
}

func tail(output string, n int) string {
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
