package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Rorical/typedconfirm/internal/config"
	"github.com/Rorical/typedconfirm/internal/core"
	"github.com/Rorical/typedconfirm/internal/dispatcher"
	"github.com/Rorical/typedconfirm/internal/eventbus"
	"github.com/Rorical/typedconfirm/internal/host"
	"github.com/Rorical/typedconfirm/internal/judge"
	"github.com/Rorical/typedconfirm/internal/models"
	"github.com/Rorical/typedconfirm/internal/registry"
	"github.com/Rorical/typedconfirm/internal/tools"
	"github.com/Rorical/typedconfirm/internal/trigger"
)

// Application manages the complete batch lifecycle
type Application struct {
	batchPath  string
	watch      bool
	logger     *zap.Logger
	recorder   core.Recorder
	eventBus   *eventbus.EventBus
	dispatcher *dispatcher.EventDispatcher
	service    *core.ActionService
	model      *AppModel
}

type Option func(*Application)

func WithLogger(l *zap.Logger) Option {
	return func(app *Application) {
		if l != nil {
			app.logger = l
		}
	}
}

// WithRecorder persists every decision, typically to the history store.
func WithRecorder(r core.Recorder) Option {
	return func(app *Application) {
		app.recorder = r
	}
}

// WithWatch reloads the batch whenever its file changes.
func WithWatch(watch bool) Option {
	return func(app *Application) {
		app.watch = watch
	}
}

func NewApplication(file *config.File, batchPath string, opts ...Option) (*Application, error) {
	app := &Application{batchPath: batchPath, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(app)
	}

	batch, err := config.LoadBatch(batchPath)
	if err != nil {
		return nil, err
	}

	eb := eventbus.NewEventBus(eventbus.WithErrorCallback(func(e eventbus.EventBusError) {
		app.logger.Warn("event bus error", zap.String("op", e.Operation), zap.Error(e.Err))
	}))
	disp := dispatcher.NewEventDispatcher(eb)

	board := registry.NewHostBoard[trigger.Mounter]()
	h := host.New(host.WithLogger(app.logger), host.WithBoard(board))

	builder := &triggerBuilder{
		file:       file,
		checks:     NewCheckRegistry(file, app.logger),
		reg:        registry.New(registry.WithLogger(app.logger)),
		board:      board,
		dispatcher: disp,
		logger:     app.logger,
	}
	triggers, views, err := builder.build(batch)
	if err != nil {
		eb.Close()
		return nil, err
	}

	svcOpts := []core.Option{core.WithLogger(app.logger)}
	if app.recorder != nil {
		svcOpts = append(svcOpts, core.WithRecorder(app.recorder))
	}

	app.eventBus = eb
	app.dispatcher = disp
	app.service = core.NewActionService(batch.Actions, eb, svcOpts...)
	app.model = newAppModel(disp, h, builder, triggers, views)
	return app, nil
}

// NewCheckRegistry registers the built-in checks, plus the judge when a
// profile has credentials.
func NewCheckRegistry(file *config.File, logger *zap.Logger) *tools.Registry {
	checks := tools.NewRegistry()
	tools.RegisterBuiltinChecks(checks)

	j, err := judge.NewFromConfig(file, judge.WithLogger(logger))
	if err != nil {
		logger.Debug("judge check unavailable", zap.Error(err))
		return checks
	}
	checks.Register(j)
	return checks
}

// Start runs the UI and the action service until the user quits. Quitting
// cancels commands that are still running.
func (app *Application) Start(ctx context.Context) error {
	var w *batchWatcher
	if app.watch {
		var err error
		if w, err = newBatchWatcher(app.batchPath, app.logger); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	p := tea.NewProgram(app.model, tea.WithAltScreen(), tea.WithContext(gctx))

	g.Go(func() error {
		return app.service.Run(gctx)
	})

	if w != nil {
		g.Go(func() error {
			return w.Run(gctx, p.Send)
		})
	}

	g.Go(func() error {
		defer cancel()
		_, err := p.Run()
		if errors.Is(err, tea.ErrProgramKilled) && gctx.Err() != nil {
			return nil
		}
		return err
	})

	return g.Wait()
}

func (app *Application) Stop() {
	disposeAll(app.model.triggers)
	app.dispatcher.Stop()
	app.eventBus.Close()
}

// Actions returns the rows as last rendered.
func (app *Application) Actions() []models.ActionView {
	return app.model.appModel.Actions
}
