package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Rorical/typedconfirm/internal/config"
	"github.com/Rorical/typedconfirm/internal/dispatcher"
	"github.com/Rorical/typedconfirm/internal/models"
	"github.com/Rorical/typedconfirm/internal/registry"
	"github.com/Rorical/typedconfirm/internal/tools"
	"github.com/Rorical/typedconfirm/internal/trigger"
)

// triggerBuilder turns batch actions into triggers sharing one registry and
// one host. Triggers find the host through the board.
type triggerBuilder struct {
	file       *config.File
	checks     *tools.Registry
	reg        *registry.Registry
	board      *registry.HostBoard[trigger.Mounter]
	dispatcher *dispatcher.EventDispatcher
	logger     *zap.Logger
}

func (b *triggerBuilder) build(batch *config.Batch) ([]*trigger.Trigger, []models.ActionView, error) {
	root, err := b.file.Resolve(batch.Preset)
	if err != nil {
		return nil, nil, err
	}

	triggers := make([]*trigger.Trigger, 0, len(batch.Actions))
	views := make([]models.ActionView, 0, len(batch.Actions))

	for _, action := range batch.Actions {
		kw, err := b.keyword(action)
		if err != nil {
			disposeAll(triggers)
			return nil, nil, fmt.Errorf("action %q: %w", action.Name, err)
		}

		tr := trigger.New(b.reg, nil, root, kw, action.Options,
			trigger.WithName(action.Name),
			trigger.WithHostBoard(b.board),
			trigger.WithLogger(b.logger),
		)
		name := action.Name
		tr.OnConfirmation(func(ev models.ConfirmationEvent) {
			if err := b.dispatcher.ForwardDecision(name, ev); err != nil {
				b.logger.Error("failed to forward decision", zap.String("action", name), zap.Error(err))
			}
		})

		triggers = append(triggers, tr)
		views = append(views, models.ActionView{
			Name:        action.Name,
			Description: action.Description,
			Command:     action.Run,
			Dangerous:   tools.IsDangerous(action.Run),
			TriggerTag:  tr.State(),
		})
	}
	return triggers, views, nil
}

func (b *triggerBuilder) keyword(action config.ActionSpec) (models.Keyword, error) {
	if action.Check == nil {
		return models.Literal(action.Keyword), nil
	}
	pred, err := b.checks.Predicate(*action.Check)
	if err != nil {
		return models.Keyword{}, err
	}
	return models.Async(pred), nil
}

func disposeAll(triggers []*trigger.Trigger) {
	for _, tr := range triggers {
		tr.Dispose()
	}
}
