package app

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Rorical/typedconfirm/internal/config"
)

// batchWatcher reloads a batch file on change. The parent directory is
// watched because editors often replace files instead of writing them.
type batchWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  *zap.Logger
}

func newBatchWatcher(path string, logger *zap.Logger) (*batchWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", abs, err)
	}

	return &batchWatcher{path: abs, watcher: fsw, logger: logger}, nil
}

// Run sends a ReloadMsg for every change until ctx is done.
func (w *batchWatcher) Run(ctx context.Context, send func(tea.Msg)) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			w.logger.Debug("batch file changed", zap.String("op", event.Op.String()))

			batch, err := config.LoadBatch(w.path)
			send(ReloadMsg{Batch: batch, Err: err})
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))
		}
	}
}
