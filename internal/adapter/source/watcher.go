package source

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher calls OnChange once a burst of writes to a single file settles.
// The parent directory is watched so editors that save by rename are seen.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func(context.Context)
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
}

func NewWatcher(path string, debounce time.Duration, onChange func(context.Context), logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		path:     abs,
		debounce: debounce,
		onChange: onChange,
		watcher:  fw,
		logger:   logger,
	}, nil
}

// Run blocks until ctx is cancelled or the underlying watcher fails.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()
	w.logger.Info("watching cv source", zap.String("path", w.path))

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("cv source changed", zap.String("op", event.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", zap.Error(err))

		case <-timer.C:
			w.onChange(ctx)
		}
	}
}

func (w *Watcher) relevant(e fsnotify.Event) bool {
	if filepath.Clean(e.Name) != w.path {
		return false
	}
	return e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0
}
