// Package watch rebuilds the served schema when the site file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/tghp/wpgraphql-mb/internal/engine"
	"github.com/tghp/wpgraphql-mb/internal/site"
)

// DefaultDebounce groups the bursts of events editors emit on save.
const DefaultDebounce = 100 * time.Millisecond

// ReloadFunc is run after the watched file changed.
type ReloadFunc func(ctx context.Context) error

// EngineReloader reads the site file at path again and rebuilds the schema
// e serves. Field definitions are re-read on every call.
func EngineReloader(path string, e *engine.Engine) ReloadFunc {
	return func(ctx context.Context) error {
		s, err := site.Load(path)
		if err != nil {
			return err
		}
		return e.Reload(ctx, s)
	}
}

// Watcher runs a ReloadFunc whenever one file changes.
type Watcher struct {
	path     string
	reload   ReloadFunc
	logger   *zap.Logger
	debounce time.Duration
}

type Option func(*Watcher)

func WithDebounce(d time.Duration) Option { return func(w *Watcher) { w.debounce = d } }
func WithLogger(l *zap.Logger) Option     { return func(w *Watcher) { w.logger = l } }

func New(path string, reload ReloadFunc, opts ...Option) *Watcher {
	w := &Watcher{
		path:     filepath.Clean(path),
		reload:   reload,
		logger:   zap.NewNop(),
		debounce: DefaultDebounce,
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// Run watches until ctx is done. The parent directory is watched so that
// files replaced by rename are still picked up. A failed reload is logged
// and the previous schema stays in service.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.String("path", w.path), zap.Error(err))
		case <-fire:
			fire = nil
			if err := w.reload(ctx); err != nil {
				w.logger.Error("reload failed", zap.String("path", w.path), zap.Error(err))
				continue
			}
			w.logger.Info("schema reloaded", zap.String("path", w.path))
		}
	}
}
