package config

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"aiday/internal/types"
)

// PromptSink receives reloaded instruction templates.
type PromptSink interface {
	Apply(types.Prompts)
}

// WatchPrompts hot-reloads the prompt override file into sink whenever
// it changes. Blocks until ctx is cancelled. Editors often replace the
// file instead of writing in place, so the parent directory is watched
// and events are filtered by name.
func WatchPrompts(ctx context.Context, path string, sink PromptSink, log *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			override, err := LoadPromptOverrides(path)
			if err != nil {
				log.Warn("prompt override reload failed", zap.Error(err))
				continue
			}
			sink.Apply(override)
			log.Info("prompt overrides reloaded", zap.String("path", path))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("prompt watcher error", zap.Error(err))
		}
	}
}
