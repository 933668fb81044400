package agent

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchPromptFile loads the system prompt from path and reloads it whenever
// the file changes, so the instruction text can be tuned without a restart.
// A missing file keeps the current prompt; deleting the file restores the
// built-in prompt. The watcher runs until ctx is cancelled.
func (a *Agent) WatchPromptFile(ctx context.Context, path string) error {
	if data, err := os.ReadFile(path); err == nil {
		a.SetSystemPrompt(string(data))
		a.logger.Info("loaded system prompt override", zap.String("path", path))
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read prompt file: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// Watch the directory: editors replace files on save, which would drop a
	// watch on the file itself.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch prompt directory: %w", err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(path) {
					continue
				}
				switch {
				case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
					data, err := os.ReadFile(path)
					if err != nil {
						a.logger.Warn("failed to reload prompt file", zap.Error(err))
						continue
					}
					a.SetSystemPrompt(string(data))
					a.logger.Info("reloaded system prompt", zap.String("path", path))
				case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
					a.SetSystemPrompt("")
					a.logger.Info("prompt file removed, restored built-in prompt")
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				a.logger.Warn("prompt watcher error", zap.Error(err))
			}
		}
	}()

	return nil
}
