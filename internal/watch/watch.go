// Package watch re-runs a callback when a file changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDelay is the quiet period after the last change before fn runs.
const DefaultDelay = 500 * time.Millisecond

// Watch calls fn after each burst of writes to path until ctx is cancelled.
// The parent directory is watched so editors that replace the file by rename
// are still observed. fn never runs concurrently with itself. A non-nil error
// from fn is logged and watching continues.
func Watch(ctx context.Context, path string, delay time.Duration, fn func() error) error {
	if delay <= 0 {
		delay = DefaultDelay
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %q: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch dir %q: %w", filepath.Dir(abs), err)
	}
	slog.Debug("watching file", "path", abs, "delay", delay)

	fire := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if name, _ := filepath.Abs(ev.Name); name != abs {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(delay, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})
		case <-fire:
			if err := fn(); err != nil {
				slog.Warn("watch run failed", "path", abs, "err", err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "err", err)
		}
	}
}
