// Package watch re-runs validation when a calendar source changes.
//
// Local files are watched with fsnotify; the parent directory is watched so
// that editors which replace the file on save are still seen. Remote URLs
// cannot be watched and are polled on a cron schedule instead.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/robfig/cron/v3"

	appLog "icsvalidate/internal/log"
	"icsvalidate/internal/source"
)

// debounce groups bursts of write events from a single save.
const debounce = 200 * time.Millisecond

// Func is invoked for every detected change (and once at start).
type Func func(ctx context.Context)

// Run calls fn once, then again on every change of location until ctx is
// cancelled. schedule is only used for remote locations.
func Run(ctx context.Context, location, schedule string, fn Func) error {
	fn(ctx)
	if source.IsRemote(location) {
		return runCron(ctx, schedule, fn)
	}
	return runFile(ctx, location, fn)
}

func runCron(ctx context.Context, schedule string, fn Func) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() { fn(ctx) }); err != nil {
		return fmt.Errorf("watch: invalid refresh schedule %q: %w", schedule, err)
	}
	appLog.Info("watching remote calendar", "schedule", schedule)
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func runFile(ctx context.Context, path string, fn Func) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch: add %s: %w", filepath.Dir(abs), err)
	}
	appLog.Info("watching calendar file", "path", abs)

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
				appLog.Debug("calendar file changed", "path", abs, "op", ev.Op.String())
				timer.Reset(debounce)
			}

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			appLog.Error("file watcher error", err, "path", abs)

		case <-timer.C:
			fn(ctx)
		}
	}
}
