package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	tt "github.com/mjp2ff/aid-sub000/internal/types"
)

// settleDelay groups bursts of writes to one file into a single analysis.
const settleDelay = 100 * time.Millisecond

// StartWatching re-analyzes supported files under dirs whenever they are
// written. Each report is passed to onReport, or logged when it is nil.
// Watching stops when ctx is done or StopWatching is called.
func (e *Engine) StartWatching(ctx context.Context, dirs []string, onReport func(*tt.FileReport)) error {
	e.watchMu.Lock()
	defer e.watchMu.Unlock()

	if e.isWatching {
		return errors.New("already watching")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("error creating watcher: %w", err)
	}
	for _, dir := range dirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if !info.IsDir() {
				return nil
			}
			if path != dir && e.Skips(path) {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		})
		if err != nil {
			watcher.Close()
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	e.watcher = watcher
	e.watchDirs = dirs
	e.onReport = onReport
	e.isWatching = true
	go e.watchLoop(ctx, watcher)
	return nil
}

func (e *Engine) StopWatching() error {
	e.watchMu.Lock()
	defer e.watchMu.Unlock()

	if !e.isWatching {
		e.logger.Warn("not watching")
		return nil
	}

	e.isWatching = false
	return e.watcher.Close()
}

func (e *Engine) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			_ = e.StopWatching()
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			e.handleFileEvent(ctx, event)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			e.logger.Error("watch error", zap.Error(err))
		}
	}
}

func (e *Engine) handleFileEvent(ctx context.Context, event fsnotify.Event) {
	if !e.Supports(event.Name) || e.Skips(event.Name) {
		return
	}
	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		if e.cache != nil {
			if err := e.cache.Forget(event.Name); err != nil {
				e.logger.Warn("failed to drop cached report", zap.String("file", event.Name), zap.Error(err))
			}
		}
		return
	}
	if !event.Has(fsnotify.Write) {
		return
	}

	time.Sleep(settleDelay)
	report, err := e.Run(ctx, event.Name)
	if err != nil {
		e.logger.Error("error analyzing file", zap.String("file", event.Name), zap.Error(err))
		return
	}
	e.reportIssues(report)
}

func (e *Engine) reportIssues(report *tt.FileReport) {
	if e.onReport != nil {
		e.onReport(report)
		return
	}

	e.logger.Info("analyzed file",
		zap.String("file", report.Filename),
		zap.Int("methods", len(report.Methods)),
	)
	for _, m := range report.Methods {
		e.logger.Info(m.Method,
			zap.String("status", m.Status),
			zap.String("success_condition", m.SuccessCondition),
		)
	}
}
