package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/deck2video/internal/logger"
)

var errEmptyDeck = errors.New("deck is still empty")

type implWatcher struct {
	inputDir      string
	handler       EventHandler
	logger        logger.Logger
	watcher       *fsnotify.Watcher
	maxConcurrent int
	sem           *semaphore
	settle        time.Duration
	wg            sync.WaitGroup

	mu       sync.Mutex
	inFlight map[string]bool
}

// Start begins monitoring the input directory for new decks
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.inputDir)
	w.logger.Info(ctx, "Supported formats: .pptx")

	if err := w.scanExisting(ctx); err != nil {
		w.logger.Warn(ctx, "Failed to scan existing decks: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Waiting for ongoing processing to complete...")
			w.wg.Wait()
			w.logger.Info(ctx, "File watcher stopped")
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				w.wg.Wait()
				return fmt.Errorf("watcher events channel closed")
			}

			// Renames into the inbox also arrive as Create
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !isDeckFile(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-deck file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New deck detected: %s", event.Name)
			if err := w.dispatch(ctx, event.Name); err != nil {
				w.wg.Wait()
				return err
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.wg.Wait()
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

// scanExisting queues decks that were dropped in before the watcher started
func (w *implWatcher) scanExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.inputDir)
	if err != nil {
		return err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && isDeckFile(e.Name()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(w.inputDir, name)
		w.logger.Info(ctx, "Found pending deck: %s", path)
		if err := w.dispatch(ctx, path); err != nil {
			return err
		}
	}
	return nil
}

// dispatch runs the handler for path in the background once a slot is free.
// A path already being handled is ignored.
func (w *implWatcher) dispatch(ctx context.Context, path string) error {
	w.mu.Lock()
	if w.inFlight[path] {
		w.mu.Unlock()
		w.logger.Debug(ctx, "Already processing %s", path)
		return nil
	}
	w.inFlight[path] = true
	w.mu.Unlock()

	// Acquire semaphore slot (blocks if max concurrent reached)
	if err := w.sem.acquire(ctx); err != nil {
		w.done(path)
		return err
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.sem.release()
		defer w.done(path)

		if err := w.waitStable(ctx, path); err != nil {
			w.logger.Warn(ctx, "Skipping %s: %v", path, err)
			return
		}
		if err := w.handler(ctx, path); err != nil {
			w.logger.Error(ctx, "Failed to process %s: %v", path, err)
		}
	}()
	return nil
}

func (w *implWatcher) done(path string) {
	w.mu.Lock()
	delete(w.inFlight, path)
	w.mu.Unlock()
}

// waitStable returns once the file size stops changing between two polls.
// A file still empty after maxEmptyPolls polls is rejected with errEmptyDeck.
func (w *implWatcher) waitStable(ctx context.Context, path string) error {
	last := int64(-1)
	for empty := 0; ; {
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		size := info.Size()
		if size == 0 {
			if empty++; empty >= maxEmptyPolls {
				return errEmptyDeck
			}
		} else if size == last {
			return nil
		}
		last = size

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.settle):
		}
	}
}

// isDeckFile accepts .pptx files, skipping hidden files and Office lock files
func isDeckFile(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$") {
		return false
	}
	return strings.ToLower(filepath.Ext(name)) == ".pptx"
}
