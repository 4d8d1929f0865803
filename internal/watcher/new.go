package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/nguyentantai21042004/deck2video/internal/logger"
)

// defaultSettle is how long a new file's size must stay unchanged before it is handled
const defaultSettle = 500 * time.Millisecond

// maxEmptyPolls bounds how long a zero-byte deck may hold a processing slot
const maxEmptyPolls = 10

// New creates a new Watcher instance with concurrency control
func New(inputDir string, handler EventHandler, log logger.Logger, maxConcurrent int) (Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := watcher.Add(inputDir); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	// Default to 2 concurrent if not specified
	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	return &implWatcher{
		inputDir:      inputDir,
		handler:       handler,
		logger:        log.Named("watcher"),
		watcher:       watcher,
		maxConcurrent: maxConcurrent,
		sem:           newSemaphore(maxConcurrent),
		settle:        defaultSettle,
		inFlight:      make(map[string]bool),
	}, nil
}
