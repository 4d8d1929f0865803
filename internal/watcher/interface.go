package watcher

import "context"

// Watcher monitors an inbox directory for new slide decks
type Watcher interface {
	// Start handles decks already in the inbox, then new arrivals, until ctx is done.
	// It waits for in-flight handlers before returning.
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler processes one deck
type EventHandler func(ctx context.Context, filePath string) error
