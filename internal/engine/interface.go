// Package engine acquires the ffmpeg toolchain and exposes it as a serialized handle
// over a private working directory.
package engine

import (
	"context"
	"time"
)

// Engine is a loaded encoder instance. All operations are serialized: the working
// directory is shared state and concurrent encodes against it corrupt each other.
type Engine interface {
	// Source names the configured source the engine was loaded from
	Source() string

	WriteFile(ctx context.Context, name string, data []byte) error
	ReadFile(ctx context.Context, name string) ([]byte, error)
	DeleteFile(ctx context.Context, name string) error
	ListDir(ctx context.Context) ([]string, error)

	// Exec runs ffmpeg inside the working directory
	Exec(ctx context.Context, args ...string) error
	// Probe returns the container duration of a file in the working directory
	Probe(ctx context.Context, name string) (time.Duration, error)
}

// Loader initializes the engine once and hands out the same handle afterwards
type Loader interface {
	EnsureReady(ctx context.Context) (Engine, error)
	Ready() bool
}
