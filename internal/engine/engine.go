package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/nguyentantai21042004/deck2video/pkg/executor"
)

// Flags placed before every ffmpeg invocation
var globalArgs = []string{"-hide_banner", "-nostdin", "-loglevel", "error", "-y"}

type ffmpegEngine struct {
	mu       sync.Mutex
	source   string
	ffmpeg   string
	ffprobe  string
	dir      string
	executor executor.Executor
}

func (e *ffmpegEngine) Source() string { return e.source }

// init prepares the working directory and checks that the binary actually runs
func (e *ffmpegEngine) init(ctx context.Context) error {
	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return fmt.Errorf("create workspace: %w", err)
	}
	if _, err := e.executor.Execute(ctx, e.ffmpeg, "-version"); err != nil {
		return fmt.Errorf("run %s -version: %w", e.ffmpeg, err)
	}
	return nil
}

func (e *ffmpegEngine) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return filepath.Join(e.dir, name), nil
}

func (e *ffmpegEngine) WriteFile(ctx context.Context, name string, data []byte) error {
	p, err := e.path(name)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(p, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (e *ffmpegEngine) ReadFile(ctx context.Context, name string) ([]byte, error) {
	p, err := e.path(name)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func (e *ffmpegEngine) DeleteFile(ctx context.Context, name string) error {
	p, err := e.path(name)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := os.Remove(p); err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

func (e *ffmpegEngine) ListDir(ctx context.Context) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	entries, err := os.ReadDir(e.dir)
	if err != nil {
		return nil, fmt.Errorf("list workspace: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, ent := range entries {
		if !ent.IsDir() {
			names = append(names, ent.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (e *ffmpegEngine) Exec(ctx context.Context, args ...string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	full := make([]string, 0, len(globalArgs)+len(args))
	full = append(full, globalArgs...)
	full = append(full, args...)
	if _, err := e.executor.ExecuteInDir(ctx, e.dir, e.ffmpeg, full...); err != nil {
		return fmt.Errorf("ffmpeg: %w", err)
	}
	return nil
}

func (e *ffmpegEngine) Probe(ctx context.Context, name string) (time.Duration, error) {
	if _, err := e.path(name); err != nil {
		return 0, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	out, err := e.executor.ExecuteInDir(ctx, e.dir, e.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		name,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", name, err)
	}
	return parseSeconds(out)
}

func parseSeconds(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return time.Duration(sec * float64(time.Second)).Round(time.Millisecond), nil
}
