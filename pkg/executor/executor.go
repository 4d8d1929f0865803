package executor

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// maxStderr bounds how much of a failing command's stderr is kept.
// ffmpeg can print megabytes of diagnostics on a bad input.
const maxStderr = 4096

// Error is returned when a command exits unsuccessfully.
type Error struct {
	Name   string
	Args   []string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("command '%s' failed: %v\nstderr: %s", e.Name, e.Err, e.Stderr)
	}
	return fmt.Sprintf("command '%s' failed: %v", e.Name, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

type implExecutor struct{}

// New creates a new Executor instance
func New() Executor {
	return &implExecutor{}
}

// Execute runs an external command with the given arguments
func (e *implExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	return e.run(ctx, "", name, args)
}

// ExecuteInDir runs an external command in a specific working directory
func (e *implExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error) {
	return e.run(ctx, dir, name, args)
}

func (e *implExecutor) run(ctx context.Context, dir, name string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &Error{
			Name:   name,
			Args:   args,
			Stderr: tail(strings.TrimSpace(stderr.String()), maxStderr),
			Err:    err,
		}
	}

	return stdout.String(), nil
}

// tail keeps the last n bytes of s; the end of ffmpeg output holds the actual failure.
func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return "..." + s[len(s)-n:]
}
