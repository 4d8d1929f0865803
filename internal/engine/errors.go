package engine

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidName is returned for file names that would escape the working directory
var ErrInvalidName = errors.New("invalid working file name")

// UnsupportedEnvironmentError means the host cannot run the engine at all. Retrying will not help.
type UnsupportedEnvironmentError struct {
	Reason      string
	Remediation string
}

func (e *UnsupportedEnvironmentError) Error() string {
	return fmt.Sprintf("unsupported environment: %s (%s)", e.Reason, e.Remediation)
}

// SourceError records why one candidate source could not provide the engine
type SourceError struct {
	Source string
	Err    error
}

func (e SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Source, e.Err)
}

// EngineLoadError means every configured source failed. A later EnsureReady retries them all.
type EngineLoadError struct {
	Failures []SourceError
}

func (e *EngineLoadError) Error() string {
	if len(e.Failures) == 0 {
		return "load engine: no sources configured"
	}
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.Error()
	}
	return "load engine: all sources failed: " + strings.Join(parts, "; ")
}

func (e *EngineLoadError) Unwrap() []error {
	out := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		out[i] = f.Err
	}
	return out
}
