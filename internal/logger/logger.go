package logger

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
)

var levels = map[string]int{
	"debug": 0,
	"info":  1,
	"warn":  2,
	"error": 3,
}

type ctxKey struct{}

// WithJob tags every line logged with ctx by the job identifier
func WithJob(ctx context.Context, jobID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, jobID)
}

type implLogger struct {
	logger    *log.Logger
	level     string
	component string
}

// New creates a new Logger instance writing to stdout
func New(level string) Logger {
	return NewWithWriter(level, os.Stdout)
}

// NewWithWriter creates a Logger writing to w
func NewWithWriter(level string, w io.Writer) Logger {
	return &implLogger{
		logger: log.New(w, "", log.LstdFlags),
		level:  strings.ToLower(level),
	}
}

// Nop returns a Logger that discards everything
func Nop() Logger {
	return NewWithWriter("error", io.Discard)
}

func (l *implLogger) Named(component string) Logger {
	name := component
	if l.component != "" {
		name = l.component + "." + component
	}
	return &implLogger{
		logger:    l.logger,
		level:     l.level,
		component: name,
	}
}

func (l *implLogger) shouldLog(level string) bool {
	currentLevel, ok := levels[l.level]
	if !ok {
		currentLevel = 1 // default to info
	}

	targetLevel, ok := levels[level]
	if !ok {
		return true
	}

	return targetLevel >= currentLevel
}

func (l *implLogger) print(ctx context.Context, tag, msg string, args []interface{}) {
	var b strings.Builder
	b.WriteString("[")
	b.WriteString(tag)
	b.WriteString("] ")
	if ctx != nil {
		if job, ok := ctx.Value(ctxKey{}).(string); ok && job != "" {
			b.WriteString("job=")
			b.WriteString(job)
			b.WriteString(" ")
		}
	}
	if l.component != "" {
		b.WriteString(l.component)
		b.WriteString(": ")
	}
	b.WriteString(fmt.Sprintf(msg, args...))
	l.logger.Print(b.String())
}

func (l *implLogger) Debug(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("debug") {
		l.print(ctx, "DEBUG", msg, args)
	}
}

func (l *implLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("info") {
		l.print(ctx, "INFO", msg, args)
	}
}

func (l *implLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("warn") {
		l.print(ctx, "WARN", msg, args)
	}
}

func (l *implLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.shouldLog("error") {
		l.print(ctx, "ERROR", msg, args)
	}
}
