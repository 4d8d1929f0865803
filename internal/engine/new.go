package engine

import (
	"net/http"
	"os/exec"

	"github.com/nguyentantai21042004/deck2video/internal/config"
	"github.com/nguyentantai21042004/deck2video/internal/logger"
	"github.com/nguyentantai21042004/deck2video/pkg/executor"
)

// defaultResources is the layout of the published ffmpeg builds
var defaultResources = config.ResourcesConfig{
	Core:      "ffmpeg",
	Probe:     "ffprobe",
	Checksums: "SHA256SUMS",
}

// Option customizes a Loader
type Option func(*implLoader)

// WithFetcher replaces the HTTP fetcher
func WithFetcher(f Fetcher) Option {
	return func(l *implLoader) { l.fetcher = f }
}

// WithLookPath replaces the $PATH lookup used by path sources
func WithLookPath(fn func(string) (string, error)) Option {
	return func(l *implLoader) { l.lookPath = fn }
}

// WithEnvironmentCheck replaces the host precondition check
func WithEnvironmentCheck(fn EnvironmentCheck) Option {
	return func(l *implLoader) { l.checkEnv = fn }
}

// NewLoader creates a Loader over the configured sources
func NewLoader(cfg config.EngineConfig, ex executor.Executor, log logger.Logger, opts ...Option) Loader {
	l := &implLoader{
		sources:      cfg.Sources,
		workspace:    cfg.Workspace,
		cacheDir:     cfg.CacheDir,
		fetchTimeout: cfg.FetchTimeout,
		resources:    withDefaults(cfg.Resources),
		fetcher:      NewHTTPFetcher(&http.Client{}),
		lookPath:     exec.LookPath,
		checkEnv:     CheckEnvironment,
		executor:     ex,
		logger:       log.Named("engine"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func withDefaults(r config.ResourcesConfig) config.ResourcesConfig {
	if r.Core == "" {
		r.Core = defaultResources.Core
	}
	if r.Probe == "" {
		r.Probe = defaultResources.Probe
	}
	if r.Checksums == "" {
		r.Checksums = defaultResources.Checksums
	}
	return r
}
