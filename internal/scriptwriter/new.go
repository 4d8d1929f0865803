package scriptwriter

import (
	"sync"

	"github.com/nguyentantai21042004/deck2video/internal/config"
	"github.com/nguyentantai21042004/deck2video/internal/logger"
	"golang.org/x/time/rate"
)

type implWriter struct {
	apiKeys    []string
	currentKey int
	keyMu      sync.Mutex

	model     string
	generator Generator
	limiter   *rate.Limiter
	logger    logger.Logger
}

// Option customizes a Writer
type Option func(*implWriter)

// WithGenerator replaces the Gemini client
func WithGenerator(g Generator) Option {
	return func(w *implWriter) { w.generator = g }
}

// New creates a Writer that rotates through the configured Gemini API keys.
func New(cfg config.GeminiConfig, log logger.Logger, opts ...Option) Writer {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	w := &implWriter{
		apiKeys:   cfg.APIKeys,
		model:     cfg.Model,
		generator: &geminiGenerator{},
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		logger:    log.Named("scriptwriter"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}
