package pipeline

import (
	"sync"

	"github.com/nguyentantai21042004/deck2video/internal/archive"
	"github.com/nguyentantai21042004/deck2video/internal/config"
	"github.com/nguyentantai21042004/deck2video/internal/engine"
	"github.com/nguyentantai21042004/deck2video/internal/frame"
	"github.com/nguyentantai21042004/deck2video/internal/logger"
	"github.com/nguyentantai21042004/deck2video/internal/narration"
	"github.com/nguyentantai21042004/deck2video/internal/render"
	"github.com/nguyentantai21042004/deck2video/internal/scriptwriter"
	"github.com/nguyentantai21042004/deck2video/pkg/executor"
)

type implService struct {
	cfg *config.Config

	extractor  archive.Extractor
	normalizer frame.Normalizer
	loader     engine.Loader
	renderer   render.Renderer
	narrator   narration.Attacher
	writer     scriptwriter.Writer

	// renderMu serializes everything that touches the engine workspace
	renderMu sync.Mutex
	logger   logger.Logger
}

// Option replaces one collaborator of the Service
type Option func(*implService)

// WithLoader replaces the engine loader
func WithLoader(l engine.Loader) Option {
	return func(s *implService) { s.loader = l }
}

// WithScriptWriter replaces the Gemini script writer
func WithScriptWriter(w scriptwriter.Writer) Option {
	return func(s *implService) { s.writer = w }
}

// New creates a Service wired from cfg
func New(cfg *config.Config, exec executor.Executor, log logger.Logger, opts ...Option) Service {
	s := &implService{
		cfg:        cfg,
		extractor:  archive.New(cfg.Slides.MediaExtensions, log),
		normalizer: frame.New(cfg.Slides.PlaceholderMessage, cfg.Slides.FontPath, log),
		loader:     engine.NewLoader(cfg.Engine, exec, log),
		renderer:   render.New(cfg.Video, log),
		narrator:   narration.New(log),
		writer:     scriptwriter.New(cfg.Gemini, log),
		logger:     log.Named("pipeline"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
