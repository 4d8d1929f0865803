// Package pipeline is the caller-facing deck to video service.
package pipeline

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/deck2video/internal/models"
	"github.com/nguyentantai21042004/deck2video/internal/progress"
)

// Service extracts slides from decks and renders them into videos
type Service interface {
	// ExtractSlides returns the deck's slides in ascending ordinal order, each with a
	// canonical frame. It fails only when the package itself is unreadable.
	ExtractSlides(ctx context.Context, deckPath string) ([]models.Slide, error)
	// CreateVideo loads the engine if needed and renders slides. Only one CreateVideo
	// runs at a time.
	CreateVideo(ctx context.Context, slides []models.Slide, onProgress progress.Func) (*models.Video, error)
	// Process runs a whole job for one deck and writes its outputs to disk
	Process(ctx context.Context, deckPath string, opts ProcessOptions) (*Result, error)
}

// ProcessOptions selects the optional steps of Process
type ProcessOptions struct {
	GenerateScripts bool // draft scripts with Gemini before rendering
	Handout         bool // export scripts as .docx next to the video
	Archive         bool // move the deck to the archived folder afterwards
}

// Result describes the files written by Process
type Result struct {
	JobID       string
	Slides      int
	VideoPath   string
	PosterPath  string
	HandoutPath string
	Duration    time.Duration
}
