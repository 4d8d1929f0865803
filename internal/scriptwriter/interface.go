package scriptwriter

import (
	"context"

	"github.com/nguyentantai21042004/deck2video/internal/models"
)

// Writer drafts narration scripts from slide images and exports them for review.
type Writer interface {
	// GenerateAll returns a copy of slides with generated scripts. A slide whose request
	// fails gets FallbackScript; placeholder slides keep their script.
	GenerateAll(ctx context.Context, slides []models.Slide) ([]models.Slide, error)
	// ExportHandout writes the scripts as a .docx narration handout
	ExportHandout(title string, slides []models.Slide, outputPath string) error
}

// Generator sends one image-plus-prompt request using a single API key.
type Generator interface {
	Generate(ctx context.Context, apiKey, model, prompt string, image []byte) (string, error)
}
