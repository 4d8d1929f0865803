// Package render turns normalized slides into per-slide segments on the engine and
// concatenates them into the final video.
package render

import (
	"context"

	"github.com/nguyentantai21042004/deck2video/internal/engine"
	"github.com/nguyentantai21042004/deck2video/internal/models"
	"github.com/nguyentantai21042004/deck2video/internal/progress"
)

// Renderer encodes slides into one video. Slides are processed strictly one at a time
// against eng; segments appear in the output in slide order.
type Renderer interface {
	Render(ctx context.Context, eng engine.Engine, slides []models.Slide, onProgress progress.Func) (*models.Video, error)
}
