// Package frame turns arbitrary slide images into canonical 1920x1080 encoder frames.
package frame

import (
	"context"

	"github.com/nguyentantai21042004/deck2video/internal/models"
)

// Canonical frame size. Every segment is encoded at exactly this resolution.
const (
	Width  = 1920
	Height = 1080
)

// Normalizer produces canonical PNG frames
type Normalizer interface {
	// Normalize letterboxes the asset onto a white canvas
	Normalize(ctx context.Context, asset models.MediaAsset) ([]byte, error)
	// Placeholder renders the "no content" frame
	Placeholder(ctx context.Context) ([]byte, error)
}
