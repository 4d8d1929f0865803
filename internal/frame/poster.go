package frame

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// PosterWidth is the width of the WebP poster written next to each video
const PosterWidth = 1200

// SavePoster writes a WebP thumbnail of a canonical frame to path
func SavePoster(frame []byte, path string, width int) error {
	img, err := imaging.Decode(bytes.NewReader(frame))
	if err != nil {
		return &ImageDecodeError{Name: filepath.Base(path), Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create poster dir: %w", err)
	}

	thumb := imaging.Resize(img, width, 0, imaging.Lanczos)
	if err := webp.Save(path, thumb, &webp.Options{Quality: 85}); err != nil {
		return fmt.Errorf("save poster %s: %w", path, err)
	}
	return nil
}
