package frame

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/nguyentantai21042004/deck2video/internal/models"
	"github.com/patrickmn/go-cache"
)

// ImageDecodeError reports a media asset that is not a decodable image
type ImageDecodeError struct {
	Name string
	Err  error
}

func (e *ImageDecodeError) Error() string {
	return fmt.Sprintf("decode image %s: %v", e.Name, e.Err)
}

func (e *ImageDecodeError) Unwrap() error { return e.Err }

// Fit returns where a srcW x srcH image lands on the canvas: the largest aspect-preserving
// rectangle that fits, centred on the unconstrained axis. The constrained axis rounds down
// so only an exact 16:9 source fills both axes.
func Fit(srcW, srcH int) image.Rectangle {
	if srcW <= 0 || srcH <= 0 {
		return image.Rect(0, 0, Width, Height)
	}

	// srcW/srcH > Width/Height, cross-multiplied to stay in integers
	if srcW*Height > srcH*Width {
		h := Width * srcH / srcW
		if h < 1 {
			h = 1
		}
		y := (Height - h) / 2
		return image.Rect(0, y, Width, y+h)
	}

	w := Height * srcW / srcH
	if w < 1 {
		w = 1
	}
	x := (Width - w) / 2
	return image.Rect(x, 0, x+w, Height)
}

// Render draws img onto an opaque white canonical canvas
func Render(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := Fit(b.Dx(), b.Dy())

	canvas := imaging.New(Width, Height, color.White)
	if dst.Dx() != b.Dx() || dst.Dy() != b.Dy() {
		img = imaging.Resize(img, dst.Dx(), dst.Dy(), imaging.Lanczos)
	}
	return imaging.Overlay(canvas, img, dst.Min, 1.0)
}

func (n *implNormalizer) Normalize(ctx context.Context, asset models.MediaAsset) ([]byte, error) {
	sum := sha256.Sum256(asset.Data)
	key := hex.EncodeToString(sum[:])
	if v, ok := n.frames.Get(key); ok {
		n.logger.Debug(ctx, "Frame cache hit for %s", asset.Name)
		return v.([]byte), nil
	}

	img, err := imaging.Decode(bytes.NewReader(asset.Data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &ImageDecodeError{Name: asset.Name, Err: err}
	}

	b := img.Bounds()
	n.logger.Debug(ctx, "Normalizing %s (%dx%d) into %v", asset.Name, b.Dx(), b.Dy(), Fit(b.Dx(), b.Dy()))

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, Render(img), imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode frame %s: %w", asset.Name, err)
	}

	out := buf.Bytes()
	n.frames.Set(key, out, cache.DefaultExpiration)
	return out, nil
}
