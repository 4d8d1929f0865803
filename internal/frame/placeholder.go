package frame

import (
	"bytes"
	"context"
	"fmt"

	"github.com/fogleman/gg"
)

const (
	placeholderBackground = "#f3f4f6"
	placeholderText       = "#374151"
	placeholderFontSize   = 48
	// the built-in bitmap face is 13px tall; scale it to roughly the configured size
	builtinFaceScale = placeholderFontSize / 13.0
)

// Placeholder renders the centred "no content" frame
func (n *implNormalizer) Placeholder(ctx context.Context) ([]byte, error) {
	dc := gg.NewContext(Width, Height)
	dc.SetHexColor(placeholderBackground)
	dc.Clear()

	cx, cy := float64(Width)/2, float64(Height)/2
	dc.SetHexColor(placeholderText)

	if n.fontPath != "" {
		err := dc.LoadFontFace(n.fontPath, placeholderFontSize)
		if err == nil {
			dc.DrawStringAnchored(n.message, cx, cy, 0.5, 0.5)
			return encodePNG(dc)
		}
		n.logger.Warn(ctx, "Failed to load font %s, using built-in face: %v", n.fontPath, err)
	}

	dc.Push()
	dc.ScaleAbout(builtinFaceScale, builtinFaceScale, cx, cy)
	dc.DrawStringAnchored(n.message, cx, cy, 0.5, 0.5)
	dc.Pop()

	return encodePNG(dc)
}

func encodePNG(dc *gg.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode placeholder: %w", err)
	}
	return buf.Bytes(), nil
}
