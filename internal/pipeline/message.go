package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/deck2video/internal/archive"
	"github.com/nguyentantai21042004/deck2video/internal/engine"
	"github.com/nguyentantai21042004/deck2video/internal/frame"
	"github.com/nguyentantai21042004/deck2video/internal/render"
	"github.com/nguyentantai21042004/deck2video/internal/scriptwriter"
)

// UserMessage maps err to one actionable line for the person running the job
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var (
		pkgErr    *archive.PackageFormatError
		decodeErr *frame.ImageDecodeError
		envErr    *engine.UnsupportedEnvironmentError
		loadErr   *engine.EngineLoadError
		segErr    *render.SegmentEncodeError
		concatErr *render.ConcatenationError
	)

	switch {
	case errors.As(err, &pkgErr):
		return "The file is not a readable slide deck. Re-save it as .pptx and try again."
	case errors.As(err, &decodeErr):
		return fmt.Sprintf("Image %s could not be decoded. Replace it with a PNG or JPEG.", decodeErr.Name)
	case errors.As(err, &envErr):
		return fmt.Sprintf("Video export is not supported here: %s.", envErr.Remediation)
	case errors.As(err, &loadErr):
		return "The video encoder could not be loaded. Check your network connection or install ffmpeg, then retry."
	case errors.As(err, &segErr):
		return fmt.Sprintf("Encoding failed on slide %d. Check that slide's image and narration, then retry.", segErr.Index+1)
	case errors.As(err, &concatErr):
		return "The slide segments could not be joined into one video. Retry the export."
	case errors.Is(err, render.ErrNoSlides):
		return "There are no slides to export."
	case errors.Is(err, scriptwriter.ErrNoAPIKeys):
		return "Script generation needs a Gemini API key. Set GEMINI_API_KEY and retry."
	case errors.Is(err, context.Canceled):
		return "The operation was cancelled."
	case errors.Is(err, context.DeadlineExceeded):
		return "The operation timed out. Retry, or raise the timeout."
	}

	msg := err.Error()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	return "Something went wrong: " + msg
}
