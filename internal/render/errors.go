package render

import (
	"errors"
	"fmt"
)

// ErrNoSlides is returned when Render is called with an empty slide list
var ErrNoSlides = errors.New("no slides to render")

// SegmentEncodeError aborts the batch at the slide that failed
type SegmentEncodeError struct {
	Index   int // zero-based position in the slide list
	SlideID string
	Stage   Stage
	Err     error
}

func (e *SegmentEncodeError) Error() string {
	return fmt.Sprintf("segment %d (%s) failed while %s: %v", e.Index, e.SlideID, e.Stage, e.Err)
}

func (e *SegmentEncodeError) Unwrap() error { return e.Err }

// ConcatenationError means the segments were encoded but could not be joined
type ConcatenationError struct {
	Segments int
	Err      error
}

func (e *ConcatenationError) Error() string {
	return fmt.Sprintf("concatenate %d segments: %v", e.Segments, e.Err)
}

func (e *ConcatenationError) Unwrap() error { return e.Err }
