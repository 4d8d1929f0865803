package render

import (
	"context"
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/deck2video/internal/engine"
	"github.com/nguyentantai21042004/deck2video/internal/models"
	"github.com/nguyentantai21042004/deck2video/internal/progress"
)

// Manifest renders the concat demuxer list for segments, one line per file in order
func Manifest(segments []models.Segment) string {
	lines := make([]string, len(segments))
	for i, s := range segments {
		lines[i] = fmt.Sprintf("file '%s'", s.File)
	}
	return strings.Join(lines, "\n")
}

// concatenate writes the manifest, ticks, joins the segments without re-encoding, ticks,
// and returns the output bytes.
func (r *implRenderer) concatenate(ctx context.Context, eng engine.Engine, timeline models.Timeline, tracker *progress.Tracker) ([]byte, error) {
	n := len(timeline.Segments)

	if err := eng.WriteFile(ctx, manifestName, []byte(timeline.Manifest)); err != nil {
		return nil, &ConcatenationError{Segments: n, Err: fmt.Errorf("write manifest: %w", err)}
	}
	tracker.Tick()

	args := []string{
		"-f", "concat",
		"-safe", "0",
		"-i", manifestName,
		"-c", "copy",
		"-movflags", "+faststart",
		outputName,
	}
	if err := eng.Exec(ctx, args...); err != nil {
		return nil, &ConcatenationError{Segments: n, Err: err}
	}

	data, err := eng.ReadFile(ctx, outputName)
	if err != nil {
		return nil, &ConcatenationError{Segments: n, Err: fmt.Errorf("read output: %w", err)}
	}
	if len(data) == 0 {
		return nil, &ConcatenationError{Segments: n, Err: fmt.Errorf("output is empty")}
	}
	tracker.Tick()

	return data, nil
}
