package render

import (
	"context"
	"time"

	"github.com/nguyentantai21042004/deck2video/internal/engine"
	"github.com/nguyentantai21042004/deck2video/internal/models"
	"github.com/nguyentantai21042004/deck2video/internal/progress"
)

// Render clears the workspace, encodes every slide in order, concatenates the segments
// and deletes the working files. Any slide failure aborts the whole batch and leaves the
// workspace as is; the next Render clears it.
func (r *implRenderer) Render(ctx context.Context, eng engine.Engine, slides []models.Slide, onProgress progress.Func) (*models.Video, error) {
	if len(slides) == 0 {
		return nil, ErrNoSlides
	}

	startTime := time.Now()
	r.logger.Info(ctx, "Rendering %d slides at %v each", len(slides), r.video.SlideDuration)

	r.clearWorkspace(ctx, eng)

	tracker := progress.NewTracker(progress.TotalSteps(len(slides)), onProgress)
	timeline := models.Timeline{Segments: make([]models.Segment, 0, len(slides))}

	for i, slide := range slides {
		seg, err := r.buildSegment(ctx, eng, i, slide, tracker)
		if err != nil {
			return nil, err
		}
		timeline.Segments = append(timeline.Segments, seg)
	}
	timeline.Manifest = Manifest(timeline.Segments)

	data, err := r.concatenate(ctx, eng, timeline, tracker)
	if err != nil {
		r.logger.Error(ctx, "Concatenation failed: %v", err)
		return nil, err
	}

	duration, err := eng.Probe(ctx, outputName)
	if err != nil {
		r.logger.Warn(ctx, "Failed to probe output duration: %v", err)
		duration = 0
	}

	r.cleanup(ctx, eng, timeline)

	r.logger.Info(ctx, "Rendered %d segments (%v, %d bytes) in %s",
		len(timeline.Segments), duration, len(data), time.Since(startTime).Round(time.Millisecond))

	return &models.Video{
		Data:     data,
		Duration: duration,
		Timeline: timeline,
	}, nil
}

// clearWorkspace removes anything a previous, possibly aborted, run left behind
func (r *implRenderer) clearWorkspace(ctx context.Context, eng engine.Engine) {
	names, err := eng.ListDir(ctx)
	if err != nil {
		r.logger.Warn(ctx, "Failed to list workspace for clearing: %v", err)
		return
	}
	for _, name := range names {
		if err := eng.DeleteFile(ctx, name); err != nil {
			r.logger.Warn(ctx, "Failed to clear stale file %s: %v", name, err)
			continue
		}
		r.logger.Debug(ctx, "Cleared stale file: %s", name)
	}
}

// cleanup deletes every working file of a finished render. Failures are logged only.
func (r *implRenderer) cleanup(ctx context.Context, eng engine.Engine, timeline models.Timeline) {
	names := make([]string, 0, 3*len(timeline.Segments)+2)
	for _, s := range timeline.Segments {
		names = append(names, s.Frame, s.Audio, s.File)
	}
	names = append(names, manifestName, outputName)

	for _, name := range names {
		if err := eng.DeleteFile(ctx, name); err != nil {
			r.logger.Warn(ctx, "Failed to cleanup working file %s: %v", name, err)
		}
	}
}
