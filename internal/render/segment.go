package render

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/nguyentantai21042004/deck2video/internal/engine"
	"github.com/nguyentantai21042004/deck2video/internal/frame"
	"github.com/nguyentantai21042004/deck2video/internal/models"
	"github.com/nguyentantai21042004/deck2video/internal/progress"
)

// buildSegment runs one slide through WritingFrame → WritingAudio → Encoding.
// It ticks once after the frame and audio are in place and once after the encode.
func (r *implRenderer) buildSegment(ctx context.Context, eng engine.Engine, index int, slide models.Slide, tracker *progress.Tracker) (models.Segment, error) {
	seg := models.Segment{
		Index:   index,
		SlideID: slide.ID,
		Frame:   fmt.Sprintf(framePattern, index),
		Audio:   fmt.Sprintf(audioPattern, index, audioFormat(slide)),
		File:    fmt.Sprintf(segmentPattern, index),
	}

	fail := func(stage Stage, err error) (models.Segment, error) {
		r.logger.Error(ctx, "Slide %d (%s) %s -> %s: %v", index, slide.ID, stage, StageFailed, err)
		return seg, &SegmentEncodeError{Index: index, SlideID: slide.ID, Stage: stage, Err: err}
	}

	stage := StageIdle.next()
	if err := ctx.Err(); err != nil {
		return fail(stage, err)
	}
	if len(slide.Image) == 0 {
		return fail(stage, fmt.Errorf("slide has no frame"))
	}
	if err := eng.WriteFile(ctx, seg.Frame, slide.Image); err != nil {
		return fail(stage, err)
	}

	stage = stage.next()
	if err := r.writeAudio(ctx, eng, seg.Audio, slide); err != nil {
		return fail(stage, err)
	}
	tracker.Tick()

	stage = stage.next()
	if err := eng.Exec(ctx, r.encodeArgs(seg)...); err != nil {
		return fail(stage, err)
	}
	tracker.Tick()

	r.logger.Debug(ctx, "Slide %d (%s) %s -> %s", index, slide.ID, stage, stage.next())
	return seg, nil
}

// writeAudio writes the narration verbatim, or synthesizes silence of one slide duration
func (r *implRenderer) writeAudio(ctx context.Context, eng engine.Engine, name string, slide models.Slide) error {
	if slide.HasAudio() {
		return eng.WriteFile(ctx, name, slide.Audio.Data)
	}
	return eng.Exec(ctx, r.silenceArgs(name)...)
}

func (r *implRenderer) silenceArgs(name string) []string {
	src := fmt.Sprintf("anullsrc=channel_layout=%s:sample_rate=%d", r.video.ChannelLayout, r.video.SampleRate)
	return []string{
		"-f", "lavfi",
		"-i", src,
		"-t", seconds(r.video.SlideDuration),
		"-c:a", "pcm_s16le",
		name,
	}
}

// encodeArgs holds the frame for exactly one slide duration. Audio is padded and cut to
// the same length so every segment shares duration and codec parameters, which the
// stream-copy concat depends on.
func (r *implRenderer) encodeArgs(seg models.Segment) []string {
	v := r.video
	fps := strconv.Itoa(v.FrameRate)
	return []string{
		"-loop", "1",
		"-framerate", fps,
		"-i", seg.Frame,
		"-i", seg.Audio,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-c:v", v.VideoCodec,
		"-preset", v.Preset,
		"-tune", "stillimage",
		"-r", fps,
		"-pix_fmt", v.PixelFormat,
		"-vf", fmt.Sprintf("scale=%d:%d", frame.Width, frame.Height),
		"-c:a", v.AudioCodec,
		"-b:a", v.AudioBitrate,
		"-ar", strconv.Itoa(v.SampleRate),
		"-ac", strconv.Itoa(channels(v.ChannelLayout)),
		"-af", "apad",
		"-t", seconds(v.SlideDuration),
		"-movflags", "+faststart",
		seg.File,
	}
}

func audioFormat(slide models.Slide) string {
	if slide.HasAudio() && slide.Audio.Format != "" {
		return slide.Audio.Format
	}
	return silenceFormat
}

func channels(layout string) int {
	if layout == "mono" {
		return 1
	}
	return 2
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
