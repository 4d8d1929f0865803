// Package narration attaches recorded narration tracks to slides.
package narration

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/deck2video/internal/engine"
	"github.com/nguyentantai21042004/deck2video/internal/logger"
	"github.com/nguyentantai21042004/deck2video/internal/models"
)

// WordsPerMinute is the speaking rate assumed when a track cannot be probed
const WordsPerMinute = 150

// Formats lists the accepted track extensions in lookup order
var Formats = []string{"wav", "mp3", "m4a", "aac"}

// probeName is the scratch file used to measure a track inside the engine workspace
const probeName = "narration_probe"

// Attacher looks up slide-<N>.<ext> tracks in a directory
type Attacher interface {
	// Attach returns a copy of slides with Audio set where a track exists. eng may be nil,
	// in which case durations are estimated from the script.
	Attach(ctx context.Context, eng engine.Engine, dir string, slides []models.Slide) ([]models.Slide, error)
}

type implAttacher struct {
	logger logger.Logger
}

// New creates an Attacher
func New(log logger.Logger) Attacher {
	return &implAttacher{logger: log.Named("narration")}
}

func (a *implAttacher) Attach(ctx context.Context, eng engine.Engine, dir string, slides []models.Slide) ([]models.Slide, error) {
	out := make([]models.Slide, len(slides))
	copy(out, slides)

	if dir == "" {
		return out, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		a.logger.Debug(ctx, "Narration directory %s does not exist, all slides silent", dir)
		return out, nil
	}

	attached := 0
	for i := range out {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		path, format, ok := findTrack(dir, out[i].Ordinal)
		if !ok {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read narration %s: %w", path, err)
		}
		if len(data) == 0 {
			a.logger.Warn(ctx, "Narration %s is empty, slide %s stays silent", path, out[i].ID)
			continue
		}

		audio := &models.NarrationAudio{Data: data, Format: format}
		if d, err := a.probe(ctx, eng, format, data); err == nil {
			audio.Duration = d
		} else {
			if eng != nil {
				a.logger.Warn(ctx, "Failed to probe %s, estimating from script: %v", path, err)
			}
			audio.Duration = Estimate(out[i].Script)
			audio.Estimated = true
		}

		out[i].Audio = audio
		attached++
		a.logger.Debug(ctx, "Attached %s to %s (%v)", filepath.Base(path), out[i].ID, audio.Duration)
	}

	a.logger.Info(ctx, "Attached narration to %d of %d slides", attached, len(out))
	return out, nil
}

func (a *implAttacher) probe(ctx context.Context, eng engine.Engine, format string, data []byte) (time.Duration, error) {
	if eng == nil {
		return 0, fmt.Errorf("no engine")
	}
	name := probeName + "." + format
	if err := eng.WriteFile(ctx, name, data); err != nil {
		return 0, err
	}
	defer func() {
		if err := eng.DeleteFile(ctx, name); err != nil {
			a.logger.Warn(ctx, "Failed to cleanup %s: %v", name, err)
		}
	}()
	return eng.Probe(ctx, name)
}

// findTrack returns the first existing slide-<ordinal>.<ext>
func findTrack(dir string, ordinal int) (string, string, bool) {
	for _, ext := range Formats {
		p := filepath.Join(dir, fmt.Sprintf("slide-%d.%s", ordinal, ext))
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, ext, true
		}
	}
	return "", "", false
}

// Estimate is the speaking time of script at WordsPerMinute
func Estimate(script string) time.Duration {
	words := len(strings.Fields(script))
	return time.Duration(words) * time.Minute / WordsPerMinute
}
