package render

import (
	"time"

	"github.com/nguyentantai21042004/deck2video/internal/models"
)

// Overrun describes a slide whose narration length differs from its fixed display time.
// Positive Delta means narration is cut off; negative means trailing silence.
type Overrun struct {
	Index     int
	SlideID   string
	Narration time.Duration
	Delta     time.Duration
}

// NarrationOverrun lists slides whose narration does not match slideDuration.
// Slides without audio, or with an unknown duration, are skipped.
func NarrationOverrun(slides []models.Slide, slideDuration time.Duration) []Overrun {
	var out []Overrun
	for i, s := range slides {
		if !s.HasAudio() || s.Audio.Duration <= 0 {
			continue
		}
		if delta := s.Audio.Duration - slideDuration; delta != 0 {
			out = append(out, Overrun{
				Index:     i,
				SlideID:   s.ID,
				Narration: s.Audio.Duration,
				Delta:     delta,
			})
		}
	}
	return out
}
