package models

import (
	"sort"
	"time"
)

// MediaAsset is one raster image recovered from a deck package
type MediaAsset struct {
	Name        string // base filename inside the media directory
	ContentType string
	Data        []byte
}

// RelationshipMap maps a 1-based slide ordinal to the media names it references, in descriptor order
type RelationshipMap map[int][]string

// Ordinals returns the slide ordinals in ascending order
func (m RelationshipMap) Ordinals() []int {
	out := make([]int, 0, len(m))
	for n := range m {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// NarrationAudio is the spoken track attached to a slide
type NarrationAudio struct {
	Data      []byte
	Format    string // file extension without the dot: wav, mp3, m4a, aac
	Duration  time.Duration
	Estimated bool // true when Duration comes from the word-count estimate rather than a probe
}

// Slide is one logical unit of the deck
type Slide struct {
	ID      string
	Ordinal int
	Image   []byte // canonical 1920x1080 PNG
	Script  string
	Audio   *NarrationAudio

	Placeholder bool
}

// HasAudio reports whether narration was attached
func (s Slide) HasAudio() bool {
	return s.Audio != nil && len(s.Audio.Data) > 0
}
