package models

import "time"

// Segment is the encoded audio/video unit for exactly one slide
type Segment struct {
	Index   int
	SlideID string
	Frame   string
	Audio   string
	File    string
}

// Timeline is the ordered segment list plus the concat manifest describing it
type Timeline struct {
	Segments []Segment
	Manifest string
}

// Files lists the segment filenames in timeline order
func (t Timeline) Files() []string {
	out := make([]string, len(t.Segments))
	for i, s := range t.Segments {
		out[i] = s.File
	}
	return out
}

// Video is the final concatenated output
type Video struct {
	Data     []byte
	Duration time.Duration // probed; zero if the probe failed
	Timeline Timeline
}
