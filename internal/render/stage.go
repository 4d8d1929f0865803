package render

// Stage is the position of one slide in its write/encode cycle
type Stage int

const (
	StageIdle Stage = iota
	StageWritingFrame
	StageWritingAudio
	StageEncoding
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageWritingFrame:
		return "writing frame"
	case StageWritingAudio:
		return "writing audio"
	case StageEncoding:
		return "encoding"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// next is the stage that follows s on success. Done and Failed are terminal.
func (s Stage) next() Stage {
	switch s {
	case StageIdle:
		return StageWritingFrame
	case StageWritingFrame:
		return StageWritingAudio
	case StageWritingAudio:
		return StageEncoding
	default:
		return StageDone
	}
}
