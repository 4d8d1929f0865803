package render

import (
	"github.com/nguyentantai21042004/deck2video/internal/config"
	"github.com/nguyentantai21042004/deck2video/internal/logger"
)

// Working file names inside the engine workspace
const (
	framePattern   = "slide_%03d.png"
	audioPattern   = "audio_%03d.%s"
	segmentPattern = "segment_%03d.mp4"
	manifestName   = "concat.txt"
	outputName     = "output.mp4"

	silenceFormat = "wav"
)

type implRenderer struct {
	video  config.VideoConfig
	logger logger.Logger
}

// New creates a Renderer using the given encode settings
func New(video config.VideoConfig, log logger.Logger) Renderer {
	return &implRenderer{
		video:  video,
		logger: log.Named("render"),
	}
}
