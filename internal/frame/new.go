package frame

import (
	"time"

	"github.com/nguyentantai21042004/deck2video/internal/logger"
	"github.com/patrickmn/go-cache"
)

type implNormalizer struct {
	message  string
	fontPath string
	frames   *cache.Cache
	logger   logger.Logger
}

// New creates a Normalizer. Frames are memoized by source content for the life of the process.
func New(placeholderMessage, fontPath string, log logger.Logger) Normalizer {
	return &implNormalizer{
		message:  placeholderMessage,
		fontPath: fontPath,
		frames:   cache.New(30*time.Minute, 1*time.Hour),
		logger:   log.Named("frame"),
	}
}
