package archive

import (
	"strings"

	"github.com/nguyentantai21042004/deck2video/internal/logger"
)

const (
	mediaDir = "ppt/media/"
	relsDir  = "ppt/slides/_rels/"
)

type implExtractor struct {
	extensions map[string]bool
	logger     logger.Logger
}

// New creates an Extractor accepting media with the given extensions (".png", ".jpg", ...)
func New(extensions []string, log logger.Logger) Extractor {
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[e] = true
	}
	return &implExtractor{
		extensions: exts,
		logger:     log.Named("archive"),
	}
}
