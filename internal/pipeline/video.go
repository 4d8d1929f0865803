package pipeline

import (
	"context"

	"github.com/nguyentantai21042004/deck2video/internal/models"
	"github.com/nguyentantai21042004/deck2video/internal/progress"
	"github.com/nguyentantai21042004/deck2video/internal/render"
)

func (s *implService) CreateVideo(ctx context.Context, slides []models.Slide, onProgress progress.Func) (*models.Video, error) {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	return s.createVideo(ctx, slides, onProgress)
}

// createVideo expects renderMu to be held
func (s *implService) createVideo(ctx context.Context, slides []models.Slide, onProgress progress.Func) (*models.Video, error) {
	eng, err := s.loader.EnsureReady(ctx)
	if err != nil {
		return nil, err
	}

	for _, o := range render.NarrationOverrun(slides, s.cfg.Video.SlideDuration) {
		if o.Delta > 0 {
			s.logger.Warn(ctx, "Slide %s narration is %v, %v will be cut off", o.SlideID, o.Narration, o.Delta)
		} else {
			s.logger.Warn(ctx, "Slide %s narration is %v, followed by %v of silence", o.SlideID, o.Narration, -o.Delta)
		}
	}

	return s.renderer.Render(ctx, eng, slides, onProgress)
}
