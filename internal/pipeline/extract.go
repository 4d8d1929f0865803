package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/deck2video/internal/archive"
	"github.com/nguyentantai21042004/deck2video/internal/frame"
	"github.com/nguyentantai21042004/deck2video/internal/models"
	"golang.org/x/sync/errgroup"
)

const (
	placeholderScript = "No content available for this slide."
	defaultScript     = "Script for slide %d"
)

// ExtractSlides opens the deck, resolves one image per slide and normalizes the frames
// in parallel. A slide whose image is missing from the package or fails to decode keeps
// its position with the placeholder frame. A deck without any usable image becomes a
// single placeholder slide.
func (s *implService) ExtractSlides(ctx context.Context, deckPath string) ([]models.Slide, error) {
	startTime := time.Now()

	pkg, err := s.extractor.Open(ctx, deckPath)
	if err != nil {
		return nil, err
	}

	images, skipped := pkg.SlideImages()
	for _, ordinal := range skipped {
		s.logger.Warn(ctx, "Slide %d references no media, skipping", ordinal)
	}

	if !anyResolved(images) {
		s.logger.Warn(ctx, "No usable slide images in %s, using placeholder", deckPath)
		ph, err := s.placeholderSlide(ctx)
		if err != nil {
			return nil, err
		}
		return []models.Slide{ph}, nil
	}

	slides := make([]models.Slide, len(images))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Performance.MaxConcurrent)

	for i, img := range images {
		g.Go(func() error {
			slide := models.Slide{
				ID:      slideID(img.Ordinal),
				Ordinal: img.Ordinal,
				Script:  fmt.Sprintf(defaultScript, img.Ordinal),
			}

			if img.Missing {
				s.logger.Warn(gctx, "Slide %d: image %s not found in package, using placeholder frame", img.Ordinal, img.Asset.Name)
				data, err := s.normalizer.Placeholder(gctx)
				if err != nil {
					return err
				}
				slide.Image = data
				slide.Script = placeholderScript
				slide.Placeholder = true
				slides[i] = slide
				return nil
			}

			data, err := s.normalizer.Normalize(gctx, img.Asset)
			var decodeErr *frame.ImageDecodeError
			switch {
			case errors.As(err, &decodeErr):
				s.logger.Warn(gctx, "Slide %d: %v, using placeholder frame", img.Ordinal, err)
				data, err = s.normalizer.Placeholder(gctx)
				if err != nil {
					return err
				}
				slide.Placeholder = true
			case err != nil:
				return fmt.Errorf("normalize slide %d: %w", img.Ordinal, err)
			}

			slide.Image = data
			slides[i] = slide
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Extracted %d slides from %s in %s", len(slides), deckPath, time.Since(startTime).Round(time.Millisecond))
	return slides, nil
}

func (s *implService) placeholderSlide(ctx context.Context) (models.Slide, error) {
	data, err := s.normalizer.Placeholder(ctx)
	if err != nil {
		return models.Slide{}, err
	}
	return models.Slide{
		ID:          slideID(1),
		Ordinal:     1,
		Image:       data,
		Script:      placeholderScript,
		Placeholder: true,
	}, nil
}

func anyResolved(images []archive.SlideImage) bool {
	for _, img := range images {
		if !img.Missing {
			return true
		}
	}
	return false
}

func slideID(ordinal int) string {
	return fmt.Sprintf("slide-%d", ordinal)
}
