package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/nguyentantai21042004/deck2video/internal/frame"
	"github.com/nguyentantai21042004/deck2video/internal/logger"
	"github.com/nguyentantai21042004/deck2video/internal/models"
	"github.com/oklog/ulid/v2"
)

// Process orchestrates the entire deck processing pipeline
func (s *implService) Process(ctx context.Context, deckPath string, opts ProcessOptions) (*Result, error) {
	startTime := time.Now()
	jobID := ulid.Make().String()
	ctx = logger.WithJob(ctx, jobID)

	base := strings.TrimSuffix(filepath.Base(deckPath), filepath.Ext(deckPath))
	res := &Result{
		JobID:      jobID,
		VideoPath:  filepath.Join(s.cfg.Paths.Output, base+".mp4"),
		PosterPath: filepath.Join(s.cfg.Paths.Output, base+".webp"),
	}

	s.logger.Info(ctx, "========================================")
	s.logger.Info(ctx, "Starting deck processing: %s", deckPath)
	s.logger.Info(ctx, "========================================")

	// Step 1: Extract and normalize slides
	slides, err := s.ExtractSlides(ctx, deckPath)
	if err != nil {
		return nil, fmt.Errorf("extract slides: %w", err)
	}
	res.Slides = len(slides)

	// Step 2: Draft scripts
	if opts.GenerateScripts {
		scripted, err := s.writer.GenerateAll(ctx, slides)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			s.logger.Warn(ctx, "Skipping script generation: %v", err)
		} else {
			slides = scripted
		}
	}

	// Step 3 + 4: Attach narration and render, holding the engine for both
	video, err := s.narrateAndRender(ctx, base, slides)
	if err != nil {
		return nil, err
	}
	res.Duration = video.Duration

	// Step 5: Write outputs
	if err := writeFileAtomic(res.VideoPath, video.Data); err != nil {
		return nil, fmt.Errorf("write video: %w", err)
	}
	if err := frame.SavePoster(slides[0].Image, res.PosterPath, frame.PosterWidth); err != nil {
		s.logger.Warn(ctx, "Failed to save poster: %v", err)
		res.PosterPath = ""
	}
	if opts.Handout {
		res.HandoutPath = filepath.Join(s.cfg.Paths.Output, base+".docx")
		if err := s.writer.ExportHandout(base, slides, res.HandoutPath); err != nil {
			s.logger.Warn(ctx, "Failed to export handout: %v", err)
			res.HandoutPath = ""
		}
	}

	// Step 6: Move deck to archived folder
	if opts.Archive {
		if err := s.moveToArchived(ctx, deckPath); err != nil {
			s.logger.Warn(ctx, "Failed to move deck to archived folder: %v", err)
		}
	}

	s.logger.Info(ctx, "========================================")
	s.logger.Info(ctx, "Processing completed successfully!")
	s.logger.Info(ctx, "Output video: %s (%v, %d slides)", res.VideoPath, res.Duration, res.Slides)
	s.logger.Info(ctx, "Processing time: %s", time.Since(startTime).Round(time.Millisecond))
	s.logger.Info(ctx, "========================================")

	return res, nil
}

func (s *implService) narrateAndRender(ctx context.Context, base string, slides []models.Slide) (*models.Video, error) {
	s.renderMu.Lock()
	defer s.renderMu.Unlock()

	eng, err := s.loader.EnsureReady(ctx)
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(s.cfg.Paths.Narration, base)
	slides, err = s.narrator.Attach(ctx, eng, dir, slides)
	if err != nil {
		return nil, fmt.Errorf("attach narration: %w", err)
	}

	onProgress := func(f float64) {
		s.logger.Debug(ctx, "Render progress: %.0f%%", f*100)
	}

	return s.createVideo(ctx, slides, onProgress)
}

// moveToArchived moves the processed deck out of the input folder
func (s *implService) moveToArchived(ctx context.Context, deckPath string) error {
	if err := os.MkdirAll(s.cfg.Paths.Archived, 0755); err != nil {
		return fmt.Errorf("create archived dir: %w", err)
	}
	dest := filepath.Join(s.cfg.Paths.Archived, filepath.Base(deckPath))

	s.logger.Info(ctx, "Moving to archived folder: %s -> %s", deckPath, dest)

	if err := os.Rename(deckPath, dest); err != nil {
		return fmt.Errorf("move to archived: %w", err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		return errors.Join(err, os.Remove(tmp))
	}
	return nil
}
