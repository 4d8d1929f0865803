package narration

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nguyentantai21042004/deck2video/internal/logger"
	"github.com/nguyentantai21042004/deck2video/internal/models"
)

type probeEngine struct {
	files    map[string][]byte
	duration time.Duration
	err      error
}

func (p *probeEngine) Source() string { return "fake" }

func (p *probeEngine) WriteFile(ctx context.Context, name string, data []byte) error {
	p.files[name] = data
	return nil
}

func (p *probeEngine) ReadFile(ctx context.Context, name string) ([]byte, error) {
	return p.files[name], nil
}

func (p *probeEngine) DeleteFile(ctx context.Context, name string) error {
	delete(p.files, name)
	return nil
}

func (p *probeEngine) ListDir(ctx context.Context) ([]string, error) { return nil, nil }

func (p *probeEngine) Exec(ctx context.Context, args ...string) error { return nil }

func (p *probeEngine) Probe(ctx context.Context, name string) (time.Duration, error) {
	if _, ok := p.files[name]; !ok {
		return 0, errors.New("not in workspace")
	}
	return p.duration, p.err
}

func writeTrack(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
}

func testSlides() []models.Slide {
	return []models.Slide{
		{ID: "slide-1", Ordinal: 1, Script: strings.Repeat("word ", 300)},
		{ID: "slide-2", Ordinal: 2, Script: "short"},
		{ID: "slide-3", Ordinal: 3, Script: strings.Repeat("word ", 75)},
	}
}

func TestAttachProbesDuration(t *testing.T) {
	dir := t.TempDir()
	writeTrack(t, dir, "slide-1.mp3", "mp3-data")
	writeTrack(t, dir, "slide-3.wav", "wav-data")

	eng := &probeEngine{files: map[string][]byte{}, duration: 4200 * time.Millisecond}
	slides := testSlides()

	got, err := New(logger.Nop()).Attach(context.Background(), eng, dir, slides)
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	if got[0].Audio == nil || got[0].Audio.Format != "mp3" || string(got[0].Audio.Data) != "mp3-data" {
		t.Errorf("slide-1 audio = %+v", got[0].Audio)
	}
	if got[0].Audio.Duration != 4200*time.Millisecond || got[0].Audio.Estimated {
		t.Errorf("slide-1 duration = %v estimated=%v", got[0].Audio.Duration, got[0].Audio.Estimated)
	}
	if got[1].Audio != nil {
		t.Errorf("slide-2 audio = %+v, want none", got[1].Audio)
	}
	if got[2].Audio == nil || got[2].Audio.Format != "wav" {
		t.Errorf("slide-3 audio = %+v", got[2].Audio)
	}
	if slides[0].Audio != nil {
		t.Error("Attach modified its input")
	}
	if len(eng.files) != 0 {
		t.Errorf("probe files left in workspace: %v", eng.files)
	}
}

func TestAttachEstimatesWithoutEngine(t *testing.T) {
	dir := t.TempDir()
	writeTrack(t, dir, "slide-1.m4a", "m4a-data")
	writeTrack(t, dir, "slide-3.aac", "aac-data")

	got, err := New(logger.Nop()).Attach(context.Background(), nil, dir, testSlides())
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}

	tests := []struct {
		idx  int
		want time.Duration
	}{
		{0, 2 * time.Minute},
		{2, 30 * time.Second},
	}
	for _, tt := range tests {
		a := got[tt.idx].Audio
		if a == nil || !a.Estimated || a.Duration != tt.want {
			t.Errorf("slide %d audio = %+v, want estimated %v", tt.idx, a, tt.want)
		}
	}
}

func TestAttachFallsBackWhenProbeFails(t *testing.T) {
	dir := t.TempDir()
	writeTrack(t, dir, "slide-3.wav", "wav-data")
	eng := &probeEngine{files: map[string][]byte{}, err: errors.New("invalid data")}

	got, err := New(logger.Nop()).Attach(context.Background(), eng, dir, testSlides())
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	if a := got[2].Audio; a == nil || !a.Estimated || a.Duration != 30*time.Second {
		t.Errorf("slide-3 audio = %+v", a)
	}
}

func TestAttachSkipsEmptyTrack(t *testing.T) {
	dir := t.TempDir()
	writeTrack(t, dir, "slide-2.wav", "")

	got, err := New(logger.Nop()).Attach(context.Background(), nil, dir, testSlides())
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	if got[1].Audio != nil {
		t.Errorf("empty track attached: %+v", got[1].Audio)
	}
}

func TestAttachMissingDirectory(t *testing.T) {
	got, err := New(logger.Nop()).Attach(context.Background(), nil, filepath.Join(t.TempDir(), "absent"), testSlides())
	if err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	for _, s := range got {
		if s.HasAudio() {
			t.Errorf("%s has audio", s.ID)
		}
	}
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		script string
		want   time.Duration
	}{
		{"", 0},
		{"   ", 0},
		{"one", 400 * time.Millisecond},
		{strings.Repeat("w ", 150), time.Minute},
		{"two  spaced\nwords", 1200 * time.Millisecond},
	}
	for _, tt := range tests {
		if got := Estimate(tt.script); got != tt.want {
			t.Errorf("Estimate(%q) = %v, want %v", tt.script, got, tt.want)
		}
	}
}
