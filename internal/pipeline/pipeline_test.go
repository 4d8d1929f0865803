package pipeline

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nguyentantai21042004/deck2video/internal/archive"
	"github.com/nguyentantai21042004/deck2video/internal/config"
	"github.com/nguyentantai21042004/deck2video/internal/engine"
	"github.com/nguyentantai21042004/deck2video/internal/frame"
	"github.com/nguyentantai21042004/deck2video/internal/logger"
	"github.com/nguyentantai21042004/deck2video/internal/models"
	"github.com/nguyentantai21042004/deck2video/internal/render"
	"github.com/nguyentantai21042004/deck2video/pkg/executor"
)

// memEngine keeps the workspace in memory and fakes each ffmpeg call by its output name
type memEngine struct {
	mu        sync.Mutex
	files     map[string][]byte
	durations map[string]time.Duration
	failOn    string
}

func newMemEngine() *memEngine {
	return &memEngine{files: map[string][]byte{}, durations: map[string]time.Duration{}}
}

func (m *memEngine) Source() string { return "mem" }

func (m *memEngine) WriteFile(ctx context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = data
	return nil
}

func (m *memEngine) ReadFile(ctx context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.files[name]
	if !ok {
		return nil, fmt.Errorf("%s not found", name)
	}
	return d, nil
}

func (m *memEngine) DeleteFile(ctx context.Context, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, name)
	return nil
}

func (m *memEngine) ListDir(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var names []string
	for n := range m.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func (m *memEngine) Exec(ctx context.Context, args ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := args[len(args)-1]
	if out == m.failOn {
		return errors.New("exit status 1")
	}

	var dur time.Duration
	for i, a := range args {
		if a == "-t" {
			sec, _ := strconv.ParseFloat(args[i+1], 64)
			dur = time.Duration(sec * float64(time.Second))
		}
	}
	if out == "output.mp4" {
		for _, line := range strings.Split(string(m.files["concat.txt"]), "\n") {
			dur += m.durations[strings.TrimSuffix(strings.TrimPrefix(line, "file '"), "'")]
		}
	}
	m.files[out] = []byte("media:" + out)
	m.durations[out] = dur
	return nil
}

func (m *memEngine) Probe(ctx context.Context, name string) (time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.durations[name]
	if !ok {
		return 0, fmt.Errorf("%s not found", name)
	}
	return d, nil
}

type fakeLoader struct {
	eng   engine.Engine
	err   error
	calls int
}

func (f *fakeLoader) EnsureReady(ctx context.Context) (engine.Engine, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.eng, nil
}

func (f *fakeLoader) Ready() bool { return f.err == nil }

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func rels(targets ...string) []byte {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for i, t := range targets {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="%s"/>`, i+1, t)
	}
	b.WriteString(`</Relationships>`)
	return []byte(b.String())
}

func writeDeck(t *testing.T, dir, name string, entries map[string][]byte) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	names := make([]string, 0, len(entries))
	for n := range entries {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		w, err := zw.Create(n)
		if err != nil {
			t.Fatal(err)
		}
		w.Write(entries[n])
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func threeSlideDeck(t *testing.T, dir string) string {
	red := pngBytes(t, 40, 30, color.NRGBA{R: 255, A: 255})
	blue := pngBytes(t, 30, 40, color.NRGBA{B: 255, A: 255})
	return writeDeck(t, dir, "review.pptx", map[string][]byte{
		"ppt/media/image1.png":              red,
		"ppt/media/image2.png":              blue,
		"ppt/slides/_rels/slide10.xml.rels": rels("../media/image1.png"),
		"ppt/slides/_rels/slide2.xml.rels":  rels("../media/image2.png", "../media/image1.png"),
		"ppt/slides/_rels/slide1.xml.rels":  rels("../media/image1.png"),
		"ppt/slides/_rels/slide3.xml.rels":  rels(),
		"ppt/slides/slide1.xml":             []byte("<p:sld/>"),
		"[Content_Types].xml":               []byte("<Types/>"),
	})
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := &config.Config{
		Paths: config.PathsConfig{
			Input:     filepath.Join(root, "input"),
			Output:    filepath.Join(root, "output"),
			Archived:  filepath.Join(root, "archived"),
			Narration: filepath.Join(root, "narration"),
		},
		Engine: config.EngineConfig{Workspace: filepath.Join(root, "ws")},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func newTestService(t *testing.T, cfg *config.Config, loader engine.Loader) *implService {
	t.Helper()
	return New(cfg, executor.New(), logger.Nop(), WithLoader(loader)).(*implService)
}

func frameSize(t *testing.T, data []byte) image.Point {
	t.Helper()
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("frame is not a PNG: %v", err)
	}
	return image.Pt(cfg.Width, cfg.Height)
}

func TestExtractSlides(t *testing.T) {
	cfg := testConfig(t)
	deck := threeSlideDeck(t, t.TempDir())
	svc := newTestService(t, cfg, &fakeLoader{})

	slides, err := svc.ExtractSlides(context.Background(), deck)
	if err != nil {
		t.Fatalf("ExtractSlides() error = %v", err)
	}

	wantIDs := []string{"slide-1", "slide-2", "slide-10"}
	if len(slides) != len(wantIDs) {
		t.Fatalf("got %d slides, want %d", len(slides), len(wantIDs))
	}
	for i, s := range slides {
		if s.ID != wantIDs[i] {
			t.Errorf("slides[%d].ID = %q, want %q", i, s.ID, wantIDs[i])
		}
		if want := fmt.Sprintf("Script for slide %d", s.Ordinal); s.Script != want {
			t.Errorf("slides[%d].Script = %q, want %q", i, s.Script, want)
		}
		if got := frameSize(t, s.Image); got != image.Pt(frame.Width, frame.Height) {
			t.Errorf("slides[%d] frame = %v, want 1920x1080", i, got)
		}
		if s.Placeholder {
			t.Errorf("slides[%d] unexpectedly a placeholder", i)
		}
	}
}

func TestExtractSlidesNoMediaGivesPlaceholder(t *testing.T) {
	cfg := testConfig(t)
	deck := writeDeck(t, t.TempDir(), "empty.pptx", map[string][]byte{
		"ppt/slides/slide1.xml":            []byte("<p:sld/>"),
		"ppt/slides/_rels/slide1.xml.rels": rels("../media/chart.emf"),
		"ppt/slides/_rels/slide2.xml.rels": rels(),
	})
	svc := newTestService(t, cfg, &fakeLoader{})

	slides, err := svc.ExtractSlides(context.Background(), deck)
	if err != nil {
		t.Fatalf("ExtractSlides() error = %v", err)
	}
	if len(slides) != 1 {
		t.Fatalf("got %d slides, want 1 placeholder", len(slides))
	}
	s := slides[0]
	if s.ID != "slide-1" || s.Script != placeholderScript || !s.Placeholder {
		t.Errorf("placeholder = %+v", s)
	}
	if got := frameSize(t, s.Image); got != image.Pt(frame.Width, frame.Height) {
		t.Errorf("placeholder frame = %v", got)
	}
}

func TestExtractSlidesMissingImageKeepsPosition(t *testing.T) {
	cfg := testConfig(t)
	ok := pngBytes(t, 16, 9, color.White)
	deck := writeDeck(t, t.TempDir(), "gaps.pptx", map[string][]byte{
		"ppt/media/ok.png":                 ok,
		"ppt/slides/_rels/slide1.xml.rels": rels("../media/ok.png"),
		"ppt/slides/_rels/slide2.xml.rels": rels("../media/missing.png"),
		"ppt/slides/_rels/slide3.xml.rels": rels("../media/ok.png"),
	})
	svc := newTestService(t, cfg, &fakeLoader{})

	slides, err := svc.ExtractSlides(context.Background(), deck)
	if err != nil {
		t.Fatalf("ExtractSlides() error = %v", err)
	}

	tests := []struct {
		id          string
		placeholder bool
	}{
		{"slide-1", false},
		{"slide-2", true},
		{"slide-3", false},
	}
	if len(slides) != len(tests) {
		t.Fatalf("got %d slides, want %d", len(slides), len(tests))
	}
	for i, tt := range tests {
		s := slides[i]
		if s.ID != tt.id || s.Placeholder != tt.placeholder {
			t.Errorf("slides[%d] = {%s placeholder=%v}, want {%s placeholder=%v}", i, s.ID, s.Placeholder, tt.id, tt.placeholder)
		}
		if got := frameSize(t, s.Image); got != image.Pt(frame.Width, frame.Height) {
			t.Errorf("slides[%d] frame = %v, want 1920x1080", i, got)
		}
	}
	if slides[1].Script != placeholderScript {
		t.Errorf("slides[1].Script = %q, want %q", slides[1].Script, placeholderScript)
	}
}

func TestExtractSlidesDecodeFailureUsesPlaceholderFrame(t *testing.T) {
	cfg := testConfig(t)
	deck := writeDeck(t, t.TempDir(), "broken.pptx", map[string][]byte{
		"ppt/media/image1.png":             pngBytes(t, 16, 9, color.White),
		"ppt/media/image2.png":             []byte("not a png"),
		"ppt/slides/_rels/slide1.xml.rels": rels("../media/image1.png"),
		"ppt/slides/_rels/slide2.xml.rels": rels("../media/image2.png"),
	})
	svc := newTestService(t, cfg, &fakeLoader{})

	slides, err := svc.ExtractSlides(context.Background(), deck)
	if err != nil {
		t.Fatalf("ExtractSlides() error = %v", err)
	}
	if len(slides) != 2 {
		t.Fatalf("got %d slides, want 2", len(slides))
	}
	if slides[0].Placeholder || !slides[1].Placeholder {
		t.Errorf("placeholder flags = %v, %v", slides[0].Placeholder, slides[1].Placeholder)
	}
	if slides[1].ID != "slide-2" {
		t.Errorf("substituted slide ID = %q", slides[1].ID)
	}
}

func TestExtractSlidesCorruptPackage(t *testing.T) {
	cfg := testConfig(t)
	p := filepath.Join(t.TempDir(), "bad.pptx")
	os.WriteFile(p, []byte("this is not a zip"), 0644)
	svc := newTestService(t, cfg, &fakeLoader{})

	_, err := svc.ExtractSlides(context.Background(), p)
	var pkgErr *archive.PackageFormatError
	if !errors.As(err, &pkgErr) {
		t.Errorf("error = %v, want *archive.PackageFormatError", err)
	}
}

func TestCreateVideo(t *testing.T) {
	cfg := testConfig(t)
	eng := newMemEngine()
	loader := &fakeLoader{eng: eng}
	svc := newTestService(t, cfg, loader)

	slides, err := svc.ExtractSlides(context.Background(), threeSlideDeck(t, t.TempDir()))
	if err != nil {
		t.Fatal(err)
	}

	var calls []float64
	video, err := svc.CreateVideo(context.Background(), slides, func(f float64) { calls = append(calls, f) })
	if err != nil {
		t.Fatalf("CreateVideo() error = %v", err)
	}

	if video.Duration != 15*time.Second {
		t.Errorf("Duration = %v, want 15s", video.Duration)
	}
	if len(calls) != 8 || calls[len(calls)-1] != 1 {
		t.Errorf("progress = %v, want 8 calls ending at 1", calls)
	}
	if loader.calls != 1 {
		t.Errorf("EnsureReady calls = %d, want 1", loader.calls)
	}
}

func TestCreateVideoEngineUnavailable(t *testing.T) {
	cfg := testConfig(t)
	loadErr := &engine.EngineLoadError{Failures: []engine.SourceError{{Source: "system", Err: errors.New("not found")}}}
	svc := newTestService(t, cfg, &fakeLoader{err: loadErr})

	var calls int
	_, err := svc.CreateVideo(context.Background(), []models.Slide{{ID: "slide-1", Image: []byte("x")}}, func(float64) { calls++ })
	if !errors.As(err, &loadErr) {
		t.Fatalf("error = %v, want *engine.EngineLoadError", err)
	}
	if calls != 0 {
		t.Errorf("progress reported %d times before the engine loaded", calls)
	}
}

func TestProcess(t *testing.T) {
	cfg := testConfig(t)
	os.MkdirAll(cfg.Paths.Input, 0755)
	deck := threeSlideDeck(t, cfg.Paths.Input)

	narrDir := filepath.Join(cfg.Paths.Narration, "review")
	os.MkdirAll(narrDir, 0755)
	os.WriteFile(filepath.Join(narrDir, "slide-2.mp3"), []byte("mp3"), 0644)

	eng := newMemEngine()
	svc := newTestService(t, cfg, &fakeLoader{eng: eng})

	res, err := svc.Process(context.Background(), deck, ProcessOptions{Archive: true, Handout: true})
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}

	if res.JobID == "" || res.Slides != 3 || res.Duration != 15*time.Second {
		t.Errorf("Result = %+v", res)
	}
	data, err := os.ReadFile(res.VideoPath)
	if err != nil || string(data) != "media:output.mp4" {
		t.Errorf("video file = %q, %v", data, err)
	}
	if filepath.Base(res.VideoPath) != "review.mp4" {
		t.Errorf("VideoPath = %s", res.VideoPath)
	}
	if _, err := os.Stat(res.PosterPath); err != nil {
		t.Errorf("poster missing: %v", err)
	}
	if _, err := os.Stat(res.HandoutPath); err != nil {
		t.Errorf("handout missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.Archived, "review.pptx")); err != nil {
		t.Errorf("deck not archived: %v", err)
	}
	if _, err := os.Stat(deck); !os.IsNotExist(err) {
		t.Error("deck still in input folder")
	}
	if len(eng.files) != 0 {
		t.Errorf("workspace not empty after Process: %v", eng.files)
	}
}

func TestProcessSegmentFailureWritesNothing(t *testing.T) {
	cfg := testConfig(t)
	deck := threeSlideDeck(t, t.TempDir())
	eng := newMemEngine()
	eng.failOn = "segment_001.mp4"
	svc := newTestService(t, cfg, &fakeLoader{eng: eng})

	_, err := svc.Process(context.Background(), deck, ProcessOptions{Archive: true})
	var segErr *render.SegmentEncodeError
	if !errors.As(err, &segErr) || segErr.Index != 1 {
		t.Fatalf("error = %v, want SegmentEncodeError at index 1", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.Output, "review.mp4")); !os.IsNotExist(err) {
		t.Error("video written despite failure")
	}
	if _, err := os.Stat(deck); err != nil {
		t.Error("deck archived despite failure")
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"package", fmt.Errorf("extract slides: %w", &archive.PackageFormatError{Err: errors.New("zip: not a valid zip file")}), "not a readable slide deck"},
		{"environment", &engine.UnsupportedEnvironmentError{Reason: "x", Remediation: "run on linux"}, "run on linux"},
		{"engine load", &engine.EngineLoadError{}, "could not be loaded"},
		{"segment", &render.SegmentEncodeError{Index: 2, Err: errors.New("x")}, "slide 3"},
		{"concat", &render.ConcatenationError{Err: errors.New("x")}, "could not be joined"},
		{"cancelled", fmt.Errorf("render: %w", context.Canceled), "cancelled"},
		{"other", errors.New("disk full\nmore detail"), "Something went wrong: disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UserMessage(tt.err)
			if tt.want == "" && got != "" || !strings.Contains(got, tt.want) {
				t.Errorf("UserMessage() = %q, want it to contain %q", got, tt.want)
			}
			if strings.Contains(got, "\n") {
				t.Errorf("UserMessage() spans lines: %q", got)
			}
		})
	}
}
