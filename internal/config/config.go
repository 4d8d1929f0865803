package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	SourceKindPath = "path"
	SourceKindHTTP = "http"
)

type Config struct {
	Engine      EngineConfig      `yaml:"engine"`
	Video       VideoConfig       `yaml:"video"`
	Slides      SlidesConfig      `yaml:"slides"`
	Paths       PathsConfig       `yaml:"paths"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Gemini      GeminiConfig      `yaml:"gemini"`
}

type EngineConfig struct {
	Workspace    string          `yaml:"workspace"`
	CacheDir     string          `yaml:"cache_dir"`
	FetchTimeout time.Duration   `yaml:"fetch_timeout"`
	Resources    ResourcesConfig `yaml:"resources"`
	Sources      []SourceConfig  `yaml:"sources"`
}

// ResourcesConfig names the files every http source serves
type ResourcesConfig struct {
	Core      string `yaml:"core"`
	Probe     string `yaml:"probe"`
	Checksums string `yaml:"checksums"`
}

// SourceConfig is one candidate location for the encoder binaries, tried in list order
type SourceConfig struct {
	Name    string `yaml:"name"`
	Kind    string `yaml:"kind"`
	BaseURL string `yaml:"base_url"`
}

type VideoConfig struct {
	SlideDuration time.Duration `yaml:"slide_duration"`
	FrameRate     int           `yaml:"frame_rate"`
	VideoCodec    string        `yaml:"video_codec"`
	Preset        string        `yaml:"preset"`
	PixelFormat   string        `yaml:"pixel_format"`
	AudioCodec    string        `yaml:"audio_codec"`
	AudioBitrate  string        `yaml:"audio_bitrate"`
	SampleRate    int           `yaml:"sample_rate"`
	ChannelLayout string        `yaml:"channel_layout"`
}

type SlidesConfig struct {
	MediaExtensions    []string `yaml:"media_extensions"`
	PlaceholderMessage string   `yaml:"placeholder_message"`
	FontPath           string   `yaml:"font_path"`
}

type PathsConfig struct {
	Input     string `yaml:"input"`
	Output    string `yaml:"output"`
	Archived  string `yaml:"archived"`
	Narration string `yaml:"narration"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type PerformanceConfig struct {
	MaxConcurrent int `yaml:"max_concurrent"`
}

type GeminiConfig struct {
	Model             string   `yaml:"model"`
	RequestsPerSecond float64  `yaml:"requests_per_second"`
	APIKeys           []string `yaml:"-"`
}

// Load reads a YAML config file, applies environment overrides and validates it
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Default returns a validated configuration for running without a config file
func Default() *Config {
	cfg := &Config{}
	cfg.applyEnv()
	_ = cfg.Validate()
	return cfg
}

// applyEnv pulls secrets from the environment; keys never live in the YAML file.
func (c *Config) applyEnv() {
	if v := envOrDefault("GEMINI_API_KEYS", ""); v != "" {
		for _, k := range strings.Split(v, ",") {
			if k = strings.TrimSpace(k); k != "" {
				c.Gemini.APIKeys = append(c.Gemini.APIKeys, k)
			}
		}
	}
	if v := envOrDefault("GEMINI_API_KEY", ""); v != "" && len(c.Gemini.APIKeys) == 0 {
		c.Gemini.APIKeys = []string{v}
	}
	if v := envOrDefault("GEMINI_MODEL", ""); v != "" {
		c.Gemini.Model = v
	}
}

func (c *Config) Validate() error {
	for i, src := range c.Engine.Sources {
		if src.Name == "" {
			return fmt.Errorf("engine.sources[%d].name is required", i)
		}
		switch src.Kind {
		case SourceKindPath:
		case SourceKindHTTP:
			if src.BaseURL == "" {
				return fmt.Errorf("engine.sources[%d].base_url is required for kind %q", i, src.Kind)
			}
		default:
			return fmt.Errorf("engine.sources[%d].kind %q is not one of %q, %q", i, src.Kind, SourceKindPath, SourceKindHTTP)
		}
	}
	if c.Video.SlideDuration < 0 {
		return fmt.Errorf("video.slide_duration must be positive")
	}

	if len(c.Engine.Sources) == 0 {
		c.Engine.Sources = []SourceConfig{{Name: "system", Kind: SourceKindPath}}
	}
	if c.Engine.Workspace == "" {
		c.Engine.Workspace = "data/workspace"
	}
	if c.Engine.CacheDir == "" {
		c.Engine.CacheDir = "data/engine"
	}
	if c.Engine.FetchTimeout == 0 {
		c.Engine.FetchTimeout = 2 * time.Minute
	}
	if c.Engine.Resources.Core == "" {
		c.Engine.Resources.Core = "ffmpeg"
	}
	if c.Engine.Resources.Probe == "" {
		c.Engine.Resources.Probe = "ffprobe"
	}
	if c.Engine.Resources.Checksums == "" {
		c.Engine.Resources.Checksums = "SHA256SUMS"
	}

	if c.Video.SlideDuration == 0 {
		c.Video.SlideDuration = 5 * time.Second
	}
	if c.Video.FrameRate == 0 {
		c.Video.FrameRate = 30
	}
	if c.Video.VideoCodec == "" {
		c.Video.VideoCodec = "libx264"
	}
	if c.Video.Preset == "" {
		c.Video.Preset = "medium"
	}
	if c.Video.PixelFormat == "" {
		c.Video.PixelFormat = "yuv420p"
	}
	if c.Video.AudioCodec == "" {
		c.Video.AudioCodec = "aac"
	}
	if c.Video.AudioBitrate == "" {
		c.Video.AudioBitrate = "192k"
	}
	if c.Video.SampleRate == 0 {
		c.Video.SampleRate = 44100
	}
	if c.Video.ChannelLayout == "" {
		c.Video.ChannelLayout = "stereo"
	}

	if len(c.Slides.MediaExtensions) == 0 {
		c.Slides.MediaExtensions = []string{".png", ".jpg", ".jpeg"}
	}
	if c.Slides.PlaceholderMessage == "" {
		c.Slides.PlaceholderMessage = "No slide content found"
	}

	if c.Paths.Input == "" {
		c.Paths.Input = "data/input"
	}
	if c.Paths.Output == "" {
		c.Paths.Output = "data/output"
	}
	if c.Paths.Archived == "" {
		c.Paths.Archived = "data/archived"
	}
	if c.Paths.Narration == "" {
		c.Paths.Narration = "data/narration"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Performance.MaxConcurrent == 0 {
		c.Performance.MaxConcurrent = 2
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.5-flash"
	}
	if c.Gemini.RequestsPerSecond == 0 {
		c.Gemini.RequestsPerSecond = 1
	}

	return nil
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
