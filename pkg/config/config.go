// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/user/vidplay/pkg/orchestrator"
	"github.com/user/vidplay/pkg/playback"
	"github.com/user/vidplay/pkg/ports"
)

// Config represents the full configuration for vidplay.
type Config struct {
	// Input
	Input string `yaml:"input"`

	// Presentation
	Window   WindowConfig `yaml:"window"`
	Headless bool         `yaml:"headless"`

	// Playback
	Playback PlaybackConfig `yaml:"playback"`

	// Contact sheet
	Thumbs ThumbsConfig `yaml:"thumbs"`

	// Debug
	Debug DebugConfig `yaml:"debug"`

	// Logging
	Log LogConfig `yaml:"log"`

	// Report
	Report string `yaml:"report"`
}

// WindowConfig represents the playback window.
type WindowConfig struct {
	Width  int    `yaml:"width"`  // 0 = stream width
	Height int    `yaml:"height"` // 0 = stream height
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

// PlaybackConfig represents pacing and error handling.
type PlaybackConfig struct {
	OnDecodeError        string `yaml:"on_decode_error"`
	MaxConsecutiveErrors int    `yaml:"max_consecutive_errors"`
	WaitSliceMs          int    `yaml:"wait_slice_ms"`
	LateThresholdMs      int    `yaml:"late_threshold_ms"`
}

// ThumbsConfig represents contact sheet options.
type ThumbsConfig struct {
	EveryMs    int         `yaml:"every_ms"`
	MaxThumbs  int         `yaml:"max_thumbs"`
	Columns    int         `yaml:"columns"`
	ThumbWidth int         `yaml:"thumb_width"`
	Gap        int         `yaml:"gap"`
	Padding    int         `yaml:"padding"`
	Labels     bool        `yaml:"labels"`
	Quality    int         `yaml:"quality"`
	Theme      ThemeConfig `yaml:"theme"`
}

// ThemeConfig represents theming options.
type ThemeConfig struct {
	BackgroundColor string `yaml:"background_color"`
	BorderColor     string `yaml:"border_color"`
	LabelColor      string `yaml:"label_color"`
}

// DebugConfig represents debug output options.
type DebugConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
	Every   int    `yaml:"every"`
}

// LogConfig represents logging options.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Window: WindowConfig{
			Title: "vidplay",
			VSync: false,
		},

		Playback: PlaybackConfig{
			OnDecodeError:        string(playback.PolicyAbort),
			MaxConsecutiveErrors: 10,
			WaitSliceMs:          10,
			LateThresholdMs:      50,
		},

		Thumbs: ThumbsConfig{
			EveryMs:    1000,
			MaxThumbs:  64,
			Columns:    4,
			ThumbWidth: 240,
			Gap:        8,
			Padding:    16,
			Labels:     true,
			Quality:    90,
			Theme: ThemeConfig{
				BackgroundColor: "#1e1e1e",
				BorderColor:     "#505050",
				LabelColor:      "#dcdcdc",
			},
		},

		Debug: DebugConfig{
			Dir:   "./debug",
			Every: 30,
		},

		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadFromFile loads configuration from a YAML file on top of Defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks values that cannot be clamped.
func (c Config) Validate() error {
	if _, err := playback.ParseDecodeErrorPolicy(c.Playback.OnDecodeError); err != nil {
		return fmt.Errorf("config: playback.on_decode_error: %w", err)
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("config: log.format: unknown format %q", c.Log.Format)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error", "quiet":
	default:
		return fmt.Errorf("config: log.level: unknown level %q", c.Log.Level)
	}
	if c.Window.Width < 0 || c.Window.Height < 0 {
		return fmt.Errorf("config: window size %dx%d is negative", c.Window.Width, c.Window.Height)
	}
	for name, hex := range map[string]string{
		"background_color": c.Thumbs.Theme.BackgroundColor,
		"border_color":     c.Thumbs.Theme.BorderColor,
		"label_color":      c.Thumbs.Theme.LabelColor,
	} {
		if hex != "" && !ValidColor(hex) {
			return fmt.Errorf("config: thumbs.theme.%s: invalid color %q", name, hex)
		}
	}
	return nil
}

// ToPlayConfig converts Config to orchestrator.PlayConfig.
// The policy must have passed Validate.
func (c Config) ToPlayConfig() orchestrator.PlayConfig {
	policy, _ := playback.ParseDecodeErrorPolicy(c.Playback.OnDecodeError)

	surface := "sdl"
	if c.Headless {
		surface = "headless"
	}

	debugEvery := 0
	if c.Debug.Enabled {
		debugEvery = c.Debug.Every
	}

	return orchestrator.PlayConfig{
		Input: c.Input,
		Playback: playback.Options{
			OnDecodeError:        policy,
			MaxConsecutiveErrors: c.Playback.MaxConsecutiveErrors,
			LateThreshold:        time.Duration(c.Playback.LateThresholdMs) * time.Millisecond,
			DebugEvery:           debugEvery,
		},
		WaitSlice:    time.Duration(c.Playback.WaitSliceMs) * time.Millisecond,
		SurfaceName:  surface,
		WindowWidth:  c.Window.Width,
		WindowHeight: c.Window.Height,
		ReportPath:   c.Report,
	}
}

// ToThumbsConfig converts Config to orchestrator.ThumbsConfig.
func (c Config) ToThumbsConfig(outputPath string) orchestrator.ThumbsConfig {
	cfg := orchestrator.DefaultThumbsConfig()
	cfg.Input = c.Input
	cfg.OutputPath = outputPath
	cfg.Every = time.Duration(c.Thumbs.EveryMs) * time.Millisecond
	cfg.MaxThumbs = c.Thumbs.MaxThumbs
	cfg.Columns = c.Thumbs.Columns
	cfg.ThumbWidth = c.Thumbs.ThumbWidth
	cfg.Gap = c.Thumbs.Gap
	cfg.Padding = c.Thumbs.Padding
	cfg.ShowLabels = c.Thumbs.Labels
	cfg.JPEGQuality = c.Thumbs.Quality
	cfg.BackgroundColor = colorToArray(c.Thumbs.Theme.BackgroundColor)
	cfg.BorderColor = colorToArray(c.Thumbs.Theme.BorderColor)
	cfg.LabelColor = colorToArray(c.Thumbs.Theme.LabelColor)
	return cfg
}

// LogLevel returns the parsed log level.
func (c Config) LogLevel() ports.LogLevel {
	return ports.ParseLogLevel(c.Log.Level)
}

// ParseColor parses a hex color string (#rgb or #rrggbb) to color.Color.
// Invalid input yields black.
func ParseColor(hex string) color.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return color.Black
	}

	var rgb [3]uint8
	for i := range rgb {
		rgb[i] = hexValue(hex[i*2])<<4 | hexValue(hex[i*2+1])
	}

	return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 255}
}

// ValidColor reports whether hex is a #rgb or #rrggbb color.
func ValidColor(hex string) bool {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 3 && len(hex) != 6 {
		return false
	}
	for i := 0; i < len(hex); i++ {
		c := hex[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}

func hexValue(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	default:
		return 0
	}
}

// colorToArray converts a hex color to an RGBA array; empty stays zero.
func colorToArray(hex string) [4]uint8 {
	if hex == "" {
		return [4]uint8{}
	}
	r, g, b, a := ParseColor(hex).RGBA()
	return [4]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}
