// Package summarizer provides summary generation for playback runs.
package summarizer

import (
	"time"

	"github.com/user/vidplay/pkg/media"
)

// Summary contains all data collected during a playback session.
type Summary struct {
	// Metadata
	GeneratedAt time.Time `json:"generatedAt"`

	// Input file
	Input InputInfo `json:"input"`

	// Selected video stream
	Stream StreamInfo `json:"stream"`

	// Playback results
	Playback PlaybackInfo `json:"playback"`

	// Playback settings
	Settings Settings `json:"settings"`
}

// InputInfo describes the played file.
type InputInfo struct {
	Path       string `json:"path"`
	FormatName string `json:"formatName,omitempty"`
	FileSize   int64  `json:"fileSize,omitempty"`
}

// StreamInfo describes the selected video stream.
type StreamInfo struct {
	Codec       string  `json:"codec"`
	PixelFormat string  `json:"pixelFormat"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	TimeBase    string  `json:"timeBase"`
	FrameRate   float64 `json:"frameRate,omitempty"`
	BitRate     int64   `json:"bitRate,omitempty"`
	DurationUs  int64   `json:"durationUs"` // <= 0 when the container does not declare one
}

// PlaybackInfo contains the outcome of the run.
type PlaybackInfo struct {
	Reason          string  `json:"reason"`
	Error           string  `json:"error,omitempty"`
	FramesDecoded   int     `json:"framesDecoded"`
	FramesDisplayed int     `json:"framesDisplayed"`
	FramesSkipped   int     `json:"framesSkipped"`
	LateFrames      int     `json:"lateFrames"`
	MaxLatenessMs   int     `json:"maxLatenessMs"`
	FirstPTS        float64 `json:"firstPts"`
	LastPTS         float64 `json:"lastPts"`
	WallTimeMs      int     `json:"wallTimeMs"`
}

// Settings contains the playback configuration.
type Settings struct {
	Surface       string `json:"surface,omitempty"`
	WindowWidth   int    `json:"windowWidth,omitempty"`
	WindowHeight  int    `json:"windowHeight,omitempty"`
	OnDecodeError string `json:"onDecodeError,omitempty"`
	WaitSliceMs   int    `json:"waitSliceMs,omitempty"`
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithInput sets input file information.
func (b *Builder) WithInput(path, formatName string, fileSize int64) *Builder {
	b.summary.Input = InputInfo{
		Path:       path,
		FormatName: formatName,
		FileSize:   fileSize,
	}
	return b
}

// WithStream copies the probed stream properties.
func (b *Builder) WithStream(info media.StreamInfo) *Builder {
	b.summary.Stream = StreamInfo{
		Codec:       info.CodecName,
		PixelFormat: info.PixelFormat,
		Width:       info.Width,
		Height:      info.Height,
		TimeBase:    info.TimeBase.String(),
		FrameRate:   info.FrameRate.Float64(),
		BitRate:     info.BitRate,
		DurationUs:  info.DurationUs,
	}
	if b.summary.Input.FormatName == "" {
		b.summary.Input.FormatName = info.FormatName
	}
	return b
}

// WithPlayback sets the playback outcome.
func (b *Builder) WithPlayback(playback PlaybackInfo) *Builder {
	b.summary.Playback = playback
	return b
}

// WithError records the error that ended playback, if any.
func (b *Builder) WithError(err error) *Builder {
	if err != nil {
		b.summary.Playback.Error = err.Error()
	}
	return b
}

// WithSettings sets playback settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
