// Package orchestrator wires the playback components together for one file.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/asticode/go-astikit"

	"github.com/user/vidplay/pkg/media"
	"github.com/user/vidplay/pkg/playback"
	"github.com/user/vidplay/pkg/ports"
	"github.com/user/vidplay/pkg/summarizer"
)

// SurfaceFactory opens the presentation surface for a probed stream.
type SurfaceFactory func(info media.StreamInfo) (ports.Surface, error)

// PlayConfig contains all configuration for one playback run.
type PlayConfig struct {
	// Input
	Input string

	// Playback
	Playback  playback.Options
	WaitSlice time.Duration

	// Surface description, only used for the summary
	SurfaceName  string
	WindowWidth  int
	WindowHeight int

	// Output
	ReportPath string
}

// DefaultPlayConfig returns a PlayConfig with default values.
func DefaultPlayConfig() PlayConfig {
	return PlayConfig{
		Playback:    playback.DefaultOptions(),
		WaitSlice:   playback.MaxWaitSlice,
		SurfaceName: "sdl",
	}
}

// RunResult contains the results of a playback run for summary generation.
type RunResult struct {
	Info    media.StreamInfo
	Reason  playback.StopReason
	Stats   playback.Stats
	Summary *summarizer.Summary
}

// Orchestrator runs probe, conversion, pacing and display for one file and
// tears everything down in reverse order afterwards.
type Orchestrator struct {
	prober     ports.StreamProber
	converters ports.ConverterFactory
	surfaces   SurfaceFactory
	wall       ports.WallClock
	fs         ports.FileSystem
	sink       ports.DebugSink
	formatter  summarizer.Formatter
	logger     ports.Logger
}

// New creates a new Orchestrator.
func New(
	prober ports.StreamProber,
	converters ports.ConverterFactory,
	surfaces SurfaceFactory,
	wall ports.WallClock,
	fs ports.FileSystem,
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		prober:     prober,
		converters: converters,
		surfaces:   surfaces,
		wall:       wall,
		fs:         fs,
		sink:       sink,
		formatter:  summarizer.NewMarkdownFormatter(),
		logger:     logger,
	}
}

// SetFormatter replaces the formatter used for reports.
func (o *Orchestrator) SetFormatter(f summarizer.Formatter) {
	o.formatter = f
}

// Play plays cfg.Input until the stream ends, the duration is reached, the
// surface is closed or ctx is cancelled. The error is non-nil for
// initialization failures and aborting decode errors; a clean stop returns
// nil. Resources are released before Play returns, so a following call may
// open another file.
func (o *Orchestrator) Play(ctx context.Context, cfg PlayConfig) (result RunResult, err error) {
	o.logger.Info("Opening %s", cfg.Input)

	c := astikit.NewCloser()
	defer func() {
		if cerr := c.Close(); cerr != nil {
			o.logger.Warn("Teardown failed: %v", cerr)
		}
	}()

	// 1. Probe and open the decoder
	session, info, err := o.prober.Probe(cfg.Input)
	if err != nil {
		o.logger.Error("Failed to open %s: %v", cfg.Input, err)
		return RunResult{}, fmt.Errorf("probe: %w", err)
	}
	c.Add(func() {
		if err := session.Close(); err != nil {
			o.logger.Warn("Failed to close decoder: %v", err)
		}
	})
	result.Info = info
	o.logger.Info("Video stream: %s %dx%d, time base %s", info.CodecName, info.Width, info.Height, info.TimeBase)
	o.saveStreamJSON(info)

	// 2. Pixel converter
	converter := o.converters()
	c.Add(converter.Close)

	// 3. Surface
	surface, err := o.surfaces(info)
	if err != nil {
		o.logger.Error("Failed to open surface: %v", err)
		return result, fmt.Errorf("open surface: %w", err)
	}
	c.Add(func() {
		if err := surface.Close(); err != nil {
			o.logger.Warn("Failed to close surface: %v", err)
		}
	})
	surface.OnResize(func(w, h int) {
		o.logger.Debug("Surface resized to %dx%d", w, h)
	})

	// 4. Drive playback
	clock := playback.NewClock(o.wall, cfg.WaitSlice)
	driver := playback.NewDriver(info, session, converter, surface, clock, cfg.Playback, o.logger)
	if o.sink.Enabled() {
		driver.SetDebugSink(o.sink)
	}

	reason, runErr := driver.Run(ctx)
	result.Reason = reason
	result.Stats = driver.Stats()

	if runErr != nil {
		o.logger.Error("Playback failed after %d frames: %v", result.Stats.FramesDisplayed, runErr)
	} else {
		o.logger.Info("Playback finished (%s): %d frames in %.2f s", reason, result.Stats.FramesDisplayed, result.Stats.WallTime.Seconds())
	}
	if result.Stats.LateFrames > 0 {
		o.logger.Warn("%d frames were shown late, worst by %v", result.Stats.LateFrames, result.Stats.MaxLateness)
	}

	// 5. Summary
	result.Summary = o.buildSummary(cfg, info, result.Stats, runErr)
	o.writeSummary(cfg, result.Summary)

	if runErr != nil {
		return result, fmt.Errorf("playback: %w", runErr)
	}
	return result, nil
}

// streamJSON is the debug representation of a probed stream.
type streamJSON struct {
	Path           string  `json:"path"`
	FormatName     string  `json:"formatName"`
	FormatLongName string  `json:"formatLongName"`
	StreamIndex    int     `json:"streamIndex"`
	Codec          string  `json:"codec"`
	PixelFormat    string  `json:"pixelFormat"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	TimeBase       string  `json:"timeBase"`
	FrameRate      float64 `json:"frameRate"`
	BitRate        int64   `json:"bitRate"`
	DurationUs     int64   `json:"durationUs"`
}

func (o *Orchestrator) saveStreamJSON(info media.StreamInfo) {
	if !o.sink.Enabled() {
		return
	}
	data, err := json.MarshalIndent(streamJSON{
		Path:           info.Path,
		FormatName:     info.FormatName,
		FormatLongName: info.FormatLongName,
		StreamIndex:    info.StreamIndex,
		Codec:          info.CodecName,
		PixelFormat:    info.PixelFormat,
		Width:          info.Width,
		Height:         info.Height,
		TimeBase:       info.TimeBase.String(),
		FrameRate:      info.FrameRate.Float64(),
		BitRate:        info.BitRate,
		DurationUs:     info.DurationUs,
	}, "", "  ")
	if err != nil {
		return
	}
	if err := o.sink.SaveStreamJSON(data); err != nil {
		o.logger.Warn("Failed to save stream info: %v", err)
	}
}

func (o *Orchestrator) buildSummary(cfg PlayConfig, info media.StreamInfo, stats playback.Stats, runErr error) *summarizer.Summary {
	size, err := o.fs.Size(cfg.Input)
	if err != nil {
		size = 0
	}

	return summarizer.NewBuilder().
		WithInput(cfg.Input, info.FormatName, size).
		WithStream(info).
		WithPlayback(summarizer.PlaybackInfo{
			Reason:          stats.Reason,
			FramesDecoded:   stats.FramesDecoded,
			FramesDisplayed: stats.FramesDisplayed,
			FramesSkipped:   stats.FramesSkipped,
			LateFrames:      stats.LateFrames,
			MaxLatenessMs:   int(stats.MaxLateness.Milliseconds()),
			FirstPTS:        stats.FirstPTS,
			LastPTS:         stats.LastPTS,
			WallTimeMs:      int(stats.WallTime.Milliseconds()),
		}).
		WithError(runErr).
		WithSettings(summarizer.Settings{
			Surface:       cfg.SurfaceName,
			WindowWidth:   cfg.WindowWidth,
			WindowHeight:  cfg.WindowHeight,
			OnDecodeError: string(cfg.Playback.OnDecodeError),
			WaitSliceMs:   int(cfg.WaitSlice.Milliseconds()),
		}).
		Build()
}

func (o *Orchestrator) writeSummary(cfg PlayConfig, summary *summarizer.Summary) {
	writer := summarizer.NewWriter(o.formatter, o.fs)

	if o.sink.Enabled() {
		if err := o.sink.SaveSummary(writer.Render(summary)); err != nil {
			o.logger.Warn("Failed to save debug summary: %v", err)
		}
	}
	if cfg.ReportPath == "" {
		return
	}
	report := summarizer.NewWriter(summarizer.ForPath(cfg.ReportPath, o.formatter), o.fs)
	if err := report.Write(cfg.ReportPath, summary); err != nil {
		o.logger.Warn("Failed to write report: %v", err)
		return
	}
	o.logger.Info("Report saved to %s", cfg.ReportPath)
}
