// Package main provides the CLI entry point for vidplay.
package main

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/ideamans/go-l10n"

	"github.com/user/vidplay/pkg/adapters/ffmpeg"
	"github.com/user/vidplay/pkg/adapters/filesink"
	"github.com/user/vidplay/pkg/adapters/ggrenderer"
	"github.com/user/vidplay/pkg/adapters/headless"
	"github.com/user/vidplay/pkg/adapters/logger"
	"github.com/user/vidplay/pkg/adapters/nullsink"
	"github.com/user/vidplay/pkg/adapters/osfilesystem"
	"github.com/user/vidplay/pkg/adapters/sdlsurface"
	"github.com/user/vidplay/pkg/adapters/systemclock"
	"github.com/user/vidplay/pkg/adapters/y4m"
	"github.com/user/vidplay/pkg/config"
	"github.com/user/vidplay/pkg/media"
	"github.com/user/vidplay/pkg/orchestrator"
	"github.com/user/vidplay/pkg/ports"
	"github.com/user/vidplay/pkg/stages/layout"
	"github.com/user/vidplay/pkg/stages/sample"
	"github.com/user/vidplay/pkg/stages/sheet"
	"github.com/user/vidplay/pkg/summarizer"
)

// SDL must run on the main OS thread.
func init() {
	runtime.LockOSThread()
}

// CLI defines the command-line interface with subcommands.
type CLI struct {
	Play    PlayCmd    `cmd:"" default:"withargs" help:"Play a video file in a window."`
	Probe   ProbeCmd   `cmd:"" help:"Print stream information for video files."`
	Thumbs  ThumbsCmd  `cmd:"" help:"Write a contact sheet of frames sampled from a video."`
	Testsrc TestsrcCmd `cmd:"" help:"Generate a Y4M test clip."`
	Version VersionCmd `cmd:"" help:"Show version information."`
}

// LogFlags are shared by every command that logs.
type LogFlags struct {
	LogLevel  *string `short:"l" help:"Log level (debug, info, warn, error)."`
	LogFormat *string `help:"Log format (console, json)."`
	Quiet     bool    `short:"Q" help:"Suppress all log output."`
}

// PlayCmd defines the play subcommand.
type PlayCmd struct {
	Input  string `arg:"" optional:"" help:"Video file to play (overrides the config input)."`
	Config string `short:"c" type:"existingfile" help:"YAML configuration file."`

	// Window
	Width    *int    `short:"W" help:"Initial window width (default: video width)."`
	Height   *int    `short:"H" help:"Initial window height (default: video height)."`
	Title    *string `help:"Window title."`
	VSync    bool    `help:"Synchronize presents with the display refresh."`
	Headless bool    `help:"Decode and pace without opening a window."`

	// Playback
	OnDecodeError *string `help:"What to do when a frame fails to decode (abort, skip)."`
	MaxErrors     *int    `help:"Consecutive decode errors tolerated by the skip policy."`
	WaitSliceMs   *int    `help:"Longest single sleep while waiting for a frame, in ms (1-100)."`
	LateMs        *int    `help:"Lateness in ms above which a frame counts as late."`

	// Output
	Report string `short:"r" help:"Write a Markdown playback summary to this path."`

	// Debug
	Debug      bool    `short:"d" help:"Enable debug output."`
	DebugDir   *string `help:"Directory for debug output."`
	DebugEvery *int    `help:"Save every Nth presented frame when debugging."`

	LogFlags `embed:""`
}

// ThumbsCmd defines the thumbs subcommand.
type ThumbsCmd struct {
	Input  string `arg:"" help:"Video file to sample."`
	Output string `short:"o" required:"" help:"Output image path (.png or .jpg)."`
	Config string `short:"c" type:"existingfile" help:"YAML configuration file."`

	Every      string `short:"e" help:"Interval between thumbnails (e.g. 500ms, 2s)."`
	MaxThumbs  *int   `short:"n" help:"Maximum number of thumbnails."`
	Columns    *int   `help:"Number of columns."`
	ThumbWidth *int   `short:"w" help:"Thumbnail width in pixels."`
	NoLabels   bool   `help:"Do not print timestamps under thumbnails."`
	Background string `help:"Background color (hex, e.g. #1e1e1e)."`
	Workers    int    `help:"Scaling workers (default: number of CPUs)."`

	// Debug
	Debug    bool    `short:"d" help:"Save every sampled frame to the debug directory."`
	DebugDir *string `help:"Directory for debug output."`

	LogFlags `embed:""`
}

// TestsrcCmd defines the testsrc subcommand.
type TestsrcCmd struct {
	Output  string  `short:"o" required:"" help:"Output .y4m path."`
	Width   int     `default:"320" help:"Frame width (even)."`
	Height  int     `default:"240" help:"Frame height (even)."`
	FPS     int     `default:"25" help:"Frames per second."`
	Seconds float64 `default:"2" help:"Clip length in seconds."`
	Pattern string  `default:"bars" enum:"bars,solid" help:"Picture pattern (bars, solid)."`
	Color   string  `default:"#c83c28" help:"Fill color for the solid pattern."`
}

// VersionCmd shows version information.
type VersionCmd struct{}

var version = "dev"

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("vidplay"),
		kong.Description("Play video files with presentation-timestamp pacing."),
		kong.UsageOnError(),
	)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}

// Run executes the play command.
func (cmd *PlayCmd) Run() error {
	cfg, err := cmd.buildConfig()
	if err != nil {
		return err
	}
	if cfg.Input == "" {
		return fmt.Errorf("%s", l10n.T("No input file given"))
	}

	log := newLogger(cfg.Log, cmd.Quiet)
	ffmpeg.BridgeLogs(log, ffmpegLogLevel(cfg.Log.Level, cmd.Quiet))
	defer ffmpeg.ResetLogs()

	ctx, cancel := signalContext(log)
	defer cancel()

	// Create adapters
	fs := osfilesystem.New()
	renderer := ggrenderer.New()

	sink, err := newSink(cfg.Debug, fs, renderer)
	if err != nil {
		return err
	}

	surfaces := func(info media.StreamInfo) (ports.Surface, error) {
		w, h := windowSize(cfg.Window, info)
		if cfg.Headless {
			return headless.New(headless.Options{Width: w, Height: h}), nil
		}
		return sdlsurface.New(sdlsurface.Options{
			Width:  w,
			Height: h,
			Title:  cfg.Window.Title,
			VSync:  cfg.Window.VSync,
		}, log)
	}

	orch := orchestrator.New(
		ffmpeg.NewProber(log),
		func() ports.PixelConverter { return ffmpeg.NewConverter(log) },
		surfaces,
		systemclock.New(),
		fs,
		sink,
		log,
	)
	orch.SetFormatter(summarizer.NewMarkdownFormatter(
		summarizer.WithTranslator(l10n.T),
		summarizer.WithVersion(version),
	))

	result, err := orch.Play(ctx, cfg.ToPlayConfig())
	if err != nil {
		return err
	}
	if result.Stats.FramesDisplayed == 0 {
		log.Warn(l10n.T("No frames were displayed"))
	}
	return nil
}

// buildConfig layers the config file and CLI overrides.
func (cmd *PlayCmd) buildConfig() (config.Config, error) {
	base, err := loadBase(cmd.Config)
	if err != nil {
		return config.Config{}, err
	}

	builder := config.NewBuilderFrom(base)
	if cmd.Input != "" {
		builder.WithInput(cmd.Input)
	}

	// Window
	w, h := base.Window.Width, base.Window.Height
	if cmd.Width != nil {
		w = *cmd.Width
	}
	if cmd.Height != nil {
		h = *cmd.Height
	}
	builder.WithWindowSize(w, h)
	if cmd.Title != nil {
		builder.WithTitle(*cmd.Title)
	}
	if cmd.VSync {
		builder.WithVSync(true)
	}
	if cmd.Headless {
		builder.WithHeadless(true)
	}

	// Playback
	if cmd.OnDecodeError != nil {
		builder.WithOnDecodeError(*cmd.OnDecodeError)
	}
	if cmd.MaxErrors != nil {
		builder.WithMaxConsecutiveErrors(*cmd.MaxErrors)
	}
	if cmd.WaitSliceMs != nil {
		builder.WithWaitSliceMs(*cmd.WaitSliceMs)
	}
	if cmd.LateMs != nil {
		builder.WithLateThresholdMs(*cmd.LateMs)
	}

	// Output and debug
	if cmd.Report != "" {
		builder.WithReport(cmd.Report)
	}
	if cmd.Debug {
		dir := base.Debug.Dir
		if cmd.DebugDir != nil {
			dir = *cmd.DebugDir
		}
		builder.WithDebug(true, dir)
	}
	if cmd.DebugEvery != nil {
		builder.WithDebugEvery(*cmd.DebugEvery)
	}
	cmd.LogFlags.apply(builder)

	cfg := builder.Build()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// Run executes the thumbs command.
func (cmd *ThumbsCmd) Run() error {
	cfg, err := cmd.buildConfig()
	if err != nil {
		return err
	}

	log := newLogger(cfg.Log, cmd.Quiet)
	ffmpeg.BridgeLogs(log, ffmpegLogLevel(cfg.Log.Level, cmd.Quiet))
	defer ffmpeg.ResetLogs()

	ctx, cancel := signalContext(log)
	defer cancel()

	fs := osfilesystem.New()
	renderer := ggrenderer.New()

	sink, err := newSink(cfg.Debug, fs, renderer)
	if err != nil {
		return err
	}

	workers := cmd.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	thumbnailer := orchestrator.NewThumbnailer(
		sample.NewStage(
			ffmpeg.NewProber(log),
			func() ports.PixelConverter { return ffmpeg.NewConverter(log) },
			sink,
			log,
		),
		layout.NewStage(),
		sheet.NewStage(renderer, log, workers),
		renderer,
		fs,
		log,
	)

	thumbsConfig := cfg.ToThumbsConfig(cmd.Output)
	if cmd.Every != "" {
		every, err := time.ParseDuration(cmd.Every)
		if err != nil || every <= 0 {
			return fmt.Errorf("%s", l10n.F("Invalid interval: %s", cmd.Every))
		}
		thumbsConfig.Every = every
	}

	result, err := thumbnailer.Run(ctx, thumbsConfig)
	if err != nil {
		return err
	}
	fmt.Println(l10n.F("%d thumbnails from %d frames, %dx%d sheet written to %s",
		result.Thumbs, result.FramesDecoded, result.Width, result.Height, cmd.Output))
	return nil
}

// buildConfig layers the config file and CLI overrides.
func (cmd *ThumbsCmd) buildConfig() (config.Config, error) {
	base, err := loadBase(cmd.Config)
	if err != nil {
		return config.Config{}, err
	}

	builder := config.NewBuilderFrom(base).WithInput(cmd.Input)
	if cmd.MaxThumbs != nil {
		builder.WithMaxThumbs(*cmd.MaxThumbs)
	}
	if cmd.Columns != nil {
		builder.WithThumbsColumns(*cmd.Columns)
	}
	if cmd.ThumbWidth != nil {
		builder.WithThumbWidth(*cmd.ThumbWidth)
	}
	if cmd.NoLabels {
		builder.WithThumbLabels(false)
	}
	if cmd.Background != "" {
		builder.WithBackgroundColor(cmd.Background)
	}
	if cmd.Debug {
		dir := base.Debug.Dir
		if cmd.DebugDir != nil {
			dir = *cmd.DebugDir
		}
		builder.WithDebug(true, dir)
	}
	cmd.LogFlags.apply(builder)

	cfg := builder.Build()
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// Run executes the testsrc command.
func (cmd *TestsrcCmd) Run() error {
	if cmd.FPS <= 0 {
		return fmt.Errorf("%s", l10n.F("Invalid frame rate: %d", cmd.FPS))
	}
	if !config.ValidColor(cmd.Color) {
		return fmt.Errorf("%s", l10n.F("Invalid color: %s", cmd.Color))
	}

	fs := osfilesystem.New()
	w, err := fs.Create(cmd.Output)
	if err != nil {
		return fmt.Errorf("create %s: %w", cmd.Output, err)
	}

	fill := color.RGBAModel.Convert(config.ParseColor(cmd.Color)).(color.RGBA)
	frames, err := y4m.Generate(w, y4m.GenerateOptions{
		Width:   cmd.Width,
		Height:  cmd.Height,
		FPS:     media.Rational{Num: cmd.FPS, Den: 1},
		Frames:  int(math.Round(cmd.Seconds * float64(cmd.FPS))),
		Pattern: cmd.Pattern,
		Color:   fill,
	})
	if cerr := w.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("generate %s: %w", cmd.Output, err)
	}

	fmt.Println(l10n.F("Wrote %d frames to %s", frames, cmd.Output))
	return nil
}

// Run executes the version command.
func (cmd *VersionCmd) Run() error {
	fmt.Println(l10n.F("vidplay version %s", version))
	return nil
}

// apply copies logging overrides into builder.
func (f LogFlags) apply(builder *config.Builder) {
	if f.LogLevel != nil {
		builder.WithLogLevel(*f.LogLevel)
	}
	if f.LogFormat != nil {
		builder.WithLogFormat(*f.LogFormat)
	}
}

// loadBase returns the config file contents, or defaults when path is empty.
func loadBase(path string) (config.Config, error) {
	if path == "" {
		return config.Defaults(), nil
	}
	return config.LoadFromFile(path)
}

// newLogger creates the logger selected by cfg.
func newLogger(cfg config.LogConfig, quiet bool) ports.Logger {
	if quiet {
		return logger.NewNoop()
	}
	level := ports.ParseLogLevel(cfg.Level)
	if cfg.Format == "json" {
		return logger.NewJSON(level)
	}
	return logger.NewConsole(level)
}

func ffmpegLogLevel(level string, quiet bool) string {
	if quiet {
		return "quiet"
	}
	return level
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(log ports.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			log.Warn(l10n.T("Interrupted, shutting down..."))
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()

	return ctx, cancel
}

// newSink creates the debug sink selected by cfg.
func newSink(cfg config.DebugConfig, fs ports.FileSystem, renderer ports.Renderer) (ports.DebugSink, error) {
	if !cfg.Enabled {
		return nullsink.New(), nil
	}
	if err := fs.MkdirAll(cfg.Dir); err != nil {
		return nil, fmt.Errorf("create debug directory: %w", err)
	}
	return filesink.New(cfg.Dir, fs, renderer), nil
}

// windowSize falls back to the stream dimensions for unset window sizes.
func windowSize(cfg config.WindowConfig, info media.StreamInfo) (int, int) {
	w, h := cfg.Width, cfg.Height
	if w <= 0 {
		w = info.Width
	}
	if h <= 0 {
		h = info.Height
	}
	return w, h
}
