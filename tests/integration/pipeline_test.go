// Package integration contains integration tests for the vidplay pipeline.
// They decode real Y4M clips through FFmpeg and present to a headless surface.
package integration

import (
	"context"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/user/vidplay/pkg/adapters/ffmpeg"
	"github.com/user/vidplay/pkg/adapters/filesink"
	"github.com/user/vidplay/pkg/adapters/ggrenderer"
	"github.com/user/vidplay/pkg/adapters/headless"
	"github.com/user/vidplay/pkg/adapters/logger"
	"github.com/user/vidplay/pkg/adapters/nullsink"
	"github.com/user/vidplay/pkg/adapters/osfilesystem"
	"github.com/user/vidplay/pkg/adapters/systemclock"
	"github.com/user/vidplay/pkg/adapters/y4m"
	"github.com/user/vidplay/pkg/media"
	"github.com/user/vidplay/pkg/orchestrator"
	"github.com/user/vidplay/pkg/playback"
	"github.com/user/vidplay/pkg/ports"
	"github.com/user/vidplay/pkg/stages/layout"
	"github.com/user/vidplay/pkg/stages/sample"
	"github.com/user/vidplay/pkg/stages/sheet"
)

// writeClip generates a Y4M clip in dir.
func writeClip(t *testing.T, dir string, opts y4m.GenerateOptions) string {
	t.Helper()

	path := filepath.Join(dir, "clip.y4m")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create clip: %v", err)
	}
	defer f.Close()

	if _, err := y4m.Generate(f, opts); err != nil {
		t.Fatalf("generate clip: %v", err)
	}
	return path
}

func converters() ports.ConverterFactory {
	return func() ports.PixelConverter { return ffmpeg.NewConverter(logger.NewNoop()) }
}

// TestPlay_HeadlessSolidClip plays a two second clip in real time and checks
// pacing, the presented pixels and the summary written next to it.
func TestPlay_HeadlessSolidClip(t *testing.T) {
	dir := t.TempDir()
	fill := color.RGBA{200, 60, 40, 255}
	clip := writeClip(t, dir, y4m.GenerateOptions{
		Width:   64,
		Height:  48,
		FPS:     media.Rational{Num: 10, Den: 1},
		Frames:  20,
		Pattern: y4m.PatternSolid,
		Color:   fill,
	})

	var surface *headless.Surface
	surfaces := func(info media.StreamInfo) (ports.Surface, error) {
		surface = headless.New(headless.Options{Width: info.Width, Height: info.Height, KeepLast: true})
		return surface, nil
	}

	fs := osfilesystem.New()
	log := logger.NewNoop()
	orch := orchestrator.New(ffmpeg.NewProber(log), converters(), surfaces, systemclock.New(), fs, nullsink.New(), log)

	cfg := orchestrator.DefaultPlayConfig()
	cfg.Input = clip
	cfg.SurfaceName = "headless"
	cfg.ReportPath = filepath.Join(dir, "report.md")

	result, err := orch.Play(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	switch result.Reason {
	case playback.StopDurationReached:
		// Frames from 1.1 s on share the final second with the 2 s duration.
		if result.Stats.FramesDisplayed != 11 {
			t.Errorf("expected 11 frames displayed, got %d", result.Stats.FramesDisplayed)
		}
	case playback.StopEndOfStream:
		if result.Stats.FramesDisplayed != 20 {
			t.Errorf("expected 20 frames displayed, got %d", result.Stats.FramesDisplayed)
		}
	default:
		t.Fatalf("unexpected stop reason %v", result.Reason)
	}

	// The last shown frame is due (n-1)/10 s after the first.
	minWall := time.Duration(result.Stats.FramesDisplayed-1) * 100 * time.Millisecond
	if result.Stats.WallTime < minWall-20*time.Millisecond {
		t.Errorf("playback ran too fast: %v for %d frames", result.Stats.WallTime, result.Stats.FramesDisplayed)
	}

	if surface.Presents() != result.Stats.FramesDisplayed {
		t.Errorf("surface presented %d times, driver displayed %d", surface.Presents(), result.Stats.FramesDisplayed)
	}

	last := surface.Last()
	if len(last) != 64*48*4 {
		t.Fatalf("expected %d bytes in last texture, got %d", 64*48*4, len(last))
	}
	px := last[(24*64+32)*4:]
	if !near(px[0], fill.R, 6) || !near(px[1], fill.G, 6) || !near(px[2], fill.B, 6) || px[3] != 255 {
		t.Errorf("center pixel = %v, want about %v", px[:4], fill)
	}

	report, err := os.ReadFile(cfg.ReportPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(report), "# Playback Summary") {
		t.Errorf("report missing title:\n%s", report)
	}
}

// TestPlay_DebugSink checks that a debug directory receives the stream info,
// sampled frames and the summary.
func TestPlay_DebugSink(t *testing.T) {
	dir := t.TempDir()
	clip := writeClip(t, dir, y4m.GenerateOptions{
		Width:   32,
		Height:  32,
		FPS:     media.Rational{Num: 20, Den: 1},
		Frames:  40,
		Pattern: y4m.PatternBars,
	})

	fs := osfilesystem.New()
	debugDir := filepath.Join(dir, "debug")
	if err := fs.MkdirAll(debugDir); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	sink := filesink.New(debugDir, fs, ggrenderer.New())

	surfaces := func(info media.StreamInfo) (ports.Surface, error) {
		return headless.New(headless.Options{Width: info.Width, Height: info.Height}), nil
	}

	log := logger.NewNoop()
	orch := orchestrator.New(ffmpeg.NewProber(log), converters(), surfaces, systemclock.New(), fs, sink, log)

	cfg := orchestrator.DefaultPlayConfig()
	cfg.Input = clip
	cfg.Playback.DebugEvery = 5

	if _, err := orch.Play(context.Background(), cfg); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	frames, err := os.ReadDir(filepath.Join(debugDir, "frames"))
	if err != nil {
		t.Fatalf("read frames dir: %v", err)
	}
	// 21 frames are shown before the final second; every fifth is saved.
	if len(frames) != 5 {
		t.Errorf("expected 5 debug frames, got %d", len(frames))
	}
	for _, name := range []string{"stream.json", "summary.md"} {
		if _, err := os.Stat(filepath.Join(debugDir, name)); err != nil {
			t.Errorf("expected %s in debug dir: %v", name, err)
		}
	}
}

// TestPlay_CloseAfter stops playback from the surface side.
func TestPlay_CloseAfter(t *testing.T) {
	dir := t.TempDir()
	clip := writeClip(t, dir, y4m.GenerateOptions{
		Width:   32,
		Height:  32,
		FPS:     media.Rational{Num: 50, Den: 1},
		Frames:  100,
		Pattern: y4m.PatternBars,
	})

	surfaces := func(info media.StreamInfo) (ports.Surface, error) {
		return headless.New(headless.Options{Width: info.Width, Height: info.Height, CloseAfter: 3}), nil
	}

	log := logger.NewNoop()
	orch := orchestrator.New(ffmpeg.NewProber(log), converters(), surfaces, systemclock.New(), osfilesystem.New(), nullsink.New(), log)

	cfg := orchestrator.DefaultPlayConfig()
	cfg.Input = clip

	result, err := orch.Play(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if result.Reason != playback.StopRequested {
		t.Errorf("expected StopRequested, got %v", result.Reason)
	}
	if result.Stats.FramesDisplayed < 3 || result.Stats.FramesDisplayed > 4 {
		t.Errorf("expected 3 or 4 frames displayed, got %d", result.Stats.FramesDisplayed)
	}
}

// TestPlay_MissingFile surfaces the open error before any surface is created.
func TestPlay_MissingFile(t *testing.T) {
	opened := false
	surfaces := func(info media.StreamInfo) (ports.Surface, error) {
		opened = true
		return headless.New(headless.Options{}), nil
	}

	log := logger.NewNoop()
	orch := orchestrator.New(ffmpeg.NewProber(log), converters(), surfaces, systemclock.New(), osfilesystem.New(), nullsink.New(), log)

	cfg := orchestrator.DefaultPlayConfig()
	cfg.Input = filepath.Join(t.TempDir(), "missing.y4m")

	if _, err := orch.Play(context.Background(), cfg); err == nil {
		t.Fatal("expected error for missing file")
	}
	if opened {
		t.Error("surface should not be opened when probing fails")
	}
}

// TestThumbs_ContactSheet samples a bars clip into a PNG contact sheet.
func TestThumbs_ContactSheet(t *testing.T) {
	dir := t.TempDir()
	clip := writeClip(t, dir, y4m.GenerateOptions{
		Width:   80,
		Height:  60,
		FPS:     media.Rational{Num: 10, Den: 1},
		Frames:  35,
		Pattern: y4m.PatternBars,
	})

	log := logger.NewNoop()
	renderer := ggrenderer.New()
	thumbnailer := orchestrator.NewThumbnailer(
		sample.NewStage(ffmpeg.NewProber(log), converters(), nullsink.New(), log),
		layout.NewStage(),
		sheet.NewStage(renderer, log, 2),
		renderer,
		osfilesystem.New(),
		log,
	)

	cfg := orchestrator.DefaultThumbsConfig()
	cfg.Input = clip
	cfg.OutputPath = filepath.Join(dir, "sheet.png")
	cfg.Columns = 2
	cfg.ThumbWidth = 40

	result, err := thumbnailer.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// One thumbnail per second: 0.0, 1.0, 2.0, 3.0
	if result.Thumbs != 4 {
		t.Errorf("expected 4 thumbnails, got %d", result.Thumbs)
	}
	if result.FramesDecoded != 35 {
		t.Errorf("expected 35 frames decoded, got %d", result.FramesDecoded)
	}

	f, err := os.Open(cfg.OutputPath)
	if err != nil {
		t.Fatalf("open sheet: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode sheet: %v", err)
	}
	if img.Bounds().Dx() != result.Width || img.Bounds().Dy() != result.Height {
		t.Errorf("sheet is %dx%d, result says %dx%d", img.Bounds().Dx(), img.Bounds().Dy(), result.Width, result.Height)
	}
}

// TestThumbs_DebugSink saves each sampled frame next to the sheet.
func TestThumbs_DebugSink(t *testing.T) {
	dir := t.TempDir()
	clip := writeClip(t, dir, y4m.GenerateOptions{
		Width:   48,
		Height:  32,
		FPS:     media.Rational{Num: 10, Den: 1},
		Frames:  25,
		Pattern: y4m.PatternBars,
	})

	fs := osfilesystem.New()
	renderer := ggrenderer.New()
	debugDir := filepath.Join(dir, "debug")
	log := logger.NewNoop()

	thumbnailer := orchestrator.NewThumbnailer(
		sample.NewStage(ffmpeg.NewProber(log), converters(), filesink.New(debugDir, fs, renderer), log),
		layout.NewStage(),
		sheet.NewStage(renderer, log, 1),
		renderer,
		fs,
		log,
	)

	cfg := orchestrator.DefaultThumbsConfig()
	cfg.Input = clip
	cfg.OutputPath = filepath.Join(dir, "sheet.png")

	result, err := thumbnailer.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	frames, err := os.ReadDir(filepath.Join(debugDir, "frames"))
	if err != nil {
		t.Fatalf("read frames dir: %v", err)
	}
	if len(frames) != result.Thumbs || result.Thumbs != 3 {
		t.Errorf("expected 3 saved frames for 3 thumbnails, got %d files and %d thumbs", len(frames), result.Thumbs)
	}
}

func near(a, b uint8, tol int) bool {
	d := int(a) - int(b)
	if d < 0 {
		d = -d
	}
	return d <= tol
}
