package orchestrator

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/user/vidplay/pkg/media"
	"github.com/user/vidplay/pkg/pipeline"
	"github.com/user/vidplay/pkg/ports"
)

// ThumbsConfig contains all configuration for a contact sheet.
type ThumbsConfig struct {
	// Input/Output
	Input      string
	OutputPath string

	// Sampling
	Every     time.Duration
	MaxThumbs int

	// Layout
	Columns     int
	ThumbWidth  int
	Gap         int
	Padding     int
	BorderWidth int
	LabelHeight int

	// Style
	ShowLabels      bool
	BackgroundColor [4]uint8 // RGBA
	BorderColor     [4]uint8 // RGBA
	LabelColor      [4]uint8 // RGBA

	// Encoding
	JPEGQuality int
}

// DefaultThumbsConfig returns a ThumbsConfig with default values.
func DefaultThumbsConfig() ThumbsConfig {
	sample := pipeline.DefaultSampleInput()
	layout := pipeline.DefaultLayoutInput()
	return ThumbsConfig{
		Every:       sample.Every,
		MaxThumbs:   sample.MaxThumbs,
		Columns:     layout.Columns,
		ThumbWidth:  layout.ThumbWidth,
		Gap:         layout.Gap,
		Padding:     layout.Padding,
		BorderWidth: layout.BorderWidth,
		LabelHeight: layout.LabelHeight,
		ShowLabels:  true,
		JPEGQuality: 90,
	}
}

// ThumbsResult describes a written contact sheet.
type ThumbsResult struct {
	Info          media.StreamInfo
	Thumbs        int
	FramesDecoded int
	Width         int
	Height        int
	FileSize      int64
}

// Thumbnailer coordinates the sample, layout and sheet stages.
type Thumbnailer struct {
	sampleStage pipeline.Stage[pipeline.SampleInput, pipeline.SampleResult]
	layoutStage pipeline.Stage[pipeline.LayoutInput, pipeline.LayoutResult]
	sheetStage  pipeline.Stage[pipeline.SheetInput, pipeline.SheetResult]
	renderer    ports.Renderer
	fs          ports.FileSystem
	logger      ports.Logger
}

// NewThumbnailer creates a new Thumbnailer.
func NewThumbnailer(
	sampleStage pipeline.Stage[pipeline.SampleInput, pipeline.SampleResult],
	layoutStage pipeline.Stage[pipeline.LayoutInput, pipeline.LayoutResult],
	sheetStage pipeline.Stage[pipeline.SheetInput, pipeline.SheetResult],
	renderer ports.Renderer,
	fs ports.FileSystem,
	logger ports.Logger,
) *Thumbnailer {
	return &Thumbnailer{
		sampleStage: pipeline.Observe(sampleStage, stageTimer(logger, "sample")),
		layoutStage: pipeline.Observe(layoutStage, stageTimer(logger, "layout")),
		sheetStage:  pipeline.Observe(sheetStage, stageTimer(logger, "sheet")),
		renderer:    renderer,
		fs:          fs,
		logger:      logger,
	}
}

// Run samples cfg.Input and writes the contact sheet to cfg.OutputPath.
func (t *Thumbnailer) Run(ctx context.Context, cfg ThumbsConfig) (ThumbsResult, error) {
	// 1. Sample frames
	t.logger.Info("Sampling %s every %v", cfg.Input, cfg.Every)
	sampled, err := t.sampleStage.Execute(ctx, pipeline.SampleInput{
		Path:      cfg.Input,
		Every:     cfg.Every,
		MaxThumbs: cfg.MaxThumbs,
	})
	if err != nil {
		t.logger.Error("Failed to sample frames: %v", err)
		return ThumbsResult{}, fmt.Errorf("sample stage: %w", err)
	}
	if len(sampled.Thumbs) == 0 {
		return ThumbsResult{Info: sampled.Info}, fmt.Errorf("sample stage: %s: %w", cfg.Input, media.ErrEndOfStream)
	}
	t.logger.Info("Sampled %d frames", len(sampled.Thumbs))

	// 2. Layout
	layout, err := t.layoutStage.Execute(ctx, t.buildLayoutInput(cfg, sampled))
	if err != nil {
		return ThumbsResult{}, fmt.Errorf("layout stage: %w", err)
	}
	t.logger.Debug("Layout calculated: %dx%d sheet, %d rows", layout.Canvas.Width, layout.Canvas.Height, layout.Rows)

	// 3. Compose
	sheet, err := t.sheetStage.Execute(ctx, pipeline.SheetInput{
		Thumbs:     sampled.Thumbs,
		Layout:     layout,
		Theme:      buildTheme(cfg),
		ShowLabels: cfg.ShowLabels,
	})
	if err != nil {
		t.logger.Error("Failed to compose sheet: %v", err)
		return ThumbsResult{}, fmt.Errorf("sheet stage: %w", err)
	}

	// 4. Encode and write
	data, err := t.renderer.EncodeImage(sheet.Image, ports.FormatFromPath(cfg.OutputPath), cfg.JPEGQuality)
	if err != nil {
		return ThumbsResult{}, fmt.Errorf("encode sheet: %w", err)
	}
	if err := t.fs.WriteFile(cfg.OutputPath, data); err != nil {
		t.logger.Error("Failed to write output: %v", err)
		return ThumbsResult{}, fmt.Errorf("write output: %w", err)
	}
	t.logger.Info("Output saved to %s", cfg.OutputPath)

	return ThumbsResult{
		Info:          sampled.Info,
		Thumbs:        len(sampled.Thumbs),
		FramesDecoded: sampled.FramesDecoded,
		Width:         layout.Canvas.Width,
		Height:        layout.Canvas.Height,
		FileSize:      int64(len(data)),
	}, nil
}

func (t *Thumbnailer) buildLayoutInput(cfg ThumbsConfig, sampled pipeline.SampleResult) pipeline.LayoutInput {
	labelHeight := 0
	if cfg.ShowLabels {
		labelHeight = cfg.LabelHeight
	}
	return pipeline.LayoutInput{
		Count:        len(sampled.Thumbs),
		Columns:      cfg.Columns,
		ThumbWidth:   cfg.ThumbWidth,
		SourceWidth:  sampled.Info.Width,
		SourceHeight: sampled.Info.Height,
		Gap:          cfg.Gap,
		Padding:      cfg.Padding,
		BorderWidth:  cfg.BorderWidth,
		LabelHeight:  labelHeight,
	}
}

func buildTheme(cfg ThumbsConfig) pipeline.SheetTheme {
	theme := pipeline.DefaultSheetTheme()
	// Override theme colors if specified
	if cfg.BackgroundColor != [4]uint8{} {
		theme.BackgroundColor = rgbaFromArray(cfg.BackgroundColor)
	}
	if cfg.BorderColor != [4]uint8{} {
		theme.BorderColor = rgbaFromArray(cfg.BorderColor)
	}
	if cfg.LabelColor != [4]uint8{} {
		theme.LabelColor = rgbaFromArray(cfg.LabelColor)
	}
	return theme
}

func rgbaFromArray(c [4]uint8) color.RGBA {
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: c[3]}
}

// stageTimer logs how long a stage ran.
func stageTimer(logger ports.Logger, name string) func(time.Duration, error) {
	return func(elapsed time.Duration, err error) {
		if err != nil {
			return
		}
		logger.Debug("Stage %s took %v", name, elapsed)
	}
}
