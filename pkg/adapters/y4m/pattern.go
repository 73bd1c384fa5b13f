package y4m

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/user/vidplay/pkg/media"
)

// Pattern names accepted by Generate.
const (
	PatternBars  = "bars"
	PatternSolid = "solid"
)

// barColors are the seven SMPTE color bars at 75% intensity.
var barColors = [7]color.RGBA{
	{192, 192, 192, 255}, // gray
	{192, 192, 0, 255},   // yellow
	{0, 192, 192, 255},   // cyan
	{0, 192, 0, 255},     // green
	{192, 0, 192, 255},   // magenta
	{192, 0, 0, 255},     // red
	{0, 0, 192, 255},     // blue
}

// ColorBars draws SMPTE color bars with a white marker that moves one step
// per frame index, so consecutive frames are distinguishable.
func ColorBars(width, height, index int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	barWidth := width / 7
	if barWidth == 0 {
		barWidth = 1
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			bar := x / barWidth
			if bar >= 7 {
				bar = 6
			}
			img.SetRGBA(x, y, barColors[bar])
		}
	}

	marker := height / 8
	if marker < 2 {
		marker = 2
	}
	mx := (index * marker) % max(width-marker, 1)
	my := height - marker
	for y := my; y < height; y++ {
		for x := mx; x < mx+marker && x < width; x++ {
			img.SetRGBA(x, y, color.RGBA{255, 255, 255, 255})
		}
	}

	return img
}

// Solid returns a frame filled with c.
func Solid(width, height int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = 255
	}
	return img
}

// GenerateOptions configures a generated test clip.
type GenerateOptions struct {
	Width   int
	Height  int
	FPS     media.Rational
	Frames  int
	Pattern string
	Color   color.RGBA // used by PatternSolid
}

// Generate writes a complete clip to w and returns the number of frames written.
func Generate(w io.Writer, opts GenerateOptions) (int, error) {
	if opts.Frames <= 0 {
		return 0, fmt.Errorf("y4m: frame count must be positive, got %d", opts.Frames)
	}

	yw, err := NewWriter(w, opts.Width, opts.Height, opts.FPS)
	if err != nil {
		return 0, err
	}

	var solid *image.RGBA
	for i := 0; i < opts.Frames; i++ {
		var img *image.RGBA
		switch opts.Pattern {
		case PatternSolid:
			if solid == nil {
				solid = Solid(opts.Width, opts.Height, opts.Color)
			}
			img = solid
		case PatternBars, "":
			img = ColorBars(opts.Width, opts.Height, i)
		default:
			return yw.Frames(), fmt.Errorf("y4m: unknown pattern %q", opts.Pattern)
		}

		if err := yw.WriteFrame(img); err != nil {
			return yw.Frames(), fmt.Errorf("write frame %d: %w", i, err)
		}
	}

	if err := yw.Flush(); err != nil {
		return yw.Frames(), fmt.Errorf("flush: %w", err)
	}
	return yw.Frames(), nil
}
