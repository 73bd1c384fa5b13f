package pipeline

import (
	"image"
	"image/color"
	"time"

	"github.com/user/vidplay/pkg/media"
)

// =============================================================================
// Common Types
// =============================================================================

// Dimension represents width and height.
type Dimension struct {
	Width  int
	Height int
}

// Rectangle represents a rectangular area.
type Rectangle struct {
	X      int
	Y      int
	Width  int
	Height int
}

// =============================================================================
// Sample Stage Types
// =============================================================================

// SampleInput selects which frames of a file become thumbnails.
type SampleInput struct {
	Path      string
	Every     time.Duration // Interval between thumbnails (default: 1s)
	MaxThumbs int           // Upper bound on thumbnails, 0 = unlimited
}

// DefaultSampleInput returns SampleInput with default values.
func DefaultSampleInput() SampleInput {
	return SampleInput{
		Every:     time.Second,
		MaxThumbs: 64,
	}
}

// SampleResult contains the sampled frames.
type SampleResult struct {
	Info          media.StreamInfo
	Thumbs        []Thumb
	FramesDecoded int
}

// Thumb is one sampled frame at full resolution.
type Thumb struct {
	Index   int
	PTS     int64
	Seconds float64
	Image   image.Image
}

// =============================================================================
// Layout Stage Types
// =============================================================================

// LayoutInput contains parameters for the contact sheet grid.
type LayoutInput struct {
	Count        int // Number of cells
	Columns      int // Number of columns (default: 4)
	ThumbWidth   int // Width of one thumbnail (default: 240)
	SourceWidth  int // Source frame width, used for the aspect ratio
	SourceHeight int // Source frame height
	Gap          int // Gap between cells (default: 8)
	Padding      int // Padding around the sheet (default: 16)
	BorderWidth  int // Border around each thumbnail (default: 1)
	LabelHeight  int // Height of the timestamp strip below each cell (default: 18)
}

// DefaultLayoutInput returns LayoutInput with default values.
func DefaultLayoutInput() LayoutInput {
	return LayoutInput{
		Columns:     4,
		ThumbWidth:  240,
		Gap:         8,
		Padding:     16,
		BorderWidth: 1,
		LabelHeight: 18,
	}
}

// LayoutResult contains the sheet size and the position of every cell.
type LayoutResult struct {
	// Canvas is the size of the whole sheet.
	Canvas Dimension

	// Thumb is the size every frame is scaled to.
	Thumb Dimension

	// Cells are the thumbnail areas, one per input frame.
	Cells []Rectangle

	// Labels are the timestamp areas below each cell.
	Labels []Rectangle

	// Rows is the number of grid rows.
	Rows int
}

// =============================================================================
// Sheet Stage Types
// =============================================================================

// SheetInput contains parameters for contact sheet composition.
type SheetInput struct {
	Thumbs     []Thumb
	Layout     LayoutResult
	Theme      SheetTheme
	ShowLabels bool
}

// SheetTheme defines contact sheet styling.
type SheetTheme struct {
	BackgroundColor color.Color
	BorderColor     color.Color
	LabelColor      color.Color
}

// DefaultSheetTheme returns a default sheet theme.
func DefaultSheetTheme() SheetTheme {
	return SheetTheme{
		BackgroundColor: color.RGBA{R: 30, G: 30, B: 30, A: 255},
		BorderColor:     color.RGBA{R: 80, G: 80, B: 80, A: 255},
		LabelColor:      color.RGBA{R: 220, G: 220, B: 220, A: 255},
	}
}

// SheetResult contains the composed sheet.
type SheetResult struct {
	Image image.Image
}
