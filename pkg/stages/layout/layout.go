// Package layout implements the contact sheet grid calculation stage.
package layout

import (
	"context"

	"github.com/user/vidplay/pkg/pipeline"
)

// Stage calculates the grid for a contact sheet.
// This is a pure function with no external dependencies.
type Stage struct{}

// NewStage creates a new layout stage.
func NewStage() *Stage {
	return &Stage{}
}

// Execute calculates the layout based on the input parameters.
func (s *Stage) Execute(ctx context.Context, input pipeline.LayoutInput) (pipeline.LayoutResult, error) {
	return ComputeLayout(input), nil
}

// ComputeLayout performs the grid calculation.
//
// Each cell is the thumbnail framed by BorderWidth on every side, followed by
// a label strip of LabelHeight. Cells are laid out row-major, Gap apart, with
// Padding around the whole sheet. Thumbnails keep the source aspect ratio;
// 16:9 is assumed when the source size is unknown.
func ComputeLayout(input pipeline.LayoutInput) pipeline.LayoutResult {
	columns := input.Columns
	if columns < 1 {
		columns = 1
	}
	if input.Count > 0 && columns > input.Count {
		columns = input.Count
	}

	thumbWidth := input.ThumbWidth
	if thumbWidth < 1 {
		thumbWidth = 1
	}
	thumbHeight := thumbWidth * 9 / 16
	if input.SourceWidth > 0 && input.SourceHeight > 0 {
		thumbHeight = (thumbWidth*input.SourceHeight + input.SourceWidth/2) / input.SourceWidth
	}
	if thumbHeight < 1 {
		thumbHeight = 1
	}

	rows := 0
	if input.Count > 0 {
		rows = (input.Count + columns - 1) / columns
	}

	border := input.BorderWidth
	cellWidth := thumbWidth + border*2
	cellHeight := thumbHeight + border*2 + input.LabelHeight

	canvas := pipeline.Dimension{
		Width:  input.Padding*2 + columns*cellWidth + (columns-1)*input.Gap,
		Height: input.Padding * 2,
	}
	if rows > 0 {
		canvas.Height += rows*cellHeight + (rows-1)*input.Gap
	}

	cells := make([]pipeline.Rectangle, input.Count)
	labels := make([]pipeline.Rectangle, input.Count)
	for i := 0; i < input.Count; i++ {
		col := i % columns
		row := i / columns
		x := input.Padding + col*(cellWidth+input.Gap)
		y := input.Padding + row*(cellHeight+input.Gap)

		cells[i] = pipeline.Rectangle{
			X:      x + border,
			Y:      y + border,
			Width:  thumbWidth,
			Height: thumbHeight,
		}
		labels[i] = pipeline.Rectangle{
			X:      x,
			Y:      y + thumbHeight + border*2,
			Width:  cellWidth,
			Height: input.LabelHeight,
		}
	}

	return pipeline.LayoutResult{
		Canvas: canvas,
		Thumb: pipeline.Dimension{
			Width:  thumbWidth,
			Height: thumbHeight,
		},
		Cells:  cells,
		Labels: labels,
		Rows:   rows,
	}
}
