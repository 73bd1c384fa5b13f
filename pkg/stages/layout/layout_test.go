package layout

import (
	"context"
	"testing"

	"github.com/user/vidplay/pkg/pipeline"
)

func TestComputeLayout_Grid(t *testing.T) {
	input := pipeline.DefaultLayoutInput()
	input.Count = 5
	input.SourceWidth = 640
	input.SourceHeight = 360

	result := ComputeLayout(input)

	if result.Thumb != (pipeline.Dimension{Width: 240, Height: 135}) {
		t.Errorf("thumb: expected 240x135, got %+v", result.Thumb)
	}
	if result.Rows != 2 {
		t.Errorf("rows: expected 2, got %d", result.Rows)
	}
	// 16*2 + 4*242 + 3*8 by 16*2 + 2*155 + 8
	if result.Canvas != (pipeline.Dimension{Width: 1024, Height: 350}) {
		t.Errorf("canvas: expected 1024x350, got %+v", result.Canvas)
	}

	expectedCells := []pipeline.Rectangle{
		{X: 17, Y: 17, Width: 240, Height: 135},
		{X: 267, Y: 17, Width: 240, Height: 135},
		{X: 517, Y: 17, Width: 240, Height: 135},
		{X: 767, Y: 17, Width: 240, Height: 135},
		{X: 17, Y: 180, Width: 240, Height: 135},
	}
	if len(result.Cells) != len(expectedCells) {
		t.Fatalf("expected %d cells, got %d", len(expectedCells), len(result.Cells))
	}
	for i, expected := range expectedCells {
		if result.Cells[i] != expected {
			t.Errorf("cells[%d]: expected %+v, got %+v", i, expected, result.Cells[i])
		}
	}

	label := result.Labels[4]
	if label != (pipeline.Rectangle{X: 16, Y: 316, Width: 242, Height: 18}) {
		t.Errorf("labels[4]: unexpected %+v", label)
	}
}

func TestComputeLayout_FewerThumbsThanColumns(t *testing.T) {
	input := pipeline.DefaultLayoutInput()
	input.Count = 2
	input.Columns = 6
	input.SourceWidth = 320
	input.SourceHeight = 240

	result := ComputeLayout(input)

	if result.Rows != 1 {
		t.Errorf("rows: expected 1, got %d", result.Rows)
	}
	if result.Thumb.Height != 180 {
		t.Errorf("thumb height: expected 180, got %d", result.Thumb.Height)
	}
	// two columns only: 32 + 2*242 + 8
	if result.Canvas.Width != 524 {
		t.Errorf("canvas width: expected 524, got %d", result.Canvas.Width)
	}
}

func TestComputeLayout_UnknownSource(t *testing.T) {
	input := pipeline.DefaultLayoutInput()
	input.Count = 1

	result := ComputeLayout(input)

	if result.Thumb.Height != 135 {
		t.Errorf("expected 16:9 fallback height 135, got %d", result.Thumb.Height)
	}
}

func TestComputeLayout_Empty(t *testing.T) {
	input := pipeline.DefaultLayoutInput()

	result := ComputeLayout(input)

	if result.Rows != 0 || len(result.Cells) != 0 {
		t.Errorf("expected no cells, got %d rows %d cells", result.Rows, len(result.Cells))
	}
	if result.Canvas.Height != input.Padding*2 {
		t.Errorf("expected padding-only height, got %d", result.Canvas.Height)
	}
}

func TestComputeLayout_InvalidColumns(t *testing.T) {
	input := pipeline.DefaultLayoutInput()
	input.Count = 3
	input.Columns = 0

	result := ComputeLayout(input)

	if result.Rows != 3 {
		t.Errorf("expected single column with 3 rows, got %d", result.Rows)
	}
}

func TestStage_Execute(t *testing.T) {
	stage := NewStage()
	input := pipeline.DefaultLayoutInput()
	input.Count = 4

	result, err := stage.Execute(context.Background(), input)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(result.Cells) != 4 {
		t.Errorf("expected 4 cells, got %d", len(result.Cells))
	}
}
