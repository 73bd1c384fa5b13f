package y4m

import (
	"bytes"
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/user/vidplay/pkg/media"
)

func TestNewWriter_Validation(t *testing.T) {
	var buf bytes.Buffer

	if _, err := NewWriter(&buf, 0, 10, media.Rational{Num: 10, Den: 1}); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
	if _, err := NewWriter(&buf, 10, 10, media.Rational{Num: 0, Den: 1}); !errors.Is(err, ErrInvalidRate) {
		t.Errorf("expected ErrInvalidRate, got %v", err)
	}
}

func TestWriter_Layout(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, 4, 2, media.Rational{Num: 10, Den: 1})
	if err != nil {
		t.Fatalf("NewWriter failed: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := w.WriteFrame(Solid(4, 2, color.RGBA{128, 128, 128, 255})); err != nil {
			t.Fatalf("WriteFrame failed: %v", err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	out := buf.String()
	if !strings.HasPrefix(out, "YUV4MPEG2 W4 H2 F10:1 ") {
		t.Errorf("unexpected header: %q", strings.SplitN(out, "\n", 2)[0])
	}

	// header + 3 * ("FRAME\n" + Y(8) + Cb(2) + Cr(2))
	want := len(w.Header()) + 3*(6+8+2+2)
	if buf.Len() != want {
		t.Errorf("expected %d bytes, got %d", want, buf.Len())
	}
	if w.Frames() != 3 {
		t.Errorf("expected 3 frames, got %d", w.Frames())
	}
}

func TestWriter_SizeMismatch(t *testing.T) {
	var buf bytes.Buffer
	w, _ := NewWriter(&buf, 4, 4, media.Rational{Num: 25, Den: 1})

	err := w.WriteFrame(Solid(8, 8, color.RGBA{}))
	if !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("expected ErrSizeMismatch, got %v", err)
	}
}

func TestStudioSwingConversion(t *testing.T) {
	tests := []struct {
		name      string
		r, g, b   uint8
		y, cb, cr uint8
		tolerance int
	}{
		{"black", 0, 0, 0, 16, 128, 128, 0},
		{"white", 255, 255, 255, 235, 128, 128, 0},
		{"red", 255, 0, 0, 82, 90, 240, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			y := lumaOf(tt.r, tt.g, tt.b)
			cb, cr := chromaOf(tt.r, tt.g, tt.b)
			if absDiff(y, tt.y) > tt.tolerance || absDiff(cb, tt.cb) > tt.tolerance || absDiff(cr, tt.cr) > tt.tolerance {
				t.Errorf("got Y'CbCr (%d,%d,%d), want (%d,%d,%d)", y, cb, cr, tt.y, tt.cb, tt.cr)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	var buf bytes.Buffer
	n, err := Generate(&buf, GenerateOptions{
		Width:   14,
		Height:  8,
		FPS:     media.Rational{Num: 10, Den: 1},
		Frames:  5,
		Pattern: PatternBars,
	})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if n != 5 {
		t.Errorf("expected 5 frames, got %d", n)
	}
	if got := strings.Count(buf.String(), "FRAME\n"); got < 5 {
		t.Errorf("expected at least 5 frame markers, got %d", got)
	}

	if _, err := Generate(&buf, GenerateOptions{Width: 2, Height: 2, FPS: media.Rational{Num: 1, Den: 1}, Frames: 1, Pattern: "plaid"}); err == nil {
		t.Error("expected error for unknown pattern")
	}
}

func TestColorBars_MarkerMoves(t *testing.T) {
	a := ColorBars(64, 32, 0)
	b := ColorBars(64, 32, 1)
	if bytes.Equal(a.Pix, b.Pix) {
		t.Error("expected consecutive frames to differ")
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
