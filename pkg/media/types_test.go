package media

import (
	"errors"
	"fmt"
	"testing"
)

func TestRational_Seconds(t *testing.T) {
	tests := []struct {
		tb       Rational
		ticks    int64
		expected float64
	}{
		{Rational{1, 10}, 15, 1.5},
		{Rational{1, 90000}, 90000, 1.0},
		{Rational{1001, 30000}, 30, 1.001},
		{Rational{1, 0}, 100, 0},
	}

	for _, tt := range tests {
		got := tt.tb.Seconds(tt.ticks)
		if diff := got - tt.expected; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("%s.Seconds(%d) = %f, want %f", tt.tb, tt.ticks, got, tt.expected)
		}
	}
}

func TestRational_Valid(t *testing.T) {
	if !(Rational{1, 25}).Valid() {
		t.Error("expected 1/25 to be valid")
	}
	if (Rational{1, 0}).Valid() {
		t.Error("expected 1/0 to be invalid")
	}
	if (Rational{0, 1}).Valid() {
		t.Error("expected 0/1 to be invalid")
	}
}

func TestConvertedBuffer_GrowNeverShrinks(t *testing.T) {
	var buf ConvertedBuffer

	buf.Grow(64, 48)
	if len(buf.Pix) != 64*48*4 {
		t.Fatalf("expected %d bytes, got %d", 64*48*4, len(buf.Pix))
	}
	large := cap(buf.Pix)

	buf.Grow(16, 16)
	if len(buf.Pix) != 16*16*4 {
		t.Errorf("expected %d bytes, got %d", 16*16*4, len(buf.Pix))
	}
	if cap(buf.Pix) != large {
		t.Errorf("capacity changed from %d to %d", large, cap(buf.Pix))
	}
	if buf.Stride() != 64 {
		t.Errorf("expected stride 64, got %d", buf.Stride())
	}
}

func TestConvertedBuffer_Image(t *testing.T) {
	var buf ConvertedBuffer
	buf.Grow(2, 2)
	buf.Pix[4] = 0xAB

	img := buf.Image()
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Fatalf("unexpected bounds %v", img.Bounds())
	}
	if img.RGBAAt(1, 0).R != 0xAB {
		t.Errorf("expected view to share pixels")
	}

	snap := buf.Snapshot()
	buf.Pix[4] = 0
	if snap.RGBAAt(1, 0).R != 0xAB {
		t.Errorf("expected snapshot to be independent of the buffer")
	}
}

func TestStreamInfo_DurationSeconds(t *testing.T) {
	if got := (StreamInfo{DurationUs: 2_500_000}).DurationSeconds(); got != 2.5 {
		t.Errorf("expected 2.5, got %f", got)
	}
	if got := (StreamInfo{DurationUs: -1}).DurationSeconds(); got != 0 {
		t.Errorf("expected 0 for unknown duration, got %f", got)
	}
}

func TestErrors_Unwrap(t *testing.T) {
	cause := errors.New("boom")

	wrapped := fmt.Errorf("probe: %w", &OpenError{Path: "a.mp4", Err: cause})
	if !errors.Is(wrapped, cause) {
		t.Error("expected OpenError to unwrap to its cause")
	}

	var openErr *OpenError
	if !errors.As(wrapped, &openErr) || openErr.Path != "a.mp4" {
		t.Error("expected errors.As to find OpenError")
	}

	if !errors.Is(&DecodeError{Op: "send packet", Err: cause}, cause) {
		t.Error("expected DecodeError to unwrap to its cause")
	}
}

func TestIsInitError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"open", &OpenError{Path: "x", Err: errors.New("x")}, true},
		{"no video", fmt.Errorf("probe: %w", ErrNoVideoStream), true},
		{"codec", &UnsupportedCodecError{CodecID: "foo"}, true},
		{"decoder", &DecoderInitError{Op: "open", Err: errors.New("x")}, true},
		{"conversion", &ConversionInitError{Err: errors.New("x")}, true},
		{"decode", &DecodeError{Op: "receive frame", Err: errors.New("x")}, false},
		{"eos", ErrEndOfStream, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInitError(tt.err); got != tt.want {
				t.Errorf("IsInitError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
