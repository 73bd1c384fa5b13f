// Package media defines the value types shared by the decode-to-display pipeline.
package media

import (
	"fmt"
	"image"
)

// Rational is a fraction used for stream time bases and frame rates.
type Rational struct {
	Num int
	Den int
}

// Seconds converts a tick count in units of r to seconds.
func (r Rational) Seconds(ticks int64) float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(ticks) * float64(r.Num) / float64(r.Den)
}

// Float64 returns the value of the fraction, or 0 when the denominator is zero.
func (r Rational) Float64() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// Valid reports whether the fraction can be used as a time base.
func (r Rational) Valid() bool {
	return r.Den != 0 && r.Num > 0
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// StreamInfo describes the selected video stream. It is set once while probing.
type StreamInfo struct {
	Path           string
	FormatName     string
	FormatLongName string
	StreamIndex    int
	CodecName      string
	CodecID        string
	PixelFormat    string
	Width          int
	Height         int
	TimeBase       Rational
	FrameRate      Rational
	BitRate        int64
	DurationUs     int64 // container-declared duration, <= 0 when unknown
}

// DurationSeconds returns the declared duration in seconds, or 0 when unknown.
func (s StreamInfo) DurationSeconds() float64 {
	if s.DurationUs <= 0 {
		return 0
	}
	return float64(s.DurationUs) / 1e6
}

// DecodedFrame is a raw frame produced by a FrameDecoder.
//
// Native holds the decoder-owned frame. It is only valid until the next call
// to NextFrame and must not be retained.
type DecodedFrame struct {
	PTS         int64
	Width       int
	Height      int
	PixelFormat string
	Native      any
}

// ConvertedBuffer holds one RGBA8 image, row-major and tightly packed.
// The backing array is reused across frames and only ever grows.
type ConvertedBuffer struct {
	Width  int
	Height int
	Pix    []byte
}

// Stride returns the number of bytes per row.
func (b *ConvertedBuffer) Stride() int {
	return b.Width * 4
}

// Len returns the number of bytes holding the current image.
func (b *ConvertedBuffer) Len() int {
	return b.Width * b.Height * 4
}

// Grow prepares the buffer for a width x height image, reallocating only
// when the current capacity is too small.
func (b *ConvertedBuffer) Grow(width, height int) {
	n := width * height * 4
	if cap(b.Pix) < n {
		b.Pix = make([]byte, n)
	} else {
		b.Pix = b.Pix[:n]
	}
	b.Width = width
	b.Height = height
}

// Image returns an *image.RGBA view of the buffer without copying.
// The view is invalidated by the next conversion.
func (b *ConvertedBuffer) Image() *image.RGBA {
	return &image.RGBA{
		Pix:    b.Pix[:b.Len()],
		Stride: b.Stride(),
		Rect:   image.Rect(0, 0, b.Width, b.Height),
	}
}

// Snapshot returns a copy of the buffer as an *image.RGBA that outlives the
// next conversion.
func (b *ConvertedBuffer) Snapshot() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	copy(img.Pix, b.Pix[:b.Len()])
	return img
}
