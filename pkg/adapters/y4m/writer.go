// Package y4m writes uncompressed YUV4MPEG2 clips.
//
// Y4M is demuxed and decoded natively by FFmpeg (rawvideo), which makes it a
// convenient source for test clips with exact frame counts and timing.
package y4m

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/user/vidplay/pkg/media"
)

var (
	// ErrInvalidSize is returned for non-positive frame dimensions.
	ErrInvalidSize = errors.New("y4m: invalid frame size")

	// ErrInvalidRate is returned for a non-positive frame rate.
	ErrInvalidRate = errors.New("y4m: invalid frame rate")

	// ErrSizeMismatch is returned when a frame does not match the stream size.
	ErrSizeMismatch = errors.New("y4m: frame size does not match stream")
)

// Writer writes 4:2:0 limited-range frames to a YUV4MPEG2 stream.
type Writer struct {
	w       *bufio.Writer
	width   int
	height  int
	fps     media.Rational
	frames  int
	started bool

	y, cb, cr []byte
}

// NewWriter creates a Writer for frames of the given size and rate.
func NewWriter(w io.Writer, width, height int, fps media.Rational) (*Writer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if fps.Num <= 0 || fps.Den <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRate, fps)
	}

	cw, ch := chromaSize(width, height)
	return &Writer{
		w:      bufio.NewWriter(w),
		width:  width,
		height: height,
		fps:    fps,
		y:      make([]byte, width*height),
		cb:     make([]byte, cw*ch),
		cr:     make([]byte, cw*ch),
	}, nil
}

// Header returns the stream header line.
func (w *Writer) Header() string {
	return fmt.Sprintf("YUV4MPEG2 W%d H%d F%d:%d Ip A1:1 C420jpeg XCOLORRANGE=LIMITED\n",
		w.width, w.height, w.fps.Num, w.fps.Den)
}

// WriteFrame converts img to Y'CbCr and appends it to the stream.
func (w *Writer) WriteFrame(img image.Image) error {
	b := img.Bounds()
	if b.Dx() != w.width || b.Dy() != w.height {
		return fmt.Errorf("%w: got %dx%d, want %dx%d", ErrSizeMismatch, b.Dx(), b.Dy(), w.width, w.height)
	}

	if !w.started {
		if _, err := w.w.WriteString(w.Header()); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		w.started = true
	}

	w.fill(img)

	if _, err := w.w.WriteString("FRAME\n"); err != nil {
		return fmt.Errorf("write frame marker: %w", err)
	}
	for _, plane := range [][]byte{w.y, w.cb, w.cr} {
		if _, err := w.w.Write(plane); err != nil {
			return fmt.Errorf("write plane: %w", err)
		}
	}

	w.frames++
	return nil
}

// Frames returns the number of frames written so far.
func (w *Writer) Frames() int {
	return w.frames
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}

// fill samples img into the luma plane and averages 2x2 blocks into chroma.
func (w *Writer) fill(img image.Image) {
	b := img.Bounds()
	cw, ch := chromaSize(w.width, w.height)

	for y := 0; y < w.height; y++ {
		for x := 0; x < w.width; x++ {
			r, g, bl := rgb8(img, b.Min.X+x, b.Min.Y+y)
			w.y[y*w.width+x] = lumaOf(r, g, bl)
		}
	}

	for cy := 0; cy < ch; cy++ {
		for cx := 0; cx < cw; cx++ {
			var sr, sg, sb, n int
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					x, y := cx*2+dx, cy*2+dy
					if x >= w.width || y >= w.height {
						continue
					}
					r, g, bl := rgb8(img, b.Min.X+x, b.Min.Y+y)
					sr += int(r)
					sg += int(g)
					sb += int(bl)
					n++
				}
			}
			r, g, bl := uint8(sr/n), uint8(sg/n), uint8(sb/n)
			w.cb[cy*cw+cx], w.cr[cy*cw+cx] = chromaOf(r, g, bl)
		}
	}
}

func chromaSize(width, height int) (int, int) {
	return (width + 1) / 2, (height + 1) / 2
}

func rgb8(img image.Image, x, y int) (uint8, uint8, uint8) {
	r, g, b, _ := img.At(x, y).RGBA()
	return uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)
}

// lumaOf and chromaOf implement BT.601 studio-swing conversion, which is
// what FFmpeg assumes for untagged yuv420p.
func lumaOf(r, g, b uint8) uint8 {
	y := 16 + (65.738*float64(r)+129.057*float64(g)+25.064*float64(b))/256
	return clampByte(y)
}

func chromaOf(r, g, b uint8) (uint8, uint8) {
	cb := 128 + (-37.945*float64(r)-74.494*float64(g)+112.439*float64(b))/256
	cr := 128 + (112.439*float64(r)-94.154*float64(g)-18.285*float64(b))/256
	return clampByte(cb), clampByte(cr)
}

func clampByte(v float64) uint8 {
	v += 0.5
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
