package ffmpeg

import (
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"

	"github.com/user/vidplay/pkg/media"
	"github.com/user/vidplay/pkg/ports"
)

// allocFrame is replaced in tests to simulate allocation failure.
var allocFrame = astiav.AllocFrame

// Converter scales decoded frames into packed RGBA8 at source resolution.
//
// The scaling context is built lazily and rebuilt only when the source
// dimensions or pixel format change.
type Converter struct {
	ssc *astiav.SoftwareScaleContext
	dst *astiav.Frame

	srcW, srcH int
	srcFmt     astiav.PixelFormat
	rebuilds   int

	logger ports.Logger
}

// NewConverter creates a new Converter.
func NewConverter(logger ports.Logger) *Converter {
	return &Converter{
		logger: logger.WithComponent("convert"),
	}
}

// Convert implements ports.PixelConverter.
func (c *Converter) Convert(frame media.DecodedFrame, dst *media.ConvertedBuffer) error {
	src, ok := frame.Native.(*astiav.Frame)
	if !ok || src == nil {
		return ErrNoNativeFrame
	}

	if err := c.ensure(src); err != nil {
		return err
	}

	if err := c.ssc.ScaleFrame(src, c.dst); err != nil {
		return &media.DecodeError{Op: "scale frame", Err: err}
	}

	dst.Grow(c.srcW, c.srcH)
	if _, err := c.dst.ImageCopyToBuffer(dst.Pix, 1); err != nil {
		return &media.DecodeError{Op: "copy image", Err: err}
	}
	return nil
}

// Rebuilds returns how many times the scaling context has been created.
func (c *Converter) Rebuilds() int {
	return c.rebuilds
}

// Close releases the scaling context and destination frame.
func (c *Converter) Close() {
	if c.dst != nil {
		c.dst.Free()
		c.dst = nil
	}
	if c.ssc != nil {
		c.ssc.Free()
		c.ssc = nil
	}
}

func (c *Converter) ensure(src *astiav.Frame) error {
	w, h, f := src.Width(), src.Height(), src.PixelFormat()
	if c.ssc != nil && w == c.srcW && h == c.srcH && f == c.srcFmt {
		return nil
	}

	c.Close()

	ssc, err := astiav.CreateSoftwareScaleContext(
		w, h, f,
		w, h, astiav.PixelFormatRgba,
		astiav.NewSoftwareScaleContextFlags(astiav.SoftwareScaleContextFlagBilinear),
	)
	if err != nil {
		return &media.ConversionInitError{Width: w, Height: h, Format: f.String(), Err: err}
	}

	dst := allocFrame()
	if dst == nil {
		ssc.Free()
		return &media.ConversionInitError{Width: w, Height: h, Format: f.String(), Err: errors.New("allocating frame failed")}
	}
	dst.SetWidth(w)
	dst.SetHeight(h)
	dst.SetPixelFormat(astiav.PixelFormatRgba)
	if err := dst.AllocBuffer(1); err != nil {
		dst.Free()
		ssc.Free()
		return &media.ConversionInitError{Width: w, Height: h, Format: f.String(), Err: fmt.Errorf("allocating buffer: %w", err)}
	}

	c.ssc, c.dst = ssc, dst
	c.srcW, c.srcH, c.srcFmt = w, h, f
	c.rebuilds++
	c.logger.Debug("Scaler ready: %dx%d %s -> rgba", w, h, f.String())
	return nil
}

// Ensure Converter implements ports.PixelConverter
var _ ports.PixelConverter = (*Converter)(nil)
