package ports

import (
	"github.com/user/vidplay/pkg/media"
)

// StreamProber opens a media file and prepares a decode session for its
// first video stream.
type StreamProber interface {
	// Probe opens path and returns a session positioned to read packets.
	Probe(path string) (MediaSession, media.StreamInfo, error)
}

// FrameDecoder produces decoded video frames one at a time.
type FrameDecoder interface {
	// NextFrame returns the next frame in presentation order.
	// It returns media.ErrEndOfStream once the input is exhausted.
	NextFrame() (media.DecodedFrame, error)
}

// MediaSession is a FrameDecoder that owns native resources.
type MediaSession interface {
	FrameDecoder

	// Close releases all resources in reverse acquisition order.
	// It is safe to call more than once.
	Close() error
}

// PixelConverter converts decoded frames to RGBA8.
type PixelConverter interface {
	// Convert writes frame into dst, growing dst if needed.
	Convert(frame media.DecodedFrame, dst *media.ConvertedBuffer) error

	// Close releases the conversion context.
	Close()
}

// ConverterFactory creates a PixelConverter for one session.
type ConverterFactory func() PixelConverter
