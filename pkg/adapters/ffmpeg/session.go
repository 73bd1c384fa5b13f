// Package ffmpeg implements stream probing, frame decoding and pixel
// conversion on top of FFmpeg (libavformat, libavcodec, libswscale).
package ffmpeg

import (
	"errors"
	"sync"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"

	"github.com/user/vidplay/pkg/media"
	"github.com/user/vidplay/pkg/ports"
)

var (
	// ErrSessionClosed is returned when a closed session is used.
	ErrSessionClosed = errors.New("ffmpeg: session closed")

	// ErrNoNativeFrame is returned when a frame was not produced by this package.
	ErrNoNativeFrame = errors.New("ffmpeg: frame carries no native data")
)

// Session owns the native handles of one opened media file: the format
// context, the codec context of the selected video stream, and one scratch
// packet and frame reused by every decode call.
type Session struct {
	closer *astikit.Closer
	once   sync.Once

	fc    *astiav.FormatContext
	cc    *astiav.CodecContext
	pkt   *astiav.Packet
	frame *astiav.Frame

	info     media.StreamInfo
	draining bool
	eos      bool
	closed   bool
	lastPTS  int64
	havePTS  bool
	logger   ports.Logger
}

// Info returns the probed stream information.
func (s *Session) Info() media.StreamInfo {
	return s.info
}

// Close releases all native handles in reverse acquisition order.
// Calling Close more than once is a no-op.
func (s *Session) Close() error {
	var err error
	s.once.Do(func() {
		s.closed = true
		err = s.closer.Close()
		s.fc, s.cc, s.pkt, s.frame = nil, nil, nil, nil
		s.logger.Debug("Session closed")
	})
	return err
}

// Ensure Session implements ports.MediaSession
var _ ports.MediaSession = (*Session)(nil)
