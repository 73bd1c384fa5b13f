package ffmpeg

import (
	"errors"

	"github.com/asticode/go-astiav"

	"github.com/user/vidplay/pkg/media"
)

// NextFrame implements ports.FrameDecoder.
//
// Packets of other streams are discarded. When the demuxer runs dry the
// decoder is flushed so buffered frames are still returned, and only then
// media.ErrEndOfStream is reported. End of stream is sticky.
//
// The returned frame is valid until the next call to NextFrame or Close.
func (s *Session) NextFrame() (media.DecodedFrame, error) {
	if s.closed {
		return media.DecodedFrame{}, ErrSessionClosed
	}
	if s.eos {
		return media.DecodedFrame{}, media.ErrEndOfStream
	}

	s.frame.Unref()

	for {
		err := s.cc.ReceiveFrame(s.frame)
		switch {
		case err == nil:
			return s.wrap(s.frame), nil
		case errors.Is(err, astiav.ErrEof):
			s.eos = true
			s.logger.Debug("Decoder drained")
			return media.DecodedFrame{}, media.ErrEndOfStream
		case !errors.Is(err, astiav.ErrEagain):
			return media.DecodedFrame{}, &media.DecodeError{Op: "receive frame", Err: err}
		}

		// The decoder needs more input
		if s.draining {
			// Flushed decoders never ask for input again, but guard anyway
			s.eos = true
			return media.DecodedFrame{}, media.ErrEndOfStream
		}
		if err := s.feed(); err != nil {
			return media.DecodedFrame{}, err
		}
	}
}

// feed reads packets until one of the selected stream is sent to the
// decoder, or enters draining mode at end of input.
func (s *Session) feed() error {
	for {
		err := s.fc.ReadFrame(s.pkt)
		if errors.Is(err, astiav.ErrEof) {
			s.draining = true
			if err := s.cc.SendPacket(nil); err != nil && !errors.Is(err, astiav.ErrEof) {
				return &media.DecodeError{Op: "flush decoder", Err: err}
			}
			return nil
		}
		if err != nil {
			return &media.DecodeError{Op: "read packet", Err: err}
		}

		if s.pkt.StreamIndex() != s.info.StreamIndex {
			s.pkt.Unref()
			continue
		}

		err = s.cc.SendPacket(s.pkt)
		s.pkt.Unref()
		if err != nil && !errors.Is(err, astiav.ErrEagain) {
			return &media.DecodeError{Op: "send packet", Err: err}
		}
		return nil
	}
}

// wrap exposes the native frame with a non-decreasing timestamp.
// Frames without a presentation timestamp inherit the previous one.
func (s *Session) wrap(f *astiav.Frame) media.DecodedFrame {
	pts := f.Pts()
	if pts == astiav.NoPtsValue {
		if s.havePTS {
			pts = s.lastPTS
		} else {
			pts = 0
		}
	}
	s.lastPTS, s.havePTS = pts, true

	return media.DecodedFrame{
		PTS:         pts,
		Width:       f.Width(),
		Height:      f.Height(),
		PixelFormat: f.PixelFormat().String(),
		Native:      f,
	}
}
