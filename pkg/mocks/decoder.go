package mocks

import (
	"fmt"
	"sync"

	"github.com/user/vidplay/pkg/media"
	"github.com/user/vidplay/pkg/ports"
)

// FrameStep is one scripted result of FrameDecoder.NextFrame.
type FrameStep struct {
	Frame media.DecodedFrame
	Err   error
}

// FrameDecoder is a mock implementation of ports.MediaSession.
// It replays Steps in order and reports end of stream afterwards.
type FrameDecoder struct {
	mu sync.Mutex

	Steps []FrameStep

	NextFrameFunc func() (media.DecodedFrame, error)
	CloseFunc     func() error

	Calls      int
	CloseCalls int
}

// NewFrameDecoder creates a decoder that yields n frames of the given size
// with pts 0, 1, 2, ...
func NewFrameDecoder(n, width, height int) *FrameDecoder {
	m := &FrameDecoder{}
	for i := 0; i < n; i++ {
		m.Steps = append(m.Steps, FrameStep{Frame: media.DecodedFrame{
			PTS:         int64(i),
			Width:       width,
			Height:      height,
			PixelFormat: "rgba",
		}})
	}
	return m
}

func (m *FrameDecoder) NextFrame() (media.DecodedFrame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.NextFrameFunc != nil {
		return m.NextFrameFunc()
	}
	if len(m.Steps) == 0 {
		return media.DecodedFrame{}, media.ErrEndOfStream
	}
	s := m.Steps[0]
	m.Steps = m.Steps[1:]
	return s.Frame, s.Err
}

func (m *FrameDecoder) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalls++
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

var _ ports.MediaSession = (*FrameDecoder)(nil)

// StreamProber is a mock implementation of ports.StreamProber.
type StreamProber struct {
	ProbeFunc func(path string) (ports.MediaSession, media.StreamInfo, error)

	Session *FrameDecoder
	Info    media.StreamInfo
	Paths   []string
}

func (m *StreamProber) Probe(path string) (ports.MediaSession, media.StreamInfo, error) {
	m.Paths = append(m.Paths, path)
	if m.ProbeFunc != nil {
		return m.ProbeFunc(path)
	}
	if m.Session == nil {
		return nil, media.StreamInfo{}, &media.OpenError{Path: path, Err: fmt.Errorf("no session scripted")}
	}
	return m.Session, m.Info, nil
}

var _ ports.StreamProber = (*StreamProber)(nil)

// PixelConverter is a mock implementation of ports.PixelConverter.
// By default it fills the buffer with the low byte of the frame's pts.
type PixelConverter struct {
	ConvertFunc func(frame media.DecodedFrame, dst *media.ConvertedBuffer) error

	Converted  []int64
	CloseCalls int
}

func (m *PixelConverter) Convert(frame media.DecodedFrame, dst *media.ConvertedBuffer) error {
	if m.ConvertFunc != nil {
		return m.ConvertFunc(frame, dst)
	}
	dst.Grow(frame.Width, frame.Height)
	for i := range dst.Pix {
		dst.Pix[i] = byte(frame.PTS)
	}
	m.Converted = append(m.Converted, frame.PTS)
	return nil
}

func (m *PixelConverter) Close() {
	m.CloseCalls++
}

var _ ports.PixelConverter = (*PixelConverter)(nil)
