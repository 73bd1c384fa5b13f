package mocks

import (
	"image"
	"sync"

	"github.com/user/vidplay/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	StreamJSON []byte
	Summary    []byte
	Frames     map[int]image.Image
	FramePTS   map[int]int64

	SaveFrameFunc func(index int, pts int64, img image.Image) error
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:  enabled,
		Frames:   make(map[int]image.Image),
		FramePTS: make(map[int]int64),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveStreamJSON(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StreamJSON = data
	return nil
}

func (m *DebugSink) SaveFrame(index int, pts int64, img image.Image) error {
	if m.SaveFrameFunc != nil {
		return m.SaveFrameFunc(index, pts, img)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames[index] = img
	m.FramePTS[index] = pts
	return nil
}

func (m *DebugSink) SaveSummary(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Summary = data
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)

// NullSink is a no-op implementation of ports.DebugSink.
type NullSink struct{}

func (m *NullSink) Enabled() bool                                         { return false }
func (m *NullSink) SaveStreamJSON(data []byte) error                      { return nil }
func (m *NullSink) SaveFrame(index int, pts int64, img image.Image) error { return nil }
func (m *NullSink) SaveSummary(data []byte) error                         { return nil }

var _ ports.DebugSink = (*NullSink)(nil)
