package mocks

import (
	"github.com/user/vidplay/pkg/ports"
)

// SurfaceCall records one call made on Surface, in order.
type SurfaceCall struct {
	Method string
	Width  int
	Height int
	// First is the first byte of an uploaded buffer, or -1.
	First int
}

// Surface is a mock implementation of ports.Surface.
type Surface struct {
	AllocateTextureFunc func(width, height int) error
	UploadImageFunc     func(pix []byte) error
	UploadSubImageFunc  func(pix []byte) error
	PresentFunc         func() error
	// PumpEventsFunc decides whether a close was requested.
	PumpEventsFunc func() bool
	CloseFunc      func() error

	Calls      []SurfaceCall
	Pumps      int
	Presents   int
	CloseCalls int

	width, height int
	resize        func(w, h int)
}

// NewSurface creates a mock surface of the given window size.
func NewSurface(width, height int) *Surface {
	return &Surface{width: width, height: height}
}

func (m *Surface) AllocateTexture(width, height int) error {
	m.Calls = append(m.Calls, SurfaceCall{Method: "AllocateTexture", Width: width, Height: height, First: -1})
	if m.AllocateTextureFunc != nil {
		return m.AllocateTextureFunc(width, height)
	}
	return nil
}

func (m *Surface) UploadImage(pix []byte) error {
	m.Calls = append(m.Calls, SurfaceCall{Method: "UploadImage", First: first(pix)})
	if m.UploadImageFunc != nil {
		return m.UploadImageFunc(pix)
	}
	return nil
}

func (m *Surface) UploadSubImage(pix []byte) error {
	m.Calls = append(m.Calls, SurfaceCall{Method: "UploadSubImage", First: first(pix)})
	if m.UploadSubImageFunc != nil {
		return m.UploadSubImageFunc(pix)
	}
	return nil
}

func (m *Surface) Present() error {
	m.Presents++
	m.Calls = append(m.Calls, SurfaceCall{Method: "Present", First: -1})
	if m.PresentFunc != nil {
		return m.PresentFunc()
	}
	return nil
}

func (m *Surface) PumpEvents() bool {
	m.Pumps++
	if m.PumpEventsFunc != nil {
		return m.PumpEventsFunc()
	}
	return false
}

func (m *Surface) OnResize(fn func(w, h int)) {
	m.resize = fn
}

// Resize simulates the user resizing the window.
func (m *Surface) Resize(width, height int) {
	m.width, m.height = width, height
	if m.resize != nil {
		m.resize(width, height)
	}
}

func (m *Surface) Size() (int, int) {
	return m.width, m.height
}

func (m *Surface) Close() error {
	m.CloseCalls++
	if m.CloseFunc != nil {
		return m.CloseFunc()
	}
	return nil
}

// Methods returns the recorded method names.
func (m *Surface) Methods() []string {
	out := make([]string, len(m.Calls))
	for i, c := range m.Calls {
		out[i] = c.Method
	}
	return out
}

// Count returns how many times method was called.
func (m *Surface) Count(method string) int {
	n := 0
	for _, c := range m.Calls {
		if c.Method == method {
			n++
		}
	}
	return n
}

func first(pix []byte) int {
	if len(pix) == 0 {
		return -1
	}
	return int(pix[0])
}

var _ ports.Surface = (*Surface)(nil)
