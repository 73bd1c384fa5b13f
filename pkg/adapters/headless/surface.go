// Package headless provides a presentation surface without a window.
// Uploads are validated and counted but never shown.
package headless

import (
	"errors"
	"fmt"
	"sync"

	"github.com/user/vidplay/pkg/ports"
)

var (
	// ErrNoTexture is returned when uploading before AllocateTexture.
	ErrNoTexture = errors.New("headless: texture not allocated")

	// ErrTextureAllocated is returned when AllocateTexture is called twice.
	ErrTextureAllocated = errors.New("headless: texture already allocated")

	// ErrClosed is returned when the surface is used after Close.
	ErrClosed = errors.New("headless: surface closed")
)

// Options configures a Surface.
type Options struct {
	Width  int
	Height int
	// CloseAfter requests a close once this many frames were presented.
	// Zero never closes.
	CloseAfter int
	// KeepLast retains a copy of the last uploaded texture.
	KeepLast bool
}

// Surface implements ports.Surface in memory.
type Surface struct {
	mu sync.Mutex

	opts     Options
	texW     int
	texH     int
	uploads  int
	presents int
	closed   bool
	last     []byte
	resize   func(w, h int)
}

// New creates a headless surface.
func New(opts Options) *Surface {
	return &Surface{opts: opts}
}

// AllocateTexture records the texture dimensions.
func (s *Surface) AllocateTexture(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.texW != 0 {
		return ErrTextureAllocated
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("headless: invalid texture size %dx%d", width, height)
	}
	s.texW, s.texH = width, height
	return nil
}

// UploadImage validates the initial upload.
func (s *Surface) UploadImage(rgba []byte) error {
	return s.upload(rgba)
}

// UploadSubImage validates a replacement upload.
func (s *Surface) UploadSubImage(rgba []byte) error {
	return s.upload(rgba)
}

func (s *Surface) upload(rgba []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.texW == 0 {
		return ErrNoTexture
	}
	if want := s.texW * s.texH * 4; len(rgba) != want {
		return fmt.Errorf("headless: upload is %d bytes, texture needs %d", len(rgba), want)
	}
	s.uploads++
	if s.opts.KeepLast {
		s.last = append(s.last[:0], rgba...)
	}
	return nil
}

// Present counts a displayed frame.
func (s *Surface) Present() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.presents++
	return nil
}

// PumpEvents reports a close once CloseAfter frames were presented.
func (s *Surface) PumpEvents() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed || (s.opts.CloseAfter > 0 && s.presents >= s.opts.CloseAfter)
}

// OnResize registers fn. It is called by Resize.
func (s *Surface) OnResize(fn func(w, h int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resize = fn
}

// Resize changes the reported drawable size and notifies the callback.
func (s *Surface) Resize(width, height int) {
	s.mu.Lock()
	s.opts.Width, s.opts.Height = width, height
	fn := s.resize
	s.mu.Unlock()
	if fn != nil {
		fn(width, height)
	}
}

// Size returns the drawable size.
func (s *Surface) Size() (int, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opts.Width, s.opts.Height
}

// Presents returns the number of presented frames.
func (s *Surface) Presents() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.presents
}

// Uploads returns the number of accepted uploads.
func (s *Surface) Uploads() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploads
}

// Last returns the last uploaded texture when KeepLast is set.
func (s *Surface) Last() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last
}

// Close marks the surface closed. Last stays readable afterwards.
// Calling Close more than once is a no-op.
func (s *Surface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// Ensure Surface implements ports.Surface
var _ ports.Surface = (*Surface)(nil)
