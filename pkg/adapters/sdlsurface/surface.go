// Package sdlsurface presents frames in an SDL2 window.
//
// All methods must be called from the thread that called New, which must be
// the main OS thread on most platforms.
package sdlsurface

import (
	"errors"
	"fmt"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/user/vidplay/pkg/ports"
)

var (
	// ErrNoTexture is returned when uploading before AllocateTexture.
	ErrNoTexture = errors.New("sdlsurface: texture not allocated")

	// ErrTextureAllocated is returned when AllocateTexture is called twice.
	ErrTextureAllocated = errors.New("sdlsurface: texture already allocated")
)

// Options configures the window.
type Options struct {
	Width  int
	Height int
	Title  string
	VSync  bool
}

// Surface is an SDL window with one streaming RGBA texture.
type Surface struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture

	texW, texH int
	resize     func(w, h int)
	closed     bool
	logger     ports.Logger
}

// New initializes SDL video and opens a resizable window.
func New(opts Options, logger ports.Logger) (*Surface, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("sdlsurface: invalid window size %dx%d", opts.Width, opts.Height)
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, fmt.Errorf("init SDL: %w", err)
	}

	// Linear filtering when the quad is scaled
	sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "1")

	window, err := sdl.CreateWindow(
		opts.Title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(opts.Width), int32(opts.Height),
		sdl.WINDOW_SHOWN|sdl.WINDOW_RESIZABLE|sdl.WINDOW_ALLOW_HIGHDPI,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("create window: %w", err)
	}

	flags := uint32(sdl.RENDERER_ACCELERATED)
	if opts.VSync {
		flags |= sdl.RENDERER_PRESENTVSYNC
	}
	renderer, err := sdl.CreateRenderer(window, -1, flags)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("create renderer: %w", err)
	}

	s := &Surface{
		window:   window,
		renderer: renderer,
		logger:   logger.WithComponent("surface"),
	}
	w, h := s.Size()
	s.logger.Debug("Window opened: %dx%d drawable", w, h)
	return s, nil
}

// AllocateTexture creates the streaming RGBA texture.
func (s *Surface) AllocateTexture(width, height int) error {
	if s.texture != nil {
		return ErrTextureAllocated
	}
	tex, err := s.renderer.CreateTexture(
		uint32(sdl.PIXELFORMAT_RGBA32),
		sdl.TEXTUREACCESS_STREAMING,
		int32(width), int32(height),
	)
	if err != nil {
		return fmt.Errorf("create texture: %w", err)
	}
	s.texture = tex
	s.texW, s.texH = width, height
	s.logger.Debug("Texture allocated: %dx%d", width, height)
	return nil
}

// UploadImage fills the texture with the first frame.
func (s *Surface) UploadImage(rgba []byte) error {
	return s.upload(rgba)
}

// UploadSubImage replaces the texture contents.
func (s *Surface) UploadSubImage(rgba []byte) error {
	return s.upload(rgba)
}

func (s *Surface) upload(rgba []byte) error {
	if s.texture == nil {
		return ErrNoTexture
	}
	stride := s.texW * 4
	if len(rgba) < stride*s.texH {
		return fmt.Errorf("sdlsurface: upload is %d bytes, texture needs %d", len(rgba), stride*s.texH)
	}

	pixels, pitch, err := s.texture.Lock(nil)
	if err != nil {
		return fmt.Errorf("lock texture: %w", err)
	}
	defer s.texture.Unlock()

	if pitch == stride {
		copy(pixels, rgba[:stride*s.texH])
		return nil
	}
	for y := 0; y < s.texH; y++ {
		copy(pixels[y*pitch:y*pitch+stride], rgba[y*stride:(y+1)*stride])
	}
	return nil
}

// Present clears the window and draws the texture letterboxed.
func (s *Surface) Present() error {
	if err := s.renderer.SetDrawColor(0, 0, 0, 255); err != nil {
		return err
	}
	if err := s.renderer.Clear(); err != nil {
		return err
	}
	if s.texture != nil {
		w, h := s.Size()
		x, y, dw, dh := Letterbox(s.texW, s.texH, w, h)
		dst := sdl.Rect{X: int32(x), Y: int32(y), W: int32(dw), H: int32(dh)}
		if err := s.renderer.Copy(s.texture, nil, &dst); err != nil {
			return fmt.Errorf("draw texture: %w", err)
		}
	}
	s.renderer.Present()
	return nil
}

// PumpEvents drains the SDL event queue. Closing the window or pressing
// Escape requests a close.
func (s *Surface) PumpEvents() bool {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			s.closed = true
		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Keysym.Sym == sdl.K_ESCAPE {
				s.closed = true
			}
		case *sdl.WindowEvent:
			switch e.Event {
			case sdl.WINDOWEVENT_CLOSE:
				s.closed = true
			case sdl.WINDOWEVENT_SIZE_CHANGED:
				if s.resize != nil {
					w, h := s.Size()
					s.resize(w, h)
				}
			}
		}
	}
	return s.closed
}

// OnResize registers a callback for drawable size changes.
func (s *Surface) OnResize(fn func(w, h int)) {
	s.resize = fn
}

// Size returns the drawable size in pixels.
func (s *Surface) Size() (int, int) {
	w, h, err := s.renderer.GetOutputSize()
	if err != nil {
		ww, wh := s.window.GetSize()
		return int(ww), int(wh)
	}
	return int(w), int(h)
}

// Close destroys the texture, renderer and window, then shuts SDL down.
func (s *Surface) Close() error {
	if s.window == nil {
		return nil
	}
	if s.texture != nil {
		s.texture.Destroy()
		s.texture = nil
	}
	s.renderer.Destroy()
	s.window.Destroy()
	s.window = nil
	sdl.Quit()
	return nil
}

// Ensure Surface implements ports.Surface
var _ ports.Surface = (*Surface)(nil)
