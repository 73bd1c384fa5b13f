package headless

import (
	"errors"
	"testing"
)

func TestSurface_UploadBeforeAllocate(t *testing.T) {
	s := New(Options{})

	if err := s.UploadImage(make([]byte, 16)); !errors.Is(err, ErrNoTexture) {
		t.Errorf("expected ErrNoTexture, got %v", err)
	}
}

func TestSurface_AllocateOnce(t *testing.T) {
	s := New(Options{})

	if err := s.AllocateTexture(2, 2); err != nil {
		t.Fatalf("AllocateTexture failed: %v", err)
	}
	if err := s.AllocateTexture(2, 2); !errors.Is(err, ErrTextureAllocated) {
		t.Errorf("expected ErrTextureAllocated, got %v", err)
	}
	if err := New(Options{}).AllocateTexture(0, 4); err == nil {
		t.Error("expected error for empty texture")
	}
}

func TestSurface_UploadSizeChecked(t *testing.T) {
	s := New(Options{KeepLast: true})
	if err := s.AllocateTexture(2, 2); err != nil {
		t.Fatalf("AllocateTexture failed: %v", err)
	}

	if err := s.UploadSubImage(make([]byte, 15)); err == nil {
		t.Error("expected error for short upload")
	}

	pix := make([]byte, 16)
	pix[0] = 7
	if err := s.UploadSubImage(pix); err != nil {
		t.Fatalf("UploadSubImage failed: %v", err)
	}
	pix[0] = 9
	if got := s.Last(); len(got) != 16 || got[0] != 7 {
		t.Errorf("expected a copy of the last upload, got %v", got)
	}
	if s.Uploads() != 1 {
		t.Errorf("expected 1 upload, got %d", s.Uploads())
	}
}

func TestSurface_CloseAfter(t *testing.T) {
	s := New(Options{CloseAfter: 2})

	for i := 0; i < 2; i++ {
		if s.PumpEvents() {
			t.Fatalf("close requested after %d frames", i)
		}
		if err := s.Present(); err != nil {
			t.Fatalf("Present failed: %v", err)
		}
	}
	if !s.PumpEvents() {
		t.Error("expected close request after 2 frames")
	}
}

func TestSurface_Resize(t *testing.T) {
	s := New(Options{Width: 640, Height: 480})

	var gotW, gotH int
	s.OnResize(func(w, h int) { gotW, gotH = w, h })
	s.Resize(800, 600)

	if gotW != 800 || gotH != 600 {
		t.Errorf("callback got %dx%d", gotW, gotH)
	}
	if w, h := s.Size(); w != 800 || h != 600 {
		t.Errorf("Size returned %dx%d", w, h)
	}
}

func TestSurface_Close(t *testing.T) {
	s := New(Options{})
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}
	if !s.PumpEvents() {
		t.Error("closed surface should report close")
	}
	if err := s.Present(); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}
