package ports

// Surface is the presentation target: a window (or stand-in) holding one
// RGBA texture that is drawn as a quad on every Present.
type Surface interface {
	// AllocateTexture creates the texture. Dimensions are fixed afterwards.
	AllocateTexture(width, height int) error

	// UploadImage uploads the initial image after allocation.
	UploadImage(rgba []byte) error

	// UploadSubImage replaces the texture contents for subsequent frames.
	UploadSubImage(rgba []byte) error

	// Present clears the target, draws the textured quad and swaps buffers.
	Present() error

	// PumpEvents drains pending window events and reports whether the
	// user asked to close the surface.
	PumpEvents() (closeRequested bool)

	// OnResize registers a callback invoked with the new drawable size.
	OnResize(fn func(width, height int))

	// Size returns the current drawable size.
	Size() (width, height int)

	// Close destroys the texture and the surface.
	Close() error
}
