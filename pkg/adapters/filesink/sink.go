// Package filesink provides a file-based debug sink implementation.
package filesink

import (
	"fmt"
	"image"
	"path/filepath"

	"github.com/user/vidplay/pkg/ports"
)

// Sink saves debug output under a base directory:
//
//	stream.json
//	summary.md
//	frames/frame-0000-pts-12.png
type Sink struct {
	baseDir  string
	fs       ports.FileSystem
	renderer ports.Renderer
}

// New creates a new FileSink.
func New(baseDir string, fs ports.FileSystem, renderer ports.Renderer) *Sink {
	return &Sink{
		baseDir:  baseDir,
		fs:       fs,
		renderer: renderer,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveStreamJSON saves the probed stream information.
func (s *Sink) SaveStreamJSON(data []byte) error {
	return s.fs.WriteFile(filepath.Join(s.baseDir, "stream.json"), data)
}

// SaveFrame saves a displayed frame as PNG.
func (s *Sink) SaveFrame(index int, pts int64, img image.Image) error {
	dir := filepath.Join(s.baseDir, "frames")
	if err := s.fs.MkdirAll(dir); err != nil {
		return err
	}
	data, err := s.renderer.EncodeImage(img, ports.FormatPNG, 0)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("frame-%04d-pts-%d.png", index, pts))
	return s.fs.WriteFile(path, data)
}

// SaveSummary saves the playback summary.
func (s *Sink) SaveSummary(data []byte) error {
	return s.fs.WriteFile(filepath.Join(s.baseDir, "summary.md"), data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
