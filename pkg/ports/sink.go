package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate results.
// It allows saving displayed frames and stream metadata for inspection.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveStreamJSON saves the probed stream information as JSON.
	SaveStreamJSON(data []byte) error

	// SaveFrame saves a displayed frame.
	SaveFrame(index int, pts int64, img image.Image) error

	// SaveSummary saves the playback summary.
	SaveSummary(data []byte) error
}
