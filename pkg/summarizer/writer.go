package summarizer

import (
	"fmt"

	"github.com/user/vidplay/pkg/ports"
)

// Writer writes formatted summaries to files.
type Writer struct {
	formatter Formatter
	fs        ports.FileSystem
}

// NewWriter creates a new Writer with the given Formatter.
func NewWriter(formatter Formatter, fs ports.FileSystem) *Writer {
	return &Writer{
		formatter: formatter,
		fs:        fs,
	}
}

// Render formats the summary without writing it.
func (w *Writer) Render(summary *Summary) []byte {
	return []byte(w.formatter.Format(summary))
}

// Write formats the summary and writes it to the specified path.
// Parent directories are created by the file system.
func (w *Writer) Write(path string, summary *Summary) error {
	if err := w.fs.WriteFile(path, w.Render(summary)); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
