// Package summarizer provides summary generation for playback runs.
package summarizer

import (
	"encoding/json"
	"path/filepath"
	"strings"
)

// Formatter defines the interface for formatting a Summary.
type Formatter interface {
	// Format converts a Summary to a formatted string.
	Format(summary *Summary) string
}

// FormatFunc is a function adapter for the Formatter interface.
type FormatFunc func(summary *Summary) string

// Format implements the Formatter interface.
func (f FormatFunc) Format(summary *Summary) string {
	return f(summary)
}

// JSONFormatter renders a Summary as indented JSON for tooling.
type JSONFormatter struct{}

// NewJSONFormatter creates a JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// Format implements the Formatter interface.
func (f *JSONFormatter) Format(summary *Summary) string {
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		// Summary holds only plain values; this does not happen in practice.
		return "{}\n"
	}
	return string(data) + "\n"
}

// ForPath picks the formatter for a report path: JSON for ".json" files,
// fallback for everything else.
func ForPath(path string, fallback Formatter) Formatter {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return NewJSONFormatter()
	}
	return fallback
}

// Ensure JSONFormatter implements Formatter
var _ Formatter = (*JSONFormatter)(nil)
