package summarizer

import (
	"fmt"
	"strings"
	"time"
)

// MarkdownFormatter renders a Summary as a Markdown document.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator sets the function used to translate labels.
func WithTranslator(fn func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = fn
	}
}

// WithVersion sets the version shown in the footer.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a formatter. Labels are left untranslated
// unless WithTranslator is given.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements the Formatter interface.
func (f *MarkdownFormatter) Format(s *Summary) string {
	t := f.translate
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", t("Playback Summary"))

	fmt.Fprintf(&b, "## %s\n\n", t("Input"))
	f.header(&b)
	f.row(&b, "File", s.Input.Path)
	f.row(&b, "Container", orNA(t, s.Input.FormatName))
	if s.Input.FileSize > 0 {
		f.row(&b, "File Size", formatBytes(s.Input.FileSize))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Video Stream"))
	f.header(&b)
	f.row(&b, "Codec", orNA(t, s.Stream.Codec))
	f.row(&b, "Pixel Format", orNA(t, s.Stream.PixelFormat))
	f.row(&b, "Resolution", fmt.Sprintf("%dx%d", s.Stream.Width, s.Stream.Height))
	f.row(&b, "Time Base", orNA(t, s.Stream.TimeBase))
	if s.Stream.FrameRate > 0 {
		f.row(&b, "Frame Rate", fmt.Sprintf("%.3f fps", s.Stream.FrameRate))
	}
	if s.Stream.BitRate > 0 {
		f.row(&b, "Bit Rate", fmt.Sprintf("%d kbps", s.Stream.BitRate/1000))
	}
	if s.Stream.DurationUs > 0 {
		f.row(&b, "Duration", formatSeconds(float64(s.Stream.DurationUs)/1e6))
	} else {
		f.row(&b, "Duration", t("Unknown"))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## %s\n\n", t("Playback"))
	f.header(&b)
	f.row(&b, "Result", t(reasonLabel(s.Playback.Reason)))
	if s.Playback.Error != "" {
		f.row(&b, "Error", s.Playback.Error)
	}
	f.row(&b, "Frames Decoded", fmt.Sprintf("%d", s.Playback.FramesDecoded))
	f.row(&b, "Frames Displayed", fmt.Sprintf("%d", s.Playback.FramesDisplayed))
	if s.Playback.FramesSkipped > 0 {
		f.row(&b, "Frames Skipped", fmt.Sprintf("%d", s.Playback.FramesSkipped))
	}
	if s.Playback.FramesDisplayed > 0 {
		f.row(&b, "Presentation Range", fmt.Sprintf("%s - %s", formatSeconds(s.Playback.FirstPTS), formatSeconds(s.Playback.LastPTS)))
	}
	f.row(&b, "Wall Time", fmt.Sprintf("%d ms", s.Playback.WallTimeMs))
	if s.Playback.LateFrames > 0 {
		f.row(&b, "Late Frames", fmt.Sprintf("%d (%s %d ms)", s.Playback.LateFrames, t("max"), s.Playback.MaxLatenessMs))
	} else {
		f.row(&b, "Late Frames", t("None"))
	}
	b.WriteString("\n")

	if s.Settings != (Settings{}) {
		fmt.Fprintf(&b, "## %s\n\n", t("Settings"))
		f.header(&b)
		f.row(&b, "Surface", orNA(t, s.Settings.Surface))
		if s.Settings.WindowWidth > 0 && s.Settings.WindowHeight > 0 {
			f.row(&b, "Window Size", fmt.Sprintf("%dx%d", s.Settings.WindowWidth, s.Settings.WindowHeight))
		}
		f.row(&b, "On Decode Error", orNA(t, s.Settings.OnDecodeError))
		if s.Settings.WaitSliceMs > 0 {
			f.row(&b, "Wait Slice", fmt.Sprintf("%d ms", s.Settings.WaitSliceMs))
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	generator := "vidplay"
	if f.version != "" {
		generator += " " + f.version
	}
	fmt.Fprintf(&b, "%s %s, %s\n", t("Generated by"), generator, s.GeneratedAt.Format(time.RFC3339))

	return b.String()
}

func (f *MarkdownFormatter) header(b *strings.Builder) {
	fmt.Fprintf(b, "| %s | %s |\n", f.translate("Item"), f.translate("Value"))
	b.WriteString("|---|---|\n")
}

func (f *MarkdownFormatter) row(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", f.translate(label), value)
}

func reasonLabel(reason string) string {
	switch reason {
	case "end-of-stream":
		return "End of stream"
	case "duration-reached":
		return "Duration reached"
	case "requested":
		return "Stopped by user"
	case "error":
		return "Aborted"
	case "":
		return "N/A"
	default:
		return reason
	}
}

func orNA(t func(string) string, s string) string {
	if s == "" {
		return t("N/A")
	}
	return s
}

func formatSeconds(s float64) string {
	return fmt.Sprintf("%.3f s", s)
}

// formatBytes renders a byte count with binary units.
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit && exp < 2; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMG"[exp])
}

// Ensure MarkdownFormatter implements Formatter
var _ Formatter = (*MarkdownFormatter)(nil)
