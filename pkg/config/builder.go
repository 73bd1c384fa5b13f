package config

// Builder provides a fluent interface for applying command-line overrides on
// top of a file or default configuration.
type Builder struct {
	config Config
}

// NewBuilder creates a Builder starting from Defaults.
func NewBuilder() *Builder {
	return &Builder{config: Defaults()}
}

// NewBuilderFrom creates a Builder starting from cfg.
func NewBuilderFrom(cfg Config) *Builder {
	return &Builder{config: cfg}
}

// Build returns the configuration with out-of-range values clamped.
func (b *Builder) Build() Config {
	cfg := b.config

	// Wait slices stay between 1ms and 100ms
	if cfg.Playback.WaitSliceMs < 1 {
		cfg.Playback.WaitSliceMs = 1
	}
	if cfg.Playback.WaitSliceMs > 100 {
		cfg.Playback.WaitSliceMs = 100
	}

	if cfg.Playback.MaxConsecutiveErrors < 1 {
		cfg.Playback.MaxConsecutiveErrors = 1
	}
	if cfg.Playback.LateThresholdMs < 0 {
		cfg.Playback.LateThresholdMs = 0
	}

	if cfg.Debug.Every < 1 {
		cfg.Debug.Every = 1
	}

	// Enforce minimum columns of 1
	if cfg.Thumbs.Columns < 1 {
		cfg.Thumbs.Columns = 1
	}
	if cfg.Thumbs.ThumbWidth < 16 {
		cfg.Thumbs.ThumbWidth = 16
	}
	if cfg.Thumbs.EveryMs < 1 {
		cfg.Thumbs.EveryMs = 1
	}
	if cfg.Thumbs.Quality < 1 || cfg.Thumbs.Quality > 100 {
		cfg.Thumbs.Quality = 90
	}

	return cfg
}

// WithInput sets the file to play.
func (b *Builder) WithInput(path string) *Builder {
	b.config.Input = path
	return b
}

// WithWindowSize sets the initial window size. Zero keeps the stream size.
func (b *Builder) WithWindowSize(width, height int) *Builder {
	b.config.Window.Width = width
	b.config.Window.Height = height
	return b
}

// WithTitle sets the window title.
func (b *Builder) WithTitle(title string) *Builder {
	b.config.Window.Title = title
	return b
}

// WithVSync enables presentation synchronized to the display refresh.
func (b *Builder) WithVSync(vsync bool) *Builder {
	b.config.Window.VSync = vsync
	return b
}

// WithHeadless replaces the window with the headless surface.
func (b *Builder) WithHeadless(headless bool) *Builder {
	b.config.Headless = headless
	return b
}

// WithOnDecodeError sets the decode error policy (abort or skip).
func (b *Builder) WithOnDecodeError(policy string) *Builder {
	b.config.Playback.OnDecodeError = policy
	return b
}

// WithMaxConsecutiveErrors bounds the skip policy.
// Values below 1 will be forced to 1.
func (b *Builder) WithMaxConsecutiveErrors(n int) *Builder {
	b.config.Playback.MaxConsecutiveErrors = n
	return b
}

// WithWaitSliceMs sets the longest single sleep while waiting for a frame.
// Values are clamped to 1-100.
func (b *Builder) WithWaitSliceMs(ms int) *Builder {
	b.config.Playback.WaitSliceMs = ms
	return b
}

// WithLateThresholdMs sets how late a frame may be before it is counted.
func (b *Builder) WithLateThresholdMs(ms int) *Builder {
	b.config.Playback.LateThresholdMs = ms
	return b
}

// WithDebug enables debug output into dir.
func (b *Builder) WithDebug(enabled bool, dir string) *Builder {
	b.config.Debug.Enabled = enabled
	if dir != "" {
		b.config.Debug.Dir = dir
	}
	return b
}

// WithDebugEvery saves every n-th displayed frame.
// Values below 1 will be forced to 1.
func (b *Builder) WithDebugEvery(n int) *Builder {
	b.config.Debug.Every = n
	return b
}

// WithLogLevel sets the log level.
func (b *Builder) WithLogLevel(level string) *Builder {
	b.config.Log.Level = level
	return b
}

// WithLogFormat sets the log format (console or json).
func (b *Builder) WithLogFormat(format string) *Builder {
	b.config.Log.Format = format
	return b
}

// WithReport sets the path of the Markdown report.
func (b *Builder) WithReport(path string) *Builder {
	b.config.Report = path
	return b
}

// WithThumbsEveryMs sets the sampling interval of the contact sheet.
func (b *Builder) WithThumbsEveryMs(ms int) *Builder {
	b.config.Thumbs.EveryMs = ms
	return b
}

// WithThumbsColumns sets the number of sheet columns.
// Values below 1 will be forced to 1.
func (b *Builder) WithThumbsColumns(columns int) *Builder {
	b.config.Thumbs.Columns = columns
	return b
}

// WithThumbWidth sets the width of one thumbnail.
// Values below 16 will be forced to 16.
func (b *Builder) WithThumbWidth(width int) *Builder {
	b.config.Thumbs.ThumbWidth = width
	return b
}

// WithMaxThumbs bounds the number of thumbnails. 0 = unlimited.
func (b *Builder) WithMaxThumbs(n int) *Builder {
	b.config.Thumbs.MaxThumbs = n
	return b
}

// WithThumbLabels toggles the timestamp labels.
func (b *Builder) WithThumbLabels(labels bool) *Builder {
	b.config.Thumbs.Labels = labels
	return b
}

// WithBackgroundColor sets the sheet background color (hex).
func (b *Builder) WithBackgroundColor(hex string) *Builder {
	b.config.Thumbs.Theme.BackgroundColor = hex
	return b
}
