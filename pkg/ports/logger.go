// Package ports defines the interfaces between the playback core and its
// collaborators.
package ports

import "strings"

// LogLevel represents the severity level of a log message.
type LogLevel int

const (
	// LevelDebug covers per-frame and per-component detail.
	LevelDebug LogLevel = iota
	// LevelInfo covers one line per run milestone (open, finish, report).
	LevelInfo
	// LevelWarn covers skipped frames, late frames and failed debug writes.
	LevelWarn
	// LevelError covers failures that end playback.
	LevelError
	// LevelQuiet suppresses all log output.
	LevelQuiet
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	case LevelQuiet:
		return "quiet"
	default:
		return "unknown"
	}
}

// ParseLogLevel parses a level name, ignoring case. "warning" and "off" are
// accepted as aliases. Unknown names yield LevelInfo.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "quiet", "off":
		return LevelQuiet
	default:
		return LevelInfo
	}
}

// Logger is the logging port used by every component.
//
// msg is a format string that doubles as the translation key, so call sites
// pass constant strings and put variable data in args.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})

	// WithComponent returns a Logger that tags its lines with component,
	// for example "driver" or "ffmpeg".
	WithComponent(component string) Logger
}
