package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/user/vidplay/pkg/ports"
)

// JSONLogger writes one JSON object per message through logrus.
// Messages are not translated so that log processors see stable text.
type JSONLogger struct {
	entry *logrus.Entry
	level ports.LogLevel
}

// NewJSON creates a JSON logger writing to stderr.
func NewJSON(level ports.LogLevel) *JSONLogger {
	return NewJSONWriter(os.Stderr, level)
}

// NewJSONWriter creates a JSON logger writing to w.
func NewJSONWriter(w io.Writer, level ports.LogLevel) *JSONLogger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetLevel(logrusLevel(level))
	return &JSONLogger{
		entry: logrus.NewEntry(l),
		level: level,
	}
}

// Debug logs a debug message.
func (l *JSONLogger) Debug(msg string, args ...interface{}) {
	l.entry.Debug(fmt.Sprintf(msg, args...))
}

// Info logs an informational message.
func (l *JSONLogger) Info(msg string, args ...interface{}) {
	l.entry.Info(fmt.Sprintf(msg, args...))
}

// Warn logs a warning message.
func (l *JSONLogger) Warn(msg string, args ...interface{}) {
	l.entry.Warn(fmt.Sprintf(msg, args...))
}

// Error logs an error message.
func (l *JSONLogger) Error(msg string, args ...interface{}) {
	l.entry.Error(fmt.Sprintf(msg, args...))
}

// WithComponent returns a logger that adds a component field.
func (l *JSONLogger) WithComponent(component string) ports.Logger {
	return &JSONLogger{
		entry: l.entry.WithFields(logrus.Fields{
			"component": component,
		}),
		level: l.level,
	}
}

func logrusLevel(level ports.LogLevel) logrus.Level {
	switch level {
	case ports.LevelDebug:
		return logrus.DebugLevel
	case ports.LevelInfo:
		return logrus.InfoLevel
	case ports.LevelWarn:
		return logrus.WarnLevel
	case ports.LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.PanicLevel
	}
}

// Ensure JSONLogger implements ports.Logger
var _ ports.Logger = (*JSONLogger)(nil)
