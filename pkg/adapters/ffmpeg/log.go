package ffmpeg

import (
	"strings"

	"github.com/asticode/go-astiav"

	"github.com/user/vidplay/pkg/ports"
)

// BridgeLogs routes FFmpeg's internal log output to logger.
// Messages less severe than level are dropped by FFmpeg itself.
func BridgeLogs(logger ports.Logger, level string) {
	l := logger.WithComponent("ffmpeg")
	astiav.SetLogLevel(logLevel(level))
	astiav.SetLogCallback(func(_ astiav.Classer, lv astiav.LogLevel, _, msg string) {
		msg = strings.TrimSpace(msg)
		if msg == "" {
			return
		}
		switch {
		case lv <= astiav.LogLevelError:
			l.Error("%s", msg)
		case lv <= astiav.LogLevelWarning:
			l.Warn("%s", msg)
		case lv <= astiav.LogLevelInfo:
			l.Info("%s", msg)
		default:
			l.Debug("%s", msg)
		}
	})
}

// ResetLogs restores FFmpeg's default stderr logging.
func ResetLogs() {
	astiav.ResetLogCallback()
}

func logLevel(level string) astiav.LogLevel {
	switch strings.ToLower(level) {
	case "quiet", "off":
		return astiav.LogLevelQuiet
	case "debug":
		return astiav.LogLevelVerbose
	case "info":
		return astiav.LogLevelInfo
	case "warn", "warning":
		return astiav.LogLevelWarning
	default:
		return astiav.LogLevelError
	}
}
