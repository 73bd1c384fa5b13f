package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/user/vidplay/pkg/ports"
)

func TestJSONLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONWriter(&buf, ports.LevelDebug).WithComponent("decoder")

	l.Info("Video resolution: %d x %d", 640, 480)

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "Video resolution: 640 x 480" {
		t.Errorf("unexpected msg %v", entry["msg"])
	}
	if entry["component"] != "decoder" {
		t.Errorf("expected component field, got %v", entry["component"])
	}
	if entry["level"] != "info" {
		t.Errorf("expected info level, got %v", entry["level"])
	}
}

func TestJSONLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONWriter(&buf, ports.LevelWarn)

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown %d", 1)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "shown 1") {
		t.Errorf("unexpected line %s", lines[0])
	}
}

func TestJSONLogger_Quiet(t *testing.T) {
	var buf bytes.Buffer
	l := NewJSONWriter(&buf, ports.LevelQuiet)

	l.Error("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
