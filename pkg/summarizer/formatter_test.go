package summarizer

import (
	"encoding/json"
	"testing"
)

func TestJSONFormatter_Format(t *testing.T) {
	s := &Summary{
		Input:    InputInfo{Path: "clip.mp4", FormatName: "mov,mp4"},
		Stream:   StreamInfo{Codec: "h264", Width: 1280, Height: 720, TimeBase: "1/12800"},
		Playback: PlaybackInfo{Reason: "end-of-stream", FramesDisplayed: 250},
	}

	out := NewJSONFormatter().Format(s)

	var decoded struct {
		GeneratedAt string                 `json:"generatedAt"`
		Stream      map[string]interface{} `json:"stream"`
		Playback    map[string]interface{} `json:"playback"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if decoded.GeneratedAt == "" {
		t.Error("expected generatedAt to be present")
	}
	if decoded.Stream["timeBase"] != "1/12800" {
		t.Errorf("expected timeBase 1/12800, got %v", decoded.Stream["timeBase"])
	}
	if decoded.Playback["framesDisplayed"] != float64(250) {
		t.Errorf("expected 250 frames displayed, got %v", decoded.Playback["framesDisplayed"])
	}
	if _, ok := decoded.Playback["error"]; ok {
		t.Error("empty error should be omitted")
	}
}

func TestForPath(t *testing.T) {
	fallback := NewMarkdownFormatter()

	tests := []struct {
		path     string
		wantJSON bool
	}{
		{"report.json", true},
		{"out/REPORT.JSON", true},
		{"report.md", false},
		{"report", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, isJSON := ForPath(tt.path, fallback).(*JSONFormatter)
			if isJSON != tt.wantJSON {
				t.Errorf("ForPath(%q) JSON = %v, want %v", tt.path, isJSON, tt.wantJSON)
			}
		})
	}
}

func TestFormatFunc(t *testing.T) {
	f := FormatFunc(func(s *Summary) string { return s.Input.Path })
	if got := f.Format(&Summary{Input: InputInfo{Path: "a.mkv"}}); got != "a.mkv" {
		t.Errorf("expected a.mkv, got %q", got)
	}
}
