// Package mp4inspect summarizes the box structure of MP4 files without
// decoding any media.
package mp4inspect

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"
)

// ErrNoMovie is returned when a file has no moov box.
var ErrNoMovie = errors.New("mp4inspect: no moov box")

// Track describes one trak box.
type Track struct {
	ID          uint32  `json:"id"`
	Handler     string  `json:"handler"`
	SampleEntry string  `json:"sampleEntry,omitempty"`
	Timescale   uint32  `json:"timescale"`
	Duration    float64 `json:"durationSeconds"`
	Width       int     `json:"width,omitempty"`
	Height      int     `json:"height,omitempty"`
	Samples     int     `json:"samples"`
}

// IsVideo reports whether the track carries video.
func (t Track) IsVideo() bool {
	return t.Handler == "vide"
}

// Report is the summary of an MP4 file.
type Report struct {
	MajorBrand       string   `json:"majorBrand"`
	CompatibleBrands []string `json:"compatibleBrands,omitempty"`
	Fragmented       bool     `json:"fragmented"`
	Fragments        int      `json:"fragments,omitempty"`
	Duration         float64  `json:"durationSeconds"`
	Tracks           []Track  `json:"tracks"`
}

// VideoTracks returns the video tracks in file order.
func (r Report) VideoTracks() []Track {
	var out []Track
	for _, t := range r.Tracks {
		if t.IsVideo() {
			out = append(out, t)
		}
	}
	return out
}

// Sniff reports whether header starts like an ISO BMFF file.
func Sniff(header []byte) bool {
	if len(header) < 8 {
		return false
	}
	switch string(header[4:8]) {
	case "ftyp", "styp", "moov", "free", "mdat":
		return true
	}
	return false
}

// SniffFile reads the start of path and applies Sniff.
func SniffFile(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	header := make([]byte, 12)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read header: %w", err)
	}
	return Sniff(header[:n]), nil
}

// InspectFile decodes the box tree of path.
func InspectFile(path string) (Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return Report{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	return Inspect(f)
}

// InspectBytes decodes the box tree of an in-memory file.
func InspectBytes(data []byte) (Report, error) {
	return Inspect(bytes.NewReader(data))
}

// Inspect decodes the box tree from r.
func Inspect(r io.Reader) (Report, error) {
	file, err := mp4.DecodeFile(r)
	if err != nil {
		return Report{}, fmt.Errorf("decode mp4: %w", err)
	}
	return fromFile(file)
}

func fromFile(file *mp4.File) (Report, error) {
	var report Report

	if file.Ftyp != nil {
		report.MajorBrand = file.Ftyp.MajorBrand()
		report.CompatibleBrands = file.Ftyp.CompatibleBrands()
	}

	moov := file.Moov
	if moov == nil && file.Init != nil {
		moov = file.Init.Moov
	}
	if moov == nil {
		return report, ErrNoMovie
	}

	report.Fragmented = file.IsFragmented()
	for _, seg := range file.Segments {
		report.Fragments += len(seg.Fragments)
	}

	if moov.Mvhd != nil && moov.Mvhd.Timescale > 0 {
		report.Duration = float64(moov.Mvhd.Duration) / float64(moov.Mvhd.Timescale)
	}

	for _, trak := range moov.Traks {
		report.Tracks = append(report.Tracks, trackOf(trak))
	}
	return report, nil
}

func trackOf(trak *mp4.TrakBox) Track {
	var t Track
	if trak.Tkhd != nil {
		t.ID = trak.Tkhd.TrackID
	}
	if trak.Mdia == nil {
		return t
	}
	if trak.Mdia.Hdlr != nil {
		t.Handler = trak.Mdia.Hdlr.HandlerType
	}
	if mdhd := trak.Mdia.Mdhd; mdhd != nil {
		t.Timescale = mdhd.Timescale
		if mdhd.Timescale > 0 {
			t.Duration = float64(mdhd.Duration) / float64(mdhd.Timescale)
		}
	}

	if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil {
		return t
	}
	stbl := trak.Mdia.Minf.Stbl
	if stbl.Stsz != nil {
		t.Samples = int(stbl.Stsz.SampleNumber)
	}
	if stbl.Stsd == nil {
		return t
	}
	for _, child := range stbl.Stsd.Children {
		if t.SampleEntry == "" {
			t.SampleEntry = child.Type()
		}
		if vse, ok := child.(*mp4.VisualSampleEntryBox); ok {
			t.Width, t.Height = int(vse.Width), int(vse.Height)
			break
		}
	}
	return t
}
