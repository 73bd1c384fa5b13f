package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ideamans/go-l10n"
	"golang.org/x/sync/errgroup"

	"github.com/user/vidplay/pkg/adapters/ffmpeg"
	"github.com/user/vidplay/pkg/adapters/logger"
	"github.com/user/vidplay/pkg/adapters/mp4inspect"
	"github.com/user/vidplay/pkg/media"
	"github.com/user/vidplay/pkg/ports"
)

// ProbeCmd defines the probe subcommand.
type ProbeCmd struct {
	Files []string `arg:"" name:"file" type:"existingfile" help:"Video files to inspect."`
	JSON  bool     `help:"Print JSON instead of text."`
	Jobs  int      `short:"j" default:"4" help:"Files probed in parallel."`

	LogFlags `embed:""`
}

// probeResult is the outcome for one file.
type probeResult struct {
	Path   string             `json:"path"`
	Stream *probeStream       `json:"stream,omitempty"`
	MP4    *mp4inspect.Report `json:"mp4,omitempty"`
	Error  string             `json:"error,omitempty"`
}

type probeStream struct {
	Format      string  `json:"format"`
	FormatLong  string  `json:"formatLong,omitempty"`
	Index       int     `json:"index"`
	Codec       string  `json:"codec"`
	PixelFormat string  `json:"pixelFormat"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	TimeBase    string  `json:"timeBase"`
	FrameRate   float64 `json:"frameRate,omitempty"`
	BitRate     int64   `json:"bitRate,omitempty"`
	DurationUs  int64   `json:"durationUs,omitempty"`
}

// Run executes the probe command.
func (cmd *ProbeCmd) Run() error {
	var log ports.Logger = logger.NewNoop()
	if !cmd.Quiet {
		level := "warn"
		if cmd.LogLevel != nil {
			level = *cmd.LogLevel
		}
		log = logger.NewConsole(ports.ParseLogLevel(level))
	}
	ffmpeg.BridgeLogs(log, ffmpegLogLevel("error", cmd.Quiet))
	defer ffmpeg.ResetLogs()

	results, err := probeFiles(ffmpeg.NewProber(log), cmd.Files, cmd.Jobs)

	if cmd.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if encErr := enc.Encode(results); encErr != nil {
			return encErr
		}
	} else {
		for _, r := range results {
			printProbe(os.Stdout, r)
		}
	}
	return err
}

// probeFiles inspects paths concurrently. Results keep the input order; the
// returned error is the first failure.
func probeFiles(prober *ffmpeg.Prober, paths []string, jobs int) ([]probeResult, error) {
	if jobs <= 0 {
		jobs = 1
	}

	results := make([]probeResult, len(paths))
	var g errgroup.Group
	g.SetLimit(jobs)

	for i, path := range paths {
		g.Go(func() error {
			results[i] = probeFile(prober, path)
			if results[i].Error != "" {
				return fmt.Errorf("%s: %s", path, results[i].Error)
			}
			return nil
		})
	}

	return results, g.Wait()
}

func probeFile(prober *ffmpeg.Prober, path string) probeResult {
	result := probeResult{Path: path}

	session, info, err := prober.Open(path)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	_ = session.Close()
	result.Stream = streamOf(info)

	if ok, _ := mp4inspect.SniffFile(path); ok {
		if report, err := mp4inspect.InspectFile(path); err == nil {
			result.MP4 = &report
		}
	}
	return result
}

func streamOf(info media.StreamInfo) *probeStream {
	return &probeStream{
		Format:      info.FormatName,
		FormatLong:  info.FormatLongName,
		Index:       info.StreamIndex,
		Codec:       info.CodecName,
		PixelFormat: info.PixelFormat,
		Width:       info.Width,
		Height:      info.Height,
		TimeBase:    info.TimeBase.String(),
		FrameRate:   info.FrameRate.Float64(),
		BitRate:     info.BitRate,
		DurationUs:  info.DurationUs,
	}
}

func printProbe(w io.Writer, r probeResult) {
	fmt.Fprintln(w, r.Path)
	if r.Error != "" {
		fmt.Fprintf(w, "  %-12s %s\n", l10n.T("error:"), r.Error)
		return
	}

	s := r.Stream
	fmt.Fprintf(w, "  %-12s %s (%s)\n", l10n.T("format:"), s.Format, s.FormatLong)
	fmt.Fprintf(w, "  %-12s #%d %s %dx%d %s\n", l10n.T("video:"), s.Index, s.Codec, s.Width, s.Height, s.PixelFormat)
	fmt.Fprintf(w, "  %-12s %s\n", l10n.T("time base:"), s.TimeBase)
	if s.FrameRate > 0 {
		fmt.Fprintf(w, "  %-12s %.3f fps\n", l10n.T("frame rate:"), s.FrameRate)
	}
	if s.DurationUs > 0 {
		fmt.Fprintf(w, "  %-12s %.3f s\n", l10n.T("duration:"), float64(s.DurationUs)/1e6)
	}
	if s.BitRate > 0 {
		fmt.Fprintf(w, "  %-12s %d kbps\n", l10n.T("bit rate:"), s.BitRate/1000)
	}

	if m := r.MP4; m != nil {
		fmt.Fprintf(w, "  %-12s %s [%s] %s\n", "mp4:", m.MajorBrand, strings.Join(m.CompatibleBrands, " "),
			l10n.F("%d tracks, fragmented=%v", len(m.Tracks), m.Fragmented))
		for _, t := range m.Tracks {
			fmt.Fprintf(w, "    track %d: %s %s", t.ID, t.Handler, t.SampleEntry)
			if t.IsVideo() {
				fmt.Fprintf(w, " %dx%d", t.Width, t.Height)
			}
			fmt.Fprintf(w, ", %d samples, %.3f s\n", t.Samples, t.Duration)
		}
	}
}
