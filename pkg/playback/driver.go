package playback

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/user/vidplay/pkg/media"
	"github.com/user/vidplay/pkg/ports"
)

// StopReason tells why playback ended.
type StopReason int

const (
	// StopNone means playback continues.
	StopNone StopReason = iota
	// StopEndOfStream means the decoder ran out of frames.
	StopEndOfStream
	// StopDurationReached means a frame fell into the container's final second.
	StopDurationReached
	// StopRequested means the window was closed or the context cancelled.
	StopRequested
	// StopError means playback aborted on an error.
	StopError
)

// String returns the string representation of the reason.
func (r StopReason) String() string {
	switch r {
	case StopNone:
		return "none"
	case StopEndOfStream:
		return "end-of-stream"
	case StopDurationReached:
		return "duration-reached"
	case StopRequested:
		return "requested"
	case StopError:
		return "error"
	default:
		return "unknown"
	}
}

// Clean reports whether the reason ends playback successfully.
func (r StopReason) Clean() bool {
	return r == StopEndOfStream || r == StopDurationReached || r == StopRequested
}

// DecodeErrorPolicy selects how per-frame decode failures are handled.
type DecodeErrorPolicy string

const (
	// PolicyAbort stops playback on the first decode error.
	PolicyAbort DecodeErrorPolicy = "abort"
	// PolicySkip drops the failing frame and keeps going.
	PolicySkip DecodeErrorPolicy = "skip"
)

// ParseDecodeErrorPolicy parses a policy name.
func ParseDecodeErrorPolicy(s string) (DecodeErrorPolicy, error) {
	switch p := DecodeErrorPolicy(strings.ToLower(s)); p {
	case PolicyAbort, PolicySkip:
		return p, nil
	case "":
		return PolicyAbort, nil
	default:
		return "", fmt.Errorf("unknown decode error policy %q", s)
	}
}

// Options configures a Driver.
type Options struct {
	OnDecodeError DecodeErrorPolicy
	// MaxConsecutiveErrors bounds PolicySkip. Zero means 10.
	MaxConsecutiveErrors int
	// LateThreshold is how far past due a frame may be shown before it
	// counts as late. Zero means 50ms.
	LateThreshold time.Duration
	// DebugEvery sends every n-th displayed frame to the debug sink.
	DebugEvery int
}

// DefaultOptions returns the reference playback options.
func DefaultOptions() Options {
	return Options{
		OnDecodeError:        PolicyAbort,
		MaxConsecutiveErrors: 10,
		LateThreshold:        50 * time.Millisecond,
		DebugEvery:           30,
	}
}

// Stats summarizes a playback run.
type Stats struct {
	FramesDecoded   int           `json:"framesDecoded"`
	FramesDisplayed int           `json:"framesDisplayed"`
	FramesSkipped   int           `json:"framesSkipped"`
	LateFrames      int           `json:"lateFrames"`
	MaxLateness     time.Duration `json:"maxLateness"`
	FirstPTS        float64       `json:"firstPts"`
	LastPTS         float64       `json:"lastPts"`
	WallTime        time.Duration `json:"wallTime"`
	Reason          string        `json:"reason"`
}

// Driver owns the per-frame loop: decode, convert, pace, display.
type Driver struct {
	info      media.StreamInfo
	decoder   ports.FrameDecoder
	converter ports.PixelConverter
	surface   ports.Surface
	clock     *Clock
	sink      ports.DebugSink
	logger    ports.Logger
	opts      Options

	buf         media.ConvertedBuffer
	started     bool
	width       int
	height      int
	lastPTS     int64
	consecutive int
	reason      StopReason
	stats       Stats
}

// NewDriver creates a Driver for one opened stream.
func NewDriver(
	info media.StreamInfo,
	decoder ports.FrameDecoder,
	converter ports.PixelConverter,
	surface ports.Surface,
	clock *Clock,
	opts Options,
	logger ports.Logger,
) *Driver {
	if opts.OnDecodeError == "" {
		opts.OnDecodeError = PolicyAbort
	}
	if opts.MaxConsecutiveErrors <= 0 {
		opts.MaxConsecutiveErrors = 10
	}
	if opts.LateThreshold <= 0 {
		opts.LateThreshold = 50 * time.Millisecond
	}
	return &Driver{
		info:      info,
		decoder:   decoder,
		converter: converter,
		surface:   surface,
		clock:     clock,
		opts:      opts,
		logger:    logger.WithComponent("playback"),
	}
}

// SetDebugSink attaches a sink that receives sampled displayed frames.
func (d *Driver) SetDebugSink(sink ports.DebugSink) {
	d.sink = sink
}

// Stats returns the statistics collected so far.
func (d *Driver) Stats() Stats {
	s := d.stats
	s.WallTime = time.Duration(d.clock.Elapsed() * float64(time.Second))
	s.Reason = d.reason.String()
	return s
}

// Run steps until playback ends. The returned error is non-nil only when
// the reason is StopError.
func (d *Driver) Run(ctx context.Context) (StopReason, error) {
	for {
		reason, err := d.Step(ctx)
		if err != nil || reason != StopNone {
			return reason, err
		}
	}
}

// Step processes at most one frame. It returns StopNone while playback
// should continue. Once a terminal reason is returned, further calls return
// it again without touching the collaborators.
func (d *Driver) Step(ctx context.Context) (StopReason, error) {
	if d.reason != StopNone {
		return d.reason, nil
	}

	if ctx.Err() != nil || d.surface.PumpEvents() {
		return d.stop(StopRequested), nil
	}

	frame, err := d.decoder.NextFrame()
	if errors.Is(err, media.ErrEndOfStream) {
		return d.stop(StopEndOfStream), nil
	}
	if err != nil {
		return d.decodeFailed(err)
	}
	d.stats.FramesDecoded++

	if d.started && (frame.Width != d.width || frame.Height != d.height) {
		return d.decodeFailed(&media.DecodeError{
			Op:  "check dimensions",
			Err: fmt.Errorf("frame is %dx%d, playback started at %dx%d", frame.Width, frame.Height, d.width, d.height),
		})
	}
	if d.started && frame.PTS < d.lastPTS {
		d.logger.Warn("Timestamp went backwards: %d after %d", frame.PTS, d.lastPTS)
	}

	if err := d.converter.Convert(frame, &d.buf); err != nil {
		var initErr *media.ConversionInitError
		if errors.As(err, &initErr) {
			return d.fail(err)
		}
		return d.decodeFailed(err)
	}

	pts := PresentationTime(frame.PTS, d.info.TimeBase)

	if !d.started {
		if err := d.begin(frame); err != nil {
			return d.fail(err)
		}
	}
	d.lastPTS = frame.PTS

	if IsEndOfStream(d.info.DurationUs, pts) {
		d.logger.Debug("Frame at %.3fs is in the final second, stopping", pts)
		return d.stop(StopDurationReached), nil
	}

	if err := d.clock.WaitUntil(ctx, pts, d.surface.PumpEvents); err != nil {
		if errors.Is(err, media.ErrStopRequested) {
			return d.stop(StopRequested), nil
		}
		return d.fail(err)
	}

	if late := time.Duration((d.clock.Elapsed() - pts) * float64(time.Second)); late > d.opts.LateThreshold {
		d.stats.LateFrames++
		if late > d.stats.MaxLateness {
			d.stats.MaxLateness = late
		}
	}

	if err := d.surface.UploadSubImage(d.buf.Pix); err != nil {
		return d.fail(fmt.Errorf("upload frame: %w", err))
	}
	if err := d.surface.Present(); err != nil {
		return d.fail(fmt.Errorf("present frame: %w", err))
	}

	if d.stats.FramesDisplayed == 0 {
		d.stats.FirstPTS = pts
	}
	d.stats.LastPTS = pts
	d.stats.FramesDisplayed++
	d.consecutive = 0

	d.sample(frame.PTS)

	return StopNone, nil
}

// begin starts the clock and allocates the texture from the first frame.
func (d *Driver) begin(frame media.DecodedFrame) error {
	d.clock.Start()
	d.width, d.height = frame.Width, frame.Height
	d.started = true

	if err := d.surface.AllocateTexture(d.width, d.height); err != nil {
		return fmt.Errorf("allocate texture: %w", err)
	}
	if err := d.surface.UploadImage(d.buf.Pix); err != nil {
		return fmt.Errorf("upload first frame: %w", err)
	}
	d.logger.Debug("Texture allocated: %dx%d", d.width, d.height)
	return nil
}

func (d *Driver) sample(pts int64) {
	if d.sink == nil || !d.sink.Enabled() || d.opts.DebugEvery <= 0 {
		return
	}
	index := d.stats.FramesDisplayed - 1
	if index%d.opts.DebugEvery != 0 {
		return
	}
	if err := d.sink.SaveFrame(index, pts, d.buf.Snapshot()); err != nil {
		d.logger.Warn("Failed to save debug frame %d: %v", index, err)
	}
}

func (d *Driver) decodeFailed(err error) (StopReason, error) {
	if d.opts.OnDecodeError != PolicySkip {
		return d.fail(err)
	}

	d.consecutive++
	d.stats.FramesSkipped++
	if d.consecutive > d.opts.MaxConsecutiveErrors {
		return d.fail(fmt.Errorf("%d consecutive decode errors: %w", d.consecutive, err))
	}
	d.logger.Warn("Skipping frame: %v", err)
	return StopNone, nil
}

func (d *Driver) fail(err error) (StopReason, error) {
	d.stop(StopError)
	d.logger.Error("Playback aborted: %v", err)
	return StopError, err
}

func (d *Driver) stop(reason StopReason) StopReason {
	d.reason = reason
	d.clock.Stop()
	return reason
}
