package sample

import (
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/user/vidplay/pkg/adapters/logger"
	"github.com/user/vidplay/pkg/media"
	"github.com/user/vidplay/pkg/mocks"
	"github.com/user/vidplay/pkg/pipeline"
	"github.com/user/vidplay/pkg/ports"
)

type fixture struct {
	session   *mocks.FrameDecoder
	prober    *mocks.StreamProber
	converter *mocks.PixelConverter
	sink      *mocks.DebugSink
	stage     *Stage
}

// newFixture scripts n frames of a 10 fps stream with time base 1/10.
func newFixture(n int) *fixture {
	f := &fixture{
		session:   mocks.NewFrameDecoder(n, 4, 2),
		converter: &mocks.PixelConverter{},
		sink:      mocks.NewDebugSink(true),
	}
	f.prober = &mocks.StreamProber{
		Session: f.session,
		Info: media.StreamInfo{
			Width:    4,
			Height:   2,
			TimeBase: media.Rational{Num: 1, Den: 10},
		},
	}
	converters := func() ports.PixelConverter { return f.converter }
	f.stage = NewStage(f.prober, converters, f.sink, logger.NewNoop())
	return f
}

func TestStage_Execute(t *testing.T) {
	f := newFixture(25)

	result, err := f.stage.Execute(context.Background(), pipeline.SampleInput{
		Path:  "clip.mp4",
		Every: time.Second,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.FramesDecoded != 25 {
		t.Errorf("expected 25 decoded frames, got %d", result.FramesDecoded)
	}
	if len(result.Thumbs) != 3 {
		t.Fatalf("expected 3 thumbnails, got %d", len(result.Thumbs))
	}
	for i, thumb := range result.Thumbs {
		if thumb.Index != i {
			t.Errorf("thumb %d: index %d", i, thumb.Index)
		}
		if thumb.PTS != int64(i*10) {
			t.Errorf("thumb %d: expected pts %d, got %d", i, i*10, thumb.PTS)
		}
		if thumb.Seconds != float64(i) {
			t.Errorf("thumb %d: expected %v s, got %v", i, float64(i), thumb.Seconds)
		}
		if thumb.Image.Bounds().Dx() != 4 {
			t.Errorf("thumb %d: unexpected bounds %v", i, thumb.Image.Bounds())
		}
	}

	// only sampled frames are converted
	if len(f.converter.Converted) != 3 {
		t.Errorf("expected 3 conversions, got %v", f.converter.Converted)
	}
	if f.session.CloseCalls != 1 || f.converter.CloseCalls != 1 {
		t.Errorf("expected session and converter closed once, got %d and %d", f.session.CloseCalls, f.converter.CloseCalls)
	}
	if len(f.sink.Frames) != 3 || f.sink.FramePTS[2] != 20 {
		t.Errorf("unexpected debug frames %v", f.sink.FramePTS)
	}
	if len(f.prober.Paths) != 1 || f.prober.Paths[0] != "clip.mp4" {
		t.Errorf("unexpected probe paths %v", f.prober.Paths)
	}
}

func TestStage_SnapshotsAreIndependent(t *testing.T) {
	f := newFixture(25)

	result, err := f.stage.Execute(context.Background(), pipeline.SampleInput{Every: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// the converter reuses one buffer; every thumbnail must keep its own pixels
	for i, thumb := range result.Thumbs {
		rgba, ok := thumb.Image.(*image.RGBA)
		if !ok {
			t.Fatalf("thumb %d: expected *image.RGBA, got %T", i, thumb.Image)
		}
		if rgba.Pix[0] != byte(thumb.PTS) {
			t.Errorf("thumb %d: expected pixel %d, got %d", i, byte(thumb.PTS), rgba.Pix[0])
		}
	}
}

func TestStage_MaxThumbs(t *testing.T) {
	f := newFixture(50)

	result, err := f.stage.Execute(context.Background(), pipeline.SampleInput{
		Every:     500 * time.Millisecond,
		MaxThumbs: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Thumbs) != 2 {
		t.Fatalf("expected 2 thumbnails, got %d", len(result.Thumbs))
	}
	if result.Thumbs[1].PTS != 5 {
		t.Errorf("expected second thumbnail at pts 5, got %d", result.Thumbs[1].PTS)
	}
	if result.FramesDecoded != 6 {
		t.Errorf("expected decoding to stop after 6 frames, got %d", result.FramesDecoded)
	}
}

func TestStage_SparseTimestamps(t *testing.T) {
	f := newFixture(0)
	for _, pts := range []int64{0, 3, 25, 26, 41} {
		f.session.Steps = append(f.session.Steps, mocks.FrameStep{Frame: media.DecodedFrame{PTS: pts, Width: 4, Height: 2}})
	}

	result, err := f.stage.Execute(context.Background(), pipeline.SampleInput{Every: time.Second})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []int64
	for _, thumb := range result.Thumbs {
		got = append(got, thumb.PTS)
	}
	want := []int64{0, 25, 41}
	if len(got) != len(want) {
		t.Fatalf("expected pts %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected pts %v, got %v", want, got)
			break
		}
	}
}

func TestStage_ProbeError(t *testing.T) {
	prober := &mocks.StreamProber{}
	converters := func() ports.PixelConverter {
		t.Error("converter must not be created when probing fails")
		return &mocks.PixelConverter{}
	}
	stage := NewStage(prober, converters, mocks.NewDebugSink(false), logger.NewNoop())

	_, err := stage.Execute(context.Background(), pipeline.SampleInput{Path: "missing.mp4"})
	if !media.IsInitError(err) {
		t.Errorf("expected init error, got %v", err)
	}
}

func TestStage_DecodeError(t *testing.T) {
	f := newFixture(2)
	f.session.Steps = append(f.session.Steps, mocks.FrameStep{Err: &media.DecodeError{Op: "send packet", Err: errors.New("corrupt")}})

	_, err := f.stage.Execute(context.Background(), pipeline.SampleInput{Every: time.Second})

	var decodeErr *media.DecodeError
	if !errors.As(err, &decodeErr) {
		t.Errorf("expected DecodeError, got %v", err)
	}
	if f.session.CloseCalls != 1 {
		t.Errorf("expected session closed after error, got %d", f.session.CloseCalls)
	}
}

func TestStage_Cancelled(t *testing.T) {
	f := newFixture(10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.stage.Execute(ctx, pipeline.SampleInput{})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if f.session.Calls != 0 {
		t.Errorf("expected no decode calls, got %d", f.session.Calls)
	}
}
