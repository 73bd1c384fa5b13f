// Package sample implements the frame sampling stage of the thumbs command.
package sample

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/user/vidplay/pkg/media"
	"github.com/user/vidplay/pkg/pipeline"
	"github.com/user/vidplay/pkg/ports"
)

// Stage decodes a file and keeps one frame per interval.
type Stage struct {
	prober     ports.StreamProber
	converters ports.ConverterFactory
	sink       ports.DebugSink
	logger     ports.Logger
}

// NewStage creates a new sample stage.
func NewStage(prober ports.StreamProber, converters ports.ConverterFactory, sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		prober:     prober,
		converters: converters,
		sink:       sink,
		logger:     logger.WithComponent("sample"),
	}
}

// Execute decodes input.Path from the start and converts the first frame at
// or after every multiple of input.Every. Frames in between are decoded but
// never converted.
func (s *Stage) Execute(ctx context.Context, input pipeline.SampleInput) (pipeline.SampleResult, error) {
	every := input.Every
	if every <= 0 {
		every = time.Second
	}

	session, info, err := s.prober.Probe(input.Path)
	if err != nil {
		return pipeline.SampleResult{}, err
	}
	defer session.Close()

	converter := s.converters()
	defer converter.Close()

	s.logger.Debug("Sampling %s every %v", input.Path, every)

	result := pipeline.SampleResult{Info: info}
	step := every.Seconds()
	next := 0.0
	var buf media.ConvertedBuffer

	for {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		frame, err := session.NextFrame()
		if errors.Is(err, media.ErrEndOfStream) {
			break
		}
		if err != nil {
			return result, fmt.Errorf("decode frame %d: %w", result.FramesDecoded, err)
		}
		result.FramesDecoded++

		seconds := info.TimeBase.Seconds(frame.PTS)
		if seconds < next-1e-9 {
			continue
		}

		if err := converter.Convert(frame, &buf); err != nil {
			return result, fmt.Errorf("convert frame at %.3fs: %w", seconds, err)
		}

		thumb := pipeline.Thumb{
			Index:   len(result.Thumbs),
			PTS:     frame.PTS,
			Seconds: seconds,
			Image:   buf.Snapshot(),
		}
		result.Thumbs = append(result.Thumbs, thumb)
		s.save(thumb)

		next = (math.Floor(seconds/step+1e-9) + 1) * step
		if input.MaxThumbs > 0 && len(result.Thumbs) >= input.MaxThumbs {
			s.logger.Debug("Reached %d thumbnails", input.MaxThumbs)
			break
		}
	}

	s.logger.Debug("Sampled %d of %d frames", len(result.Thumbs), result.FramesDecoded)
	return result, nil
}

func (s *Stage) save(thumb pipeline.Thumb) {
	if !s.sink.Enabled() {
		return
	}
	if err := s.sink.SaveFrame(thumb.Index, thumb.PTS, thumb.Image); err != nil {
		s.logger.Warn("Failed to save debug frame %d: %v", thumb.Index, err)
	}
}
