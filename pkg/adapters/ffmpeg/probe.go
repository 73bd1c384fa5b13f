package ffmpeg

import (
	"errors"
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"

	"github.com/user/vidplay/pkg/media"
	"github.com/user/vidplay/pkg/ports"
)

// Prober opens media files and prepares a decode Session for the first
// video stream.
type Prober struct {
	logger ports.Logger
}

// NewProber creates a new Prober.
func NewProber(logger ports.Logger) *Prober {
	return &Prober{
		logger: logger.WithComponent("probe"),
	}
}

// Probe implements ports.StreamProber.
func (p *Prober) Probe(path string) (ports.MediaSession, media.StreamInfo, error) {
	s, info, err := p.Open(path)
	if err != nil {
		return nil, info, err
	}
	return s, info, nil
}

// Open opens path and returns a Session positioned at the first packet.
//
// The first stream with video media type is selected; later video streams
// and all other streams are ignored. Everything acquired before a failure is
// released before returning.
func (p *Prober) Open(path string) (_ *Session, _ media.StreamInfo, err error) {
	c := astikit.NewCloser()
	defer func() {
		if err != nil {
			_ = c.Close()
		}
	}()

	// Input
	fc := astiav.AllocFormatContext()
	if fc == nil {
		return nil, media.StreamInfo{}, &media.OpenError{Path: path, Err: errors.New("allocating format context failed")}
	}
	c.Add(fc.Free)

	if err = fc.OpenInput(path, nil, nil); err != nil {
		return nil, media.StreamInfo{}, &media.OpenError{Path: path, Err: err}
	}
	c.Add(fc.CloseInput)

	if err = fc.FindStreamInfo(nil); err != nil {
		return nil, media.StreamInfo{}, &media.OpenError{Path: path, Err: fmt.Errorf("finding stream info: %w", err)}
	}

	info := media.StreamInfo{
		Path:        path,
		StreamIndex: -1,
		DurationUs:  fc.Duration(),
		BitRate:     fc.BitRate(),
	}
	if f := fc.InputFormat(); f != nil {
		info.FormatName = f.Name()
		info.FormatLongName = f.LongName()
	}
	p.logger.Info("Format %s, duration %d us", info.FormatLongName, info.DurationUs)

	// Stream selection
	var stream *astiav.Stream
	for _, s := range fc.Streams() {
		par := s.CodecParameters()
		switch par.MediaType() {
		case astiav.MediaTypeVideo:
			p.logger.Debug("Stream #%d: video %s %dx%d, bitrate %d", s.Index(), par.CodecID().Name(), par.Width(), par.Height(), par.BitRate())
			if stream == nil {
				stream = s
			}
		case astiav.MediaTypeAudio:
			p.logger.Debug("Stream #%d: audio %s, %d channels, %d Hz, bitrate %d", s.Index(), par.CodecID().Name(), par.ChannelLayout().Channels(), par.SampleRate(), par.BitRate())
		default:
			p.logger.Debug("Stream #%d: %s %s", s.Index(), par.MediaType().String(), par.CodecID().Name())
		}
	}
	if stream == nil {
		return nil, info, fmt.Errorf("%s: %w", path, media.ErrNoVideoStream)
	}

	par := stream.CodecParameters()
	info.StreamIndex = stream.Index()
	info.CodecID = par.CodecID().Name()
	info.Width = par.Width()
	info.Height = par.Height()
	info.PixelFormat = par.PixelFormat().String()
	info.TimeBase = media.Rational{Num: stream.TimeBase().Num(), Den: stream.TimeBase().Den()}
	info.FrameRate = media.Rational{Num: stream.AvgFrameRate().Num(), Den: stream.AvgFrameRate().Den()}
	if par.BitRate() > 0 {
		info.BitRate = par.BitRate()
	}

	if !info.TimeBase.Valid() {
		return nil, info, &media.DecoderInitError{Op: "validate stream", Err: fmt.Errorf("invalid time base %s", info.TimeBase)}
	}
	if info.Width <= 0 || info.Height <= 0 {
		return nil, info, &media.DecoderInitError{Op: "validate stream", Err: fmt.Errorf("invalid dimensions %dx%d", info.Width, info.Height)}
	}

	// Decoder
	codec := astiav.FindDecoder(par.CodecID())
	if codec == nil {
		return nil, info, &media.UnsupportedCodecError{CodecID: info.CodecID}
	}
	info.CodecName = codec.Name()

	cc := astiav.AllocCodecContext(codec)
	if cc == nil {
		return nil, info, &media.DecoderInitError{Op: "allocate codec context", Err: errors.New("allocation failed")}
	}
	c.Add(cc.Free)

	if err = par.ToCodecContext(cc); err != nil {
		return nil, info, &media.DecoderInitError{Op: "copy codec parameters", Err: err}
	}
	if err = cc.Open(codec, nil); err != nil {
		return nil, info, &media.DecoderInitError{Op: "open codec", Err: err}
	}

	// Scratch objects
	pkt := astiav.AllocPacket()
	if pkt == nil {
		return nil, info, &media.DecoderInitError{Op: "allocate packet", Err: errors.New("allocation failed")}
	}
	c.Add(pkt.Free)

	frame := astiav.AllocFrame()
	if frame == nil {
		return nil, info, &media.DecoderInitError{Op: "allocate frame", Err: errors.New("allocation failed")}
	}
	c.Add(frame.Free)

	p.logger.Info("Video resolution: %d x %d", info.Width, info.Height)
	p.logger.Debug("Decoder %s, time base %s, pixel format %s", info.CodecName, info.TimeBase, info.PixelFormat)

	return &Session{
		closer: c,
		fc:     fc,
		cc:     cc,
		pkt:    pkt,
		frame:  frame,
		info:   info,
		logger: p.logger.WithComponent("decoder"),
	}, info, nil
}

// Ensure Prober implements ports.StreamProber
var _ ports.StreamProber = (*Prober)(nil)
