package media

import (
	"errors"
	"fmt"
)

var (
	// ErrNoVideoStream is returned when a container holds no video stream.
	ErrNoVideoStream = errors.New("media: no video stream")

	// ErrEndOfStream signals that no further frames can be produced.
	// It is a normal terminal condition, not a failure.
	ErrEndOfStream = errors.New("media: end of stream")

	// ErrStopRequested is returned when playback is stopped from outside,
	// for example by closing the window.
	ErrStopRequested = errors.New("media: stop requested")
)

// OpenError is returned when the container cannot be opened or parsed.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("media: open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// UnsupportedCodecError is returned when no decoder is registered for the
// selected stream's codec.
type UnsupportedCodecError struct {
	CodecID string
}

func (e *UnsupportedCodecError) Error() string {
	return fmt.Sprintf("media: no decoder for codec %s", e.CodecID)
}

// DecoderInitError is returned when the decoder cannot be configured or opened.
type DecoderInitError struct {
	Op  string
	Err error
}

func (e *DecoderInitError) Error() string {
	return fmt.Sprintf("media: decoder init: %s: %v", e.Op, e.Err)
}

func (e *DecoderInitError) Unwrap() error { return e.Err }

// ConversionInitError is returned when the pixel converter cannot be built
// for a source geometry and format.
type ConversionInitError struct {
	Width  int
	Height int
	Format string
	Err    error
}

func (e *ConversionInitError) Error() string {
	return fmt.Sprintf("media: conversion init %dx%d %s: %v", e.Width, e.Height, e.Format, e.Err)
}

func (e *ConversionInitError) Unwrap() error { return e.Err }

// DecodeError is returned when a packet or frame cannot be decoded during
// playback.
type DecodeError struct {
	Op  string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("media: decode: %s: %v", e.Op, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsInitError reports whether err belongs to the initialization phase
// (probing, decoder or converter setup).
func IsInitError(err error) bool {
	var (
		openErr  *OpenError
		codecErr *UnsupportedCodecError
		initErr  *DecoderInitError
		convErr  *ConversionInitError
	)
	return errors.Is(err, ErrNoVideoStream) ||
		errors.As(err, &openErr) ||
		errors.As(err, &codecErr) ||
		errors.As(err, &initErr) ||
		errors.As(err, &convErr)
}
