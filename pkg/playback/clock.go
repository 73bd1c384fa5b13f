// Package playback paces decoded frames against wall-clock time and drives
// them to a presentation surface.
package playback

import (
	"context"
	"math"
	"time"

	"github.com/user/vidplay/pkg/media"
	"github.com/user/vidplay/pkg/ports"
)

// MaxWaitSlice is the default upper bound of a single sleep while waiting
// for a frame to become due. Window events are pumped between slices.
const MaxWaitSlice = 10 * time.Millisecond

// PresentationTime converts a timestamp in time-base ticks to seconds.
func PresentationTime(pts int64, tb media.Rational) float64 {
	return tb.Seconds(pts)
}

// IsEndOfStream reports whether a frame at ptsSeconds falls in the same
// whole second as the container's declared end. Playback stops before
// displaying such a frame.
//
// The comparison is coarse: any frame inside the final second matches.
// It returns false when the duration is unknown (durationUs <= 0).
func IsEndOfStream(durationUs int64, ptsSeconds float64) bool {
	if durationUs <= 0 {
		return false
	}
	return math.Ceil(float64(durationUs)/1e6) == math.Ceil(ptsSeconds)
}

// ClockState is the lifecycle state of a Clock.
type ClockState int

const (
	ClockNotStarted ClockState = iota
	ClockPlaying
	ClockStopped
)

// String returns the string representation of the state.
func (s ClockState) String() string {
	switch s {
	case ClockNotStarted:
		return "not-started"
	case ClockPlaying:
		return "playing"
	case ClockStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Clock measures playback time from the instant the first frame is ready.
type Clock struct {
	wall   ports.WallClock
	slice  time.Duration
	origin time.Time
	state  ClockState
	end    float64
}

// NewClock creates a Clock over wall. A non-positive slice selects
// MaxWaitSlice.
func NewClock(wall ports.WallClock, slice time.Duration) *Clock {
	if slice <= 0 {
		slice = MaxWaitSlice
	}
	return &Clock{
		wall:  wall,
		slice: slice,
	}
}

// Start sets the playback origin to now. It returns false if the clock was
// already started.
func (c *Clock) Start() bool {
	if c.state != ClockNotStarted {
		return false
	}
	c.origin = c.wall.Now()
	c.state = ClockPlaying
	return true
}

// State returns the current state.
func (c *Clock) State() ClockState {
	return c.state
}

// Elapsed returns seconds since Start. It is 0 before Start and frozen
// after Stop.
func (c *Clock) Elapsed() float64 {
	switch c.state {
	case ClockPlaying:
		return c.wall.Now().Sub(c.origin).Seconds()
	case ClockStopped:
		return c.end
	default:
		return 0
	}
}

// Due reports whether a frame at ptsSeconds may be displayed now.
func (c *Clock) Due(ptsSeconds float64) bool {
	return c.state == ClockPlaying && c.Elapsed() >= ptsSeconds
}

// WaitUntil blocks until ptsSeconds is due. Sleeps never exceed the clock's
// slice; pump runs between slices and a true result aborts the wait with
// media.ErrStopRequested, as does cancellation of ctx.
func (c *Clock) WaitUntil(ctx context.Context, ptsSeconds float64, pump func() bool) error {
	if c.state != ClockPlaying {
		return nil
	}
	for {
		if ctx.Err() != nil {
			return media.ErrStopRequested
		}
		remaining := ptsSeconds - c.Elapsed()
		if remaining <= 0 {
			return nil
		}
		if pump != nil && pump() {
			return media.ErrStopRequested
		}
		d := time.Duration(remaining * float64(time.Second))
		if d > c.slice {
			d = c.slice
		}
		if d < time.Nanosecond {
			d = time.Nanosecond
		}
		c.wall.Sleep(d)
	}
}

// Stop freezes the clock. Calling Stop more than once is a no-op.
func (c *Clock) Stop() {
	if c.state == ClockStopped {
		return
	}
	if c.state == ClockPlaying {
		c.end = c.wall.Now().Sub(c.origin).Seconds()
	}
	c.state = ClockStopped
}
