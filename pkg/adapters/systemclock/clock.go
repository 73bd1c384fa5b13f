// Package systemclock provides the real wall clock.
package systemclock

import (
	"time"

	"github.com/user/vidplay/pkg/ports"
)

// Clock reads the monotonic system clock.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current time with its monotonic reading.
func (c *Clock) Now() time.Time {
	return time.Now()
}

// Sleep pauses the calling goroutine for at least d.
func (c *Clock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// Ensure Clock implements ports.WallClock
var _ ports.WallClock = (*Clock)(nil)
