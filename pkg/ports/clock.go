package ports

import "time"

// WallClock is a monotonic time source.
type WallClock interface {
	// Now returns the current time. Successive calls never go backwards.
	Now() time.Time

	// Sleep blocks for at least d.
	Sleep(d time.Duration)
}
