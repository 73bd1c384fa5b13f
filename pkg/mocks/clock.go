package mocks

import (
	"sync"
	"time"

	"github.com/user/vidplay/pkg/ports"
)

// WallClock is a fake ports.WallClock whose time only moves on Sleep or
// Advance.
type WallClock struct {
	mu  sync.Mutex
	now time.Time

	// OnSleep runs after every Sleep with the requested duration.
	OnSleep func(d time.Duration)

	Sleeps []time.Duration
}

// NewWallClock creates a fake clock at a fixed instant.
func NewWallClock() *WallClock {
	return &WallClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (m *WallClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *WallClock) Sleep(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.Sleeps = append(m.Sleeps, d)
	fn := m.OnSleep
	m.mu.Unlock()
	if fn != nil {
		fn(d)
	}
}

// Advance moves the clock forward without recording a sleep.
func (m *WallClock) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}

// Slept returns the total time spent in Sleep.
func (m *WallClock) Slept() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	var total time.Duration
	for _, d := range m.Sleeps {
		total += d
	}
	return total
}

var _ ports.WallClock = (*WallClock)(nil)
