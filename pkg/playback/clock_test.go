package playback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/user/vidplay/pkg/media"
	"github.com/user/vidplay/pkg/mocks"
)

func TestPresentationTime(t *testing.T) {
	tests := []struct {
		pts  int64
		tb   media.Rational
		want float64
	}{
		{0, media.Rational{Num: 1, Den: 10}, 0},
		{15, media.Rational{Num: 1, Den: 10}, 1.5},
		{90000, media.Rational{Num: 1, Den: 90000}, 1},
		{1001, media.Rational{Num: 1, Den: 30000}, 1001.0 / 30000.0},
		{7, media.Rational{Num: 1, Den: 0}, 0},
	}

	for _, tt := range tests {
		if got := PresentationTime(tt.pts, tt.tb); got != tt.want {
			t.Errorf("PresentationTime(%d, %s) = %f, want %f", tt.pts, tt.tb, got, tt.want)
		}
	}
}

func TestIsEndOfStream(t *testing.T) {
	tests := []struct {
		name       string
		durationUs int64
		pts        float64
		want       bool
	}{
		{"final second", 5_000_001, 6.0, true},
		{"before final second", 5_000_001, 4.999, false},
		{"inside final second", 5_000_001, 5.5, true},
		{"exact duration", 2_000_000, 2.0, true},
		{"one second before end", 2_000_000, 1.0, false},
		{"just past one second", 2_000_000, 1.1, true},
		{"first frame", 3_000_000, 0, false},
		{"unknown duration", 0, 5, false},
		{"negative duration", -1, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEndOfStream(tt.durationUs, tt.pts); got != tt.want {
				t.Errorf("IsEndOfStream(%d, %f) = %v, want %v", tt.durationUs, tt.pts, got, tt.want)
			}
		})
	}
}

func TestClock_Lifecycle(t *testing.T) {
	wall := mocks.NewWallClock()
	c := NewClock(wall, 0)

	if c.State() != ClockNotStarted {
		t.Fatalf("expected not-started, got %s", c.State())
	}
	if c.Elapsed() != 0 {
		t.Errorf("expected 0 elapsed before start, got %f", c.Elapsed())
	}
	if c.Due(0) {
		t.Error("nothing is due before start")
	}

	if !c.Start() {
		t.Fatal("first Start should succeed")
	}
	if c.Start() {
		t.Error("second Start should report false")
	}

	wall.Advance(1500 * time.Millisecond)
	if got := c.Elapsed(); got != 1.5 {
		t.Errorf("expected 1.5s elapsed, got %f", got)
	}
	if !c.Due(1.5) || c.Due(1.6) {
		t.Error("Due does not match elapsed time")
	}

	c.Stop()
	c.Stop()
	wall.Advance(time.Second)
	if c.State() != ClockStopped {
		t.Errorf("expected stopped, got %s", c.State())
	}
	if got := c.Elapsed(); got != 1.5 {
		t.Errorf("expected elapsed frozen at 1.5s, got %f", got)
	}
}

func TestClock_WaitUntilSlices(t *testing.T) {
	wall := mocks.NewWallClock()
	c := NewClock(wall, 10*time.Millisecond)
	c.Start()

	pumps := 0
	err := c.WaitUntil(context.Background(), 0.035, func() bool {
		pumps++
		return false
	})
	if err != nil {
		t.Fatalf("WaitUntil failed: %v", err)
	}

	for i, d := range wall.Sleeps {
		if d > 10*time.Millisecond {
			t.Errorf("sleep %d lasted %v, longer than the slice", i, d)
		}
	}
	if total := wall.Slept(); total < 35*time.Millisecond || total > 35*time.Millisecond+time.Microsecond {
		t.Errorf("expected to sleep 35ms in total, got %v", total)
	}
	if pumps != len(wall.Sleeps) {
		t.Errorf("expected one pump per slice, got %d pumps for %d sleeps", pumps, len(wall.Sleeps))
	}
	if !c.Due(0.035) {
		t.Error("frame should be due after waiting")
	}
}

func TestClock_WaitUntilAlreadyDue(t *testing.T) {
	wall := mocks.NewWallClock()
	c := NewClock(wall, 0)
	c.Start()
	wall.Advance(time.Second)

	if err := c.WaitUntil(context.Background(), 0.5, nil); err != nil {
		t.Fatalf("WaitUntil failed: %v", err)
	}
	if len(wall.Sleeps) != 0 {
		t.Errorf("expected no sleep for a late frame, got %v", wall.Sleeps)
	}
}

func TestClock_WaitUntilSubNanosecond(t *testing.T) {
	wall := mocks.NewWallClock()
	c := NewClock(wall, 0)
	c.Start()

	const pts = 0.5e-9
	if err := c.WaitUntil(context.Background(), pts, nil); err != nil {
		t.Fatalf("WaitUntil failed: %v", err)
	}
	if !c.Due(pts) {
		t.Errorf("returned at %v before pts %v", c.Elapsed(), pts)
	}
	if len(wall.Sleeps) != 1 || wall.Sleeps[0] != time.Nanosecond {
		t.Errorf("expected a single 1ns sleep, got %v", wall.Sleeps)
	}
}

func TestClock_WaitUntilCloseRequested(t *testing.T) {
	wall := mocks.NewWallClock()
	c := NewClock(wall, 10*time.Millisecond)
	c.Start()

	pumps := 0
	err := c.WaitUntil(context.Background(), 10, func() bool {
		pumps++
		return pumps == 3
	})
	if !errors.Is(err, media.ErrStopRequested) {
		t.Fatalf("expected ErrStopRequested, got %v", err)
	}
	if got := wall.Slept(); got != 20*time.Millisecond {
		t.Errorf("expected wait to end after 2 slices, slept %v", got)
	}
}

func TestClock_WaitUntilCancelled(t *testing.T) {
	wall := mocks.NewWallClock()
	c := NewClock(wall, 10*time.Millisecond)
	c.Start()

	ctx, cancel := context.WithCancel(context.Background())
	wall.OnSleep = func(time.Duration) { cancel() }

	err := c.WaitUntil(ctx, 10, nil)
	if !errors.Is(err, media.ErrStopRequested) {
		t.Fatalf("expected ErrStopRequested, got %v", err)
	}
	if len(wall.Sleeps) != 1 {
		t.Errorf("expected a single slice before cancellation, got %d", len(wall.Sleeps))
	}
}
