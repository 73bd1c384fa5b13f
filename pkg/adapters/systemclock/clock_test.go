package systemclock

import (
	"testing"
	"time"
)

func TestClock_SleepAdvancesNow(t *testing.T) {
	c := New()

	start := c.Now()
	c.Sleep(5 * time.Millisecond)
	if elapsed := c.Now().Sub(start); elapsed < 5*time.Millisecond {
		t.Errorf("expected at least 5ms to pass, got %v", elapsed)
	}
}
