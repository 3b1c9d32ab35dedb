package session

import (
	"fmt"
	"time"
)

// Countdown drives a remaining-time display.
//
// Remaining time is recomputed from the clock on every tick rather than
// decremented, so redraw latency never accumulates. The wait between ticks is
// capped at the time left, which makes the expiry land on the zero boundary
// and guarantees a final 00:00 frame before the display closes.
type Countdown struct {
	Clock      Clock
	Interval   time.Duration // Redraw cadence, just under the 5s display granularity
	CloseDelay time.Duration // Pause after the 00:00 frame
}

// Run calls tick with the remaining time until total has elapsed, emits a
// final zero tick, waits CloseDelay and returns. It cannot be cancelled.
func (c Countdown) Run(total time.Duration, tick func(remaining time.Duration)) {
	clk := c.Clock
	if clk == nil {
		clk = RealClock{}
	}
	interval := c.Interval
	if interval <= 0 {
		interval = time.Second
	}

	start := clk.Now()
	for {
		remaining := total - clk.Now().Sub(start)
		if remaining <= 0 {
			tick(0)
			if c.CloseDelay > 0 {
				<-clk.After(c.CloseDelay)
			}
			return
		}

		tick(remaining)
		<-clk.After(min(interval, remaining))
	}
}

// FormatRemaining renders d as MM:SS, truncating partial seconds.
// Negative durations render as 00:00.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
