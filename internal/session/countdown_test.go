package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRemaining(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{25 * time.Minute, "25:00"},
		{1495030 * time.Millisecond, "24:55"},
		{59*time.Second + 999*time.Millisecond, "00:59"},
		{time.Second, "00:01"},
		{999 * time.Millisecond, "00:00"},
		{0, "00:00"},
		{-3 * time.Second, "00:00"},
		{120 * time.Minute, "120:00"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatRemaining(tt.in))
		})
	}
}

func TestCountdown_ReachesZeroForAllValidDurations(t *testing.T) {
	for minutes := 1; minutes <= 120; minutes++ {
		clk := newFakeClock()
		start := clk.Now()
		total := time.Duration(minutes) * time.Minute

		var frames []string
		var ticks []time.Duration
		Countdown{
			Clock:      clk,
			Interval:   4970 * time.Millisecond,
			CloseDelay: 500 * time.Millisecond,
		}.Run(total, func(remaining time.Duration) {
			ticks = append(ticks, remaining)
			frames = append(frames, FormatRemaining(remaining))
		})

		require.NotEmpty(t, frames, "minutes=%d", minutes)
		assert.Equal(t, FormatRemaining(total), frames[0], "minutes=%d", minutes)
		assert.Equal(t, "00:00", frames[len(frames)-1], "minutes=%d", minutes)

		zeros := 0
		for i, r := range ticks {
			assert.GreaterOrEqual(t, r, time.Duration(0), "minutes=%d tick=%d", minutes, i)
			if i > 0 {
				assert.Less(t, r, ticks[i-1], "remaining must decrease")
			}
			if r == 0 {
				zeros++
			}
		}
		assert.Equal(t, 1, zeros, "exactly one zero frame, minutes=%d", minutes)

		// Returned after the close delay, not before
		assert.Equal(t, start.Add(total+500*time.Millisecond), clk.Now())
	}
}

func TestCountdown_Cadence(t *testing.T) {
	clk := newFakeClock()

	var ticks []time.Duration
	Countdown{Clock: clk, Interval: 4970 * time.Millisecond}.Run(15*time.Second, func(r time.Duration) {
		ticks = append(ticks, r)
	})

	assert.Equal(t, []time.Duration{
		15 * time.Second,
		10030 * time.Millisecond,
		5060 * time.Millisecond,
		90 * time.Millisecond,
		0,
	}, ticks)
}

func TestCountdown_ZeroDuration(t *testing.T) {
	clk := newFakeClock()

	var ticks []time.Duration
	Countdown{Clock: clk, Interval: time.Second}.Run(0, func(r time.Duration) {
		ticks = append(ticks, r)
	})

	assert.Equal(t, []time.Duration{0}, ticks)
}
