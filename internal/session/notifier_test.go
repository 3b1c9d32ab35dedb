package session

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(d time.Duration) Session {
	return New(KindWork, d, ColorRed, ColorWhite)
}

func TestNotifier_FiresOnceAfterFullDuration(t *testing.T) {
	clk := newFakeClock()
	start := clk.Now()

	var calls atomic.Int32
	var firedAt atomic.Value
	n := NewNotifier(func(ctx context.Context, s Session) error {
		calls.Add(1)
		firedAt.Store(clk.Now())
		return nil
	}, time.Second, nil)
	n.SetClock(clk)

	task := n.Start(testSession(25*time.Minute), NewSignal())
	require.True(t, task.Wait(2*time.Second))

	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, task.Fired())
	assert.NoError(t, task.Err())
	assert.Equal(t, start.Add(25*time.Minute), firedAt.Load())
}

func TestNotifier_SignalSetBeforeStart(t *testing.T) {
	var calls atomic.Int32
	n := NewNotifier(func(ctx context.Context, s Session) error {
		calls.Add(1)
		return nil
	}, time.Second, nil)
	n.SetClock(newFakeClock())

	sig := NewSignal()
	sig.Set()

	task := n.Start(testSession(time.Minute), sig)
	require.True(t, task.Wait(2*time.Second))

	assert.Equal(t, int32(0), calls.Load())
	assert.False(t, task.Fired())
}

func TestNotifier_SignalSetDuringWait(t *testing.T) {
	var calls atomic.Int32
	n := NewNotifier(func(ctx context.Context, s Session) error {
		calls.Add(1)
		return nil
	}, 10*time.Millisecond, nil)

	sig := NewSignal()
	task := n.Start(testSession(time.Hour), sig)

	time.Sleep(30 * time.Millisecond)
	assert.True(t, task.Alive())

	sig.Set()
	require.True(t, task.Wait(time.Second), "task should observe the signal within one poll")

	assert.Equal(t, int32(0), calls.Load())
	assert.False(t, task.Alive())
}

func TestNotifier_SignalSetAfterFireDoesNotInterruptAlert(t *testing.T) {
	release := make(chan struct{})
	var completed atomic.Bool
	n := NewNotifier(func(ctx context.Context, s Session) error {
		<-release
		completed.Store(true)
		return nil
	}, time.Millisecond, nil)

	sig := NewSignal()
	task := n.Start(testSession(5*time.Millisecond), sig)

	require.Eventually(t, task.Fired, time.Second, time.Millisecond)
	sig.Set()
	assert.False(t, task.Wait(20*time.Millisecond), "alert keeps running after the signal")

	close(release)
	require.True(t, task.Wait(time.Second))
	assert.True(t, completed.Load())
}

func TestNotifier_TerminateAbortsAlert(t *testing.T) {
	n := NewNotifier(func(ctx context.Context, s Session) error {
		<-ctx.Done()
		return ctx.Err()
	}, time.Millisecond, nil)

	sig := NewSignal()
	task := n.Start(testSession(time.Millisecond), sig)
	require.Eventually(t, task.Fired, time.Second, time.Millisecond)

	assert.False(t, task.Wait(10*time.Millisecond))
	task.Terminate()

	require.True(t, task.Wait(time.Second))
	assert.True(t, sig.IsSet())
	assert.ErrorIs(t, task.Err(), context.Canceled)
}

func TestNotifier_RecoversPanic(t *testing.T) {
	n := NewNotifier(func(ctx context.Context, s Session) error {
		panic("display went away")
	}, time.Second, nil)
	n.SetClock(newFakeClock())

	task := n.Start(testSession(time.Minute), NewSignal())
	require.True(t, task.Wait(2*time.Second))

	require.Error(t, task.Err())
	assert.Contains(t, task.Err().Error(), "display went away")

	var pe *PanicError
	require.ErrorAs(t, task.Err(), &pe)
	assert.Contains(t, string(pe.Stack), "notifier_test.go", "stack should point at the panicking alert")
}

func TestTask_WaitTimesOut(t *testing.T) {
	n := NewNotifier(nil, time.Second, nil)

	task := n.Start(testSession(time.Hour), NewSignal())
	defer task.Terminate()

	start := time.Now()
	assert.False(t, task.Wait(20*time.Millisecond))
	assert.Less(t, time.Since(start), time.Second)
}
