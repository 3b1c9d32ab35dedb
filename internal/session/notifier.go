package session

import (
	"context"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// AlertFunc performs the expiry alert for a session. The context is cancelled
// only when the task is force-terminated.
type AlertFunc func(ctx context.Context, s Session) error

// Notifier starts expiry tasks. Each task sleeps until its session's duration
// elapses or its signal is set, then runs the alert unless cancelled.
type Notifier struct {
	clock        Clock
	pollInterval time.Duration
	alert        AlertFunc
	logger       *slog.Logger
}

// NewNotifier creates a notifier that polls its cancellation signal every
// pollInterval and calls alert on expiry.
func NewNotifier(alert AlertFunc, pollInterval time.Duration, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &Notifier{
		clock:        RealClock{},
		pollInterval: pollInterval,
		alert:        alert,
		logger:       logger,
	}
}

// SetClock replaces the clock used for the expiry wait.
func (n *Notifier) SetClock(clk Clock) {
	n.clock = clk
}

// Task is the handle for one running expiry task.
type Task struct {
	session Session
	signal  *Signal
	cancel  context.CancelFunc
	done    chan struct{}

	fired atomic.Bool
	mu    sync.Mutex
	err   error
}

// Start launches the expiry task for s on its own goroutine. The task shares
// nothing with the caller except sig.
func (n *Notifier) Start(s Session, sig *Signal) *Task {
	ctx, cancel := context.WithCancel(context.Background())
	t := &Task{
		session: s,
		signal:  sig,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go n.run(ctx, t)
	return t
}

func (n *Notifier) run(ctx context.Context, t *Task) {
	defer close(t.done)
	defer t.cancel()
	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			n.logger.Error("notifier task panicked", t.session.LogAttrs(), "panic", r, "stack", string(stack))
			t.setErr(&PanicError{Value: r, Stack: stack})
		}
	}()

	n.logger.Debug("notifier task started", t.session.LogAttrs())

	if !n.wait(ctx, t) {
		n.logger.Debug("notifier task cancelled before expiry", t.session.LogAttrs())
		return
	}

	if n.alert == nil {
		return
	}

	t.fired.Store(true)
	n.logger.Info(t.session.DoneMessage(), t.session.LogAttrs())
	if err := n.alert(ctx, t.session); err != nil {
		t.setErr(err)
		n.logger.Warn("expiry alert failed", t.session.LogAttrs(), "error", err)
	}
}

// wait blocks until the session expires or is cancelled. It reports whether
// the session expired with the signal still unset.
func (n *Notifier) wait(ctx context.Context, t *Task) bool {
	start := n.clock.Now()
	for {
		if t.signal.IsSet() || ctx.Err() != nil {
			return false
		}

		remaining := t.session.Duration - n.clock.Now().Sub(start)
		if remaining <= 0 {
			break
		}

		select {
		case <-t.signal.Done():
		case <-ctx.Done():
		case <-n.clock.After(min(n.pollInterval, remaining)):
		}
	}
	return !t.signal.IsSet() && ctx.Err() == nil
}

// Session returns the session this task waits on.
func (t *Task) Session() Session {
	return t.session
}

// Wait joins the task, giving up after timeout. It reports whether the task finished.
func (t *Task) Wait(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-t.done:
		return true
	case <-timer.C:
		return false
	}
}

// Done is closed when the task has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Alive reports whether the task is still running.
func (t *Task) Alive() bool {
	select {
	case <-t.done:
		return false
	default:
		return true
	}
}

// Terminate forces the task to stop: the signal is set and an in-flight
// alert has its context cancelled.
func (t *Task) Terminate() {
	t.signal.Set()
	t.cancel()
}

// Fired reports whether the alert was started.
func (t *Task) Fired() bool {
	return t.fired.Load()
}

// Err returns the alert error or recovered panic, if any.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

func (t *Task) setErr(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.err = err
}
