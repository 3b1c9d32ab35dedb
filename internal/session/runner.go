package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

// ErrInterrupted is returned by Runner.Run when its context is cancelled
// before every session completed.
var ErrInterrupted = errors.New("session run interrupted")

// PanicError is a panic recovered from a display or notifier goroutine.
// Stack is captured where the panic was recovered, so it includes the
// panicking frames.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// State is a step of the work/break orchestration.
type State int

const (
	StateIdle State = iota
	StateWorkRunning
	StateWorkFlashing
	StateBreakRunning
	StateBreakFlashing
	StateDone
	StateInterrupted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWorkRunning:
		return "work-running"
	case StateWorkFlashing:
		return "work-flashing"
	case StateBreakRunning:
		return "break-running"
	case StateBreakFlashing:
		return "break-flashing"
	case StateDone:
		return "done"
	case StateInterrupted:
		return "interrupted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// runningState returns the running state for a session kind.
func runningState(k Kind) State {
	if k == KindBreak {
		return StateBreakRunning
	}
	return StateWorkRunning
}

// flashingState returns the flashing state for a session kind.
func flashingState(k Kind) State {
	if k == KindBreak {
		return StateBreakFlashing
	}
	return StateWorkFlashing
}

// Display shows the countdown for a session and blocks until it closes.
// The context is only cancelled on interrupt, to tear the window down.
type Display interface {
	Run(ctx context.Context, s Session) error
}

// DisplayFunc adapts a function to Display.
type DisplayFunc func(ctx context.Context, s Session) error

// Run calls f.
func (f DisplayFunc) Run(ctx context.Context, s Session) error {
	return f(ctx, s)
}

// StateFunc observes state transitions.
type StateFunc func(from, to State)

// JoinFunc observes the bounded join that follows each run phase.
type JoinFunc func(s Session, finished bool)

// RunnerOptions configures a Runner.
type RunnerOptions struct {
	JoinTimeout  time.Duration // Bound on waiting for a notifier task after its display closes
	SessionPause time.Duration // Gap between consecutive sessions
	OnState      StateFunc
	OnJoin       JoinFunc
}

// Runner drives sessions through the work/break state machine.
type Runner struct {
	display Display
	alert   AlertFunc
	poll    time.Duration
	clock   Clock
	opts    RunnerOptions
	logger  *slog.Logger

	mu    sync.Mutex
	state State

	tasks []*Task // every task started by Run, owned by the Run goroutine
}

// NewRunner creates a runner. alert is invoked by each session's notifier
// task on expiry; poll is the notifier's signal poll interval.
func NewRunner(display Display, alert AlertFunc, poll time.Duration, opts RunnerOptions, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.JoinTimeout <= 0 {
		opts.JoinTimeout = 2 * time.Second
	}
	return &Runner{
		display: display,
		alert:   alert,
		poll:    poll,
		clock:   RealClock{},
		opts:    opts,
		logger:  logger,
		state:   StateIdle,
	}
}

// SetClock replaces the clock handed to notifier tasks.
func (r *Runner) SetClock(clk Clock) {
	r.clock = clk
}

// State returns the current state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// transition moves to the given state and notifies the observer.
func (r *Runner) transition(to State) {
	r.mu.Lock()
	from := r.state
	r.state = to
	r.mu.Unlock()

	r.logger.Debug("session state changed", "from", from, "to", to)
	if r.opts.OnState != nil {
		r.opts.OnState(from, to)
	}
}

// transitionIf moves to the given state only when the current state is want.
func (r *Runner) transitionIf(want, to State) bool {
	r.mu.Lock()
	if r.state != want {
		r.mu.Unlock()
		return false
	}
	r.state = to
	r.mu.Unlock()

	r.logger.Debug("session state changed", "from", want, "to", to)
	if r.opts.OnState != nil {
		r.opts.OnState(want, to)
	}
	return true
}

// Run executes sessions in order and blocks until they all complete or ctx
// is cancelled, in which case the active notifier is stopped and
// ErrInterrupted is returned.
func (r *Runner) Run(ctx context.Context, sessions ...Session) error {
	if r.State() != StateIdle {
		return fmt.Errorf("runner already used (state %s)", r.State())
	}

	notifier := NewNotifier(r.flashing(r.alert), r.poll, r.logger)
	notifier.SetClock(r.clock)

	for i, s := range sessions {
		if i > 0 && r.opts.SessionPause > 0 {
			select {
			case <-ctx.Done():
				return r.interrupt(nil)
			case <-time.After(r.opts.SessionPause):
			}
		}
		if ctx.Err() != nil {
			return r.interrupt(nil)
		}

		if err := r.runSession(ctx, notifier, s); err != nil {
			return err
		}
	}

	r.transition(StateDone)
	return nil
}

// runSession performs one session: start the notifier, block on the display,
// then cancel and join the notifier.
func (r *Runner) runSession(ctx context.Context, notifier *Notifier, s Session) error {
	r.transition(runningState(s.Kind))
	r.logger.Info("session started", s.LogAttrs())

	sig := NewSignal()
	task := notifier.Start(s, sig)
	r.tasks = append(r.tasks, task)

	displayDone := make(chan error, 1)
	go func() {
		defer func() {
			if rec := recover(); rec != nil {
				displayDone <- &PanicError{Value: rec, Stack: debug.Stack()}
			}
		}()
		displayDone <- r.display.Run(ctx, s)
	}()

	var displayErr error
	select {
	case <-ctx.Done():
		return r.interrupt(task)
	case displayErr = <-displayDone:
	}

	// Closing the display is the only thing that cancels the notifier,
	// whether or not it already fired.
	sig.Set()
	finished := task.Wait(r.opts.JoinTimeout)
	if !finished {
		r.logger.Debug("notifier still running after join timeout, proceeding", s.LogAttrs(), "timeout", r.opts.JoinTimeout)
	}
	if r.opts.OnJoin != nil {
		r.opts.OnJoin(s, finished)
	}

	if displayErr != nil {
		if ctx.Err() != nil {
			return r.interrupt(task)
		}
		r.terminateAll()
		return fmt.Errorf("%s countdown failed: %w", s.Kind, displayErr)
	}

	r.logger.Info("session finished", s.LogAttrs(), "alert_fired", task.Fired())
	return nil
}

// interrupt stops every task still alive: the current one and any earlier
// task that outlived its bounded join. All signals are set, the current task
// gets a bounded join and whatever is still running is force-terminated.
func (r *Runner) interrupt(current *Task) error {
	for _, t := range r.tasks {
		t.signal.Set()
	}
	if current != nil && !current.Wait(r.opts.JoinTimeout) {
		r.logger.Warn("terminating unresponsive notifier", current.Session().LogAttrs())
	}
	r.terminateAll()

	r.transition(StateInterrupted)
	return ErrInterrupted
}

// terminateAll force-terminates every task that has not exited.
func (r *Runner) terminateAll() {
	for _, t := range r.tasks {
		if t.Alive() {
			r.logger.Debug("terminating notifier", t.Session().LogAttrs())
			t.Terminate()
		}
	}
}

// flashing wraps alert so the flashing state is entered when the alert
// starts while its session is still running. A late alert from a session
// whose display already closed leaves the state alone.
func (r *Runner) flashing(alert AlertFunc) AlertFunc {
	return func(ctx context.Context, s Session) error {
		r.transitionIf(runningState(s.Kind), flashingState(s.Kind))
		if alert == nil {
			return nil
		}
		return alert(ctx, s)
	}
}
