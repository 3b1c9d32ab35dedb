package display

import (
	"context"
	"errors"

	"github.com/diamondburned/gotk4/pkg/glib/v2"
)

// ErrMainLoop is returned when the GTK main loop did not run a queued call in time.
var ErrMainLoop = errors.New("GTK main loop not responding")

// post queues fn on the GTK main loop without waiting for it.
func post(fn func()) {
	glib.IdleAdd(fn)
}

// invoke runs fn on the GTK main loop and waits for it to return, giving up
// when ctx is done first. fn may still run after invoke gave up.
func invoke(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	glib.IdleAdd(func() {
		defer close(done)
		fn()
	})

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrMainLoop
		}
		return ctx.Err()
	}
}
