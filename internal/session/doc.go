// Package session implements the timing core of flashtimer: the countdown
// loop, the expiry notifier task with its one-way cancellation signal, the
// flash animation curves and the work/break orchestration state machine.
// Nothing here touches GTK; windows are reached through the Display and
// Surface interfaces.
package session
