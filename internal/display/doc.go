// Package display implements the GTK4 countdown window and full-screen flash
// surface. Windows are placed with Wayland layer-shell when the compositor
// supports it. Every widget call is marshalled onto the GTK main loop, so the
// types here are safe to drive from any goroutine.
package display
