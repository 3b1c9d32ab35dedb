// Package notify sends freedesktop desktop notifications over the D-Bus
// session bus when a session expires.
package notify
