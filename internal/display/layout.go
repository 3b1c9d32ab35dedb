package display

import (
	"log/slog"
	"unsafe"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	coreglib "github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/flashtimer/internal/config"
	"github.com/jmylchreest/flashtimer/internal/session"
)

var allEdges = []layershell.Edge{
	layershell.LayerShellEdgeTop,
	layershell.LayerShellEdgeBottom,
	layershell.LayerShellEdgeLeft,
	layershell.LayerShellEdgeRight,
}

// initOverlay turns window into an overlay layer surface that never takes
// keyboard focus. It reports false when the compositor has no layer-shell.
func initOverlay(window *gtk.Window, namespace string, exclusiveZone int) bool {
	if !layershell.IsSupported() {
		return false
	}
	layershell.InitForWindow(window)
	layershell.SetLayer(window, layershell.LayerShellLayerOverlay)
	layershell.SetExclusiveZone(window, exclusiveZone)
	layershell.SetKeyboardMode(window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(window, namespace)
	return true
}

// anchorCorner pins a layer surface to a screen corner with the given margins.
func anchorCorner(window *gtk.Window, pos config.Position, offsetX, offsetY int) {
	for _, edge := range allEdges {
		layershell.SetAnchor(window, edge, false)
	}

	vertical := layershell.LayerShellEdgeBottom
	if pos == config.PositionTopLeft || pos == config.PositionTopRight {
		vertical = layershell.LayerShellEdgeTop
	}
	horizontal := layershell.LayerShellEdgeLeft
	if pos == config.PositionTopRight || pos == config.PositionBottomRight {
		horizontal = layershell.LayerShellEdgeRight
	}

	layershell.SetAnchor(window, vertical, true)
	layershell.SetAnchor(window, horizontal, true)
	layershell.SetMargin(window, vertical, offsetY)
	layershell.SetMargin(window, horizontal, offsetX)
}

// anchorFill stretches a layer surface over the whole output.
func anchorFill(window *gtk.Window) {
	for _, edge := range allEdges {
		layershell.SetAnchor(window, edge, true)
		layershell.SetMargin(window, edge, 0)
	}
}

// placeOnMonitor moves a layer surface to the configured monitor.
// Monitor 0 leaves the choice to the compositor.
func placeOnMonitor(window *gtk.Window, monitorNum int, logger *slog.Logger) {
	if monitorNum == 0 {
		return
	}
	if monitor := monitorAt(gdk.DisplayGetDefault(), monitorNum, logger); monitor != nil {
		layershell.SetMonitor(window, monitor)
	}
}

// monitorAt returns the 1-indexed monitor, falling back to the first one when
// the configured monitor is not connected.
func monitorAt(display *gdk.Display, monitorNum int, logger *slog.Logger) *gdk.Monitor {
	if display == nil {
		return nil
	}

	monitors := display.Monitors()
	if monitors == nil || monitors.NItems() == 0 {
		logger.Warn("no monitors available")
		return nil
	}

	index := uint(monitorNum - 1)
	if index >= monitors.NItems() {
		logger.Warn("configured monitor not available, using first",
			"configured", monitorNum,
			"available", monitors.NItems(),
		)
		index = 0
	}

	return wrapMonitor(monitors.Item(index))
}

// wrapMonitor wraps a list item as a gdk.Monitor. gdk.Monitor embeds the
// object pointer, so the cast mirrors what gotk4 does internally.
func wrapMonitor(obj *coreglib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	type monitor struct {
		_ [0]func()
		*coreglib.Object
	}
	m := &monitor{Object: obj}
	return (*gdk.Monitor)(unsafe.Pointer(m))
}

// backgroundClass is the CSS class painting a countdown window.
func backgroundClass(c session.Color) string {
	return "bg-" + string(c)
}

// flashClass is the CSS class painting a flash surface.
func flashClass(c session.Color) string {
	return "flash-" + string(c)
}
