package notify

import (
	"github.com/godbus/dbus/v5"
)

const (
	// DBusInterface is the notification interface name.
	DBusInterface = "org.freedesktop.Notifications"
	// DBusPath is the notification object path.
	DBusPath = "/org/freedesktop/Notifications"
	// DBusBusName is the bus name of the notification server.
	DBusBusName = "org.freedesktop.Notifications"
)

// Urgency levels defined by the freedesktop Desktop Notifications protocol.
const (
	UrgencyLow      byte = 0
	UrgencyNormal   byte = 1
	UrgencyCritical byte = 2
)

// Message holds the parameters of an org.freedesktop.Notifications.Notify call.
type Message struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string // Alternating key, label pairs
	Hints         map[string]dbus.Variant
	ExpireTimeout int32 // -1 = server default, 0 = never expire
}

// Urgency extracts the urgency hint, defaulting to normal.
func (m *Message) Urgency() byte {
	if v, ok := m.Hints["urgency"]; ok {
		if b, ok := v.Value().(byte); ok {
			return b
		}
	}
	return UrgencyNormal
}

// Category extracts the category hint.
func (m *Message) Category() string {
	if v, ok := m.Hints["category"]; ok {
		if s, ok := v.Value().(string); ok {
			return s
		}
	}
	return ""
}

// Transient reports whether the server should skip persisting the message.
func (m *Message) Transient() bool {
	if v, ok := m.Hints["transient"]; ok {
		if b, ok := v.Value().(bool); ok {
			return b
		}
	}
	return false
}

// args returns the Notify call arguments in wire order.
func (m *Message) args() []any {
	actions := m.Actions
	if actions == nil {
		actions = []string{}
	}
	hints := m.Hints
	if hints == nil {
		hints = map[string]dbus.Variant{}
	}
	return []any{m.AppName, m.ReplacesID, m.AppIcon, m.Summary, m.Body, actions, hints, m.ExpireTimeout}
}
