package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/godbus/dbus/v5"
)

// Sender delivers a message and returns the server-assigned ID.
type Sender interface {
	Send(ctx context.Context, m *Message) (uint32, error)
}

// BusSender calls the notification server on the session bus. The connection
// is opened on first use.
type BusSender struct {
	mu   sync.Mutex
	conn *dbus.Conn
}

// NewBusSender creates a sender for the session bus.
func NewBusSender() *BusSender {
	return &BusSender{}
}

// Send calls org.freedesktop.Notifications.Notify.
func (b *BusSender) Send(ctx context.Context, m *Message) (uint32, error) {
	conn, err := b.connect()
	if err != nil {
		return 0, err
	}

	obj := conn.Object(DBusBusName, DBusPath)
	call := obj.CallWithContext(ctx, DBusInterface+".Notify", 0, m.args()...)

	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("notify call failed: %w", err)
	}
	return id, nil
}

// Close releases the bus connection.
func (b *BusSender) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		return nil
	}
	err := b.conn.Close()
	b.conn = nil
	return err
}

func (b *BusSender) connect() (*dbus.Conn, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn != nil {
		return b.conn, nil
	}

	// Private connection: the shared SessionBus must never be closed.
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	b.conn = conn
	return conn, nil
}
