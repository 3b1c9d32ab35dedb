package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/flashtimer/internal/session"
)

// AppName identifies flashtimer to the notification server.
const AppName = "flashtimer"

// Notifier sends session expiry notifications.
type Notifier struct {
	logger *slog.Logger
	sender Sender
	now    func() time.Time

	enabled bool
	timeout time.Duration
}

// NewNotifier creates a notifier. timeout is the server-side expiry of each
// message; zero leaves it to the server.
func NewNotifier(sender Sender, enabled bool, timeout time.Duration, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		logger:  logger,
		sender:  sender,
		now:     time.Now,
		enabled: enabled,
		timeout: timeout,
	}
}

// SessionExpired notifies that s has run its full duration. started is when
// the session began.
func (n *Notifier) SessionExpired(ctx context.Context, s session.Session, started time.Time) error {
	if !n.enabled || n.sender == nil {
		return nil
	}

	m := ExpiryMessage(s, started, n.now(), n.timeout)
	id, err := n.sender.Send(ctx, m)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	n.logger.Debug("sent notification", "id", id, "summary", m.Summary, "urgency", m.Urgency(), s.LogAttrs())
	return nil
}

// ExpiryMessage builds the notification for an expired session.
// Work expiry is urgent; a finished break is informational.
func ExpiryMessage(s session.Session, started, now time.Time, timeout time.Duration) *Message {
	urgency := UrgencyNormal
	icon := "appointment-soon"
	if s.Kind == session.KindWork {
		urgency = UrgencyCritical
		icon = "alarm-symbolic"
	}

	expire := int32(-1)
	if timeout > 0 {
		expire = int32(timeout.Milliseconds())
	}

	body := fmt.Sprintf("%d-minute %s session started %s.",
		int(s.Duration.Minutes()),
		s.Kind,
		humanize.RelTime(started, now, "ago", "from now"),
	)

	return &Message{
		AppName: AppName,
		AppIcon: icon,
		Summary: s.DoneMessage(),
		Body:    body,
		Hints: map[string]dbus.Variant{
			"urgency":       dbus.MakeVariant(urgency),
			"category":      dbus.MakeVariant("x-flashtimer." + string(s.Kind)),
			"transient":     dbus.MakeVariant(true),
			"desktop-entry": dbus.MakeVariant(AppName),
		},
		ExpireTimeout: expire,
	}
}
