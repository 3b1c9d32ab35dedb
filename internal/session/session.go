package session

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
)

// Kind distinguishes work sessions from breaks.
type Kind string

const (
	KindWork  Kind = "work"
	KindBreak Kind = "break"
)

// Color is one of the fixed colors windows are painted with.
type Color string

const (
	ColorWhite Color = "white"
	ColorRed   Color = "red"
	ColorGreen Color = "green"
)

// ErrUnknownColor is returned by ParseColor for names outside the fixed set.
var ErrUnknownColor = errors.New("unknown color")

// ParseColor converts a color name into a Color.
func ParseColor(name string) (Color, error) {
	switch c := Color(name); c {
	case ColorWhite, ColorRed, ColorGreen:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownColor, name)
	}
}

// Curve returns the flash animation used for this color.
// Red is alerting and blinks; everything else is calming and fades in.
func (c Color) Curve() Curve {
	if c == ColorRed {
		return CurveBlink
	}
	return CurveFade
}

// Session is one timed phase paired with its completion alert.
// It is immutable once started.
type Session struct {
	ID         string
	Kind       Kind
	Duration   time.Duration
	Alert      Color
	Background Color
}

// New creates a session with a fresh ID.
func New(kind Kind, d time.Duration, alert, background Color) Session {
	return Session{
		ID:         ulid.Make().String(),
		Kind:       kind,
		Duration:   d,
		Alert:      alert,
		Background: background,
	}
}

// Minutes builds a session whose duration is a whole number of minutes.
func Minutes(kind Kind, minutes int, alert, background Color) Session {
	return New(kind, time.Duration(minutes)*time.Minute, alert, background)
}

// LogAttrs returns the attributes every session log line carries.
func (s Session) LogAttrs() slog.Attr {
	return slog.Group("session",
		slog.String("id", s.ID),
		slog.String("kind", string(s.Kind)),
		slog.Duration("duration", s.Duration),
	)
}

// DoneMessage is the line shown when this session expires.
func (s Session) DoneMessage() string {
	switch s.Kind {
	case KindWork:
		return "Work time is over!"
	case KindBreak:
		return "Break time is over!"
	default:
		return "Time is over!"
	}
}
