package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Curve selects the opacity animation of a flash.
type Curve int

const (
	// CurveBlink toggles between two fixed levels every step.
	CurveBlink Curve = iota
	// CurveFade ramps opacity up from zero in equal increments.
	CurveFade
)

func (c Curve) String() string {
	switch c {
	case CurveBlink:
		return "blink"
	case CurveFade:
		return "fade"
	default:
		return fmt.Sprintf("curve(%d)", int(c))
	}
}

// Levels holds the opacity parameters of both curves.
type Levels struct {
	BlinkHigh float64
	BlinkLow  float64
	FadeStart float64 // Opacity the surface opens at before the first fade step
	FadeMax   float64
}

// DefaultLevels returns the stock flash levels.
func DefaultLevels() Levels {
	return Levels{
		BlinkHigh: 0.5,
		BlinkLow:  0.15,
		FadeStart: 0.1,
		FadeMax:   0.6,
	}
}

// Opacities returns the per-step opacity sequence for curve.
//
// Blink starts from zero and toggles to BlinkHigh unless already there, in
// which case it drops to BlinkLow; the step count only sets the length. Fade
// adds FadeMax/steps each step, so the increment scales with the step count.
func Opacities(curve Curve, steps int, levels Levels) []float64 {
	if steps <= 0 {
		return nil
	}

	out := make([]float64, steps)
	switch curve {
	case CurveBlink:
		alpha := 0.0
		for i := range out {
			if alpha == levels.BlinkHigh {
				alpha = levels.BlinkLow
			} else {
				alpha = levels.BlinkHigh
			}
			out[i] = alpha
		}
	default:
		step := levels.FadeMax / float64(steps)
		alpha := 0.0
		for i := range out {
			alpha += step
			out[i] = alpha
		}
	}
	return out
}

// Surface is a full-screen, topmost, borderless window filled with one color.
// Close must be safe after a failed Open.
type Surface interface {
	Open(color Color, opacity float64) error
	SetOpacity(opacity float64)
	Close()
}

// Flasher animates a Surface.
type Flasher struct {
	Steps    int
	Interval time.Duration
	Levels   Levels
	Clock    Clock
	Logger   *slog.Logger
}

// Flash opens surface in color, walks the color's opacity curve with
// Interval between steps and closes it. The animation runs to completion
// unless ctx is cancelled; the surface is closed either way.
func (f Flasher) Flash(ctx context.Context, surface Surface, color Color) error {
	clk := f.Clock
	if clk == nil {
		clk = RealClock{}
	}
	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}

	curve := color.Curve()
	initial := 0.0
	if curve == CurveFade {
		initial = f.Levels.FadeStart
	}

	if err := surface.Open(color, initial); err != nil {
		// Open may give up while the window is still being built.
		surface.Close()
		return fmt.Errorf("failed to open flash surface: %w", err)
	}
	defer surface.Close()

	logger.Debug("flash started", "color", color, "curve", curve, "steps", f.Steps)
	for _, alpha := range Opacities(curve, f.Steps, f.Levels) {
		if err := ctx.Err(); err != nil {
			return err
		}
		surface.SetOpacity(alpha)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-clk.After(f.Interval):
		}
	}
	logger.Debug("flash complete", "color", color)
	return nil
}
