package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSurface captures every call made by the Flasher.
type recordingSurface struct {
	openErr   error
	color     Color
	initial   float64
	opacities []float64
	opened    bool
	closed    bool
}

func (s *recordingSurface) Open(color Color, opacity float64) error {
	if s.openErr != nil {
		return s.openErr
	}
	s.opened = true
	s.color = color
	s.initial = opacity
	return nil
}

func (s *recordingSurface) SetOpacity(opacity float64) {
	s.opacities = append(s.opacities, opacity)
}

func (s *recordingSurface) Close() {
	s.closed = true
}

func TestOpacities_Blink(t *testing.T) {
	got := Opacities(CurveBlink, 5, DefaultLevels())
	assert.Equal(t, []float64{0.5, 0.15, 0.5, 0.15, 0.5}, got)
}

func TestOpacities_Fade(t *testing.T) {
	got := Opacities(CurveFade, 5, DefaultLevels())
	require.Len(t, got, 5)
	for i, want := range []float64{0.12, 0.24, 0.36, 0.48, 0.6} {
		assert.InDelta(t, want, got[i], 1e-9)
	}
}

func TestOpacities_Properties(t *testing.T) {
	levels := DefaultLevels()

	for steps := 1; steps <= 40; steps++ {
		blink := Opacities(CurveBlink, steps, levels)
		require.Len(t, blink, steps)
		for i, a := range blink {
			assert.Contains(t, []float64{levels.BlinkHigh, levels.BlinkLow}, a)
			if i > 0 {
				assert.NotEqual(t, blink[i-1], a, "blink must alternate, steps=%d", steps)
			}
		}

		fade := Opacities(CurveFade, steps, levels)
		require.Len(t, fade, steps)
		assert.Greater(t, fade[0], 0.0)
		for i := 1; i < len(fade); i++ {
			assert.Greater(t, fade[i], fade[i-1], "fade must strictly increase, steps=%d", steps)
		}
		assert.InDelta(t, levels.FadeMax, fade[len(fade)-1], 1e-9)
	}
}

func TestOpacities_NoSteps(t *testing.T) {
	assert.Nil(t, Opacities(CurveBlink, 0, DefaultLevels()))
}

func TestColor_Curve(t *testing.T) {
	assert.Equal(t, CurveBlink, ColorRed.Curve())
	assert.Equal(t, CurveFade, ColorGreen.Curve())
	assert.Equal(t, CurveFade, ColorWhite.Curve())
}

func TestFlasher_RunsToCompletion(t *testing.T) {
	clk := newFakeClock()
	start := clk.Now()
	surface := &recordingSurface{}

	f := Flasher{Steps: 5, Interval: 500 * time.Millisecond, Levels: DefaultLevels(), Clock: clk}
	require.NoError(t, f.Flash(context.Background(), surface, ColorGreen))

	assert.True(t, surface.opened)
	assert.True(t, surface.closed)
	assert.Equal(t, ColorGreen, surface.color)
	assert.Equal(t, 0.1, surface.initial)
	assert.Len(t, surface.opacities, 5)
	assert.Equal(t, start.Add(2500*time.Millisecond), clk.Now())
}

func TestFlasher_BlinkOpensTransparent(t *testing.T) {
	surface := &recordingSurface{}

	f := Flasher{Steps: 5, Interval: time.Millisecond, Levels: DefaultLevels(), Clock: newFakeClock()}
	require.NoError(t, f.Flash(context.Background(), surface, ColorRed))

	assert.Equal(t, 0.0, surface.initial)
	assert.Equal(t, []float64{0.5, 0.15, 0.5, 0.15, 0.5}, surface.opacities)
}

func TestFlasher_CancelledStillCloses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	surface := &recordingSurface{}

	f := Flasher{Steps: 5, Interval: time.Second, Levels: DefaultLevels(), Clock: newFakeClock()}
	err := f.Flash(ctx, surface, ColorRed)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, surface.opacities)
	assert.True(t, surface.closed)
}

func TestFlasher_OpenError(t *testing.T) {
	surface := &recordingSurface{openErr: errors.New("no display")}

	f := Flasher{Steps: 5, Interval: time.Second, Levels: DefaultLevels(), Clock: newFakeClock()}
	err := f.Flash(context.Background(), surface, ColorRed)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no display")
	assert.Empty(t, surface.opacities)
	assert.True(t, surface.closed, "a surface that failed to open may still appear later and must be closed")
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("green")
	require.NoError(t, err)
	assert.Equal(t, ColorGreen, c)

	_, err = ParseColor("mauve")
	assert.ErrorIs(t, err, ErrUnknownColor)
}
