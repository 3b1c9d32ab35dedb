// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// EnvConfigPath overrides the default config file location.
const EnvConfigPath = "FLASHTIMER_CONFIG"

// Session duration bounds, in minutes.
const (
	MinWorkMinutes     = 1
	MaxWorkMinutes     = 120
	DefaultWorkMinutes = 25

	MinBreakMinutes     = 1
	MaxBreakMinutes     = 30
	DefaultBreakMinutes = 5
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid configuration")

// Config is the flashtimer configuration.
// Loaded from ~/.config/flashtimer/config.toml
type Config struct {
	Timer     TimerConfig     `toml:"timer" yaml:"timer"`
	Countdown CountdownConfig `toml:"countdown" yaml:"countdown"`
	Flash     FlashConfig     `toml:"flash" yaml:"flash"`
	Colors    ColorsConfig    `toml:"colors" yaml:"colors"`
	Audio     AudioConfig     `toml:"audio" yaml:"audio"`
	Notify    NotifyConfig    `toml:"notify" yaml:"notify"`
	Theme     ThemeConfig     `toml:"theme" yaml:"theme"`
	Log       LogConfig       `toml:"log" yaml:"log"`
}

// TimerConfig contains session timing settings.
type TimerConfig struct {
	WorkMinutes     int      `toml:"work_minutes" yaml:"work_minutes"`         // Prompt default for work
	BreakMinutes    int      `toml:"break_minutes" yaml:"break_minutes"`       // Prompt default for break
	Cycles          int      `toml:"cycles" yaml:"cycles"`                     // Work/break pairs to run
	RefreshInterval Duration `toml:"refresh_interval" yaml:"refresh_interval"` // Countdown redraw cadence
	CloseDelay      Duration `toml:"close_delay" yaml:"close_delay"`           // Delay between 00:00 and close
	PollInterval    Duration `toml:"poll_interval" yaml:"poll_interval"`       // Notifier signal poll
	JoinTimeout     Duration `toml:"join_timeout" yaml:"join_timeout"`         // Bounded notifier join
	SessionPause    Duration `toml:"session_pause" yaml:"session_pause"`       // Gap between sessions
}

// CountdownConfig contains countdown window settings.
type CountdownConfig struct {
	Position string  `toml:"position" yaml:"position"`   // "bottom-left", "top-right", etc.
	OffsetX  int     `toml:"offset_x" yaml:"offset_x"`   // Pixels from screen edge
	OffsetY  int     `toml:"offset_y" yaml:"offset_y"`   // Pixels from screen edge
	Width    int     `toml:"width" yaml:"width"`         // Window width in pixels
	Height   int     `toml:"height" yaml:"height"`       // Window height in pixels
	Opacity  float64 `toml:"opacity" yaml:"opacity"`     // 0.0-1.0
	FontSize int     `toml:"font_size" yaml:"font_size"` // Label size in points
	Monitor  int     `toml:"monitor" yaml:"monitor"`     // 0 = compositor default, 1+ = specific monitor
}

// FlashConfig contains flash alert animation settings.
type FlashConfig struct {
	Steps     int      `toml:"steps" yaml:"steps"`
	Interval  Duration `toml:"interval" yaml:"interval"`
	BlinkHigh float64  `toml:"blink_high" yaml:"blink_high"` // Alerting colors toggle between high...
	BlinkLow  float64  `toml:"blink_low" yaml:"blink_low"`   // ...and low
	FadeStart float64  `toml:"fade_start" yaml:"fade_start"` // Calming colors open at this opacity
	FadeMax   float64  `toml:"fade_max" yaml:"fade_max"`     // and ramp up to this one
}

// ColorsConfig selects the countdown background and alert color per session kind.
type ColorsConfig struct {
	WorkBackground  string `toml:"work_background" yaml:"work_background"`
	WorkAlert       string `toml:"work_alert" yaml:"work_alert"`
	BreakBackground string `toml:"break_background" yaml:"break_background"`
	BreakAlert      string `toml:"break_alert" yaml:"break_alert"`
}

// AudioConfig contains expiry chime settings.
type AudioConfig struct {
	Enabled bool        `toml:"enabled" yaml:"enabled"`
	Volume  int         `toml:"volume" yaml:"volume"` // 0-100
	Sounds  SoundConfig `toml:"sounds" yaml:"sounds"`
}

// SoundConfig contains per-session-kind sound file paths.
type SoundConfig struct {
	Work  string `toml:"work" yaml:"work"`
	Break string `toml:"break" yaml:"break"`
}

// NotifyConfig controls desktop notifications on expiry.
type NotifyConfig struct {
	Enabled bool     `toml:"enabled" yaml:"enabled"`
	Timeout Duration `toml:"timeout" yaml:"timeout"` // Server-side expiry, 0 = server default
}

// ThemeConfig contains theme settings.
type ThemeConfig struct {
	Name      string `toml:"name" yaml:"name"` // Theme name without .css extension
	HotReload bool   `toml:"hot_reload" yaml:"hot_reload"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"` // debug, info, warn, error
}

// Position represents a countdown window corner.
type Position string

const (
	PositionTopLeft     Position = "top-left"
	PositionTopRight    Position = "top-right"
	PositionBottomLeft  Position = "bottom-left"
	PositionBottomRight Position = "bottom-right"
)

// ValidPositions returns all valid position values.
func ValidPositions() []Position {
	return []Position{
		PositionTopLeft,
		PositionTopRight,
		PositionBottomLeft,
		PositionBottomRight,
	}
}

// ValidColors returns the color names windows can be painted with.
func ValidColors() []string {
	return []string{"white", "red", "green"}
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Timer: TimerConfig{
			WorkMinutes:     DefaultWorkMinutes,
			BreakMinutes:    DefaultBreakMinutes,
			Cycles:          1,
			RefreshInterval: Duration(4970 * time.Millisecond),
			CloseDelay:      Duration(500 * time.Millisecond),
			PollInterval:    Duration(time.Second),
			JoinTimeout:     Duration(2 * time.Second),
			SessionPause:    Duration(500 * time.Millisecond),
		},
		Countdown: CountdownConfig{
			Position: string(PositionBottomLeft),
			OffsetX:  0,
			OffsetY:  50,
			Width:    81,
			Height:   50,
			Opacity:  0.5,
			FontSize: 24,
			Monitor:  0,
		},
		Flash: FlashConfig{
			Steps:     5,
			Interval:  Duration(500 * time.Millisecond),
			BlinkHigh: 0.5,
			BlinkLow:  0.15,
			FadeStart: 0.1,
			FadeMax:   0.6,
		},
		Colors: ColorsConfig{
			WorkBackground:  "white",
			WorkAlert:       "red",
			BreakBackground: "green",
			BreakAlert:      "green",
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  80,
		},
		Notify: NotifyConfig{
			Enabled: true,
			Timeout: Duration(10 * time.Second),
		},
		Theme: ThemeConfig{
			Name:      "default",
			HotReload: true,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// ConfigPath returns the path to the config file.
// FLASHTIMER_CONFIG wins, then XDG_CONFIG_HOME, then ~/.config.
func ConfigPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "flashtimer", "config.toml"), nil
}

// Load loads the configuration from path.
// If path is empty, ConfigPath is used. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = ConfigPath()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if path == "" {
		var err error
		path, err = ConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Write atomically via temp file
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	t := c.Timer
	if t.WorkMinutes < MinWorkMinutes || t.WorkMinutes > MaxWorkMinutes {
		return invalidf("work_minutes must be between %d and %d, got %d", MinWorkMinutes, MaxWorkMinutes, t.WorkMinutes)
	}
	if t.BreakMinutes < MinBreakMinutes || t.BreakMinutes > MaxBreakMinutes {
		return invalidf("break_minutes must be between %d and %d, got %d", MinBreakMinutes, MaxBreakMinutes, t.BreakMinutes)
	}
	if t.Cycles < 1 || t.Cycles > 24 {
		return invalidf("cycles must be between 1 and 24, got %d", t.Cycles)
	}
	for name, d := range map[string]Duration{
		"refresh_interval": t.RefreshInterval,
		"poll_interval":    t.PollInterval,
		"join_timeout":     t.JoinTimeout,
	} {
		if d <= 0 {
			return invalidf("%s must be positive, got %s", name, d.Duration())
		}
	}
	if t.CloseDelay < 0 || t.SessionPause < 0 {
		return invalidf("close_delay and session_pause must not be negative")
	}

	cd := c.Countdown
	if !slices.Contains(ValidPositions(), Position(cd.Position)) {
		return invalidf("invalid position %q, must be one of: %v", cd.Position, ValidPositions())
	}
	if cd.Width < 20 || cd.Width > 1000 || cd.Height < 20 || cd.Height > 1000 {
		return invalidf("countdown size must be between 20 and 1000 pixels, got %dx%d", cd.Width, cd.Height)
	}
	if cd.Opacity <= 0 || cd.Opacity > 1 {
		return invalidf("countdown opacity must be in (0, 1], got %v", cd.Opacity)
	}
	if cd.FontSize < 6 || cd.FontSize > 200 {
		return invalidf("font_size must be between 6 and 200, got %d", cd.FontSize)
	}
	if cd.Monitor < 0 {
		return invalidf("monitor must not be negative, got %d", cd.Monitor)
	}

	f := c.Flash
	if f.Steps < 1 || f.Steps > 100 {
		return invalidf("flash steps must be between 1 and 100, got %d", f.Steps)
	}
	if f.Interval <= 0 {
		return invalidf("flash interval must be positive")
	}
	for name, v := range map[string]float64{
		"blink_high": f.BlinkHigh,
		"blink_low":  f.BlinkLow,
		"fade_start": f.FadeStart,
		"fade_max":   f.FadeMax,
	} {
		if v < 0 || v > 1 {
			return invalidf("%s must be between 0 and 1, got %v", name, v)
		}
	}
	if f.BlinkHigh == f.BlinkLow {
		return invalidf("blink_high and blink_low must differ")
	}
	if f.FadeMax <= 0 {
		return invalidf("fade_max must be positive")
	}

	for name, color := range map[string]string{
		"work_background":  c.Colors.WorkBackground,
		"work_alert":       c.Colors.WorkAlert,
		"break_background": c.Colors.BreakBackground,
		"break_alert":      c.Colors.BreakAlert,
	} {
		if !slices.Contains(ValidColors(), color) {
			return invalidf("invalid %s %q, must be one of: %v", name, color, ValidColors())
		}
	}

	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return invalidf("volume must be between 0 and 100, got %d", c.Audio.Volume)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return invalidf("invalid log level %q", c.Log.Level)
	}

	return nil
}

// SoundForKind returns the expanded sound path configured for a session kind ("work" or "break").
func (c *Config) SoundForKind(kind string) string {
	switch kind {
	case "work":
		return expandPath(c.Audio.Sounds.Work)
	case "break":
		return expandPath(c.Audio.Sounds.Break)
	default:
		return ""
	}
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
