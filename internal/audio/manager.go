package audio

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/jmylchreest/flashtimer/internal/config"
	"github.com/jmylchreest/flashtimer/internal/session"
)

// Manager plays the chime configured for each session kind.
type Manager struct {
	mu      sync.RWMutex
	logger  *slog.Logger
	player  *Player
	enabled bool
	sounds  map[session.Kind]string
}

// NewManager creates a manager from the audio section of cfg.
func NewManager(cfg *config.Config, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		logger:  logger,
		player:  NewPlayer(logger),
		enabled: cfg.Audio.Enabled,
		sounds:  make(map[session.Kind]string),
	}
	m.player.SetVolume(float64(cfg.Audio.Volume) / 100.0)

	for _, kind := range []session.Kind{session.KindWork, session.KindBreak} {
		path := cfg.SoundForKind(string(kind))
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			logger.Warn("sound file not found", "kind", kind, "path", path)
			continue
		}
		m.sounds[kind] = path
	}

	return m
}

// Start preloads the configured sounds so the first chime plays without a
// decoding delay.
func (m *Manager) Start(ctx context.Context) {
	if !m.Enabled() {
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	for kind, path := range m.sounds {
		if ctx.Err() != nil {
			return
		}
		if err := m.player.Preload(path); err != nil {
			m.logger.Warn("failed to preload sound", "kind", kind, "path", path, "error", err)
		}
	}
	m.logger.Debug("audio manager started", "sounds", len(m.sounds))
}

// Stop releases the speaker.
func (m *Manager) Stop() {
	m.player.Close()
	m.logger.Debug("audio manager stopped")
}

// Enabled reports whether chimes are played at all.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.enabled
}

// SoundFor returns the sound path for a session kind, or "" when none is configured.
func (m *Manager) SoundFor(kind session.Kind) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sounds[kind]
}

// Chime plays the sound for s's kind. Missing sounds are not an error.
func (m *Manager) Chime(s session.Session) error {
	if !m.Enabled() {
		return nil
	}

	path := m.SoundFor(s.Kind)
	if path == "" {
		m.logger.Debug("no sound configured for session kind", "kind", s.Kind)
		return nil
	}
	return m.player.Play(path)
}
