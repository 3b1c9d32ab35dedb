package audio

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/flashtimer/internal/config"
	"github.com/jmylchreest/flashtimer/internal/session"
)

func TestManager_ResolvesSoundsPerKind(t *testing.T) {
	dir := t.TempDir()
	workSound := filepath.Join(dir, "work.wav")
	writeSilence(t, workSound, 10)

	cfg := config.DefaultConfig()
	cfg.Audio.Sounds.Work = workSound
	cfg.Audio.Sounds.Break = filepath.Join(dir, "missing.wav")

	m := NewManager(cfg, nil)
	assert.Equal(t, workSound, m.SoundFor(session.KindWork))
	assert.Empty(t, m.SoundFor(session.KindBreak), "missing files are dropped")
}

func TestManager_VolumeFromConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Audio.Volume = 40

	m := NewManager(cfg, nil)
	assert.InDelta(t, 0.4, m.player.Volume(), 1e-9)
}

func TestManager_DisabledIsSilent(t *testing.T) {
	dir := t.TempDir()
	workSound := filepath.Join(dir, "work.wav")
	writeSilence(t, workSound, 10)

	cfg := config.DefaultConfig()
	cfg.Audio.Enabled = false
	cfg.Audio.Sounds.Work = workSound

	m := NewManager(cfg, nil)
	m.Start(context.Background())
	assert.False(t, m.Enabled())
	assert.NoError(t, m.Chime(session.New(session.KindWork, time.Minute, session.ColorRed, session.ColorWhite)))
}

func TestManager_NoSoundConfigured(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Audio.Sounds.Work = ""
	cfg.Audio.Sounds.Break = ""

	m := NewManager(cfg, nil)
	assert.NoError(t, m.Chime(session.New(session.KindBreak, time.Minute, session.ColorGreen, session.ColorGreen)))
}

func TestManager_StartPreloads(t *testing.T) {
	dir := t.TempDir()
	workSound := filepath.Join(dir, "work.wav")
	writeSilence(t, workSound, 10)

	cfg := config.DefaultConfig()
	cfg.Audio.Sounds.Work = workSound

	m := NewManager(cfg, nil)
	m.Start(context.Background())

	m.player.cacheMu.RLock()
	defer m.player.cacheMu.RUnlock()
	require.Contains(t, m.player.cache, workSound)
}
