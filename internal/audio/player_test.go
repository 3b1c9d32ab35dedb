package audio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeSilence writes a mono 16-bit WAV file holding n samples of silence.
func writeSilence(t *testing.T, path string, n int) {
	t.Helper()

	f, err := os.Create(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	format := beep.Format{SampleRate: 44100, NumChannels: 1, Precision: 2}
	require.NoError(t, wav.Encode(f, beep.Silence(n), format))
}

func TestDecode_Wav(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chime.wav")
	writeSilence(t, path, 441)

	buffer, err := decode(path)
	require.NoError(t, err)
	assert.Equal(t, 441, buffer.Len())
	assert.Equal(t, beep.SampleRate(44100), buffer.Format().SampleRate)
}

func TestDecode_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chime.flac")
	require.NoError(t, os.WriteFile(path, []byte("fLaC"), 0644))

	_, err := decode(path)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestDecode_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chime.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a wav file"), 0644))

	_, err := decode(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode sound")
}

func TestPlayer_LoadCachesUntilModified(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chime.wav")
	writeSilence(t, path, 100)

	p := NewPlayer(nil)
	first, err := p.load(path)
	require.NoError(t, err)

	again, err := p.load(path)
	require.NoError(t, err)
	assert.Same(t, first, again)

	writeSilence(t, path, 200)
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.NoError(t, os.Chtimes(path, info.ModTime(), info.ModTime().Add(1e9)))

	reloaded, err := p.load(path)
	require.NoError(t, err)
	assert.NotSame(t, first, reloaded)
	assert.Equal(t, 200, reloaded.Len())
}

func TestPlayer_MissingFile(t *testing.T) {
	p := NewPlayer(nil)
	err := p.Preload(filepath.Join(t.TempDir(), "absent.wav"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestPlayer_EmptyPathIsNoop(t *testing.T) {
	p := NewPlayer(nil)
	assert.NoError(t, p.Play(""))
	assert.NoError(t, p.Preload(""))
}

func TestPlayer_SetVolumeClamps(t *testing.T) {
	p := NewPlayer(nil)

	p.SetVolume(1.5)
	assert.Equal(t, 1.0, p.Volume())

	p.SetVolume(-0.2)
	assert.Equal(t, 0.0, p.Volume())

	p.SetVolume(0.8)
	assert.Equal(t, 0.8, p.Volume())
}

func TestVolumeToExponent(t *testing.T) {
	assert.InDelta(t, 0.0, volumeToExponent(1.0), 1e-9)
	assert.InDelta(t, -1.0, volumeToExponent(0.5), 1e-9)
	assert.InDelta(t, -2.0, volumeToExponent(0.25), 1e-9)
	assert.Equal(t, -10.0, volumeToExponent(0))
}
