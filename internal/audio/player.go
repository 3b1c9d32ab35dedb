package audio

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// ErrUnsupportedFormat is returned for sound files that are not WAV, OGG or MP3.
var ErrUnsupportedFormat = errors.New("unsupported audio format")

// Player decodes and plays sound files through the default speaker.
type Player struct {
	mu     sync.Mutex
	logger *slog.Logger

	volume      float64 // 0.0 to 1.0
	initialized bool
	sampleRate  beep.SampleRate

	cacheMu sync.RWMutex
	cache   map[string]*cachedSound
}

// cachedSound holds a decoded sound ready for playback.
type cachedSound struct {
	buffer  *beep.Buffer
	modTime time.Time
}

// NewPlayer creates a player at full volume.
func NewPlayer(logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}

	return &Player{
		logger:     logger,
		volume:     1.0,
		sampleRate: beep.SampleRate(44100),
		cache:      make(map[string]*cachedSound),
	}
}

// SetVolume sets the playback volume, clamped to 0.0-1.0.
func (p *Player) SetVolume(volume float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = min(max(volume, 0), 1)
}

// Volume returns the current volume.
func (p *Player) Volume() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Play starts playing a sound file and returns without waiting for it to end.
// Decoded sounds are cached until the file's modification time changes.
func (p *Player) Play(path string) error {
	if path == "" {
		return nil
	}

	buffer, err := p.load(path)
	if err != nil {
		return err
	}
	if err := p.ensureInitialized(buffer.Format().SampleRate); err != nil {
		return err
	}
	p.playBuffer(buffer)
	return nil
}

// Preload decodes a sound file into the cache.
func (p *Player) Preload(path string) error {
	if path == "" {
		return nil
	}
	_, err := p.load(path)
	return err
}

// load returns the cached buffer for path, decoding it when missing or stale.
func (p *Player) load(path string) (*beep.Buffer, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sound file: %w", err)
	}

	p.cacheMu.RLock()
	cached, ok := p.cache[path]
	p.cacheMu.RUnlock()
	if ok && cached.modTime.Equal(info.ModTime()) {
		return cached.buffer, nil
	}

	buffer, err := decode(path)
	if err != nil {
		p.logger.Warn("failed to load sound", "path", path, "error", err)
		return nil, err
	}

	p.cacheMu.Lock()
	p.cache[path] = &cachedSound{buffer: buffer, modTime: info.ModTime()}
	p.cacheMu.Unlock()

	p.logger.Debug("decoded sound", "path", path, "samples", buffer.Len())
	return buffer, nil
}

// decode reads a whole sound file into a buffer.
func decode(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sound file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		streamer, format, err = wav.Decode(f)
	case ".ogg":
		streamer, format, err = vorbis.Decode(f)
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode sound: %w", err)
	}
	defer func() { _ = streamer.Close() }()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	return buffer, nil
}

// ensureInitialized initializes the speaker on first use.
func (p *Player) ensureInitialized(sampleRate beep.SampleRate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}

	p.sampleRate = sampleRate
	p.initialized = true
	p.logger.Debug("speaker initialized", "sample_rate", sampleRate)
	return nil
}

// playBuffer hands a buffered sound to the speaker.
func (p *Player) playBuffer(buffer *beep.Buffer) {
	p.mu.Lock()
	volume := p.volume
	sampleRate := p.sampleRate
	p.mu.Unlock()

	var streamer beep.Streamer = buffer.Streamer(0, buffer.Len())

	if buffer.Format().SampleRate != sampleRate {
		streamer = beep.Resample(4, buffer.Format().SampleRate, sampleRate, streamer)
	}

	if volume < 1.0 {
		streamer = &effects.Volume{
			Streamer: streamer,
			Base:     2,
			Volume:   volumeToExponent(volume),
			Silent:   volume == 0,
		}
	}

	speaker.Play(streamer)
}

// Close stops playback and drops the cache.
func (p *Player) Close() {
	p.mu.Lock()
	if p.initialized {
		speaker.Close()
		p.initialized = false
	}
	p.mu.Unlock()

	p.cacheMu.Lock()
	p.cache = make(map[string]*cachedSound)
	p.cacheMu.Unlock()

	p.logger.Debug("audio player closed")
}

// volumeToExponent converts a linear volume (0-1) into the base-2 exponent
// effects.Volume expects, so 0.5 halves the amplitude.
func volumeToExponent(volume float64) float64 {
	if volume <= 0 {
		return -10
	}
	return math.Log2(volume)
}
