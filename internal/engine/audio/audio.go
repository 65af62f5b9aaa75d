// Package audio plays short feedback cues through the system speaker.
package audio

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/Faultbox/sofa-configurator/internal/logger"
)

// DefaultSampleRate is the speaker sample rate.
const DefaultSampleRate = beep.SampleRate(44100)

// Player mixes named WAV cues. Cues may overlap.
type Player struct {
	mu sync.RWMutex

	initialized bool
	sampleRate  beep.SampleRate
	volume      float64 // 0.0 to 1.0
	mixer       *beep.Mixer

	cues map[string][]byte
}

// New creates a player with the given volume.
func New(volume float64) *Player {
	return &Player{
		volume: clamp(volume, 0, 1),
		mixer:  &beep.Mixer{},
		cues:   make(map[string][]byte),
	}
}

// Init opens the speaker and starts the mixer.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	p.sampleRate = DefaultSampleRate
	if err := speaker.Init(p.sampleRate, p.sampleRate.N(time.Second/30)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)

	p.initialized = true
	return nil
}

// Close stops playback.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Clear()
	p.initialized = false
}

// SetVolume sets the cue volume (0.0 to 1.0).
func (p *Player) SetVolume(vol float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.volume = clamp(vol, 0, 1)
}

// Volume returns the cue volume.
func (p *Player) Volume() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.volume
}

// LoadCues reads name -> file cues relative to dir. Each file must be a
// decodable WAV. The first bad file aborts loading; cues read before it stay.
func (p *Player) LoadCues(dir string, files map[string]string) error {
	for name, file := range files {
		path := file
		if dir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("cue %s: %w", name, err)
		}
		if _, _, err := decode(data); err != nil {
			return fmt.Errorf("cue %s: %w", name, err)
		}

		p.mu.Lock()
		p.cues[name] = data
		p.mu.Unlock()
		logger.Debug("cue loaded", zap.String("name", name), zap.String("path", path))
	}
	return nil
}

// HasCue reports whether a cue is registered under name.
func (p *Player) HasCue(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.cues[name]
	return ok
}

// Play queues the named cue on the mixer and returns immediately. It
// reports false when nothing was queued: unknown name, speaker not
// initialized, or muted.
func (p *Player) Play(name string) bool {
	p.mu.RLock()
	data, ok := p.cues[name]
	initialized := p.initialized
	vol := p.volume
	rate := p.sampleRate
	p.mu.RUnlock()

	if !ok || !initialized || vol <= 0 {
		return false
	}

	streamer, format, err := decode(data)
	if err != nil {
		logger.Warn("cue decode failed", zap.String("name", name), zap.Error(err))
		return false
	}

	var s beep.Streamer = streamer
	if format.SampleRate != rate {
		s = beep.Resample(4, format.SampleRate, rate, streamer)
	}

	speaker.Lock()
	p.mixer.Add(&effects.Volume{
		Streamer: s,
		Base:     2,
		Volume:   volumeToDb(vol),
	})
	speaker.Unlock()
	return true
}

func decode(data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	streamer, format, err := wav.Decode(io.NopCloser(bytes.NewReader(data)))
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("decode wav: %w", err)
	}
	return streamer, format, nil
}

// volumeToDb maps a 0-1 volume onto effects.Volume's log scale:
// 1 -> 0dB, 0.5 -> -6dB, 0.25 -> -12dB.
func volumeToDb(vol float64) float64 {
	if vol <= 0 {
		return -100
	}
	return 20 * math.Log10(vol)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
