package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// Output is the sound device. The speaker package satisfies it through
// SpeakerOutput; tests use a fake.
type Output interface {
	Init(sr beep.SampleRate, bufferSize int) error
	Play(s ...beep.Streamer)
	Lock()
	Unlock()
}

// SpeakerOutput plays through github.com/gopxl/beep/speaker.
type SpeakerOutput struct{}

func (SpeakerOutput) Init(sr beep.SampleRate, bufferSize int) error {
	return speaker.Init(sr, bufferSize)
}
func (SpeakerOutput) Play(s ...beep.Streamer) { speaker.Play(s...) }
func (SpeakerOutput) Lock()                   { speaker.Lock() }
func (SpeakerOutput) Unlock()                 { speaker.Unlock() }

// Music is a Player backed by beep. One background track plays at a time
// through a mixer that stays attached to the output.
type Music struct {
	mu          sync.Mutex
	out         Output
	src         Source
	log         *log.Logger
	mixer       *beep.Mixer
	ctrl        *beep.Ctrl
	stream      beep.StreamCloser // source of ctrl, closed when detached
	track       string
	initialized bool
}

var _ Player = (*Music)(nil)

// NewMusic creates a music player. Call Init before playing.
func NewMusic(out Output, src Source, logger *log.Logger) *Music {
	return &Music{out: out, src: src, log: logger, mixer: &beep.Mixer{}}
}

// Init opens the output device and attaches the mixer.
func (m *Music) Init() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.initialized {
		return nil
	}
	if err := m.out.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return fmt.Errorf("audio: init output: %w", err)
	}
	m.out.Play(m.mixer)
	m.initialized = true
	return nil
}

// Check verifies that track can be loaded.
func (m *Music) Check(track string) error {
	return m.src.Check(track)
}

// PlayBackgroundMusic starts track from the beginning.
func (m *Music) PlayBackgroundMusic(track string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return nil
	}
	stream, format, err := m.src.Open(track)
	if err != nil {
		return err
	}
	var play beep.Streamer = stream
	if format.SampleRate != sampleRate {
		play = beep.Resample(4, format.SampleRate, sampleRate, stream)
	}
	ctrl := &beep.Ctrl{Streamer: play}

	m.out.Lock()
	if m.ctrl != nil {
		m.ctrl.Paused = true
	}
	m.mixer.Clear()
	m.mixer.Add(ctrl)
	m.out.Unlock()

	m.closeStream()
	m.ctrl = ctrl
	m.stream = stream
	m.track = track
	m.log.Debug("background music", "track", track)
	return nil
}

// PauseBackgroundMusic pauses the current track, if any.
func (m *Music) PauseBackgroundMusic() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctrl == nil {
		return
	}
	m.out.Lock()
	m.ctrl.Paused = true
	m.out.Unlock()
}

// Playing reports whether a track is loaded and not paused.
func (m *Music) Playing() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ctrl == nil {
		return false
	}
	m.out.Lock()
	defer m.out.Unlock()
	return !m.ctrl.Paused
}

// Track returns the name of the last started track.
func (m *Music) Track() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.track
}

// Close stops playback and detaches every stream.
func (m *Music) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.initialized {
		return
	}
	m.out.Lock()
	m.mixer.Clear()
	m.out.Unlock()
	m.closeStream()
	m.ctrl = nil
	m.initialized = false
}

// closeStream releases the detached stream. Callers hold m.mu.
func (m *Music) closeStream() {
	if m.stream == nil {
		return
	}
	if err := m.stream.Close(); err != nil {
		m.log.Warn("could not close track", "track", m.track, "error", err)
	}
	m.stream = nil
}
