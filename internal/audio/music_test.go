package audio

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
)

type fakeOutput struct {
	initErr error
	played  []beep.Streamer
	locked  int
}

func (f *fakeOutput) Init(beep.SampleRate, int) error { return f.initErr }
func (f *fakeOutput) Play(s ...beep.Streamer)         { f.played = append(f.played, s...) }
func (f *fakeOutput) Lock()                           { f.locked++ }
func (f *fakeOutput) Unlock()                         {}

// countingStream is a chiptune that records how often it was closed.
type countingStream struct {
	*chiptune
	closes *int
}

func (c countingStream) Close() error {
	*c.closes++
	return nil
}

type fakeSource struct {
	rate   beep.SampleRate
	opened []string
	closed int
}

func (f *fakeSource) Check(track string) error {
	if track == "missing.mp3" {
		return ErrTrackNotFound
	}
	return nil
}

func (f *fakeSource) Open(track string) (beep.StreamCloser, beep.Format, error) {
	if err := f.Check(track); err != nil {
		return nil, beep.Format{}, err
	}
	f.opened = append(f.opened, track)
	stream := countingStream{chiptune: newChiptune(f.rate), closes: &f.closed}
	return stream, beep.Format{SampleRate: f.rate, NumChannels: 2, Precision: 2}, nil
}

func newTestMusic(t *testing.T, rate beep.SampleRate) (*Music, *fakeOutput, *fakeSource) {
	t.Helper()
	out := &fakeOutput{}
	src := &fakeSource{rate: rate}
	m := NewMusic(out, src, log.New(io.Discard))
	if err := m.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	return m, out, src
}

func TestMusicPlayAndPause(t *testing.T) {
	m, out, src := newTestMusic(t, sampleRate)

	if len(out.played) != 1 {
		t.Fatalf("Init should attach the mixer once, got %d", len(out.played))
	}
	if err := m.PlayBackgroundMusic("background-game.mp3"); err != nil {
		t.Fatalf("PlayBackgroundMusic() error = %v", err)
	}
	if !m.Playing() || m.Track() != "background-game.mp3" {
		t.Errorf("Playing() = %v, Track() = %q", m.Playing(), m.Track())
	}

	m.PauseBackgroundMusic()
	if m.Playing() {
		t.Error("Playing() should be false after pause")
	}

	if err := m.PlayBackgroundMusic("background-game.mp3"); err != nil {
		t.Fatal(err)
	}
	if !m.Playing() || len(src.opened) != 2 {
		t.Errorf("replay should reopen the track, opened %v", src.opened)
	}
	if out.locked == 0 {
		t.Error("mixer changes must hold the output lock")
	}
}

func TestMusicClosesReplacedTracks(t *testing.T) {
	m, _, src := newTestMusic(t, sampleRate)

	for i := 0; i < 5; i++ {
		if err := m.PlayBackgroundMusic("background-game.mp3"); err != nil {
			t.Fatal(err)
		}
		m.PauseBackgroundMusic()
	}
	if src.closed != 4 {
		t.Errorf("closed %d of %d tracks while playing, want 4", src.closed, len(src.opened))
	}

	m.Close()
	if src.closed != len(src.opened) {
		t.Errorf("after Close() closed %d of %d tracks", src.closed, len(src.opened))
	}
	m.Close()
	if src.closed != len(src.opened) {
		t.Errorf("second Close() closed again: %d", src.closed)
	}
}

func TestMusicClosesResampledTrack(t *testing.T) {
	m, _, src := newTestMusic(t, beep.SampleRate(22050))
	if err := m.PlayBackgroundMusic("x.mp3"); err != nil {
		t.Fatal(err)
	}
	m.Close()
	if src.closed != 1 {
		t.Errorf("closed = %d, want 1", src.closed)
	}
}

func TestMusicResamplesForeignRate(t *testing.T) {
	m, _, _ := newTestMusic(t, beep.SampleRate(22050))
	if err := m.PlayBackgroundMusic("x.mp3"); err != nil {
		t.Fatal(err)
	}

	buf := make([][2]float64, 512)
	if n, ok := m.mixer.Stream(buf); n != len(buf) || !ok {
		t.Errorf("mixer.Stream() = %d, %v", n, ok)
	}
}

func TestMusicMissingTrack(t *testing.T) {
	m, _, _ := newTestMusic(t, sampleRate)

	if err := m.Check("missing.mp3"); !errors.Is(err, ErrTrackNotFound) {
		t.Errorf("Check() = %v, expected ErrTrackNotFound", err)
	}
	if err := m.PlayBackgroundMusic("missing.mp3"); !errors.Is(err, ErrTrackNotFound) {
		t.Errorf("PlayBackgroundMusic() = %v, expected ErrTrackNotFound", err)
	}
}

func TestMusicInitFailure(t *testing.T) {
	out := &fakeOutput{initErr: errors.New("no device")}
	m := NewMusic(out, SynthSource{}, log.New(io.Discard))

	if err := m.Init(); err == nil {
		t.Fatal("Init() should surface the output error")
	}
	if err := m.PlayBackgroundMusic("x"); err != nil {
		t.Errorf("uninitialized player should be a no-op, got %v", err)
	}
	m.PauseBackgroundMusic()
}

func TestDirSourceCheck(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "song.mp3"), []byte("not really"), 0o644); err != nil {
		t.Fatal(err)
	}
	src := DirSource{Dir: dir}

	if err := src.Check("song.mp3"); err != nil {
		t.Errorf("Check(existing) = %v", err)
	}
	if err := src.Check("background-game.mp3"); !errors.Is(err, ErrTrackNotFound) {
		t.Errorf("Check(missing) = %v, expected ErrTrackNotFound", err)
	}
	if _, _, err := src.Open("song.mp3"); err == nil {
		t.Error("Open() should fail to decode a non-mp3 file")
	}
}

// fakeDecoder is a one-second silent track.
type fakeDecoder struct {
	pos, closes int
}

func (d *fakeDecoder) Stream(samples [][2]float64) (int, bool) {
	n := min(len(samples), d.Len()-d.pos)
	clear(samples[:n])
	d.pos += n
	return n, n > 0
}
func (d *fakeDecoder) Err() error       { return nil }
func (d *fakeDecoder) Len() int         { return int(synthRate) }
func (d *fakeDecoder) Position() int    { return d.pos }
func (d *fakeDecoder) Seek(p int) error { d.pos = p; return nil }
func (d *fakeDecoder) Close() error     { d.closes++; return nil }

func TestLoopedTrackClosesDecoder(t *testing.T) {
	dec := &fakeDecoder{}
	track := loopedTrack{Streamer: beep.Loop(-1, dec), dec: dec}

	buf := make([][2]float64, 512)
	for i := 0; i < 200; i++ {
		if n, ok := track.Stream(buf); n != len(buf) || !ok {
			t.Fatalf("looped Stream() = %d, %v", n, ok)
		}
	}
	if err := track.Close(); err != nil {
		t.Fatal(err)
	}
	if dec.closes != 1 {
		t.Errorf("decoder closed %d times, want 1", dec.closes)
	}
}

func TestChiptuneIsEndless(t *testing.T) {
	c := newChiptune(synthRate)
	buf := make([][2]float64, synthRate.N(time.Second))
	var peak float64
	for i := 0; i < 3; i++ {
		n, ok := c.Stream(buf)
		if n != len(buf) || !ok {
			t.Fatalf("Stream() = %d, %v", n, ok)
		}
		for _, s := range buf {
			peak = max(peak, s[0])
		}
	}
	if peak <= 0 || peak > 1 {
		t.Errorf("peak amplitude = %v, expected within (0, 1]", peak)
	}
}

func TestSilentPlayer(t *testing.T) {
	var p Player = Silent{}
	if err := p.PlayBackgroundMusic("anything"); err != nil {
		t.Errorf("Silent.PlayBackgroundMusic() = %v", err)
	}
	p.PauseBackgroundMusic()
}
