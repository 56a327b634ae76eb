package audio

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/mp3"
)

// Source resolves track names into endless streams.
type Source interface {
	// Check reports whether track can be opened, without decoding it.
	Check(track string) error
	// Open starts a stream of track. Closing it releases whatever the
	// stream reads from.
	Open(track string) (beep.StreamCloser, beep.Format, error)
}

// DirSource loads MP3 tracks from a directory and loops them.
type DirSource struct {
	Dir string
}

func (d DirSource) path(track string) string {
	return filepath.Join(d.Dir, filepath.Base(track))
}

// Check stats the track file.
func (d DirSource) Check(track string) error {
	if _, err := os.Stat(d.path(track)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrTrackNotFound, d.path(track))
		}
		return fmt.Errorf("audio: stat %s: %w", track, err)
	}
	return nil
}

// loopedTrack loops a decoded track and closes the decoder, and with it
// the file, on Close.
type loopedTrack struct {
	beep.Streamer
	dec beep.StreamSeekCloser
}

func (l loopedTrack) Close() error { return l.dec.Close() }

// Open decodes the track and wraps it in an endless loop.
func (d DirSource) Open(track string) (beep.StreamCloser, beep.Format, error) {
	if err := d.Check(track); err != nil {
		return nil, beep.Format{}, err
	}
	f, err := os.Open(d.path(track))
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("audio: open %s: %w", track, err)
	}
	stream, format, err := mp3.Decode(f)
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("audio: decode %s: %w", track, err)
	}
	return loopedTrack{Streamer: beep.Loop(-1, stream), dec: stream}, format, nil
}

// SynthSource plays a generated chiptune for any track name.
// It stands in when no music directory is configured.
type SynthSource struct{}

func (SynthSource) Check(string) error { return nil }

func (SynthSource) Open(string) (beep.StreamCloser, beep.Format, error) {
	format := beep.Format{SampleRate: synthRate, NumChannels: 2, Precision: 2}
	return newChiptune(synthRate), format, nil
}

const synthRate = beep.SampleRate(44100)

// melody is in semitones above A3; -1 is a rest.
var melody = []int{
	3, 7, 10, 15, 10, 7, 3, -1,
	5, 8, 12, 17, 12, 8, 5, -1,
	7, 10, 14, 19, 14, 10, 7, 10,
	8, 12, 15, 20, 15, 12, 8, -1,
}

// chiptune is an endless square-wave arpeggio with a soft bass line.
type chiptune struct {
	sr      beep.SampleRate
	pos     int
	noteLen int
}

func newChiptune(sr beep.SampleRate) *chiptune {
	return &chiptune{sr: sr, noteLen: sr.N(150 * time.Millisecond)}
}

func (c *chiptune) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		note := melody[(c.pos/c.noteLen)%len(melody)]
		inNote := c.pos % c.noteLen
		t := float64(c.pos) / float64(c.sr)

		var lead float64
		if note >= 0 {
			freq := 220 * math.Pow(2, float64(note)/12)
			if math.Mod(t*freq, 1) < 0.5 {
				lead = 1
			} else {
				lead = -1
			}
			// short decay so repeated notes stay distinct
			lead *= 0.08 * (1 - float64(inNote)/float64(c.noteLen))
		}
		bass := 0.05 * math.Sin(2*math.Pi*55*t)

		samples[i][0] = lead + bass
		samples[i][1] = lead + bass
		c.pos++
	}
	return len(samples), true
}

func (c *chiptune) Err() error { return nil }

func (c *chiptune) Close() error { return nil }
