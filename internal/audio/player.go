// Package audio provides the background-music capability used by scenes.
package audio

import "errors"

// ErrTrackNotFound is returned when a music track cannot be located.
var ErrTrackNotFound = errors.New("track not found")

// Player plays and pauses the scene's background music.
type Player interface {
	// PlayBackgroundMusic starts track from the beginning, replacing
	// whatever was playing.
	PlayBackgroundMusic(track string) error
	PauseBackgroundMusic()
}

// Silent is a Player that does nothing. Used for --mute and SSH sessions.
type Silent struct{}

func (Silent) PlayBackgroundMusic(string) error { return nil }
func (Silent) PauseBackgroundMusic()            {}
