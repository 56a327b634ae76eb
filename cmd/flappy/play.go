package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-flappy/internal/audio"
	"github.com/vovakirdan/tui-flappy/internal/config"
	"github.com/vovakirdan/tui-flappy/internal/games/flappy"
	"github.com/vovakirdan/tui-flappy/internal/platform/tui"
	"github.com/vovakirdan/tui-flappy/internal/registry"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

var (
	flagMusicDir string
	flagMute     bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start the scene in the current terminal.

Controls:
  Space/Up/W or left click   - Flap
  R/Enter or click button    - Restart (after game over)
  Ctrl+S                     - Save a text screenshot
  Q/Ctrl+C                   - Quit

Music:
  Without --music-dir a generated tune plays. With --music-dir the
  configured track (background-game.mp3 by default) must exist there.

Difficulty options:
  easy   - Wide gaps, slow pipes
  normal - Slightly narrower and faster
  hard   - Narrow gaps, fast pipes
  fixed  - Keep the config's level

Examples:
  flappy play
  flappy play --difficulty hard
  flappy play --music-dir ~/music --log-file flappy.log
  flappy play --config ./my-flappy.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagMusicDir, "music-dir", "", "Directory holding the MP3 background track")
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Disable music")
}

func runPlay(_ *cobra.Command, _ []string) error {
	logger, closeLog, err := newLogger(io.Discard)
	if err != nil {
		return err
	}
	defer closeLog()

	textures, err := loadTextures()
	if err != nil {
		return err
	}

	// The track name comes from the scene config; resolve it up front so
	// a missing file fails before the terminal switches screens.
	sceneCfg, err := config.LoadFlappy(flagConfig)
	if err != nil {
		return err
	}
	if _, err := config.ParsePreset(flagDifficulty); err != nil {
		return err
	}

	player, stopMusic, err := openMusic(sceneCfg.Audio.Track, logger)
	if err != nil {
		return err
	}
	defer stopMusic()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	return tui.Run(tui.Options{
		GameID: flappy.ID,
		Env: registry.Env{
			Music:      player,
			Logger:     logger,
			Textures:   textures,
			ConfigPath: flagConfig,
			Preset:     flagDifficulty,
		},
		Store:  store,
		Config: runtimeConfig(),
	})
}

// openMusic picks the music backend. A missing track in --music-dir is
// fatal; an unusable audio device only downgrades to silence.
func openMusic(track string, logger *log.Logger) (audio.Player, func(), error) {
	noop := func() {}
	if flagMute {
		return audio.Silent{}, noop, nil
	}

	var src audio.Source = audio.SynthSource{}
	if flagMusicDir != "" {
		src = audio.DirSource{Dir: flagMusicDir}
	}
	if err := src.Check(track); err != nil {
		return nil, nil, err
	}

	music := audio.NewMusic(audio.SpeakerOutput{}, src, logger)
	if err := music.Init(); err != nil {
		logger.Warn("audio unavailable, continuing without music", "error", err)
		return audio.Silent{}, noop, nil
	}
	stop := func() {
		if music.Playing() {
			logger.Debug("stopping music", "track", music.Track())
		}
		music.Close()
	}
	return music, stop, nil
}
