package flappy

import (
	"strconv"

	"github.com/vovakirdan/tui-flappy/internal/engine"
)

// didBegin resolves a contact. Gap contacts score; anything else ends the
// game once. Contacts arriving after game over are ignored.
func (s *Scene) didBegin(c engine.Contact) {
	if s.gameOver {
		return
	}
	if c.Involves(engine.CategoryGap) {
		s.score++
		s.label.Text = strconv.Itoa(s.score)
		return
	}

	s.log.Info("game over", "score", s.score, "a", c.BodyA.Category, "b", c.BodyB.Category)
	s.viewGameOver()
	s.music.PauseBackgroundMusic()
	s.viewRestartGame()
	s.gameOver = true
	s.eng.SetPaused(true)
}

func (s *Scene) viewGameOver() {
	frame := s.eng.Frame()
	s.overlay = engine.NewSprite(NodeGameOver, s.tex.gameOver)
	s.overlay.Position.X = frame.MidX()
	s.overlay.Position.Y = frame.MidY() + s.cfg.HUD.GameOverOffset
	s.overlay.ZPosition = 10
	s.eng.AddChild(s.overlay)
}

func (s *Scene) viewRestartGame() {
	frame := s.eng.Frame()
	s.button = engine.NewSprite(NodeRestart, s.tex.restart)
	s.button.Position.X = frame.MidX()
	s.button.Position.Y = frame.MidY() + s.cfg.HUD.RestartOffset
	s.button.ZPosition = 10
	s.eng.AddChild(s.button)
}
