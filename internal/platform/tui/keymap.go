package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-flappy/internal/core"
)

// KeyMap holds the key bindings of a running scene. Scenes only understand
// touches, so every gameplay key is translated into one.
type KeyMap struct {
	Flap       key.Binding
	Restart    key.Binding
	Screenshot key.Binding
	Quit       key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Flap: key.NewBinding(
			key.WithKeys(" ", "up", "w"),
			key.WithHelp("space/click", "flap"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r", "enter"),
			key.WithHelp("r", "restart"),
		),
		Screenshot: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "screenshot"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Flap, k.Restart, k.Quit}
}

// FullHelp returns key bindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Flap, k.Restart},
		{k.Screenshot, k.Quit},
	}
}

// restartTarget is implemented by scenes that can tell where their
// restart button is.
type restartTarget interface {
	RestartButton() (core.RectF, bool)
}

// keyTouches converts a gameplay key into the touches a finger would have
// produced. Flap presses the middle of the frame; restart releases on the
// restart button, and is ignored while no button is shown.
func keyTouches(keys KeyMap, msg tea.KeyMsg, frame core.RectF, game any) []core.Touch {
	switch {
	case key.Matches(msg, keys.Flap):
		return []core.Touch{{Phase: core.TouchDown, Pos: frame.Center()}}
	case key.Matches(msg, keys.Restart):
		rt, ok := game.(restartTarget)
		if !ok {
			return nil
		}
		if button, shown := rt.RestartButton(); shown {
			return []core.Touch{{Phase: core.TouchUp, Pos: button.Center()}}
		}
	}
	return nil
}

// mouseTouch converts a left-button press or a release into a touch in
// world coordinates. Clicks outside the frame are dropped.
func mouseTouch(msg tea.MouseMsg, frameW, frameH int) (core.Touch, bool) {
	if msg.X < 0 || msg.Y < 0 || msg.X >= frameW || msg.Y >= frameH {
		return core.Touch{}, false
	}
	pos := core.CellCenter(msg.X, msg.Y, frameH)
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return core.Touch{}, false
		}
		return core.Touch{Phase: core.TouchDown, Pos: pos}, true
	case tea.MouseActionRelease:
		// Some terminals do not report which button was released.
		return core.Touch{Phase: core.TouchUp, Pos: pos}, true
	}
	return core.Touch{}, false
}
