package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/registry"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

// footerHeight is the number of terminal rows reserved below the scene.
const footerHeight = 1

// Options configures a hosted scene.
type Options struct {
	GameID string
	Env    registry.Env
	Store  *storage.Store // optional
	Player string         // recorded with saved scores

	// Config carries the terminal size, tick rate and seed. A non-zero
	// seed makes every instance deterministic: instance n uses Seed+n.
	Config core.RuntimeConfig

	// ScreenshotDir defaults to ~/.arcade/screenshots.
	ScreenshotDir string
}

type fader interface {
	FadeDuration() time.Duration
}

// Model is the Bubble Tea model hosting one scene at a time. A restart
// replaces the scene with a fresh instance from the registry.
type Model struct {
	opts   Options
	keys   KeyMap
	help   help.Model
	logger *log.Logger

	width, height int
	frame         core.RuntimeConfig

	game   registry.Game
	fade   *Fade
	screen *core.Screen
	input  core.InputFrame
	state  core.GameState
	best   int
	runs   int
	saved  bool // score of the current game over already recorded

	err      error
	quitting bool
}

// NewModel builds the first scene instance. Errors from the scene's
// construction, such as missing textures, are returned as is.
func NewModel(opts Options) (Model, error) {
	logger := opts.Env.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := Model{
		opts:   opts,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		logger: logger,
		width:  opts.Config.ScreenW,
		height: opts.Config.ScreenH,
	}
	m.help.Width = m.width

	if opts.Store != nil {
		best, err := opts.Store.HighScore(opts.GameID)
		if err != nil {
			logger.Warn("could not load best score", "error", err)
		}
		m.best = best
	}

	if err := m.start(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// frameConfig returns the runtime config for the next instance.
func (m *Model) frameConfig() core.RuntimeConfig {
	cfg := m.opts.Config
	cfg.ScreenW = m.width
	cfg.ScreenH = max(m.height-footerHeight, 0)
	if cfg.Seed != 0 {
		cfg.Seed += int64(m.runs)
	}
	return cfg
}

// newGame creates and starts a fresh instance.
func (m *Model) newGame() (registry.Game, error) {
	cfg := m.frameConfig()
	g, err := registry.Create(m.opts.GameID, m.opts.Env)
	if err != nil {
		return nil, err
	}
	if err := g.Start(cfg); err != nil {
		return nil, err
	}
	m.runs++
	m.frame = cfg
	return g, nil
}

// start replaces the current scene without a transition.
func (m *Model) start() error {
	g, err := m.newGame()
	if err != nil {
		m.game = nil
		return err
	}
	m.game = g
	m.fade = nil
	m.state = g.State()
	m.saved = false
	m.input.Clear()
	if m.screen == nil {
		m.screen = core.NewScreen(m.frame.ScreenW, m.frame.ScreenH)
	} else {
		m.screen.Resize(m.frame.ScreenW, m.frame.ScreenH)
	}
	return nil
}

// restart presents a fresh instance, fading over from the old one when
// the old scene asks for it.
func (m *Model) restart() {
	old := m.game
	next, err := m.newGame()
	if err != nil {
		m.logger.Error("could not restart scene", "error", err)
		m.err = err
		m.game = nil
		return
	}

	var d time.Duration
	if f, ok := old.(fader); ok {
		d = f.FadeDuration()
	}
	if d > 0 {
		m.fade = NewFade(old, next, d)
	}
	m.game = next
	m.state = next.State()
	m.saved = false
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.Config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		return m.handleMouse(msg)
	case tea.WindowSizeMsg:
		return m.handleResize(msg)
	case TickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Screenshot):
		if path, err := m.saveScreenshot(); err != nil {
			m.logger.Warn("screenshot failed", "error", err)
		} else {
			m.logger.Info("screenshot saved", "path", path)
		}
		return m, nil
	}

	if m.game == nil || m.fade != nil {
		return m, nil
	}
	frame := core.RectF{W: float64(m.frame.ScreenW), H: float64(m.frame.ScreenH)}
	for _, t := range keyTouches(m.keys, msg, frame, m.game) {
		m.input.Add(t)
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.game == nil || m.fade != nil {
		return m, nil
	}
	if t, ok := mouseTouch(msg, m.frame.ScreenW, m.frame.ScreenH); ok {
		m.input.Add(t)
	}
	return m, nil
}

// handleResize rebuilds the scene for the new frame. The world geometry is
// derived from the frame at construction, so the running scene cannot be
// kept.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	if msg.Width == m.width && msg.Height == m.height && m.game != nil {
		return m, nil
	}
	m.width = msg.Width
	m.height = msg.Height
	m.help.Width = msg.Width

	m.err = m.start()
	if m.err != nil {
		m.logger.Warn("cannot build scene for terminal size",
			"width", msg.Width, "height", msg.Height, "error", m.err)
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	next := tickCmd(m.opts.Config.TickRate)

	if m.fade != nil {
		if m.fade.Advance(tickInterval(m.opts.Config.TickRate)) {
			m.fade = nil
		}
		m.input.Clear()
		return m, next
	}
	if m.game == nil {
		return m, next
	}

	result := m.game.Step(m.input.Clone())
	m.input.Clear()
	m.state = result.State
	m.recordScore()

	if result.Restart {
		m.restart()
	}
	return m, next
}

// recordScore stores the score once per game over. Zero scores are not
// kept.
func (m *Model) recordScore() {
	if !m.state.GameOver || m.saved {
		return
	}
	m.saved = true
	if m.state.Score <= 0 {
		return
	}
	m.best = max(m.best, m.state.Score)
	if m.opts.Store == nil {
		return
	}
	if _, err := m.opts.Store.SaveScore(m.opts.GameID, m.opts.Player, m.state.Score); err != nil {
		m.logger.Warn("could not save score", "error", err)
	}
}

// renderFrame draws the scene, or the running fade, into the screen buffer.
func (m Model) renderFrame() {
	m.screen.Clear()
	switch {
	case m.fade != nil:
		m.fade.Render(m.screen)
	case m.game != nil:
		m.game.Render(m.screen)
	}
}

// saveScreenshot writes the current frame as plain text and returns the
// file path.
func (m Model) saveScreenshot() (string, error) {
	if m.game == nil && m.fade == nil {
		return "", fmt.Errorf("tui: no scene to capture")
	}
	m.renderFrame()

	dir := m.opts.ScreenshotDir
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("tui: cannot get home directory: %w", err)
		}
		dir = filepath.Join(home, ".arcade", "screenshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("tui: cannot create screenshot directory: %w", err)
	}

	name := fmt.Sprintf("%s_%s_%d.txt", m.opts.GameID, time.Now().Format("20060102_150405"), m.runs)
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		return "", fmt.Errorf("tui: cannot write screenshot: %w", err)
	}
	return path, nil
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	footer := renderFooter(m.width, m.help.View(m.keys), m.state.Score, m.best)
	if m.err != nil {
		return m.renderError() + "\n" + footer
	}
	m.renderFrame()
	return RenderScreen(m.screen) + "\n" + footer
}

// renderError frames the error in a box filling the scene area. Terminals
// too small for the box get the bare message.
func (m Model) renderError() string {
	w, h := m.width, max(m.height-footerHeight, 0)
	msg := m.err.Error()
	if w < 4 || h < 3 {
		return errorStyle.Render(msg)
	}
	s := core.NewScreen(w, h)
	s.DrawBox(core.NewRect(0, 0, w, h))
	if runes := []rune(msg); len(runes) > w-4 {
		msg = string(runes[:w-4])
	}
	s.DrawTextCentered(h/2, msg)
	s.DrawTextCentered(h/2+1, "resize the terminal or press q")
	return errorStyle.Render(s.String())
}

// Run hosts the scene in the current terminal until the user quits.
func Run(opts Options) error {
	model, err := NewModel(opts)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	_, err = p.Run()
	return err
}
