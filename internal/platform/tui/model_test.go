package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-flappy/internal/core"
	"github.com/vovakirdan/tui-flappy/internal/registry"
	"github.com/vovakirdan/tui-flappy/internal/storage"
)

const fakeID = "tui-fake"

// fakeGame records what the host feeds it.
type fakeGame struct {
	cfg      core.RuntimeConfig
	steps    int
	touches  []core.Touch
	state    core.GameState
	restart  bool
	buttonOn bool
	fade     time.Duration
	mark     rune
}

var (
	fakeGames    []*fakeGame
	fakeFade     time.Duration
	fakeStartErr error
)

func init() {
	registry.Register(registry.GameInfo{ID: fakeID, Title: "Fake"}, func(registry.Env) registry.Game {
		g := &fakeGame{fade: fakeFade, mark: rune('A' + len(fakeGames))}
		fakeGames = append(fakeGames, g)
		return g
	})
}

func resetFakes(t *testing.T) {
	t.Helper()
	fakeGames = nil
	fakeFade = 0
	fakeStartErr = nil
}

func (g *fakeGame) ID() string    { return fakeID }
func (g *fakeGame) Title() string { return "Fake" }

func (g *fakeGame) Start(cfg core.RuntimeConfig) error {
	if fakeStartErr != nil {
		return fakeStartErr
	}
	if cfg.ScreenH < 2 {
		return errors.New("frame too short")
	}
	g.cfg = cfg
	return nil
}

func (g *fakeGame) Step(in core.InputFrame) core.StepResult {
	g.steps++
	g.touches = append(g.touches, in.Touches...)
	r := g.restart
	g.restart = false
	return core.StepResult{State: g.state, Restart: r}
}

func (g *fakeGame) Render(dst *core.Screen) { dst.SetColored(0, 0, g.mark, core.ColorYellow) }
func (g *fakeGame) State() core.GameState   { return g.state }

func (g *fakeGame) RestartButton() (core.RectF, bool) {
	return core.RectF{X: 2, Y: 2, W: 4, H: 2}, g.buttonOn
}

func (g *fakeGame) FadeDuration() time.Duration { return g.fade }

func newTestModel(t *testing.T, opts Options) Model {
	t.Helper()
	if opts.GameID == "" {
		opts.GameID = fakeID
	}
	if opts.Config.ScreenW == 0 {
		opts.Config = core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 60}
	}
	m, err := NewModel(opts)
	if err != nil {
		t.Fatalf("NewModel() failed: %v", err)
	}
	return m
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestNewModelReservesFooterRow(t *testing.T) {
	resetFakes(t)
	newTestModel(t, Options{})

	if len(fakeGames) != 1 {
		t.Fatalf("expected one instance, got %d", len(fakeGames))
	}
	cfg := fakeGames[0].cfg
	if cfg.ScreenW != 40 || cfg.ScreenH != 11 {
		t.Errorf("frame = %dx%d, want 40x11", cfg.ScreenW, cfg.ScreenH)
	}
}

func TestNewModelSurfacesStartError(t *testing.T) {
	resetFakes(t)
	fakeStartErr = errors.New("missing texture")

	_, err := NewModel(Options{GameID: fakeID, Config: core.RuntimeConfig{ScreenW: 40, ScreenH: 12}})
	if err == nil || !strings.Contains(err.Error(), "missing texture") {
		t.Fatalf("NewModel() error = %v, want the start error", err)
	}
}

func TestNewModelUnknownGame(t *testing.T) {
	resetFakes(t)
	if _, err := NewModel(Options{GameID: "nope", Config: core.RuntimeConfig{ScreenW: 40, ScreenH: 12}}); err == nil {
		t.Fatal("expected an error for an unregistered game")
	}
}

func TestFlapKeyBecomesTouchDown(t *testing.T) {
	resetFakes(t)
	m := newTestModel(t, Options{})

	m = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = send(t, m, TickMsg{})

	g := fakeGames[0]
	if g.steps != 1 {
		t.Fatalf("steps = %d, want 1", g.steps)
	}
	if len(g.touches) != 1 {
		t.Fatalf("touches = %v, want one", g.touches)
	}
	got := g.touches[0]
	if got.Phase != core.TouchDown || got.Pos != (core.Vec{X: 20, Y: 5.5}) {
		t.Errorf("touch = %+v, want TouchDown at frame centre", got)
	}

	// Input is consumed by the tick.
	send(t, m, TickMsg{})
	if len(g.touches) != 1 {
		t.Errorf("touches leaked into the next tick: %v", g.touches)
	}
}

func TestRestartKeyTargetsButton(t *testing.T) {
	resetFakes(t)
	m := newTestModel(t, Options{})
	g := fakeGames[0]

	m = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	m = send(t, m, TickMsg{})
	if len(g.touches) != 0 {
		t.Fatalf("restart key without a button produced %v", g.touches)
	}

	g.buttonOn = true
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	send(t, m, TickMsg{})
	if len(g.touches) != 1 {
		t.Fatalf("touches = %v, want one", g.touches)
	}
	if got := g.touches[0]; got.Phase != core.TouchUp || got.Pos != (core.Vec{X: 4, Y: 3}) {
		t.Errorf("touch = %+v, want TouchUp at button centre", got)
	}
}

func TestMouseBecomesTouches(t *testing.T) {
	resetFakes(t)
	m := newTestModel(t, Options{})

	m = send(t, m, tea.MouseMsg{X: 3, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	m = send(t, m, tea.MouseMsg{X: 3, Y: 10, Action: tea.MouseActionRelease})
	m = send(t, m, tea.MouseMsg{X: 3, Y: 11, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}) // footer
	m = send(t, m, tea.MouseMsg{X: 3, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	send(t, m, TickMsg{})

	want := []core.Touch{
		{Phase: core.TouchDown, Pos: core.Vec{X: 3.5, Y: 10.5}},
		{Phase: core.TouchUp, Pos: core.Vec{X: 3.5, Y: 0.5}},
	}
	got := fakeGames[0].touches
	if len(got) != len(want) {
		t.Fatalf("touches = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("touch %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestRestartFadesToFreshInstance(t *testing.T) {
	resetFakes(t)
	fakeFade = 100 * time.Millisecond
	m := newTestModel(t, Options{Config: core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 60, Seed: 7}})

	old := fakeGames[0]
	old.restart = true
	m = send(t, m, TickMsg{})

	if len(fakeGames) != 2 {
		t.Fatalf("expected a second instance, got %d", len(fakeGames))
	}
	next := fakeGames[1]
	if next.cfg.Seed != 8 {
		t.Errorf("second instance seed = %d, want 8", next.cfg.Seed)
	}
	if m.fade == nil {
		t.Fatal("expected a fade after restart")
	}

	ticks := 0
	for m.fade != nil && ticks < 100 {
		m = send(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
		m = send(t, m, TickMsg{})
		ticks++
	}
	if ticks < 6 || ticks > 7 {
		t.Errorf("fade took %d ticks, want about 100ms at 60Hz", ticks)
	}
	if old.steps != 1 || next.steps != 0 {
		t.Errorf("scenes stepped during the fade: old=%d next=%d", old.steps, next.steps)
	}

	send(t, m, TickMsg{})
	if next.steps != 1 {
		t.Errorf("new scene steps = %d, want 1", next.steps)
	}
	if len(next.touches) != 0 {
		t.Errorf("input during the fade reached the new scene: %v", next.touches)
	}
}

func TestRestartWithoutFade(t *testing.T) {
	resetFakes(t)
	m := newTestModel(t, Options{})

	fakeGames[0].restart = true
	m = send(t, m, TickMsg{})
	if m.fade != nil {
		t.Fatal("zero fade duration must switch immediately")
	}
	send(t, m, TickMsg{})
	if fakeGames[1].steps != 1 {
		t.Errorf("new scene steps = %d, want 1", fakeGames[1].steps)
	}
}

func TestScoreSavedOnceAtGameOver(t *testing.T) {
	resetFakes(t)
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	defer store.Close()
	store.SaveScore(fakeID, "", 2)

	m := newTestModel(t, Options{Store: store, Player: "alice"})
	if m.best != 2 {
		t.Fatalf("best = %d, want 2 from the store", m.best)
	}

	fakeGames[0].state = core.GameState{Score: 3, GameOver: true}
	m = send(t, m, TickMsg{})
	m = send(t, m, TickMsg{})

	scores, err := store.TopScores(fakeID, 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(scores))
	}
	if scores[0].Score != 3 || scores[0].Player != "alice" {
		t.Errorf("top = %+v, want 3 by alice", scores[0])
	}
	if m.best != 3 {
		t.Errorf("best = %d, want 3", m.best)
	}
	if !strings.Contains(m.View(), "best 3") {
		t.Error("footer does not show the best score")
	}
}

func TestZeroScoreNotSaved(t *testing.T) {
	resetFakes(t)
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	defer store.Close()

	m := newTestModel(t, Options{Store: store})
	fakeGames[0].state = core.GameState{GameOver: true}
	send(t, m, TickMsg{})

	if scores, _ := store.TopScores(fakeID, 10); len(scores) != 0 {
		t.Errorf("zero score was saved: %v", scores)
	}
}

func TestResizeRebuildsScene(t *testing.T) {
	resetFakes(t)
	m := newTestModel(t, Options{})

	m = send(t, m, tea.WindowSizeMsg{Width: 40, Height: 12})
	if len(fakeGames) != 1 {
		t.Fatalf("same size rebuilt the scene")
	}

	m = send(t, m, tea.WindowSizeMsg{Width: 50, Height: 20})
	if len(fakeGames) != 2 {
		t.Fatalf("expected a rebuild, got %d instances", len(fakeGames))
	}
	if cfg := fakeGames[1].cfg; cfg.ScreenW != 50 || cfg.ScreenH != 19 {
		t.Errorf("frame = %dx%d, want 50x19", cfg.ScreenW, cfg.ScreenH)
	}

	m = send(t, m, tea.WindowSizeMsg{Width: 50, Height: 2})
	if m.err == nil {
		t.Fatal("expected an error for a one-row frame")
	}
	if !strings.Contains(m.View(), "frame too short") {
		t.Error("view does not show the error")
	}
	m = send(t, m, TickMsg{})

	// The failed attempt still created an instance.
	m = send(t, m, tea.WindowSizeMsg{Width: 50, Height: 20})
	if len(fakeGames) != 4 {
		t.Errorf("a usable size must rebuild again, got %d instances", len(fakeGames))
	}
	if m.err != nil {
		t.Errorf("error not cleared after rebuild: %v", m.err)
	}
}

func TestQuitKey(t *testing.T) {
	resetFakes(t)
	m := newTestModel(t, Options{})

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if v := next.(Model).View(); v != "" {
		t.Errorf("view after quit = %q", v)
	}
}

func TestScreenshot(t *testing.T) {
	resetFakes(t)
	dir := t.TempDir()
	m := newTestModel(t, Options{ScreenshotDir: dir})

	send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir() failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one screenshot, got %d", len(entries))
	}
	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) != 11 || !strings.HasPrefix(lines[0], "A") {
		t.Errorf("screenshot has %d lines, first %q", len(lines), lines[0])
	}
}
