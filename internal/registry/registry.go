// Package registry provides a global registry for scene factories.
// Scenes register themselves in init() functions, so the platform can build
// fresh instances (at start and on every restart) without hardcoded
// dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-flappy/internal/assets"
	"github.com/vovakirdan/tui-flappy/internal/audio"
	"github.com/vovakirdan/tui-flappy/internal/core"
)

// Game is the interface the platform drives. Implementations hold pure
// scene logic with no Bubble Tea dependency; the platform handles input
// mapping, timing and terminal output.
type Game interface {
	// ID returns a unique identifier used by the CLI and score storage.
	ID() string

	// Title returns a human-readable name.
	Title() string

	// Start builds the scene for the given frame. It is called exactly once
	// per instance; a restart always uses a new instance.
	Start(cfg core.RuntimeConfig) error

	// Step advances the simulation by one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the scene into dst. The screen is pre-cleared.
	Render(dst *core.Screen)

	// State returns the current score and flags.
	State() core.GameState
}

// Env carries the collaborators injected into every new instance.
type Env struct {
	Music      audio.Player
	Logger     *log.Logger
	Textures   *assets.Catalog
	ConfigPath string // empty selects the default search order
	Preset     string // difficulty preset name
}

// GameInfo contains metadata about a registered scene.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a new, not yet started, scene instance.
type Factory func(env Env) Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a factory under info.ID. It panics on duplicates.
func Register(info GameInfo, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[info.ID]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", info.ID))
	}
	factories[info.ID] = f
	titles[info.ID] = info.Title
}

// List returns all registered scenes, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{ID: id, Title: titles[id]})
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create builds a new instance by ID.
func Create(id string, env Env) (Game, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	return f(env), nil
}

// Exists reports whether id is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
