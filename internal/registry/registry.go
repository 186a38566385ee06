// Package registry provides a global registry for game factories.
// Games register themselves in init() functions, allowing the platform
// to discover and instantiate games without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vovakirdan/fragments/internal/core"
)

// Game is the interface every mini-game engine implements.
// Engines contain pure logic with no external dependencies (especially no Bubble Tea).
// The session runner handles timing and persistence; the platform handles input
// mapping and rendering.
type Game interface {
	// ID returns a unique identifier for this game (e.g., "catch", "dodge").
	// Used for CLI commands and session history.
	ID() string

	// Title returns a human-readable name for display (e.g., "Echo Catch").
	Title() string

	// Description returns a one-line summary of how to play.
	Description() string

	// Reset starts a new session with the tier, playfield and seed in cfg.
	Reset(cfg core.RuntimeConfig)

	// Step advances simulated time by dt, firing every due timer, then applies
	// inputs in order. The terminating step carries the reward.
	Step(dt time.Duration, inputs []core.Input) core.StepResult

	// Snapshot returns the read-only view the presentation layer renders.
	Snapshot() core.Snapshot

	// State returns the current session state (score, time, phase).
	State() core.SessionState

	// Stop tears the session down: pending timers are discarded and later
	// Step calls are no-ops.
	Stop()
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID          string
	Title       string
	Description string
}

// Factory is a function that creates a new instance of a game.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]GameInfo)
	mu        sync.RWMutex
)

// Register adds a game factory to the registry.
// Typically called from a game's init() function.
// Panics if a game with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", id))
	}

	factories[id] = f

	// Get metadata by creating a temporary instance
	g := f()
	infos[id] = GameInfo{
		ID:          id,
		Title:       g.Title(),
		Description: g.Description(),
	}
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Info returns the metadata of a registered game.
func Info(id string) (GameInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()

	info, ok := infos[id]
	return info, ok
}

// Create instantiates a new game by its ID.
// Returns an error if the game ID is not registered.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}

	return f(), nil
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
