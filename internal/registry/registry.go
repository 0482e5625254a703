// Package registry provides a global registry for playable scenes.
// Scene packages register themselves in init() functions, allowing the hosts
// to discover and instantiate scenes without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/playforge/internal/camera"
	"github.com/vovakirdan/playforge/internal/mechanics"
	"github.com/vovakirdan/playforge/internal/physics"
)

// Scene is a playable level for one genre.
// Scenes hold static data only; the engine owns everything that moves.
type Scene interface {
	// ID returns a unique identifier (e.g., "meadow").
	// Used for CLI commands and score storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Genre returns the mechanics template the scene is built for.
	Genre() mechanics.Type

	// Configure adjusts the genre tuning for this scene (world size, start).
	Configure(cfg *mechanics.Config)

	// Populate creates the level bodies. It runs on a world holding the
	// boundary walls and whatever the template created.
	Populate(w *physics.World, cfg mechanics.Config)

	// Intro returns an optional camera cinematic played on start.
	Intro() []camera.Keyframe
}

// SceneInfo contains metadata about a registered scene.
type SceneInfo struct {
	ID    string
	Title string
	Genre mechanics.Type
}

// Factory is a function that creates a new instance of a scene.
type Factory func() Scene

var (
	factories = make(map[string]Factory)
	infos     = make(map[string]SceneInfo)
	mu        sync.RWMutex
)

// Register adds a scene factory to the registry.
// Typically called from an init() function.
// Panics if a scene with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: scene %q already registered", id))
	}

	factories[id] = f

	s := f()
	infos[id] = SceneInfo{ID: id, Title: s.Title(), Genre: s.Genre()}
}

// List returns information about all registered scenes, sorted by ID.
func List() []SceneInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]SceneInfo, 0, len(infos))
	for _, info := range infos {
		result = append(result, info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// ForGenre returns the registered scenes built for t, sorted by ID.
func ForGenre(t mechanics.Type) []SceneInfo {
	var out []SceneInfo
	for _, info := range List() {
		if info.Genre == t {
			out = append(out, info)
		}
	}
	return out
}

// Create instantiates a new scene by its ID.
// Returns an error if the scene ID is not registered.
func Create(id string) (Scene, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown scene %q", id)
	}

	return f(), nil
}

// Exists checks if a scene with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
