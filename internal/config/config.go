// Package config loads per-genre game configuration from YAML or TOML files,
// falling back to the defaults compiled into the binary.
package config

import (
	"fmt"

	"github.com/vovakirdan/playforge/internal/camera"
	"github.com/vovakirdan/playforge/internal/input"
	"github.com/vovakirdan/playforge/internal/mechanics"
)

// GenreConfig is everything one genre can be tuned with.
type GenreConfig struct {
	Mechanics mechanics.Config `yaml:"mechanics" toml:"mechanics" json:"mechanics"`
	Camera    camera.Config    `yaml:"camera" toml:"camera" json:"camera"`
	// Bindings maps key codes to action names and overlays the genre's
	// built-in bindings.
	Bindings map[string]string `yaml:"bindings,omitempty" toml:"bindings,omitempty" json:"bindings,omitempty"`
}

// InputBindings returns the genre bindings with the configured overrides
// applied.
func (g GenreConfig) InputBindings() (input.Bindings, error) {
	b := g.Mechanics.Type.Bindings()
	if len(g.Bindings) == 0 {
		return b, nil
	}
	extra, err := input.ParseBindings(g.Bindings)
	if err != nil {
		return nil, fmt.Errorf("config: bindings: %w", err)
	}
	for key, action := range extra {
		b[key] = action
	}
	return b, nil
}

// normalize pins the genre, fills zero values and points the camera at the
// world.
func (g GenreConfig) normalize(t mechanics.Type) GenreConfig {
	g.Mechanics.Type = t
	g.Mechanics = g.Mechanics.WithDefaults()
	b := g.Camera.WorldBounds
	if b.Width() <= 0 || b.Height() <= 0 {
		g.Camera.WorldBounds.MinX, g.Camera.WorldBounds.MinY = 0, 0
		g.Camera.WorldBounds.MaxX = g.Mechanics.WorldWidth
		g.Camera.WorldBounds.MaxY = g.Mechanics.WorldHeight
	}
	return g
}
