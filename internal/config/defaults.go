package config

import (
	"embed"

	"github.com/vovakirdan/playforge/internal/camera"
	"github.com/vovakirdan/playforge/internal/mechanics"
)

//go:embed defaults/*.yaml
var defaultFiles embed.FS

// Default returns the built-in configuration for a genre without reading
// any file.
func Default(t mechanics.Type) GenreConfig {
	m := mechanics.DefaultConfig(t)
	cam := camera.DefaultConfig()
	switch t {
	case mechanics.TopDown, mechanics.FPS, mechanics.Puzzle:
		cam.Mode = camera.ModeStatic
	}
	return GenreConfig{Mechanics: m, Camera: cam}.normalize(m.Type)
}

// embedded returns the compiled-in YAML for a genre.
func embedded(t mechanics.Type) ([]byte, error) {
	return defaultFiles.ReadFile("defaults/" + t.String() + ".yaml")
}
