// Package scene defines YAML level files and registers the built-in levels
// with the scene registry.
package scene

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/playforge/internal/camera"
	"github.com/vovakirdan/playforge/internal/core"
	"github.com/vovakirdan/playforge/internal/engine"
	"github.com/vovakirdan/playforge/internal/mechanics"
	"github.com/vovakirdan/playforge/internal/physics"
	"github.com/vovakirdan/playforge/internal/registry"
)

//go:embed levels/*.yaml
var levelFiles embed.FS

// Box is an axis-aligned rectangle given by its centre.
type Box struct {
	ID string  `yaml:"id,omitempty"`
	X  float64 `yaml:"x"`
	Y  float64 `yaml:"y"`
	W  float64 `yaml:"w"`
	H  float64 `yaml:"h"`
	// Dynamic makes an obstacle movable.
	Dynamic bool `yaml:"dynamic,omitempty"`
}

// Ball is a dynamic circle.
type Ball struct {
	ID     string  `yaml:"id,omitempty"`
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Radius float64 `yaml:"radius"`
}

// Level is one scene file.
type Level struct {
	Name        string         `yaml:"id"`
	Heading     string         `yaml:"title"`
	Kind        mechanics.Type `yaml:"genre"`
	Description string         `yaml:"description,omitempty"`

	WorldWidth  float64    `yaml:"world_width,omitempty"`
	WorldHeight float64    `yaml:"world_height,omitempty"`
	Start       *core.Vec2 `yaml:"start,omitempty"`

	Platforms    []Box  `yaml:"platforms,omitempty"`
	Obstacles    []Box  `yaml:"obstacles,omitempty"`
	Balls        []Ball `yaml:"balls,omitempty"`
	Collectibles []Box  `yaml:"collectibles,omitempty"`
	Targets      []Box  `yaml:"targets,omitempty"`
	Goal         *Box   `yaml:"goal,omitempty"`

	Cinematic []camera.Keyframe `yaml:"intro,omitempty"`
}

var _ registry.Scene = (*Level)(nil)

func (l *Level) ID() string { return l.Name }
func (l *Level) Title() string { return l.Heading }
func (l *Level) Genre() mechanics.Type { return l.Kind }
func (l *Level) Intro() []camera.Keyframe { return l.Cinematic }

// Configure applies the level's world size and start position.
func (l *Level) Configure(cfg *mechanics.Config) {
	if l.WorldWidth > 0 {
		cfg.WorldWidth = l.WorldWidth
	}
	if l.WorldHeight > 0 {
		cfg.WorldHeight = l.WorldHeight
	}
	if l.Start != nil {
		cfg.Start = *l.Start
	}
}

// Populate creates the level bodies. Generated ids are stable, so a reset
// rebuilds the same level.
func (l *Level) Populate(w *physics.World, cfg mechanics.Config) {
	for i, b := range l.Platforms {
		w.CreatePlatform(idOr(b.ID, "platform", i), b.X, b.Y, b.W, b.H)
	}
	for i, b := range l.Obstacles {
		w.CreateObstacle(idOr(b.ID, "obstacle", i), b.X, b.Y, b.W, b.H, physics.Static(!b.Dynamic))
	}
	for i, b := range l.Balls {
		w.CreateCircle(idOr(b.ID, "ball", i), b.X, b.Y, b.Radius)
	}
	for i, b := range l.Collectibles {
		w.CreateTrigger(fmt.Sprintf("%s-%d", engine.CollectiblePrefix, i), b.X, b.Y, size(b.W, 20), size(b.H, 20))
	}
	for i, b := range l.Targets {
		w.CreateTrigger(fmt.Sprintf("%s-%d", mechanics.TargetPrefix, i), b.X, b.Y, size(b.W, 30), size(b.H, 30))
	}
	if g := l.Goal; g != nil {
		w.CreateTrigger(engine.GoalID, g.X, g.Y, size(g.W, 40), size(g.H, 60))
	}
}

func idOr(id, prefix string, i int) string {
	if id != "" {
		return id
	}
	return fmt.Sprintf("%s-%d", prefix, i)
}

func size(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}

// Parse decodes and validates a level file.
func Parse(data []byte) (*Level, error) {
	var l Level
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("scene: parse: %w", err)
	}
	if err := l.validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// LoadFile reads a level from disk.
func LoadFile(name string) (*Level, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("scene: read %s: %w", name, err)
	}
	l, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, name)
	}
	return l, nil
}

func (l *Level) validate() error {
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("scene: missing id")
	}
	if l.Heading == "" {
		l.Heading = l.Name
	}
	check := func(kind string, boxes []Box) error {
		for i, b := range boxes {
			if b.W <= 0 || b.H <= 0 {
				return fmt.Errorf("scene %s: %s %d has no size", l.Name, kind, i)
			}
		}
		return nil
	}
	if err := check("platform", l.Platforms); err != nil {
		return err
	}
	if err := check("obstacle", l.Obstacles); err != nil {
		return err
	}
	for i, b := range l.Balls {
		if b.Radius <= 0 {
			return fmt.Errorf("scene %s: ball %d has no radius", l.Name, i)
		}
	}
	return nil
}

// Builtin returns the embedded levels, ordered by file name.
func Builtin() ([]*Level, error) {
	files, err := builtinFiles()
	if err != nil {
		return nil, err
	}
	out := make([]*Level, 0, len(files))
	for _, f := range files {
		l, err := Parse(f.data)
		if err != nil {
			return nil, fmt.Errorf("%w (%s)", err, f.name)
		}
		out = append(out, l)
	}
	return out, nil
}

type levelFile struct {
	name string
	data []byte
}

func builtinFiles() ([]levelFile, error) {
	entries, err := fs.ReadDir(levelFiles, "levels")
	if err != nil {
		return nil, fmt.Errorf("scene: list levels: %w", err)
	}
	out := make([]levelFile, 0, len(entries))
	for _, e := range entries {
		data, err := levelFiles.ReadFile(path.Join("levels", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("scene: read %s: %w", e.Name(), err)
		}
		out = append(out, levelFile{name: e.Name(), data: data})
	}
	return out, nil
}

func init() {
	files, err := builtinFiles()
	if err != nil {
		panic(err)
	}
	for _, f := range files {
		l, err := Parse(f.data)
		if err != nil {
			panic(fmt.Errorf("%w (%s)", err, f.name))
		}
		data := f.data
		// Each instance gets its own copy of the level.
		registry.Register(l.Name, func() registry.Scene {
			fresh, _ := Parse(data)
			return fresh
		})
	}
}
