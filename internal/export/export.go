// Package export writes session snapshots to disk: a JSON document of the
// world, camera and game state, and a PNG thumbnail drawn through the
// snapshot's camera.
package export

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fogleman/gg"

	"github.com/vovakirdan/playforge/internal/camera"
	"github.com/vovakirdan/playforge/internal/core"
	"github.com/vovakirdan/playforge/internal/engine"
	"github.com/vovakirdan/playforge/internal/mechanics"
	"github.com/vovakirdan/playforge/internal/physics"
	"github.com/vovakirdan/playforge/internal/session"
)

// Document is the exported form of a session.
type Document struct {
	Scene  string              `json:"scene"`
	Genre  mechanics.Type      `json:"genre"`
	World  physics.Snapshot    `json:"world"`
	Camera camera.Snapshot     `json:"camera"`
	State  mechanics.GameState `json:"state"`
}

// NewDocument extracts the exported fields of snap.
func NewDocument(snap session.Snapshot) Document {
	return Document{
		Scene:  snap.Scene,
		Genre:  snap.Genre,
		World:  snap.World,
		Camera: snap.Camera,
		State:  snap.State,
	}
}

// Marshal encodes snap as indented JSON.
func Marshal(snap session.Snapshot) ([]byte, error) {
	data, err := json.MarshalIndent(NewDocument(snap), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export: encode: %w", err)
	}
	return data, nil
}

// WriteJSON writes snap as indented JSON to w.
func WriteJSON(w io.Writer, snap session.Snapshot) error {
	data, err := Marshal(snap)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("export: write: %w", err)
	}
	return nil
}

// SaveJSON writes snap to path, creating parent directories.
func SaveJSON(path string, snap session.Snapshot) error {
	data, err := Marshal(snap)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export: create dir: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}

var (
	background = color.RGBA{18, 18, 24, 255}
	hudColor   = color.RGBA{230, 230, 230, 255}
)

// Thumbnail draws snap into a width x height image. The camera viewport is
// scaled to fit; boundary walls are skipped.
func Thumbnail(snap session.Snapshot, width, height int) image.Image {
	dc := gg.NewContext(width, height)
	dc.SetColor(background)
	dc.Clear()

	cfg := snap.Camera.Config
	if cfg.ViewportWidth <= 0 || cfg.ViewportHeight <= 0 {
		return dc.Image()
	}
	st := snap.Camera.State
	zoom := st.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	vx, vy := st.X+st.ShakeX, st.Y+st.ShakeY
	sx := float64(width) / cfg.ViewportWidth
	sy := float64(height) / cfg.ViewportHeight
	project := func(p core.Vec2) (float64, float64) {
		return ((p.X-vx)*zoom + cfg.ViewportWidth/2) * sx,
			((p.Y-vy)*zoom + cfg.ViewportHeight/2) * sy
	}

	var top []physics.BodySnapshot
	for _, b := range snap.World.Bodies {
		if physics.IsBound(b.ID) {
			continue
		}
		if b.Type == physics.BodyPlayer || b.Type == physics.BodyProjectile {
			top = append(top, b)
			continue
		}
		drawBody(dc, b, project)
	}
	for _, b := range top {
		drawBody(dc, b, project)
	}

	dc.SetColor(hudColor)
	dc.DrawString(fmt.Sprintf("%s  score %d", snap.Scene, snap.State.Score), 6, float64(height)-6)
	return dc.Image()
}

func drawBody(dc *gg.Context, b physics.BodySnapshot, project func(core.Vec2) (float64, float64)) {
	if len(b.Vertices) == 0 {
		return
	}
	r, g, bl := bodyColor(b).RGB()
	dc.SetRGB255(int(r), int(g), int(bl))
	for i, v := range b.Vertices {
		x, y := project(v)
		if i == 0 {
			dc.MoveTo(x, y)
			continue
		}
		dc.LineTo(x, y)
	}
	dc.ClosePath()
	if b.Type == physics.BodyTrigger {
		dc.SetLineWidth(1.5)
		dc.Stroke()
		return
	}
	dc.Fill()
}

// bodyColor matches the terminal preview palette.
func bodyColor(b physics.BodySnapshot) core.Color {
	switch b.Type {
	case physics.BodyPlayer:
		return core.ColorBrightYellow
	case physics.BodyPlatform:
		return core.ColorGreen
	case physics.BodyObstacle:
		return core.ColorOrange
	case physics.BodyProjectile:
		return core.ColorBrightRed
	case physics.BodyDynamic:
		return core.ColorCyan
	case physics.BodyTrigger:
		switch {
		case b.ID == engine.GoalID:
			return core.ColorBrightGreen
		case strings.HasPrefix(b.ID, mechanics.TargetPrefix):
			return core.ColorRed
		case strings.HasPrefix(b.ID, engine.CollectiblePrefix):
			return core.ColorYellow
		}
		return core.ColorMagenta
	}
	return core.ColorWhite
}

// EncodePNG writes a thumbnail of snap to w.
func EncodePNG(w io.Writer, snap session.Snapshot, width, height int) error {
	dc := gg.NewContextForImage(Thumbnail(snap, width, height))
	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("export: encode png: %w", err)
	}
	return nil
}

// SavePNG writes a thumbnail of snap to path, creating parent directories.
func SavePNG(path string, snap session.Snapshot, width, height int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("export: create dir: %w", err)
	}
	if err := gg.SavePNG(path, Thumbnail(snap, width, height)); err != nil {
		return fmt.Errorf("export: write %s: %w", path, err)
	}
	return nil
}
