package escape

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/ZararB/DogWalker/physics"
)

const (
	// PixelsPerMeter is the scale of rendered snapshots
	PixelsPerMeter float64 = 16

	// Margin is the border around the corridor in rendered snapshots, in
	// meters
	Margin float64 = 1
)

var (
	floorColour    = color.RGBA{R: 240, G: 240, B: 235, A: 255}
	boundaryColour = color.RGBA{R: 60, G: 60, B: 60, A: 255}
	obstacleColour = color.RGBA{R: 170, G: 70, B: 50, A: 255}
	robotColour    = color.RGBA{R: 40, G: 90, B: 200, A: 255}
	crashColour    = color.RGBA{R: 220, G: 30, B: 30, A: 255}
	goalColour     = color.RGBA{R: 40, G: 160, B: 60, A: 255}
)

// viewport maps world coordinates onto snapshot pixels, with +Y
// pointing up the image
type viewport struct {
	minX, maxY float64
	width      int
	height     int
}

func newViewport(cfg WorldConfig) viewport {
	w := cfg.CorridorWidth() + 2*cfg.WallThickness + 2*Margin
	h := cfg.EscapeLength + cfg.SpawnOffset + 2*cfg.WallThickness + 2*Margin
	return viewport{
		minX:   -cfg.CorridorHalfWidth - cfg.WallThickness - Margin,
		maxY:   cfg.EscapeLength + cfg.WallThickness + Margin,
		width:  int(math.Ceil(w * PixelsPerMeter)),
		height: int(math.Ceil(h * PixelsPerMeter)),
	}
}

func (v viewport) toPixel(x, y float64) (float64, float64) {
	return (x - v.minX) * PixelsPerMeter, (v.maxY - y) * PixelsPerMeter
}

// Snapshot draws a top-down view of the current world and robot
func (e *Env) Snapshot() image.Image {
	cfg := e.world.Config
	v := newViewport(cfg)

	dc := gg.NewContext(v.width, v.height)
	dc.SetColor(floorColour)
	dc.Clear()

	// Walls
	for _, h := range e.world.Walls {
		wall, _ := e.world.Wall(h)
		drawBox(dc, v, wall)
		if wall.Kind == physics.Boundary {
			dc.SetColor(boundaryColour)
		} else {
			dc.SetColor(obstacleColour)
		}
		dc.Fill()
	}

	// Escape threshold, when inside the corridor
	if threshold := e.config.Task.EscapeThreshold; threshold <= v.maxY {
		x1, y := v.toPixel(-cfg.CorridorHalfWidth, threshold)
		x2, _ := v.toPixel(cfg.CorridorHalfWidth, threshold)
		dc.SetColor(goalColour)
		dc.SetLineWidth(2)
		dc.DrawLine(x1, y, x2, y)
		dc.Stroke()
	}

	// Robot
	pose := e.episode.Pose
	half := e.config.Agent.HalfExtents
	px, py := v.toPixel(pose.Position.X, pose.Position.Y)

	dc.Push()
	dc.Translate(px, py)
	dc.Rotate(-pose.Yaw())
	dc.DrawRectangle(-half.X*PixelsPerMeter, -half.Y*PixelsPerMeter,
		2*half.X*PixelsPerMeter, 2*half.Y*PixelsPerMeter)
	if e.episode.Collided {
		dc.SetColor(crashColour)
	} else {
		dc.SetColor(robotColour)
	}
	dc.Fill()

	// Heading
	dc.SetColor(color.White)
	dc.SetLineWidth(2)
	dc.DrawLine(0, 0, 0, -half.Y*PixelsPerMeter)
	dc.Stroke()
	dc.Pop()

	return dc.Image()
}

// Render saves a top-down snapshot of the current world to a PNG file
func (e *Env) Render(filename string) error {
	img := e.Snapshot()
	if err := gg.SavePNG(filename, img); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

func drawBox(dc *gg.Context, v viewport, b physics.Box) {
	x, y := v.toPixel(b.Position.X-b.HalfExtents.X,
		b.Position.Y+b.HalfExtents.Y)
	dc.DrawRectangle(x, y, 2*b.HalfExtents.X*PixelsPerMeter,
		2*b.HalfExtents.Y*PixelsPerMeter)
}
