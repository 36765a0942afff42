package escape

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ZararB/DogWalker/physics"
)

// Segments shorter than this are kept in the layout but get no collider
const minSegmentLength float64 = 1e-9

// WorldConfig parameterizes the generated course. The corridor runs
// along +Y from the south wall at -SpawnOffset to the north wall at
// EscapeLength, and spans [-CorridorHalfWidth, CorridorHalfWidth] in X.
type WorldConfig struct {
	EscapeLength      float64 `json:"escape_length" yaml:"escape_length"`
	CorridorHalfWidth float64 `json:"corridor_half_width" yaml:"corridor_half_width"`
	NumObstacles      int     `json:"num_obstacles" yaml:"num_obstacles"`
	GapWidth          float64 `json:"gap_width" yaml:"gap_width"`
	SpawnOffset       float64 `json:"spawn_offset" yaml:"spawn_offset"`
	WallThickness     float64 `json:"wall_thickness" yaml:"wall_thickness"`
	WallHeight        float64 `json:"wall_height" yaml:"wall_height"`
	Seed              uint64  `json:"seed" yaml:"seed"`
}

// DefaultWorldConfig returns the default course
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		EscapeLength:      50,
		CorridorHalfWidth: 5,
		NumObstacles:      10,
		GapWidth:          1.0,
		SpawnOffset:       3,
		WallThickness:     0.1,
		WallHeight:        1,
		Seed:              42,
	}
}

// CorridorWidth returns the full width of the corridor
func (c WorldConfig) CorridorWidth() float64 {
	return 2 * c.CorridorHalfWidth
}

// Validate ensures that a course can be generated from the config
func (c WorldConfig) Validate() error {
	if c.EscapeLength <= 0 {
		return fmt.Errorf("validate: escape length must be positive, got %v",
			c.EscapeLength)
	}
	if c.CorridorHalfWidth <= 0 {
		return fmt.Errorf("validate: corridor half width must be positive, "+
			"got %v", c.CorridorHalfWidth)
	}
	if c.NumObstacles < 0 {
		return fmt.Errorf("validate: number of obstacles cannot be "+
			"negative, got %v", c.NumObstacles)
	}
	if c.GapWidth < 0 || c.GapWidth >= c.CorridorWidth() {
		return fmt.Errorf("validate: gap width must be in [0, %v), got %v",
			c.CorridorWidth(), c.GapWidth)
	}
	if c.SpawnOffset <= 0 {
		return fmt.Errorf("validate: spawn offset must be positive, got %v",
			c.SpawnOffset)
	}
	if c.WallThickness <= 0 || c.WallHeight <= 0 {
		return fmt.Errorf("validate: walls must have positive thickness "+
			"and height")
	}
	return nil
}

// ObstacleRow is one pair of obstacle segments across the corridor.
// West + Gap + East always equals the corridor width.
type ObstacleRow struct {
	Y    float64
	West float64
	East float64
	Gap  float64
}

// GapStart returns the X coordinate where the gap begins
func (r ObstacleRow) GapStart(halfWidth float64) float64 {
	return -halfWidth + r.West
}

// Layout is a generated course, independent of any physics engine
type Layout struct {
	Config   WorldConfig
	Boundary []physics.Box
	Rows     []ObstacleRow
}

// Generate lays out the course described by cfg. The gap position of
// each row is drawn from a source seeded with cfg.Seed on every call,
// so equal configs always produce equal layouts.
func Generate(cfg WorldConfig) (Layout, error) {
	if err := cfg.Validate(); err != nil {
		return Layout{}, fmt.Errorf("generate: %w", err)
	}

	h := cfg.CorridorHalfWidth
	t := cfg.WallThickness
	z := cfg.WallHeight

	// Walls enclosing the corridor
	sideLength := cfg.EscapeLength + cfg.SpawnOffset
	sideY := (cfg.EscapeLength - cfg.SpawnOffset) / 2
	boundary := []physics.Box{
		{
			Name:        "north",
			Kind:        physics.Boundary,
			Position:    physics.Vec3{X: 0, Y: cfg.EscapeLength, Z: z},
			HalfExtents: physics.Vec3{X: h, Y: t, Z: z},
		},
		{
			Name:        "south",
			Kind:        physics.Boundary,
			Position:    physics.Vec3{X: 0, Y: -cfg.SpawnOffset, Z: z},
			HalfExtents: physics.Vec3{X: h, Y: t, Z: z},
		},
		{
			Name:        "east",
			Kind:        physics.Boundary,
			Position:    physics.Vec3{X: h, Y: sideY, Z: z},
			HalfExtents: physics.Vec3{X: t, Y: sideLength / 2, Z: z},
		},
		{
			Name:        "west",
			Kind:        physics.Boundary,
			Position:    physics.Vec3{X: -h, Y: sideY, Z: z},
			HalfExtents: physics.Vec3{X: t, Y: sideLength / 2, Z: z},
		},
	}

	// Obstacles
	rows := make([]ObstacleRow, 0, cfg.NumObstacles)
	if cfg.NumObstacles > 0 {
		src := rand.NewSource(cfg.Seed)
		rng := distuv.Uniform{Min: 0, Max: 1, Src: src}

		spacing := cfg.EscapeLength / float64(cfg.NumObstacles)
		blocked := cfg.CorridorWidth() - cfg.GapWidth
		for i := 0; i < cfg.NumObstacles; i++ {
			west := rng.Rand() * blocked
			rows = append(rows, ObstacleRow{
				Y:    cfg.SpawnOffset + spacing*float64(i),
				West: west,
				East: blocked - west,
				Gap:  cfg.GapWidth,
			})
		}
	}

	return Layout{Config: cfg, Boundary: boundary, Rows: rows}, nil
}

// Walls returns every box that needs a collider: the boundary walls
// followed by the west and east segment of each row
func (l Layout) Walls() []physics.Box {
	h := l.Config.CorridorHalfWidth
	t := l.Config.WallThickness
	z := l.Config.WallHeight

	walls := make([]physics.Box, 0, len(l.Boundary)+2*len(l.Rows))
	walls = append(walls, l.Boundary...)
	for i, row := range l.Rows {
		if row.West > minSegmentLength {
			walls = append(walls, physics.Box{
				Name:        fmt.Sprintf("obstacle-%d-west", i),
				Kind:        physics.Obstacle,
				Position:    physics.Vec3{X: -h + row.West/2, Y: row.Y, Z: z},
				HalfExtents: physics.Vec3{X: row.West / 2, Y: t, Z: z},
			})
		}
		if row.East > minSegmentLength {
			walls = append(walls, physics.Box{
				Name:        fmt.Sprintf("obstacle-%d-east", i),
				Kind:        physics.Obstacle,
				Position:    physics.Vec3{X: h - row.East/2, Y: row.Y, Z: z},
				HalfExtents: physics.Vec3{X: row.East / 2, Y: t, Z: z},
			})
		}
	}
	return walls
}

// World is a Layout instantiated in a physics engine
type World struct {
	Layout
	Agent physics.Handle
	Walls []physics.Handle

	boxes map[physics.Handle]physics.Box
}

// Build resets the engine and populates it with the layout's walls and
// a single agent. Building is all-or-nothing: the first engine error
// is returned and the engine world is left as it is.
func Build(engine physics.Engine, layout Layout,
	agent physics.AgentSpec) (*World, error) {
	if err := engine.ResetWorld(); err != nil {
		return nil, fmt.Errorf("build: could not reset world: %w", err)
	}

	boxes := layout.Walls()
	handles, err := engine.CreateWalls(boxes)
	if err != nil {
		return nil, fmt.Errorf("build: could not create walls: %w", err)
	}
	if len(handles) != len(boxes) {
		return nil, fmt.Errorf("build: engine created %v walls, expected %v",
			len(handles), len(boxes))
	}

	agentHandle, err := engine.CreateAgent(agent)
	if err != nil {
		return nil, fmt.Errorf("build: could not create agent: %w", err)
	}

	w := &World{
		Layout: layout,
		Agent:  agentHandle,
		Walls:  handles,
		boxes:  make(map[physics.Handle]physics.Box, len(handles)),
	}
	for i, h := range handles {
		w.boxes[h] = boxes[i]
	}
	return w, nil
}

// IsWall reports whether h is one of the world's walls
func (w *World) IsWall(h physics.Handle) bool {
	_, ok := w.boxes[h]
	return ok
}

// Wall returns the box of the wall with handle h
func (w *World) Wall(h physics.Handle) (physics.Box, bool) {
	b, ok := w.boxes[h]
	return b, ok
}
