package escape

import (
	"github.com/google/uuid"

	"github.com/ZararB/DogWalker/buffer/framestack"
	"github.com/ZararB/DogWalker/physics"
	"github.com/ZararB/DogWalker/timestep"
)

// Episode holds the mutable state of one episode. It is replaced on
// every reset; Collided and Done are never cleared within an episode.
type Episode struct {
	ID    uuid.UUID
	Steps int

	// Spawn is where the robot was placed before settling
	Spawn physics.Vec3
	Pose  physics.Pose

	// LastAction is the action requested on the previous step
	LastAction Action

	Collided bool

	// CollisionStep is the step of the first wall contact, or -1
	CollisionStep int

	Done    bool
	EndType timestep.EndType
	Return  float64

	Frames *framestack.FrameStack
}

func newEpisode(spawn physics.Vec3, frames *framestack.FrameStack) *Episode {
	return &Episode{
		ID:            uuid.New(),
		Spawn:         spawn,
		LastAction:    noAction,
		CollisionStep: -1,
		Frames:        frames,
	}
}

// Displacement returns the distance travelled along the escape axis
// since spawn
func (e *Episode) Displacement() float64 {
	return e.Pose.Position.Y - e.Spawn.Y
}
