package escape

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ZararB/DogWalker/environment"
	"github.com/ZararB/DogWalker/timestep"
)

// TaskConfig parameterizes the reward and termination of an episode
type TaskConfig struct {
	// EscapeThreshold is the Y coordinate past which the robot has
	// escaped
	EscapeThreshold float64 `json:"escape_threshold" yaml:"escape_threshold"`
	MaxSteps        int     `json:"max_steps" yaml:"max_steps"`

	// CollisionReward is the reward of every step at and after the
	// first wall contact
	CollisionReward float64 `json:"collision_reward" yaml:"collision_reward"`
}

// DefaultTaskConfig returns the default task configuration
func DefaultTaskConfig() TaskConfig {
	return TaskConfig{
		EscapeThreshold: 100,
		MaxSteps:        10000,
		CollisionReward: -1,
	}
}

// Validate ensures the task can end
func (t TaskConfig) Validate() error {
	if t.MaxSteps <= 0 {
		return fmt.Errorf("validate: max steps must be positive, got %v",
			t.MaxSteps)
	}
	return nil
}

// Escape implements the environment.Task of escaping the corridor. The
// reward is the distance travelled along the escape axis since spawn
// until the robot touches a wall, after which every step is rewarded
// with CollisionReward. Episodes end when the robot crosses the escape
// threshold, touches a wall or runs out of steps. Once ended, an
// episode stays ended until the next reset.
type Escape struct {
	config TaskConfig
	ender  environment.AnyEnder

	ep *Episode
}

// NewEscape returns a new Escape task
func NewEscape(config TaskConfig) (*Escape, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("newEscape: %w", err)
	}

	e := &Escape{config: config}

	// The order determines the recorded end type when several
	// conditions hold on the same step
	e.ender = environment.AnyEnder{
		environment.NewFunctionEnder(e.collided, timestep.Collision),
		environment.NewFunctionEnder(e.escaped, timestep.Goal),
		environment.NewStepLimit(config.MaxSteps),
	}
	return e, nil
}

// registerEpisode points the task at the state of a new episode
func (e *Escape) registerEpisode(ep *Episode) {
	e.ep = ep
}

func (e *Escape) collided(*timestep.TimeStep) bool {
	return e.ep.Collided
}

func (e *Escape) escaped(*timestep.TimeStep) bool {
	return e.ep.Pose.Position.Y >= e.config.EscapeThreshold
}

// GetReward implements the environment.Task interface
func (e *Escape) GetReward(_ timestep.TimeStep, _ mat.Vector) float64 {
	if e.ep == nil {
		panic("getReward: no episode registered")
	}
	if e.ep.Collided {
		return e.config.CollisionReward
	}
	return e.ep.Pose.Position.Y - e.ep.Spawn.Y
}

// End implements the environment.Task interface
func (e *Escape) End(t *timestep.TimeStep) bool {
	if e.ep == nil {
		panic("end: no episode registered")
	}
	if e.ep.Done {
		t.StepType = timestep.Last
		t.SetEnd(e.ep.EndType)
		return true
	}

	if e.ender.End(t) {
		e.ep.Done = true
		e.ep.EndType = t.EndType()
		return true
	}
	return false
}
