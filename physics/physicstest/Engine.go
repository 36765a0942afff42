// Package physicstest provides a scripted physics.Engine for testing
// code that drives an engine without simulating any dynamics.
package physicstest

import (
	"fmt"

	"github.com/ZararB/DogWalker/physics"
)

// MotorCall records one SetJointMotors call
type MotorCall struct {
	Tick  int
	Agent physics.Handle
	Cmds  []physics.MotorCommand
}

// Engine is a fake physics.Engine. Poses and contacts are produced by
// the PoseFunc and ContactFunc hooks as a function of the tick count;
// each hook may be nil. Errors can be injected per method.
type Engine struct {
	// PoseFunc returns the agent pose after the given number of ticks
	// since the last ResetWorld
	PoseFunc func(tick int) physics.Pose

	// ContactFunc returns the handles touching the agent after the
	// given number of ticks. Walls are the handles of the current world.
	ContactFunc func(tick int, walls []physics.Handle) ([]physics.Handle, error)

	ResetErr       error
	CreateWallsErr error
	CreateAgentErr error
	StepErr        error

	Walls      []physics.Box
	WallHandle []physics.Handle
	Agent      physics.Handle
	AgentSpec  physics.AgentSpec
	MotorCalls []MotorCall
	Resets     int
	Ticks      int
	TotalTicks int
	Closed     bool

	nextHandle physics.Handle
}

// New returns a fake Engine whose agent stays at spawn and never
// touches anything
func New() *Engine {
	return &Engine{Agent: physics.NoHandle}
}

// ResetWorld implements physics.Engine
func (e *Engine) ResetWorld() error {
	if e.ResetErr != nil {
		return e.ResetErr
	}
	e.Walls = nil
	e.WallHandle = nil
	e.Agent = physics.NoHandle
	e.Ticks = 0
	e.Resets++
	return nil
}

// CreateWalls implements physics.Engine
func (e *Engine) CreateWalls(walls []physics.Box) ([]physics.Handle, error) {
	if e.CreateWallsErr != nil {
		return nil, e.CreateWallsErr
	}

	handles := make([]physics.Handle, len(walls))
	for i := range walls {
		handles[i] = e.nextHandle
		e.nextHandle++
	}
	e.Walls = append(e.Walls, walls...)
	e.WallHandle = append(e.WallHandle, handles...)
	return handles, nil
}

// CreateAgent implements physics.Engine
func (e *Engine) CreateAgent(spec physics.AgentSpec) (physics.Handle, error) {
	if e.CreateAgentErr != nil {
		return physics.NoHandle, e.CreateAgentErr
	}
	if e.Agent != physics.NoHandle {
		return physics.NoHandle, fmt.Errorf("createAgent: agent %v already "+
			"exists", e.Agent)
	}

	e.Agent = e.nextHandle
	e.nextHandle++
	e.AgentSpec = spec
	return e.Agent, nil
}

// SetJointMotors implements physics.Engine
func (e *Engine) SetJointMotors(agent physics.Handle,
	cmds []physics.MotorCommand) error {
	if agent != e.Agent {
		return fmt.Errorf("setJointMotors: %w: %v", physics.ErrUnknownHandle,
			agent)
	}

	recorded := make([]physics.MotorCommand, len(cmds))
	copy(recorded, cmds)
	e.MotorCalls = append(e.MotorCalls, MotorCall{
		Tick:  e.Ticks,
		Agent: agent,
		Cmds:  recorded,
	})
	return nil
}

// Step implements physics.Engine
func (e *Engine) Step() error {
	if e.StepErr != nil {
		return e.StepErr
	}
	e.Ticks++
	e.TotalTicks++
	return nil
}

// QueryContacts implements physics.Engine
func (e *Engine) QueryContacts(body physics.Handle) ([]physics.Contact, error) {
	if body != e.Agent {
		return nil, fmt.Errorf("queryContacts: %w: %v",
			physics.ErrUnknownHandle, body)
	}
	if e.ContactFunc == nil {
		return nil, nil
	}

	others, err := e.ContactFunc(e.Ticks, e.WallHandle)
	if err != nil {
		return nil, err
	}

	contacts := make([]physics.Contact, 0, len(others))
	for _, o := range others {
		contacts = append(contacts, physics.Contact{Body: body, Other: o})
	}
	return contacts, nil
}

// QueryPose implements physics.Engine
func (e *Engine) QueryPose(body physics.Handle) (physics.Pose, error) {
	if body != e.Agent {
		return physics.Pose{}, fmt.Errorf("queryPose: %w: %v",
			physics.ErrUnknownHandle, body)
	}
	if e.PoseFunc == nil {
		return physics.Pose{Position: e.AgentSpec.Position}, nil
	}
	return e.PoseFunc(e.Ticks), nil
}

// Close implements physics.Engine
func (e *Engine) Close() error {
	e.Closed = true
	return nil
}

// MotorCallsSince returns the motor calls made at or after tick
func (e *Engine) MotorCallsSince(tick int) []MotorCall {
	var calls []MotorCall
	for _, c := range e.MotorCalls {
		if c.Tick >= tick {
			calls = append(calls, c)
		}
	}
	return calls
}

// Forward returns a PoseFunc that moves the agent along +Y by speed
// per tick, starting at start
func Forward(start physics.Vec3, speed float64) func(int) physics.Pose {
	return func(tick int) physics.Pose {
		pos := start
		pos.Y += speed * float64(tick)
		return physics.Pose{
			Position:       pos,
			LinearVelocity: physics.Vec3{Y: speed},
		}
	}
}

// TouchWallAfter returns a ContactFunc reporting contact with the first
// wall from the given tick on
func TouchWallAfter(tick int) func(int, []physics.Handle) ([]physics.Handle, error) {
	return func(t int, walls []physics.Handle) ([]physics.Handle, error) {
		if t < tick || len(walls) == 0 {
			return nil, nil
		}
		return []physics.Handle{walls[0]}, nil
	}
}
