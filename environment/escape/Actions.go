package escape

import (
	"errors"
	"fmt"

	"github.com/ZararB/DogWalker/physics"
)

// ErrInvalidAction is returned for actions outside the action table
var ErrInvalidAction = errors.New("invalid action")

// Action is a discrete drive command
type Action int

const (
	Forward Action = iota
	Backward
	RotateCCW
	RotateCW

	// NumActions is the number of valid actions
	NumActions int = iota

	// noAction is the dispatcher's cached action after a reset
	noAction Action = -1
)

func (a Action) String() string {
	switch a {
	case Forward:
		return "Forward"
	case Backward:
		return "Backward"
	case RotateCCW:
		return "RotateCCW"
	case RotateCW:
		return "RotateCW"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

// Valid reports whether a is in the action table
func (a Action) Valid() bool {
	return a >= 0 && int(a) < NumActions
}

// Drive targets of the action table. Wheel joints spin in the negative
// direction to drive the robot forward.
const (
	DriveVelocity  float64 = 20
	RotateVelocity float64 = 80
	MaxMotorForce  float64 = 100
)

// target is a velocity target for a named joint
type target struct {
	joint    string
	velocity float64
}

var actionTable = map[Action][]target{
	Forward: {
		{physics.RightFrontWheel, -DriveVelocity},
		{physics.RightBackWheel, -DriveVelocity},
		{physics.LeftFrontWheel, -DriveVelocity},
		{physics.LeftBackWheel, -DriveVelocity},
	},
	Backward: {
		{physics.RightFrontWheel, DriveVelocity},
		{physics.RightBackWheel, DriveVelocity},
		{physics.LeftFrontWheel, DriveVelocity},
		{physics.LeftBackWheel, DriveVelocity},
	},
	RotateCCW: {
		{physics.RightFrontWheel, -RotateVelocity},
		{physics.LeftBackWheel, RotateVelocity},
	},
	RotateCW: {
		{physics.LeftFrontWheel, -RotateVelocity},
		{physics.RightBackWheel, RotateVelocity},
	},
}

// Commands returns the motor commands that implement action a for the
// robot described by spec
func Commands(spec physics.AgentSpec, a Action) ([]physics.MotorCommand,
	error) {
	if !a.Valid() {
		return nil, fmt.Errorf("commands: %w: %v", ErrInvalidAction, a)
	}

	targets := actionTable[a]
	cmds := make([]physics.MotorCommand, 0, len(targets))
	for _, t := range targets {
		j, ok := spec.Joint(t.joint)
		if !ok {
			return nil, fmt.Errorf("commands: agent %q has no joint %q",
				spec.Name, t.joint)
		}
		cmds = append(cmds, physics.MotorCommand{
			JointIndex:     j.Index,
			TargetVelocity: t.velocity,
			MaxForce:       MaxMotorForce,
		})
	}
	return cmds, nil
}

// Dispatcher maps discrete actions onto joint motor commands. Motor
// targets persist in the engine, so an action equal to the previously
// applied one is not sent again.
type Dispatcher struct {
	engine physics.Engine
	spec   physics.AgentSpec
	prev   Action
	sent   int
}

// NewDispatcher returns a Dispatcher driving the robot described by spec
func NewDispatcher(engine physics.Engine, spec physics.AgentSpec) *Dispatcher {
	return &Dispatcher{engine: engine, spec: spec, prev: noAction}
}

// Apply sends the motor commands for action a to agent unless a is the
// previously applied action. It reports whether the engine was called.
func (d *Dispatcher) Apply(agent physics.Handle, a Action) (bool, error) {
	if !a.Valid() {
		return false, fmt.Errorf("apply: %w: %v", ErrInvalidAction, a)
	}
	if a == d.prev {
		return false, nil
	}

	cmds, err := Commands(d.spec, a)
	if err != nil {
		return false, fmt.Errorf("apply: %w", err)
	}
	if err := d.engine.SetJointMotors(agent, cmds); err != nil {
		return false, fmt.Errorf("apply: %w", err)
	}

	d.prev = a
	d.sent++
	return true, nil
}

// Previous returns the last applied action and whether there is one
func (d *Dispatcher) Previous() (Action, bool) {
	return d.prev, d.prev != noAction
}

// Sent returns the number of actions sent to the engine
func (d *Dispatcher) Sent() int {
	return d.sent
}

// Reset forgets the previous action so the next action is always sent
func (d *Dispatcher) Reset() {
	d.prev = noAction
}
