// Package timestep implements timesteps of the agent-environment interaction
package timestep

import (
	"fmt"

	"gorgonia.org/tensor"
)

// StepType denotes the type of step that a TimeStep can be, either  first
// environmental step, a middle step, or a last step
type StepType int

const (
	First StepType = iota
	Mid
	Last
)

func (s StepType) String() string {
	switch s {
	case First:
		return "First"
	case Last:
		return "Last"
	default:
		return "Mid"
	}
}

// EndType denotes why an episode ended. It is only meaningful on the
// last timestep of an episode.
type EndType int

const (
	// NotEnded is the EndType of every timestep before the last
	NotEnded EndType = iota

	// Goal: the agent escaped past the goal threshold
	Goal

	// Timeout: the episode step cap was reached
	Timeout

	// Collision: the agent touched a wall
	Collision
)

func (e EndType) String() string {
	switch e {
	case Goal:
		return "Goal"
	case Timeout:
		return "Timeout"
	case Collision:
		return "Collision"
	default:
		return "NotEnded"
	}
}

// TimeStep packages together a single timestep in an environment
type TimeStep struct {
	StepType
	Reward      float64
	Discount    float64
	Observation *tensor.Dense
	Number      int

	// Debug is reserved for diagnostic notes. Consumers must not depend
	// on it being populated.
	Debug []string

	endType EndType
}

// New returns a new TimeStep
func New(t StepType, r, d float64, o *tensor.Dense, n int) TimeStep {
	return TimeStep{StepType: t, Reward: r, Discount: d, Observation: o,
		Number: n}
}

// First returns whether a TimeStep is the first in an environment
func (t *TimeStep) First() bool {
	return t.StepType == First
}

// Mid returns whether a TimeStep is a middle step in an environment
func (t *TimeStep) Mid() bool {
	return t.StepType == Mid
}

// Last returns whether a TimeStep is the last step in an environment
func (t *TimeStep) Last() bool {
	return t.StepType == Last
}

// SetEnd records why the episode ended. The first recorded reason wins
// so that enders checked later cannot overwrite an earlier one.
func (t *TimeStep) SetEnd(e EndType) {
	if t.endType == NotEnded {
		t.endType = e
	}
}

// EndType returns why the episode ended, or NotEnded
func (t *TimeStep) EndType() EndType {
	return t.endType
}

func (t TimeStep) String() string {
	str := "TimeStep | Type: %v  |  Reward:  %.2f  |  Discount: %.2f  |  " +
		"Step Number:  %v  |  End: %v"

	return fmt.Sprintf(str, t.StepType, t.Reward, t.Discount, t.Number,
		t.endType)
}
