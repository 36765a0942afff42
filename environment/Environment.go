// Package environment outlines the interfaces and structs needed to
// implement concrete environments
package environment

import (
	"gonum.org/v1/gonum/mat"

	"github.com/ZararB/DogWalker/timestep"
)

// Ender determines when an episode should end. If End returns true,
// the argument TimeStep has been modified so that its StepType is
// timestep.Last and its EndType records the reason.
type Ender interface {
	End(*timestep.TimeStep) bool
}

// Task implements the reward scheme and episode termination for
// taking actions in some environment
type Task interface {
	Ender
	GetReward(t timestep.TimeStep, a mat.Vector) float64
}

// Environment implements a simulated environment, which includes a Task
// to complete. Environments are single-threaded: a single goroutine
// should own an Environment for its whole lifetime.
type Environment interface {
	Task

	// Reset rebuilds the environment and returns the first timestep of
	// a new episode
	Reset() (timestep.TimeStep, error)

	// Step takes one environmental step, returning the next timestep
	// and whether the episode has ended
	Step(action *mat.VecDense) (timestep.TimeStep, bool, error)

	CurrentTimeStep() timestep.TimeStep
	RewardSpec() Spec
	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
