// Package checkpointer implements saving agents part way through an
// experiment
package checkpointer

import (
	ts "github.com/ZararB/DogWalker/timestep"
)

// Serializable is an object that can be saved to a file
type Serializable interface {
	Save(filename string) error
}

// Checkpointer checkpoints/saves serializable objects based on
// timestep.TimeSteps
type Checkpointer interface {
	Checkpoint(ts.TimeStep) error
}
