package checkpointer

import (
	"fmt"

	ts "github.com/ZararB/DogWalker/timestep"
)

// nStep implements checkpointing every N experiment steps
type nStep struct {
	interval int
	steps    int
	object   Serializable

	// filename returns the name of the file to save the object in.
	// Use FilenameEnumerator to save each checkpoint to a separate,
	// numbered file.
	filename func() string
}

// NewNStep returns a checkpointer that checkpoints object every n
// tracked timesteps, counted across episodes. First timesteps are not
// counted since no action led to them.
func NewNStep(n int, object Serializable,
	filename func() string) (Checkpointer, error) {
	if n <= 0 {
		return nil, fmt.Errorf("newNStep: interval must be positive, "+
			"got %v", n)
	}
	return &nStep{
		interval: n,
		object:   object,
		filename: filename,
	}, nil
}

// Checkpoint saves the tracked object if the interval has elapsed
func (n *nStep) Checkpoint(t ts.TimeStep) error {
	if t.First() {
		return nil
	}

	n.steps++
	if n.steps%n.interval == 0 {
		if err := n.object.Save(n.filename()); err != nil {
			return fmt.Errorf("checkpoint: %w", err)
		}
	}
	return nil
}
