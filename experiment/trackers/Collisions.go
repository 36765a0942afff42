package trackers

import (
	"gonum.org/v1/gonum/floats"

	ts "github.com/ZararB/DogWalker/timestep"
)

// Collisions tracks whether each finished episode ended by a collision.
// The saved data holds 1 for an episode ending in a collision and 0
// otherwise, so that its mean is the collision rate.
type Collisions struct {
	seq      sequence
	episodes []float64
	filename string
}

// NewCollisions returns a new Collisions Tracker
func NewCollisions(filename string) *Collisions {
	return &Collisions{seq: newSequence(), filename: filename}
}

// Track records how the episode ended when step is its last timestep
func (c *Collisions) Track(step ts.TimeStep) error {
	if err := c.seq.next(step); err != nil {
		return err
	}

	if step.Last() {
		collided := 0.0
		if step.EndType() == ts.Collision {
			collided = 1.0
		}
		c.episodes = append(c.episodes, collided)
	}
	return nil
}

// Data returns the collision indicator of all finished episodes
func (c *Collisions) Data() []float64 {
	return c.episodes
}

// Rate returns the fraction of finished episodes that ended in a
// collision
func (c *Collisions) Rate() float64 {
	if len(c.episodes) == 0 {
		return 0
	}
	return floats.Sum(c.episodes) / float64(len(c.episodes))
}

// Save saves the collision indicators to disk
func (c *Collisions) Save() error {
	return save(c.filename, c.episodes)
}
