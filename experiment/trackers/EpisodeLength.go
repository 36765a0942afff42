package trackers

import (
	ts "github.com/ZararB/DogWalker/timestep"
)

// EpisodeLength tracks and saves the number of timesteps in each
// finished episode of an experiment. Lengths are stored as float64 so
// they can be loaded with LoadData.
type EpisodeLength struct {
	seq            sequence
	episodeLengths []float64
	filename       string
}

// NewEpisodeLength returns a new EpisodeLength Tracker
func NewEpisodeLength(filename string) *EpisodeLength {
	return &EpisodeLength{seq: newSequence(), filename: filename}
}

// Track records the length of the episode when step is its last
// timestep
func (e *EpisodeLength) Track(step ts.TimeStep) error {
	if err := e.seq.next(step); err != nil {
		return err
	}

	if step.Last() {
		e.episodeLengths = append(e.episodeLengths, float64(step.Number))
	}
	return nil
}

// Data returns the lengths of all finished episodes
func (e *EpisodeLength) Data() []float64 {
	return e.episodeLengths
}

// Save saves the episode lengths to disk
func (e *EpisodeLength) Save() error {
	return save(e.filename, e.episodeLengths)
}
