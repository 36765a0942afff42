package experiment

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ZararB/DogWalker/agent"
	env "github.com/ZararB/DogWalker/environment"
	"github.com/ZararB/DogWalker/experiment/checkpointer"
	"github.com/ZararB/DogWalker/experiment/trackers"
	ts "github.com/ZararB/DogWalker/timestep"
	"github.com/ZararB/DogWalker/utils/logutils"
)

// Online is an Experiment that runs an agent online only. No offline
// evaluation is performed.
type Online struct {
	env.Environment
	agent.Agent
	maxSteps      uint
	currentSteps  uint
	episodes      int
	trackers      []trackers.Tracker
	checkpointers []checkpointer.Checkpointer
	logger        *zap.Logger
}

// NewOnline creates and returns a new online experiment on a given
// environment with a given agent. The steps parameter determines how
// many timesteps the experiment is run for, and t determines what data
// is tracked and saved.
func NewOnline(e env.Environment, a agent.Agent, steps uint,
	t []trackers.Tracker, c []checkpointer.Checkpointer,
	logger *zap.Logger) *Online {
	return &Online{
		Environment:   e,
		Agent:         a,
		maxSteps:      steps,
		trackers:      t,
		checkpointers: c,
		logger:        logutils.OrNop(logger),
	}
}

// Register registers a Tracker with the experiment so that data
// generated during the experiment can be tracked and saved
func (o *Online) Register(t trackers.Tracker) {
	o.trackers = append(o.trackers, t)
}

// AddCheckpointer registers a Checkpointer with the experiment
func (o *Online) AddCheckpointer(c checkpointer.Checkpointer) {
	o.checkpointers = append(o.checkpointers, c)
}

// RunEpisode runs a single episode of the experiment and returns
// whether the step budget has been used up
func (o *Online) RunEpisode() (bool, error) {
	step, err := o.Environment.Reset()
	if err != nil {
		return false, fmt.Errorf("runEpisode: %w", err)
	}
	if err := o.Agent.ObserveFirst(step); err != nil {
		return false, fmt.Errorf("runEpisode: %w", err)
	}
	if err := o.track(step); err != nil {
		return false, fmt.Errorf("runEpisode: %w", err)
	}

	episodeReturn := 0.0
	done := false
	for !done && o.currentSteps < o.maxSteps {
		o.currentSteps++

		action := o.Agent.SelectAction(step)
		step, done, err = o.Environment.Step(action)
		if err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
		episodeReturn += step.Reward

		if err := o.track(step); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}

		if err := o.Agent.Observe(action, step); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
		if err := o.Agent.Step(); err != nil {
			return false, fmt.Errorf("runEpisode: %w", err)
		}
	}
	o.Agent.EndEpisode()
	o.episodes++

	o.logger.Debug("episode finished",
		zap.Int("episode", o.episodes),
		zap.Int("steps", step.Number),
		zap.Stringer("end", step.EndType()),
		zap.Float64("return", episodeReturn),
		zap.Uint("total_steps", o.currentSteps),
	)

	return o.currentSteps >= o.maxSteps, nil
}

// Run runs the entire experiment for all timesteps
func (o *Online) Run() error {
	for {
		ended, err := o.RunEpisode()
		if err != nil {
			return fmt.Errorf("run: %w", err)
		}
		if ended {
			return nil
		}
	}
}

// Steps returns the number of environment steps taken so far
func (o *Online) Steps() uint {
	return o.currentSteps
}

// Episodes returns the number of episodes started so far
func (o *Online) Episodes() int {
	return o.episodes
}

// Save saves all the data cached by the Trackers to disk
func (o *Online) Save() error {
	for _, t := range o.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}
	return nil
}

// track sends the timestep to each tracker and checkpointer
func (o *Online) track(t ts.TimeStep) error {
	for _, tracker := range o.trackers {
		if err := tracker.Track(t); err != nil {
			return err
		}
	}
	for _, c := range o.checkpointers {
		if err := c.Checkpoint(t); err != nil {
			return err
		}
	}
	return nil
}
