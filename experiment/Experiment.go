// Package experiment implements functionality for running an experiment
package experiment

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ZararB/DogWalker/agent"
	"github.com/ZararB/DogWalker/environment"
	"github.com/ZararB/DogWalker/experiment/checkpointer"
	"github.com/ZararB/DogWalker/experiment/trackers"
)

// Experiment outlines structs that can run experiments. Experiments
// send each environment TimeStep to their Trackers, which cache the data
// they need in RAM. The Save method then writes all cached data to
// disk, usually after the experiment has been run. The Run method runs
// episodes until the maximum timestep limit is reached, while the
// RunEpisode method runs a single episode.
type Experiment interface {
	Run() error

	// RunEpisode returns whether the step budget has been used up
	RunEpisode() (bool, error)

	// Save all tracked data to disk
	Save() error

	// Register adds a new Tracker to the (possibly already running)
	// experiment. Useful if data should only be tracked after a
	// specified event.
	Register(t trackers.Tracker)

	// AddCheckpointer adds a Checkpointer which is consulted on every
	// tracked TimeStep
	AddCheckpointer(c checkpointer.Checkpointer)
}

// Type names a kind of experiment
type Type string

const (
	OnlineExp Type = "OnlineExperiment"
)

// Config represents a configuration of an experiment
type Config struct {
	Type     Type       `json:"type" yaml:"type"`
	MaxSteps uint       `json:"max_steps" yaml:"max_steps"`
	Agent    agent.Type `json:"agent" yaml:"agent"`
}

// DefaultConfig returns an online experiment of one million steps with
// a Q-learning agent
func DefaultConfig() Config {
	return Config{
		Type:     OnlineExp,
		MaxSteps: 1_000_000,
		Agent:    agent.EGreedyQLearningLinear,
	}
}

// Validate ensures the Config describes a runnable experiment
func (c Config) Validate() error {
	if c.Type != OnlineExp {
		return fmt.Errorf("validate: no such experiment type %q", c.Type)
	}
	if c.MaxSteps == 0 {
		return fmt.Errorf("validate: max steps must be positive")
	}
	return nil
}

// CreateExp creates the experiment described by the Config, running a
// new agent of the configured type on env
func (c Config) CreateExp(env environment.Environment, seed uint64,
	t []trackers.Tracker, check []checkpointer.Checkpointer,
	logger *zap.Logger) (Experiment, agent.Agent, error) {
	if err := c.Validate(); err != nil {
		return nil, nil, fmt.Errorf("createExp: %w", err)
	}

	agentConfig, err := agent.DefaultConfig(c.Agent)
	if err != nil {
		return nil, nil, fmt.Errorf("createExp: %w", err)
	}
	a, err := agentConfig.CreateAgent(env, seed)
	if err != nil {
		return nil, nil, fmt.Errorf("createExp: could not create agent: %w",
			err)
	}

	return NewOnline(env, a, c.MaxSteps, t, check, logger), a, nil
}
