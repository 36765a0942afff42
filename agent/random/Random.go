// Package random implements an agent which selects discrete actions
// uniformly at random and never learns. It is the baseline that other
// agents are compared against.
package random

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/ZararB/DogWalker/agent"
	"github.com/ZararB/DogWalker/environment"
	"github.com/ZararB/DogWalker/timestep"
)

func init() {
	agent.Register(agent.Random, func() agent.Config {
		return Config{}
	})
}

// Config represents a configuration for the Random agent
type Config struct{}

// CreateAgent creates the agent from the Config
func (c Config) CreateAgent(env environment.Environment,
	seed uint64) (agent.Agent, error) {
	return New(env, seed)
}

// ValidAgent returns whether the argument agent is a valid agent for
// construction with the Config
func (c Config) ValidAgent(a agent.Agent) bool {
	_, ok := a.(*Random)
	return ok
}

// Validate ensures that the Config is valid
func (c Config) Validate() error {
	return nil
}

// Type returns the type of the agent constructed by the Config
func (c Config) Type() agent.Type {
	return agent.Random
}

// Random selects actions uniformly from a discrete action space
type Random struct {
	min, n int
	rng    *rand.Rand
	eval   bool
}

// New returns a new Random agent for env, which must have one
// dimensional discrete actions
func New(env environment.Environment, seed uint64) (*Random, error) {
	spec := env.ActionSpec()
	if spec.Shape.Len() != 1 {
		return nil, fmt.Errorf("new: actions must be 1-dimensional")
	}
	if spec.Cardinality != environment.Discrete {
		return nil, fmt.Errorf("new: actions must be discrete")
	}

	min := int(spec.LowerBound.AtVec(0))
	max := int(spec.UpperBound.AtVec(0))
	if max < min {
		return nil, fmt.Errorf("new: empty action space [%v, %v]", min, max)
	}

	return &Random{
		min: min,
		n:   max - min + 1,
		rng: rand.New(rand.NewSource(seed)),
	}, nil
}

// SelectAction implements the agent.Policy interface
func (r *Random) SelectAction(timestep.TimeStep) *mat.VecDense {
	a := r.min + r.rng.Intn(r.n)
	return mat.NewVecDense(1, []float64{float64(a)})
}

// Eval implements the agent.Policy interface
func (r *Random) Eval() { r.eval = true }

// Train implements the agent.Policy interface
func (r *Random) Train() { r.eval = false }

// IsEval implements the agent.Policy interface
func (r *Random) IsEval() bool { return r.eval }

// Step implements the agent.Learner interface
func (r *Random) Step() error { return nil }

// Observe implements the agent.Learner interface
func (r *Random) Observe(mat.Vector, timestep.TimeStep) error { return nil }

// ObserveFirst implements the agent.Learner interface
func (r *Random) ObserveFirst(timestep.TimeStep) error { return nil }

// EndEpisode implements the agent.Learner interface
func (r *Random) EndEpisode() {}
