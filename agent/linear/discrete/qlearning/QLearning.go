// Package qlearning implements the Q-Learning algorithm with linear
// function approximation over flattened observations.
package qlearning

import (
	"encoding/gob"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/ZararB/DogWalker/agent/linear/discrete/policy"
	"github.com/ZararB/DogWalker/environment"
	"github.com/ZararB/DogWalker/utils/matutils/initializers/weights"
)

// QLearning implements the Q-Learning algorithm. The behaviour policy
// is ε-greedy and shares its weights with the learner.
type QLearning struct {
	*QLearner
	*policy.EGreedy
	seed uint64
}

// New creates a new QLearning agent for env, with weights initialized
// by init
func New(env environment.Environment, config Config,
	init weights.Initializer, seed uint64) (*QLearning, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	behaviour, err := policy.NewEGreedy(config.Epsilon, seed, env)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	w := behaviour.Weights()[policy.WeightsKey]
	init.Initialize(w)

	learner, err := NewQLearner(w, config.LearningRate)
	if err != nil {
		return nil, fmt.Errorf("new: %w", err)
	}

	return &QLearning{learner, behaviour, seed}, nil
}

// Save writes the agent's weights to filename
func (q *QLearning) Save(filename string) error {
	data, err := q.QLearner.weights.MarshalBinary()
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	defer file.Close()

	if err := gob.NewEncoder(file).Encode(data); err != nil {
		return fmt.Errorf("save: could not encode weights: %w", err)
	}
	return nil
}

// Load replaces the agent's weights with those saved in filename. The
// saved weights must have the same shape as the agent's.
func (q *QLearning) Load(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	defer file.Close()

	var data []byte
	if err := gob.NewDecoder(file).Decode(&data); err != nil {
		return fmt.Errorf("load: could not decode weights: %w", err)
	}

	var loaded mat.Dense
	if err := loaded.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("load: %w", err)
	}

	w := q.QLearner.weights
	r, c := loaded.Dims()
	wr, wc := w.Dims()
	if r != wr || c != wc {
		return fmt.Errorf("load: expected weights of shape (%v, %v) but "+
			"got (%v, %v)", wr, wc, r, c)
	}
	w.Copy(&loaded)
	return nil
}
