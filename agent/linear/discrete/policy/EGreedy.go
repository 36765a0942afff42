// Package policy implements policies using linear function
// approximation
package policy

import (
	"fmt"

	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ZararB/DogWalker/environment"
	"github.com/ZararB/DogWalker/timestep"
	"github.com/ZararB/DogWalker/utils/matutils"
	"github.com/ZararB/DogWalker/utils/tensorutils"
)

const (
	// Keys for weights map: map[string]*mat.Dense
	WeightsKey string = "weights"
)

// EGreedy implements an ε-greedy policy using linear function
// approximation. Action values are linear in the flattened
// observation. In evaluation mode the policy is greedy.
type EGreedy struct {
	weights *mat.Dense
	epsilon float64
	seed    rand.Source // Seed for random number generation
	eval    bool
}

// NewEGreedy constructs a new EGreedy policy, where e=epislon is the
// probability with which a random action is selected. The environment
// must have one dimensional discrete actions starting at 0.
func NewEGreedy(e float64, seed uint64,
	env environment.Environment) (*EGreedy, error) {
	if e < 0 || e > 1 {
		return nil, fmt.Errorf("newEGreedy: epsilon must be in [0, 1], "+
			"got %v", e)
	}

	actionSpec := env.ActionSpec()
	if actionSpec.Shape.Len() != 1 {
		return nil, fmt.Errorf("newEGreedy: actions must be " +
			"1-dimensional")
	}
	if actionSpec.Cardinality != environment.Discrete {
		return nil, fmt.Errorf("newEGreedy: actions must be discrete")
	}
	if actionSpec.LowerBound.AtVec(0) != 0 {
		return nil, fmt.Errorf("newEGreedy: actions must start at 0")
	}

	// Calculate the number of actions
	actions := int(actionSpec.UpperBound.AtVec(0)) + 1

	// Calculate the number of features
	features := env.ObservationSpec().Shape.Len()

	// Create the weight matrix: rows = actions, cols = features
	weights := mat.NewDense(actions, features, nil)

	return &EGreedy{weights: weights, epsilon: e,
		seed: rand.NewSource(seed)}, nil
}

// Weights gets and returns the weights of the EGreedy policy as a
// string description -> weights
func (p *EGreedy) Weights() map[string]*mat.Dense {
	weights := make(map[string]*mat.Dense)
	weights[WeightsKey] = p.weights

	return weights
}

// SetWeights sets the weight pointers to point to a new set of weights.
// The SetWeights function can take the output of a call to Weights()
// on another EGreedy Policy directly
func (p *EGreedy) SetWeights(weights map[string]*mat.Dense) error {
	newWeights, ok := weights[WeightsKey]
	if !ok {
		return fmt.Errorf("setWeights: no weights named \"%v\"", WeightsKey)
	}

	r, c := newWeights.Dims()
	oldR, oldC := p.weights.Dims()
	if r != oldR || c != oldC {
		return fmt.Errorf("setWeights: expected weights of shape (%v, %v) "+
			"but got (%v, %v)", oldR, oldC, r, c)
	}

	p.weights = newWeights
	return nil
}

// ActionValues returns the value of each action in the state of t
func (p *EGreedy) ActionValues(t timestep.TimeStep) *mat.VecDense {
	obs, err := tensorutils.ToVec(t.Observation)
	if err != nil {
		panic(fmt.Sprintf("actionValues: %v", err))
	}

	numActions, features := p.weights.Dims()
	if obs.Len() != features {
		panic(fmt.Sprintf("actionValues: expected %v features but got %v",
			features, obs.Len()))
	}

	actionValues := mat.NewVecDense(numActions, nil)
	actionValues.MulVec(p.weights, obs)
	return actionValues
}

// SelectAction selects and action from an ε-greedy policy
func (p *EGreedy) SelectAction(t timestep.TimeStep) *mat.VecDense {
	actionValues := p.ActionValues(t)

	// Find the greedy action
	greedyAction := matutils.MaxVec(actionValues)
	if p.eval {
		return mat.NewVecDense(1, []float64{float64(greedyAction)})
	}

	// Calculate the ε probability of choosing any action at random
	numActions := actionValues.Len()
	prob := p.epsilon / float64(numActions)
	actionProbabilites := make([]float64, numActions)
	for i := 0; i < numActions; i++ {
		actionProbabilites[i] = prob
	}

	// Adjust the probability of choosing the greedy action
	actionProbabilites[greedyAction] += 1.0 - p.epsilon

	// Construct a categorical distribution over actions using action
	// probabilities
	dist := distuv.NewCategorical(actionProbabilites, p.seed)

	// Sample an action given the action probabilites and return
	return mat.NewVecDense(1, []float64{dist.Rand()})
}

// Epsilon returns the probability of selecting a random action
func (p *EGreedy) Epsilon() float64 {
	return p.epsilon
}

// SetEpsilon sets the probability of selecting a random action
func (p *EGreedy) SetEpsilon(e float64) {
	p.epsilon = e
}

// Eval sets the policy to evaluation mode
func (p *EGreedy) Eval() {
	p.eval = true
}

// Train sets the policy to training mode
func (p *EGreedy) Train() {
	p.eval = false
}

// IsEval returns whether the policy is in evaluation mode
func (p *EGreedy) IsEval() bool {
	return p.eval
}
