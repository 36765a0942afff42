package qlearning

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ZararB/DogWalker/timestep"
	"github.com/ZararB/DogWalker/utils/tensorutils"
)

// QLearner implements the update functionality for the Q-Learning
// algorithm.
type QLearner struct {
	weights      *mat.Dense
	step         timestep.TimeStep
	action       int
	nextStep     timestep.TimeStep
	learningRate float64
}

// NewQLearner creates a new QLearner struct
//
// weights are the weights of the policy to learn
func NewQLearner(weights *mat.Dense, learningRate float64) (*QLearner,
	error) {
	if learningRate <= 0 {
		return nil, fmt.Errorf("newQLearner: learning rate must be "+
			"positive, got %v", learningRate)
	}
	return &QLearner{weights: weights, learningRate: learningRate}, nil
}

// ObserveFirst observes and records the first episodic timestep
func (q *QLearner) ObserveFirst(t timestep.TimeStep) error {
	if !t.First() {
		return fmt.Errorf("observeFirst: timestep %v is not the first "+
			"in its episode", t.Number)
	}
	q.step = timestep.TimeStep{}
	q.nextStep = t
	return nil
}

// Observe observes and records any timestep other than the first timestep
func (q *QLearner) Observe(action mat.Vector, nextStep timestep.TimeStep) error {
	if action.Len() != 1 {
		return fmt.Errorf("observe: value-based methods cannot have "+
			"multi-dimensional actions (action dim = %d)", action.Len())
	}

	numActions, _ := q.weights.Dims()
	a := int(action.AtVec(0))
	if a < 0 || a >= numActions {
		return fmt.Errorf("observe: action %v out of range [0, %v)", a,
			numActions)
	}

	q.step = q.nextStep
	q.action = a
	q.nextStep = nextStep
	return nil
}

// TdError returns the TD error of the last observed transition
func (q *QLearner) TdError() (float64, error) {
	if q.step.Observation == nil {
		return 0, fmt.Errorf("tdError: no transition observed")
	}

	state, err := tensorutils.ToVec(q.step.Observation)
	if err != nil {
		return 0, fmt.Errorf("tdError: %w", err)
	}

	// Bootstrap from the next state unless the episode ended there
	target := q.nextStep.Reward
	if !q.nextStep.Last() {
		nextState, err := tensorutils.ToVec(q.nextStep.Observation)
		if err != nil {
			return 0, fmt.Errorf("tdError: %w", err)
		}

		numActions, _ := q.weights.Dims()
		actionValues := mat.NewVecDense(numActions, nil)
		actionValues.MulVec(q.weights, nextState)
		target += q.nextStep.Discount * mat.Max(actionValues)
	}

	// Find the current estimate of the taken action
	currentEstimate := mat.Dot(q.weights.RowView(q.action), state)
	return target - currentEstimate, nil
}

// Step updates the weights of the Agent's Learner and Policy
func (q *QLearner) Step() error {
	tdError, err := q.TdError()
	if err != nil {
		return fmt.Errorf("step: %w", err)
	}

	state, err := tensorutils.ToVec(q.step.Observation)
	if err != nil {
		return fmt.Errorf("step: %w", err)
	}

	// Perform gradient descent: ∇weights = scale * state
	scale := q.learningRate * tdError
	weights := q.weights.RowView(q.action)
	newWeights := mat.NewVecDense(weights.Len(), nil)
	newWeights.AddScaledVec(weights, scale, state)
	q.weights.SetRow(q.action, newWeights.RawVector().Data)

	return nil
}

// EndEpisode implements the agent.Learner interface
func (q *QLearner) EndEpisode() {
	q.step = timestep.TimeStep{}
}
