package qlearning

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"

	"github.com/ZararB/DogWalker/agent"
	"github.com/ZararB/DogWalker/environment/escape"
	"github.com/ZararB/DogWalker/physics/physicstest"
	"github.com/ZararB/DogWalker/timestep"
	"github.com/ZararB/DogWalker/utils/matutils/initializers/weights"
)

func newEnv(t *testing.T) *escape.Env {
	t.Helper()
	cfg := escape.DefaultConfig()
	cfg.SettleSteps = 0
	env, _, err := escape.New(physicstest.New(), cfg)
	require.NoError(t, err)
	return env
}

// observation returns a (4, 7) observation whose first element is v
func observation(v float64) *tensor.Dense {
	data := make([]float64, 28)
	data[0] = v
	return tensor.New(tensor.WithShape(4, 7), tensor.WithBacking(data))
}

func TestNewValidates(t *testing.T) {
	env := newEnv(t)

	_, err := New(env, Config{Epsilon: 2, LearningRate: 0.1},
		weights.NewZero(), 1)
	assert.Error(t, err)

	_, err = New(env, Config{Epsilon: 0.1, LearningRate: 0},
		weights.NewZero(), 1)
	assert.Error(t, err)
}

func TestUpdate(t *testing.T) {
	env := newEnv(t)
	q, err := New(env, Config{Epsilon: 0.1, LearningRate: 0.5},
		weights.NewZero(), 1)
	require.NoError(t, err)

	first := timestep.New(timestep.First, 0, 0.9, observation(1), 0)
	require.NoError(t, q.ObserveFirst(first))

	next := timestep.New(timestep.Last, 2, 0.9, observation(0.5), 1)
	require.NoError(t, q.Observe(mat.NewVecDense(1, []float64{2}), next))

	tdError, err := q.TdError()
	require.NoError(t, err)
	assert.Equal(t, 2.0, tdError)

	require.NoError(t, q.Step())

	w := q.Weights()["weights"]
	assert.Equal(t, 1.0, w.At(2, 0))
	assert.Equal(t, 0.0, w.At(1, 0))

	// The greedy action is now the updated one
	q.Eval()
	action := q.SelectAction(first)
	assert.Equal(t, 2.0, action.AtVec(0))
}

func TestUpdateBootstrapsFromNextState(t *testing.T) {
	env := newEnv(t)
	q, err := New(env, Config{Epsilon: 0.1, LearningRate: 1},
		weights.NewZero(), 1)
	require.NoError(t, err)

	w := q.Weights()["weights"]
	w.Set(3, 0, 10)

	first := timestep.New(timestep.First, 0, 0.5, observation(0), 0)
	require.NoError(t, q.ObserveFirst(first))
	next := timestep.New(timestep.Mid, 1, 0.5, observation(1), 1)
	require.NoError(t, q.Observe(mat.NewVecDense(1, []float64{0}), next))

	tdError, err := q.TdError()
	require.NoError(t, err)
	assert.Equal(t, 1+0.5*10.0, tdError)
}

func TestObserveErrors(t *testing.T) {
	env := newEnv(t)
	q, err := New(env, DefaultConfig(), weights.NewZero(), 1)
	require.NoError(t, err)

	mid := timestep.New(timestep.Mid, 0, 0.9, observation(0), 3)
	assert.Error(t, q.ObserveFirst(mid))

	assert.Error(t, q.Observe(mat.NewVecDense(2, nil), mid))
	assert.Error(t, q.Observe(mat.NewVecDense(1, []float64{4}), mid))

	// Nothing to learn from yet
	assert.Error(t, q.Step())
}

func TestExploration(t *testing.T) {
	env := newEnv(t)
	q, err := New(env, Config{Epsilon: 1, LearningRate: 0.1},
		weights.NewZero(), 7)
	require.NoError(t, err)

	step := timestep.New(timestep.First, 0, 0.9, observation(1), 0)
	seen := make(map[float64]bool)
	for i := 0; i < 200; i++ {
		seen[q.SelectAction(step).AtVec(0)] = true
	}
	assert.Len(t, seen, escape.NumActions)
	assert.False(t, q.IsEval())
}

func TestRegistered(t *testing.T) {
	c, err := agent.DefaultConfig(agent.EGreedyQLearningLinear)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)

	a, err := c.CreateAgent(newEnv(t), 3)
	require.NoError(t, err)
	assert.True(t, c.ValidAgent(a))
}

func TestSaveLoad(t *testing.T) {
	env := newEnv(t)
	q, err := New(env, DefaultConfig(), weights.NewUniform(-1, 1, 5), 1)
	require.NoError(t, err)

	filename := filepath.Join(t.TempDir(), "agent.bin")
	require.NoError(t, q.Save(filename))

	loaded, err := New(env, DefaultConfig(), weights.NewZero(), 2)
	require.NoError(t, err)
	require.NoError(t, loaded.Load(filename))
	assert.True(t, mat.Equal(q.Weights()["weights"],
		loaded.Weights()["weights"]))

	// The learner shares the loaded weights with the policy
	assert.Same(t, loaded.QLearner.weights, loaded.Weights()["weights"])

	assert.Error(t, loaded.Load(filepath.Join(t.TempDir(), "missing.bin")))
}
