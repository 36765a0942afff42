package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZararB/DogWalker/agent"
	"github.com/ZararB/DogWalker/environment/escape"
	"github.com/ZararB/DogWalker/physics/physicstest"
	"github.com/ZararB/DogWalker/timestep"
)

func TestSelectsEveryAction(t *testing.T) {
	cfg := escape.DefaultConfig()
	cfg.SettleSteps = 0
	env, step, err := escape.New(physicstest.New(), cfg)
	require.NoError(t, err)

	r, err := New(env, 11)
	require.NoError(t, err)

	counts := make(map[float64]int)
	for i := 0; i < 400; i++ {
		a := r.SelectAction(step).AtVec(0)
		counts[a]++
		assert.True(t, escape.Action(a).Valid())
	}
	assert.Len(t, counts, escape.NumActions)
}

func TestSeeded(t *testing.T) {
	cfg := escape.DefaultConfig()
	cfg.SettleSteps = 0
	env, _, err := escape.New(physicstest.New(), cfg)
	require.NoError(t, err)

	a, err := New(env, 3)
	require.NoError(t, err)
	b, err := New(env, 3)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		assert.Equal(t, a.SelectAction(timestep.TimeStep{}),
			b.SelectAction(timestep.TimeStep{}))
	}
}

func TestRegistered(t *testing.T) {
	c, err := agent.DefaultConfig(agent.Random)
	require.NoError(t, err)
	assert.Equal(t, agent.Random, c.Type())
	assert.Contains(t, agent.Types(), agent.Random)
}
