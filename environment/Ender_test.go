package environment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ZararB/DogWalker/timestep"
)

func TestStepLimit(t *testing.T) {
	s := NewStepLimit(3)
	assert.Equal(t, 3, s.Steps())

	step := timestep.New(timestep.Mid, 0, 1, nil, 2)
	assert.False(t, s.End(&step))
	assert.True(t, step.Mid())

	step.Number = 3
	assert.True(t, s.End(&step))
	assert.True(t, step.Last())
	assert.Equal(t, timestep.Timeout, step.EndType())
}

func TestAnyEnderFirstReasonWins(t *testing.T) {
	collided := true
	enders := AnyEnder{
		NewFunctionEnder(func(*timestep.TimeStep) bool { return collided },
			timestep.Collision),
		NewFunctionEnder(func(*timestep.TimeStep) bool { return false },
			timestep.Goal),
		NewStepLimit(1),
	}

	step := timestep.New(timestep.Mid, 0, 1, nil, 1)
	assert.True(t, enders.End(&step))
	assert.Equal(t, timestep.Collision, step.EndType())

	collided = false
	step = timestep.New(timestep.Mid, 0, 1, nil, 1)
	assert.True(t, enders.End(&step))
	assert.Equal(t, timestep.Timeout, step.EndType())

	step = timestep.New(timestep.Mid, 0, 1, nil, 0)
	assert.False(t, enders.End(&step))
	assert.Equal(t, timestep.NotEnded, step.EndType())
}
