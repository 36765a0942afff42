package escape

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZararB/DogWalker/physics"
	"github.com/ZararB/DogWalker/physics/physicstest"
)

func TestCommands(t *testing.T) {
	spec := physics.R2D2()

	tests := []struct {
		action   Action
		expected []physics.MotorCommand
	}{
		{Forward, []physics.MotorCommand{
			{JointIndex: 2, TargetVelocity: -20, MaxForce: 100},
			{JointIndex: 3, TargetVelocity: -20, MaxForce: 100},
			{JointIndex: 6, TargetVelocity: -20, MaxForce: 100},
			{JointIndex: 7, TargetVelocity: -20, MaxForce: 100},
		}},
		{Backward, []physics.MotorCommand{
			{JointIndex: 2, TargetVelocity: 20, MaxForce: 100},
			{JointIndex: 3, TargetVelocity: 20, MaxForce: 100},
			{JointIndex: 6, TargetVelocity: 20, MaxForce: 100},
			{JointIndex: 7, TargetVelocity: 20, MaxForce: 100},
		}},
		{RotateCCW, []physics.MotorCommand{
			{JointIndex: 2, TargetVelocity: -80, MaxForce: 100},
			{JointIndex: 7, TargetVelocity: 80, MaxForce: 100},
		}},
		{RotateCW, []physics.MotorCommand{
			{JointIndex: 6, TargetVelocity: -80, MaxForce: 100},
			{JointIndex: 3, TargetVelocity: 80, MaxForce: 100},
		}},
	}

	for _, test := range tests {
		t.Run(test.action.String(), func(t *testing.T) {
			cmds, err := Commands(spec, test.action)
			require.NoError(t, err)
			assert.Equal(t, test.expected, cmds)
		})
	}
}

func TestCommandsInvalidAction(t *testing.T) {
	for _, a := range []Action{-1, 4, 100} {
		_, err := Commands(physics.R2D2(), a)
		assert.ErrorIs(t, err, ErrInvalidAction)
		assert.False(t, a.Valid())
	}
}

func TestCommandsMissingJoint(t *testing.T) {
	spec := physics.R2D2()
	spec.Joints = spec.Joints[:2]

	_, err := Commands(spec, Forward)
	assert.Error(t, err)
}

func TestDispatcherSkipsRepeatedAction(t *testing.T) {
	engine := physicstest.New()
	agent, err := engine.CreateAgent(physics.R2D2())
	require.NoError(t, err)

	d := NewDispatcher(engine, physics.R2D2())
	_, ok := d.Previous()
	assert.False(t, ok)

	sent, err := d.Apply(agent, Forward)
	require.NoError(t, err)
	assert.True(t, sent)

	for i := 0; i < 5; i++ {
		sent, err = d.Apply(agent, Forward)
		require.NoError(t, err)
		assert.False(t, sent)
	}
	assert.Len(t, engine.MotorCalls, 1)

	sent, err = d.Apply(agent, RotateCW)
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Len(t, engine.MotorCalls, 2)

	prev, ok := d.Previous()
	assert.True(t, ok)
	assert.Equal(t, RotateCW, prev)

	d.Reset()
	sent, err = d.Apply(agent, RotateCW)
	require.NoError(t, err)
	assert.True(t, sent)
	assert.Len(t, engine.MotorCalls, 3)
	assert.Equal(t, 3, d.Sent())
}

func TestDispatcherInvalidActionKeepsState(t *testing.T) {
	engine := physicstest.New()
	agent, err := engine.CreateAgent(physics.R2D2())
	require.NoError(t, err)

	d := NewDispatcher(engine, physics.R2D2())
	_, err = d.Apply(agent, Backward)
	require.NoError(t, err)

	_, err = d.Apply(agent, Action(7))
	assert.ErrorIs(t, err, ErrInvalidAction)

	prev, _ := d.Previous()
	assert.Equal(t, Backward, prev)
	assert.Len(t, engine.MotorCalls, 1)
}

func TestDispatcherEngineError(t *testing.T) {
	engine := physicstest.New()
	d := NewDispatcher(engine, physics.R2D2())

	// No agent has been created
	_, err := d.Apply(physics.Handle(3), Forward)
	assert.ErrorIs(t, err, physics.ErrUnknownHandle)

	_, ok := d.Previous()
	assert.False(t, ok)
}
