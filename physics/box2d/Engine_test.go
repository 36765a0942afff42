package box2d

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZararB/DogWalker/physics"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(DefaultConfig())
	require.NoError(t, err)
	return e
}

func drive(t *testing.T, e *Engine, h physics.Handle, target float64,
	joints ...int) {
	t.Helper()
	cmds := make([]physics.MotorCommand, 0, len(joints))
	for _, j := range joints {
		cmds = append(cmds, physics.MotorCommand{
			JointIndex:     j,
			TargetVelocity: target,
			MaxForce:       100,
		})
	}
	require.NoError(t, e.SetJointMotors(h, cmds))
}

func step(t *testing.T, e *Engine, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, e.Step())
	}
}

func TestNewValidatesConfig(t *testing.T) {
	c := DefaultConfig()
	c.TimeStep = 0
	_, err := New(c)
	assert.Error(t, err)

	c = DefaultConfig()
	c.VelocityIterations = 0
	_, err = New(c)
	assert.Error(t, err)
}

func TestCreateWallsRejectsFlatBoxes(t *testing.T) {
	e := newEngine(t)
	_, err := e.CreateWalls([]physics.Box{{
		Name:        "flat",
		HalfExtents: physics.Vec3{X: 1, Y: 0, Z: 1},
	}})
	assert.ErrorIs(t, err, physics.ErrInvalidShape)
}

func TestHandlesAreNotReused(t *testing.T) {
	e := newEngine(t)

	walls, err := e.CreateWalls([]physics.Box{
		{Name: "a", Position: physics.Vec3{Y: 5},
			HalfExtents: physics.Vec3{X: 1, Y: 0.1, Z: 1}},
		{Name: "b", Position: physics.Vec3{Y: -5},
			HalfExtents: physics.Vec3{X: 1, Y: 0.1, Z: 1}},
	})
	require.NoError(t, err)
	require.Len(t, walls, 2)
	assert.NotEqual(t, walls[0], walls[1])

	agent, err := e.CreateAgent(physics.R2D2())
	require.NoError(t, err)

	require.NoError(t, e.ResetWorld())
	_, err = e.QueryPose(agent)
	assert.ErrorIs(t, err, physics.ErrUnknownHandle)

	again, err := e.CreateAgent(physics.R2D2())
	require.NoError(t, err)
	assert.NotEqual(t, agent, again)
	assert.NotContains(t, walls, again)
}

func TestAgentAtRestStaysAtRest(t *testing.T) {
	e := newEngine(t)
	spec := physics.R2D2()
	agent, err := e.CreateAgent(spec)
	require.NoError(t, err)

	step(t, e, 100)
	assert.Equal(t, 100, e.Ticks())

	pose, err := e.QueryPose(agent)
	require.NoError(t, err)
	assert.InDelta(t, spec.Position.X, pose.Position.X, 1e-9)
	assert.InDelta(t, spec.Position.Y, pose.Position.Y, 1e-9)
	assert.Equal(t, spec.Position.Z, pose.Position.Z)
	assert.InDelta(t, 0.0, pose.Yaw(), 1e-9)
}

func TestForwardDrive(t *testing.T) {
	e := newEngine(t)
	agent, err := e.CreateAgent(physics.R2D2())
	require.NoError(t, err)

	drive(t, e, agent, -20, 2, 3, 6, 7)
	step(t, e, 240)

	pose, err := e.QueryPose(agent)
	require.NoError(t, err)
	assert.Greater(t, pose.Position.Y, 1.5)
	assert.InDelta(t, 0.0, pose.Position.X, 1e-3)
	assert.InDelta(t, 0.0, pose.Yaw(), 1e-3)
	assert.InDelta(t, 2.0, pose.LinearVelocity.Y, 0.1)

	require.Len(t, pose.JointVelocities, 4)
	for _, j := range []int{2, 3, 6, 7} {
		assert.InDelta(t, -20.0, pose.JointVelocities[j], 1.0)
	}

	// Reversing the targets drives the robot back
	drive(t, e, agent, 20, 2, 3, 6, 7)
	step(t, e, 240)
	pose, err = e.QueryPose(agent)
	require.NoError(t, err)
	assert.Less(t, pose.LinearVelocity.Y, 0.0)
}

func TestRotateInPlace(t *testing.T) {
	e := newEngine(t)
	agent, err := e.CreateAgent(physics.R2D2())
	require.NoError(t, err)

	// Right front forward and left back backward turn the robot left
	require.NoError(t, e.SetJointMotors(agent, []physics.MotorCommand{
		{JointIndex: 2, TargetVelocity: -80, MaxForce: 100},
		{JointIndex: 7, TargetVelocity: 80, MaxForce: 100},
	}))
	step(t, e, 30)

	pose, err := e.QueryPose(agent)
	require.NoError(t, err)
	assert.Greater(t, pose.AngularVelocity.Z, 0.0)
	assert.Greater(t, pose.Yaw(), 0.0)
}

func TestWallContact(t *testing.T) {
	e := newEngine(t)
	walls, err := e.CreateWalls([]physics.Box{{
		Name:        "ahead",
		Kind:        physics.Obstacle,
		Position:    physics.Vec3{Y: 1, Z: 1},
		HalfExtents: physics.Vec3{X: 2, Y: 0.1, Z: 1},
	}})
	require.NoError(t, err)

	agent, err := e.CreateAgent(physics.R2D2())
	require.NoError(t, err)

	contacts, err := e.QueryContacts(agent)
	require.NoError(t, err)
	assert.Empty(t, contacts)

	drive(t, e, agent, -20, 2, 3, 6, 7)

	touched := false
	for i := 0; i < 480 && !touched; i++ {
		require.NoError(t, e.Step())
		contacts, err = e.QueryContacts(agent)
		require.NoError(t, err)
		for _, c := range contacts {
			assert.Equal(t, agent, c.Body)
			if c.Other == walls[0] {
				touched = true
			}
		}
	}

	assert.True(t, touched)
	assert.Greater(t, e.BeginContacts(), 0)

	// The wall holds the robot back
	pose, err := e.QueryPose(agent)
	require.NoError(t, err)
	assert.Less(t, pose.Position.Y, 1.0)
}

func TestSetJointMotorsErrors(t *testing.T) {
	e := newEngine(t)
	agent, err := e.CreateAgent(physics.R2D2())
	require.NoError(t, err)

	err = e.SetJointMotors(agent, []physics.MotorCommand{{JointIndex: 42}})
	assert.Error(t, err)

	err = e.SetJointMotors(agent, []physics.MotorCommand{
		{JointIndex: 2, MaxForce: -1},
	})
	assert.Error(t, err)

	err = e.SetJointMotors(agent+100, nil)
	assert.ErrorIs(t, err, physics.ErrUnknownHandle)
}

func TestResetWorldClearsTicks(t *testing.T) {
	e := newEngine(t)
	step(t, e, 10)
	require.NoError(t, e.ResetWorld())
	assert.Equal(t, 0, e.Ticks())
	assert.Equal(t, 0, e.BeginContacts())
}

func TestClosed(t *testing.T) {
	e := newEngine(t)
	require.NoError(t, e.Close())
	require.NoError(t, e.Close())

	assert.ErrorIs(t, e.Step(), physics.ErrClosed)
	assert.ErrorIs(t, e.ResetWorld(), physics.ErrClosed)
	_, err := e.QueryContacts(0)
	assert.ErrorIs(t, err, physics.ErrClosed)
}
