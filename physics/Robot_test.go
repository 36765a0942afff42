package physics

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestR2D2(t *testing.T) {
	spec := R2D2()
	require.NoError(t, spec.Validate())

	indices := map[string]int{
		RightFrontWheel: 2,
		RightBackWheel:  3,
		LeftFrontWheel:  6,
		LeftBackWheel:   7,
	}
	for name, index := range indices {
		j, ok := spec.Joint(name)
		require.True(t, ok, name)
		assert.Equal(t, index, j.Index)
	}

	_, ok := spec.Joint("head_swivel")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	spec := R2D2()
	spec.HalfExtents.X = 0
	assert.ErrorIs(t, spec.Validate(), ErrInvalidShape)

	spec = R2D2()
	spec.Mass = 0
	assert.Error(t, spec.Validate())

	spec = R2D2()
	spec.Joints[1].Index = spec.Joints[0].Index
	assert.Error(t, spec.Validate())

	spec = R2D2()
	spec.Joints[0].Side = "up"
	assert.Error(t, spec.Validate())
}

func TestLoadAgentSpec(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "robot.yaml")
	data := []byte(`
name: heavy
mass: 25
position:
  x: 1
  y: 0
  z: 1
`)
	require.NoError(t, os.WriteFile(filename, data, 0o644))

	spec, err := LoadAgentSpec(filename)
	require.NoError(t, err)
	assert.Equal(t, "heavy", spec.Name)
	assert.Equal(t, 25.0, spec.Mass)
	assert.Equal(t, Vec3{X: 1, Y: 0, Z: 1}, spec.Position)

	// Unset fields keep the defaults
	assert.Equal(t, R2D2().Joints, spec.Joints)
	assert.Equal(t, R2D2().WheelRadius, spec.WheelRadius)
}

func TestLoadAgentSpecErrors(t *testing.T) {
	_, err := LoadAgentSpec(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.Is(err, os.ErrNotExist))

	filename := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(filename, []byte("mass: -3\n"), 0o644))
	_, err = LoadAgentSpec(filename)
	assert.Error(t, err)
}

func TestContactQueryError(t *testing.T) {
	cause := errors.New("broken manifold")
	var err error = &ContactQueryError{Body: 4, Err: cause}

	assert.True(t, IsContactQueryError(err))
	assert.ErrorIs(t, err, cause)
	assert.False(t, IsContactQueryError(cause))
}
