package tensorutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func TestToVec(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6}
	dense := tensor.New(tensor.WithShape(2, 3), tensor.WithBacking(data))

	vec, err := ToVec(dense)
	require.NoError(t, err)
	assert.Equal(t, data, vec.RawVector().Data)

	// The vector owns its data
	vec.SetVec(0, 100)
	assert.Equal(t, 1.0, data[0])
}

func TestToVecErrors(t *testing.T) {
	_, err := ToVec(nil)
	assert.Error(t, err)

	ints := tensor.New(tensor.WithShape(2), tensor.WithBacking([]int{1, 2}))
	_, err = ToVec(ints)
	assert.Error(t, err)
}
