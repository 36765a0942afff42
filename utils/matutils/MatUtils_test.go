package matutils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/mat"
)

func TestMaxVec(t *testing.T) {
	assert.Equal(t, 2, MaxVec(mat.NewVecDense(4, []float64{1, 3, 5, 2})))
	assert.Equal(t, 0, MaxVec(mat.NewVecDense(3, []float64{7, 7, 7})))
	assert.Equal(t, 1, MaxVec(mat.NewVecDense(3, []float64{-2, -1, -3})))
}

func TestFormat(t *testing.T) {
	assert.NotEmpty(t, Format(mat.NewDense(2, 2, []float64{1, 2, 3, 4})))
}
