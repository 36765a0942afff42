// Package tensorutils implements utility functions for working with
// gorgonia tensors
package tensorutils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gorgonia.org/tensor"
)

// ToVec flattens a float64 tensor in row major order into a new vector.
// The vector does not share memory with the tensor.
func ToVec(t *tensor.Dense) (*mat.VecDense, error) {
	if t == nil {
		return nil, fmt.Errorf("toVec: nil tensor")
	}

	data, ok := t.Data().([]float64)
	if !ok {
		return nil, fmt.Errorf("toVec: tensor must have float64 data, "+
			"got %v", t.Dtype())
	}

	vec := make([]float64, len(data))
	copy(vec, data)
	return mat.NewVecDense(len(vec), vec), nil
}
