package weights

import (
	"golang.org/x/exp/rand"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// LinearUV initializes a single linear layer of weights, drawn from
// a univariate distribution
type LinearUV struct {
	distuv.Rander
}

// NewLinearUV  creates and returns a new LinearUV
func NewLinearUV(rand distuv.Rander) LinearUV {
	if rand == nil {
		panic("rand cannot be nil")
	}
	return LinearUV{rand}
}

// NewZero returns an initializer that sets all weights to zero
func NewZero() LinearUV {
	return NewLinearUV(NewZeroUV())
}

// NewUniform returns an initializer drawing weights uniformly from
// [min, max) with a source seeded by seed
func NewUniform(min, max float64, seed uint64) LinearUV {
	return NewLinearUV(distuv.Uniform{
		Min: min,
		Max: max,
		Src: rand.NewSource(seed),
	})
}

// Initialize initializes a matrix of weights using values drawn from
// a univariate distribution
func (l LinearUV) Initialize(weights *mat.Dense) {
	if weights == nil {
		return
	}

	backingData := weights.RawMatrix().Data
	for i := 0; i < len(backingData); i++ {
		backingData[i] = l.Rand()
	}
}
