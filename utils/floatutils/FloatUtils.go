// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// Wrap wraps a value into the interval [min, max)
func Wrap(value, min, max float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}

	diff := max - min
	value = math.Mod(value-min, diff)
	if value < 0 {
		value += diff
	}
	return value + min
}

// AbsMax returns the largest absolute value in a slice, or 0 for an
// empty slice
func AbsMax(values []float64) float64 {
	max := 0.0
	for _, v := range values {
		if a := math.Abs(v); a > max {
			max = a
		}
	}
	return max
}
