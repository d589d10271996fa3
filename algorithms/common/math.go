package common

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Shared statistical helpers built on gonum.

// Mean calculates the arithmetic mean of a slice
func Mean(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return stat.Mean(data, nil)
}

// PopStdDev calculates the population standard deviation of a slice.
// Feature aggregation uses the population form so that single-frame
// inputs reduce to zero spread rather than NaN.
func PopStdDev(data []float64) float64 {
	if len(data) < 2 {
		return 0.0
	}
	return stat.PopStdDev(data, nil)
}

// Correlation calculates the Pearson correlation coefficient between two
// equal-length series. Returns 0 for degenerate input.
func Correlation(x, y []float64) float64 {
	if len(x) != len(y) || len(x) == 0 {
		return 0.0
	}

	r := stat.Correlation(x, y, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0.0
	}
	return r
}

// MaxAbs returns the largest absolute value in data, 0 for empty input
func MaxAbs(data []float64) float64 {
	if len(data) == 0 {
		return 0.0
	}
	return math.Max(math.Abs(floats.Max(data)), math.Abs(floats.Min(data)))
}

// RemoveMean subtracts the mean from data, returning a new slice
func RemoveMean(data []float64) []float64 {
	mean := Mean(data)
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = v - mean
	}
	return out
}

// ParabolicPeak refines an integer peak index to a fractional position by
// fitting a parabola through the peak and its neighbors. Returns the
// offset in [-0.5, 0.5] to add to the integer index.
func ParabolicPeak(data []float64, idx int) float64 {
	if idx <= 0 || idx >= len(data)-1 {
		return 0.0
	}

	alpha := data[idx-1]
	beta := data[idx]
	gamma := data[idx+1]

	denom := alpha - 2*beta + gamma
	if math.Abs(denom) < 1e-12 {
		return 0.0
	}

	offset := 0.5 * (alpha - gamma) / denom
	return Clamp(offset, -0.5, 0.5)
}

// Clamp constrains a value to a range
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
