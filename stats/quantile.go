package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// PlottingPositions returns the probabilities i/(n+1) for i in 1..n used to place ordered
// samples on a probability plot.
func PlottingPositions(n int) []float64 {
	pos := make([]float64, n)
	for i := range pos {
		pos[i] = float64(i+1) / float64(n+1)
	}
	return pos
}

// NormalQuantiles returns the standard normal quantiles at the plotting positions of n
// ordered samples, in ascending order.
func NormalQuantiles(n int) []float64 {
	q := PlottingPositions(n)
	for i, p := range q {
		q[i] = distuv.UnitNormal.Quantile(p)
	}
	return q
}

// Linspace returns n evenly spaced points over [start, end]
func Linspace(start, end float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (end - start) / float64(n-1)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	out[n-1] = end
	return out
}

// CooksContour returns the studentized residual at which an observation with leverage h has a
// Cook's distance equal to level for a model with p parameters.
func CooksContour(level float64, p int, h float64) float64 {
	return math.Sqrt(level * float64(p) * (1 - h) / h)
}
