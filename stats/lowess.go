package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultLowessFrac       = 2.0 / 3.0
	DefaultLowessIterations = 3
)

var (
	ErrLowessLenMismatch = errors.New("x and y have different lengths")
	ErrLowessFrac        = errors.New("lowess fraction must be in (0, 1]")
	ErrLowessIterations  = errors.New("negative lowess iterations")
	ErrLowessTooFewPnts  = errors.New("lowess needs at least 2 finite points")
)

// LowessOptions controls the locally weighted scatterplot smoothing
type LowessOptions struct {
	// Frac is the share of points used in each local regression
	Frac float64

	// Iterations is the number of robustifying passes after the initial fit
	Iterations int
}

// NewDefaultLowessOptions returns the conventional 2/3 span with 3 robust iterations
func NewDefaultLowessOptions() *LowessOptions {
	return &LowessOptions{
		Frac:       DefaultLowessFrac,
		Iterations: DefaultLowessIterations,
	}
}

// Validate runs basic validation on lowess options
func (l *LowessOptions) Validate() (*LowessOptions, error) {
	if l == nil {
		l = NewDefaultLowessOptions()
	}
	if l.Frac <= 0 || l.Frac > 1 {
		return nil, ErrLowessFrac
	}
	if l.Iterations < 0 {
		return nil, ErrLowessIterations
	}
	return l, nil
}

// Lowess smooths y against x with tricube weighted local linear regressions followed by
// bisquare robustness reweighting. Pairs containing NaN are ignored. The returned x is sorted
// ascending and paired with the smoothed y.
func Lowess(x, y []float64, opt *LowessOptions) ([]float64, []float64, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, nil, err
	}
	if len(x) != len(y) {
		return nil, nil, fmt.Errorf("x has %d points and y has %d points, %w", len(x), len(y), ErrLowessLenMismatch)
	}

	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	n := len(xs)
	if n < 2 {
		return nil, nil, ErrLowessTooFewPnts
	}

	order := Argsort(xs)
	sx := make([]float64, n)
	sy := make([]float64, n)
	for i, o := range order {
		sx[i] = xs[o]
		sy[i] = ys[o]
	}

	k := int(opt.Frac*float64(n) + 1e-10)
	if k < 2 {
		k = 2
	}
	if k > n {
		k = n
	}

	fitted := make([]float64, n)
	robust := make([]float64, n)
	for i := range robust {
		robust[i] = 1.0
	}
	weights := make([]float64, n)
	resid := make([]float64, n)

	for iter := 0; iter <= opt.Iterations; iter++ {
		left, right := 0, k-1
		for i := 0; i < n; i++ {
			for right < n-1 && sx[i]-sx[left] > sx[right+1]-sx[i] {
				left++
				right++
			}
			fitted[i] = localFit(sx, sy, robust, weights, i, left, right)
		}

		if iter == opt.Iterations {
			break
		}

		for i := range resid {
			resid[i] = math.Abs(sy[i] - fitted[i])
		}
		s := median(resid)
		for i, r := range resid {
			// an exact fit for most points leaves only the exactly fitted points in play
			if s == 0 {
				if r == 0 {
					robust[i] = 1
				} else {
					robust[i] = 0
				}
				continue
			}
			u := r / (6.0 * s)
			if u < 1 {
				robust[i] = (1 - u*u) * (1 - u*u)
			} else {
				robust[i] = 0
			}
		}
	}
	return sx, fitted, nil
}

// median averages the two middle values when x has an even length
func median(x []float64) float64 {
	sorted := make([]float64, len(x))
	copy(sorted, x)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return stat.Mean(sorted[n/2-1:n/2+1], nil)
}

// localFit estimates the smoothed value at sx[i] from the points in [left, right].
func localFit(sx, sy, robust, weights []float64, i, left, right int) float64 {
	xi := sx[i]
	radius := math.Max(xi-sx[left], sx[right]-xi)

	w := weights[left : right+1]
	for j := left; j <= right; j++ {
		d := math.Abs(sx[j] - xi)
		var tw float64
		switch {
		case radius == 0:
			tw = 1
		case d < radius:
			u := d / radius
			tw = math.Pow(1-u*u*u, 3)
		}
		w[j-left] = tw * robust[j]
	}

	sumW := floats.Sum(w)
	if sumW <= 0 || floats.Count(func(v float64) bool { return v != 0 }, w) == 1 {
		return sy[i]
	}
	wx := sx[left : right+1]
	wy := sy[left : right+1]

	xbar := floats.Dot(w, wx) / sumW
	ybar := floats.Dot(w, wy) / sumW

	var sxx, sxy float64
	for j := range w {
		dx := wx[j] - xbar
		sxx += w[j] * dx * dx
		sxy += w[j] * dx * (wy[j] - ybar)
	}
	if sxx <= 1e-12*sumW*math.Max(1, xbar*xbar) {
		return ybar
	}
	return ybar + sxy/sxx*(xi-xbar)
}
