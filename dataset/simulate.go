package dataset

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
)

// Series is a helper for composing synthetic columns
type Series []float64

func (s Series) Add(src Series) Series {
	floats.Add(s, src)
	return s
}

func (s Series) AddScaled(alpha float64, src Series) Series {
	floats.AddScaled(s, alpha, src)
	return s
}

// SetAt overwrites a single observation, useful for planting outliers.
func (s Series) SetAt(i int, val float64) Series {
	s[i] = val
	return s
}

func GenerateConstY(n int, val float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, val)
	}
	return Series(y)
}

// GenerateUniform draws n values in [lo, hi) from the seeded source.
func GenerateUniform(rng *rand.Rand, n int, lo, hi float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, lo+rng.Float64()*(hi-lo))
	}
	return Series(y)
}

// GenerateNoise draws n gaussian values with the given scale from the seeded source.
func GenerateNoise(rng *rand.Rand, n int, scale float64) Series {
	y := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		y = append(y, rng.NormFloat64()*scale)
	}
	return Series(y)
}

// NewRand returns a deterministic random source for the seed.
func NewRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}

// GenerateLinear builds a frame of uniformly distributed features and a target following
// y = intercept + sum(coef[j]*x[j]) + noise. Feature names are taken from names.
func GenerateLinear(seed uint64, n int, names []string, intercept float64, coef []float64, noiseScale float64) (*Frame, Series, error) {
	rng := NewRand(seed)
	cols := make([][]float64, len(names))
	y := GenerateConstY(n, intercept)
	for j := range names {
		x := GenerateUniform(rng, n, 0.0, 10.0)
		cols[j] = x
		if j < len(coef) {
			y.AddScaled(coef[j], x)
		}
	}
	y.Add(GenerateNoise(rng, n, noiseScale))

	f, err := New(nil, names, cols)
	if err != nil {
		return nil, nil, err
	}
	return f, y, nil
}
