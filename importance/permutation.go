package importance

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/aouyang1/go-modeldiag/dataset"
	mat_ "github.com/aouyang1/go-modeldiag/mat"
	"github.com/aouyang1/go-modeldiag/models"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const DefaultRepeats = 5

var (
	ErrNegativeRepeats = errors.New("repeats must be positive")
	ErrTargetLen       = errors.New("target length does not match number of observations")
)

// PermutationOptions configures permutation importance
type PermutationOptions struct {
	// Repeats is the number of independent shuffles per feature
	Repeats int `yaml:"repeats"`

	// Seed makes the shuffles reproducible
	Seed uint64 `yaml:"seed"`
}

// NewDefaultPermutationOptions returns the default permutation importance options
func NewDefaultPermutationOptions() *PermutationOptions {
	return &PermutationOptions{
		Repeats: DefaultRepeats,
		Seed:    0,
	}
}

// Validate runs basic validation on permutation options
func (p *PermutationOptions) Validate() (*PermutationOptions, error) {
	if p == nil {
		p = NewDefaultPermutationOptions()
	}
	if p.Repeats <= 0 {
		return nil, ErrNegativeRepeats
	}
	return p, nil
}

// Permutation fits the model on the full frame and measures how much the score drops when each
// feature column is shuffled. Importance is the mean drop over repeats and StdErr its standard
// error. The table follows the frame's column order.
func Permutation(model models.Model, x *dataset.Frame, y []float64, opt *PermutationOptions) (Table, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	if x == nil {
		return nil, dataset.ErrNoData
	}
	if len(y) != x.Len() {
		return nil, fmt.Errorf("%d targets for %d observations, %w", len(y), x.Len(), ErrTargetLen)
	}

	xMx, err := x.Matrix()
	if err != nil {
		return nil, err
	}
	yMx := mat_.ColVector(y)

	if err := model.Fit(xMx, yMx); err != nil {
		return nil, fmt.Errorf("unable to fit model for permutation importance, %w", err)
	}
	baseline, err := model.Score(xMx, yMx)
	if err != nil {
		return nil, fmt.Errorf("unable to compute baseline score, %w", err)
	}

	rng := rand.New(rand.NewPCG(opt.Seed, opt.Seed))
	m, _ := xMx.Dims()
	names := x.Names()

	shuffled := mat.DenseCopyOf(xMx)
	col := make([]float64, m)
	drops := make([]float64, opt.Repeats)

	table := make(Table, 0, len(names))
	for j, name := range names {
		mat.Col(col, j, xMx)
		for r := 0; r < opt.Repeats; r++ {
			perm := rng.Perm(m)
			for i, p := range perm {
				shuffled.Set(i, j, col[p])
			}
			score, err := model.Score(shuffled, yMx)
			if err != nil {
				return nil, fmt.Errorf("unable to score with %s shuffled, %w", name, err)
			}
			drops[r] = baseline - score
		}
		shuffled.SetCol(j, col)

		mean := stat.Mean(drops, nil)
		var stdErr float64
		if opt.Repeats > 1 {
			stdErr = stat.StdDev(drops, nil) / math.Sqrt(float64(opt.Repeats))
		}
		table = append(table, Feature{
			Name:       name,
			Importance: mean,
			StdErr:     stdErr,
		})
		slog.Debug("computed permutation importance", "feature", name, "importance", mean, "std_error", stdErr)
	}
	return table, nil
}
