package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	mat_ "github.com/aouyang1/go-modeldiag/mat"
	"github.com/aouyang1/go-modeldiag/models"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrMinimumFeatures    = errors.New("need at least 2 features to compute VIF")
	ErrFeatureLenMismatch = errors.New("some feature length is not consistent")
	ErrFeatureLen         = errors.New("must have at least 2 points per feature")
)

// ArgsortAbsDesc returns the positions of x ordered by descending absolute value. Ties keep
// their original relative order.
func ArgsortAbsDesc(x []float64) []int {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return math.Abs(x[idx[i]]) > math.Abs(x[idx[j]])
	})
	return idx
}

// Argsort returns the positions of x ordered by ascending value. Ties keep their original
// relative order.
func Argsort(x []float64) []int {
	idx := make([]int, len(x))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		return x[idx[i]] < x[idx[j]]
	})
	return idx
}

// TopKAbs returns up to k positions of x with the largest absolute values, largest first.
func TopKAbs(x []float64, k int) []int {
	idx := ArgsortAbsDesc(x)
	if k < len(idx) {
		idx = idx[:k]
	}
	return idx
}

// VarianceInflationFactor regresses every feature on all others and reports 1/(1-R^2). Values
// well above 10 indicate multicollinearity that inflates leverage and coefficient variance.
func VarianceInflationFactor(features map[string][]float64) (map[string]float64, error) {
	if len(features) < 2 {
		return nil, ErrMinimumFeatures
	}
	var m int
	for _, feature := range features {
		if len(feature) < 2 {
			return nil, ErrFeatureLen
		}
		if m == 0 {
			m = len(feature)
			continue
		}
		if m != len(feature) {
			return nil, ErrFeatureLenMismatch
		}
	}

	vif := make(map[string]float64)
	for label, labelFeature := range features {
		others := make([][]float64, 0, len(features)-1)
		for otherLabel, otherLabelFeature := range features {
			if otherLabel == label {
				continue
			}
			others = append(others, otherLabelFeature)
		}
		x, err := mat_.NewDenseFromCols(others)
		if err != nil {
			return nil, err
		}
		y := mat.NewDense(m, 1, labelFeature)

		model, err := models.NewOLSRegression(nil)
		if err != nil {
			return nil, err
		}
		if err := model.Fit(x, y); err != nil {
			if errors.Is(err, models.ErrRankDeficient) {
				vif[label] = math.Inf(1)
				continue
			}
			return nil, fmt.Errorf("unable to regress %s on other features, %w", label, err)
		}
		r2, err := model.Score(x, y)
		if err != nil {
			return nil, fmt.Errorf("unable to score %s regression, %w", label, err)
		}
		vif[label] = 1.0 / (1.0 - r2)
	}
	return vif, nil
}
