package models

import (
	"testing"

	"github.com/aouyang1/go-modeldiag/dataset"
	mat_ "github.com/aouyang1/go-modeldiag/mat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func testModel(t *testing.T, model LinearModel, x, y mat.Matrix, intercept float64, coef []float64, tol float64) {
	err := model.Fit(x, y)
	require.Nil(t, err)

	assert.InDelta(t, intercept, model.Intercept(), tol, "intercept")

	c := model.Coef()
	assert.InDeltaSlice(t, coef, c, tol, "coefficients")

	r2, err := model.Score(x, y)
	require.Nil(t, err)
	assert.InDelta(t, 1.0, r2, tol, "score")
}

func generateBenchData(nObs, nFeat int) (mat.Matrix, mat.Matrix, error) {
	names := make([]string, nFeat)
	coef := make([]float64, nFeat)
	for j := range names {
		names[j] = "x" + string(rune('a'+j%26))
		if j >= 26 {
			names[j] += string(rune('a' + j/26))
		}
		coef[j] = float64(j%7) - 3.0
	}
	f, y, err := dataset.GenerateLinear(42, nObs, names, 1.5, coef, 1.0)
	if err != nil {
		return nil, nil, err
	}
	x, err := f.Matrix()
	if err != nil {
		return nil, nil, err
	}
	return x, mat_.ColVector(y), nil
}
