package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// OLSResults captures a fit along with the per observation influence statistics used for
// regression diagnostics. All slices are indexed by observation in training row order.
type OLSResults struct {
	fitted      []float64
	resid       []float64
	leverage    []float64
	studentized []float64
	cooks       []float64
	numParams   int
	sigma       float64
}

// Influence fits the model on x and y and derives the hat matrix diagonal, internally
// studentized residuals and Cook's distance for every training observation.
func (o *OLSRegression) Influence(x, y mat.Matrix) (*OLSResults, error) {
	qr, err := o.fit(x, y)
	if err != nil {
		return nil, err
	}

	fitted, err := o.Predict(x)
	if err != nil {
		return nil, fmt.Errorf("unable to predict training data, %w", err)
	}

	m, _ := x.Dims()
	p := o.NumParams()
	if m <= p {
		return nil, fmt.Errorf("%d observations for %d parameters, %w", m, p, ErrInsufficientDOF)
	}

	resid := mat.Col(nil, 0, y)
	floats.Sub(resid, fitted)

	// diagonal of H = Q1 Q1' where Q1 holds the first p columns of Q
	q := new(mat.Dense)
	qr.QTo(q)
	leverage := make([]float64, m)
	for i := 0; i < m; i++ {
		var h float64
		for j := 0; j < p; j++ {
			qij := q.At(i, j)
			h += qij * qij
		}
		leverage[i] = h
	}

	sse := floats.Dot(resid, resid)
	sigma := math.Sqrt(sse / float64(m-p))

	studentized := make([]float64, m)
	cooks := make([]float64, m)
	for i := 0; i < m; i++ {
		h := leverage[i]
		studentized[i] = resid[i] / (sigma * math.Sqrt(1.0-h))
		cooks[i] = studentized[i] * studentized[i] / float64(p) * h / (1.0 - h)
	}

	return &OLSResults{
		fitted:      fitted,
		resid:       resid,
		leverage:    leverage,
		studentized: studentized,
		cooks:       cooks,
		numParams:   p,
		sigma:       sigma,
	}, nil
}

// FittedValues returns the in-sample predictions
func (r *OLSResults) FittedValues() []float64 {
	return copySlice(r.fitted)
}

// Residuals returns observed minus fitted values
func (r *OLSResults) Residuals() []float64 {
	return copySlice(r.resid)
}

// Leverage returns the diagonal of the hat matrix
func (r *OLSResults) Leverage() []float64 {
	return copySlice(r.leverage)
}

// StudentizedResiduals returns the residuals scaled by their estimated standard deviation
// using the full sample variance estimate.
func (r *OLSResults) StudentizedResiduals() []float64 {
	return copySlice(r.studentized)
}

// CooksDistance returns the influence of each observation on the fitted coefficients
func (r *OLSResults) CooksDistance() []float64 {
	return copySlice(r.cooks)
}

// NumParams is the number of estimated parameters including the intercept
func (r *OLSResults) NumParams() int {
	return r.numParams
}

// Sigma is the residual standard error
func (r *OLSResults) Sigma() float64 {
	return r.sigma
}

func copySlice(x []float64) []float64 {
	out := make([]float64, len(x))
	copy(out, x)
	return out
}
