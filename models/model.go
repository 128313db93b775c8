// Package models holds the regression capabilities consumed by the diagnostics and feature
// elimination routines.
package models

import (
	"gonum.org/v1/gonum/mat"
)

// Model is anything that can be fit on a design matrix and scored against held out data.
// Fit must fully reset any previously trained state so a single instance can be reused across
// cross validation folds.
type Model interface {
	Fit(x, y mat.Matrix) error
	Predict(x mat.Matrix) ([]float64, error)
	Score(x, y mat.Matrix) (float64, error)
}

// LinearModel exposes the trained weights of a linear model
type LinearModel interface {
	Model
	Intercept() float64
	Coef() []float64
}
