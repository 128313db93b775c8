// Package elimination measures how cross validated model scores change as the least important
// features are dropped one at a time.
package elimination

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/aouyang1/go-modeldiag/dataset"
	"github.com/aouyang1/go-modeldiag/importance"
	mat_ "github.com/aouyang1/go-modeldiag/mat"
	"github.com/aouyang1/go-modeldiag/models"
	"github.com/aouyang1/go-modeldiag/selection"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultTestSize = 0.2
	DefaultSeed     = 0
	DefaultFolds    = 5
)

var (
	ErrStartOutOfRange = errors.New("start must be in [0, number of features)")
	ErrTargetLen       = errors.New("target length does not match number of observations")
	ErrNoModel         = errors.New("no model to evaluate")
)

// Options configures the sweep
type Options struct {
	// TestSize is the share of observations held out before cross validation
	TestSize float64 `yaml:"test_size"`

	// Seed fixes the train/test shuffle
	Seed uint64 `yaml:"seed"`

	// Folds is the number of cross validation folds on the training partition
	Folds int `yaml:"folds"`

	// Scorer produces the per fold scores. Defaults to unshuffled k-fold.
	Scorer selection.Scorer `yaml:"-"`
}

// NewDefaultOptions returns an 80/20 split with seed 0 and 5 fold cross validation
func NewDefaultOptions() *Options {
	return &Options{
		TestSize: DefaultTestSize,
		Seed:     DefaultSeed,
		Folds:    DefaultFolds,
		Scorer:   selection.KFoldScorer{},
	}
}

// Validate fills in defaults and checks ranges
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	if o.TestSize <= 0 || o.TestSize >= 1 {
		return nil, fmt.Errorf("got %.3f, %w", o.TestSize, selection.ErrTestSize)
	}
	if o.Folds < 2 {
		return nil, fmt.Errorf("got %d, %w", o.Folds, selection.ErrFolds)
	}
	if o.Scorer == nil {
		o.Scorer = selection.KFoldScorer{}
	}
	return o, nil
}

// DropFeatures sorts the importance table ascending and, for every trimmed count from start up
// to one remaining feature, keeps only the most important features, splits the data into a
// seeded train/test partition and cross validates the model on the training rows. The table
// passed in is never modified. Either every step succeeds or no result is returned.
func DropFeatures(model models.Model, table importance.Table, x *dataset.Frame, y []float64, start int, opt *Options) (*Result, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	if model == nil {
		return nil, ErrNoModel
	}
	if x == nil {
		return nil, dataset.ErrNoData
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}
	n := len(table)
	if start < 0 || start >= n {
		return nil, fmt.Errorf("start of %d with %d features, %w", start, n, ErrStartOutOfRange)
	}
	if missing := x.Missing(table.Names()...); len(missing) > 0 {
		return nil, fmt.Errorf("importance table features %v, %w", missing, dataset.ErrUnknownColumn)
	}
	if len(y) != x.Len() {
		return nil, fmt.Errorf("%d targets for %d observations, %w", len(y), x.Len(), ErrTargetLen)
	}

	split, err := selection.TrainTestSplit(x.Len(), opt.TestSize, opt.Seed)
	if err != nil {
		return nil, err
	}
	yTrain := make([]float64, len(split.Train))
	for i, r := range split.Train {
		yTrain[i] = y[r]
	}
	yTrainMx := mat_.ColVector(yTrain)

	trainFrame, err := x.Rows(split.Train)
	if err != nil {
		return nil, err
	}

	sorted := table.SortAscending()
	res := newResult(n - start)
	for trimmed := start; trimmed < n; trimmed++ {
		remaining := n - trimmed
		features := sorted.Last(remaining)

		reduced, err := trainFrame.Select(features...)
		if err != nil {
			return nil, err
		}
		xTrain, err := reduced.Matrix()
		if err != nil {
			return nil, err
		}

		scores, err := opt.Scorer.FitAndScore(model, xTrain, yTrainMx, opt.Folds)
		if err != nil {
			return nil, fmt.Errorf("unable to cross validate with %d features trimmed, %w", trimmed, err)
		}
		mean, std := stat.PopMeanStdDev(scores, nil)
		res.append(mean, std, trimmed)

		slog.Debug("evaluated trimmed feature set",
			"trimmed", trimmed,
			"remaining", remaining,
			"mean_score", mean,
			"std_score", std,
		)
	}
	return res, nil
}
