package selection

import (
	"fmt"
	"log/slog"

	mat_ "github.com/aouyang1/go-modeldiag/mat"
	"github.com/aouyang1/go-modeldiag/models"
	"gonum.org/v1/gonum/mat"
)

// Scorer fits a model on folds of the training data and returns one score per fold
type Scorer interface {
	FitAndScore(model models.Model, x, y mat.Matrix, folds int) ([]float64, error)
}

// ScorerFunc adapts a plain function into a Scorer
type ScorerFunc func(model models.Model, x, y mat.Matrix, folds int) ([]float64, error)

func (f ScorerFunc) FitAndScore(model models.Model, x, y mat.Matrix, folds int) ([]float64, error) {
	return f(model, x, y, folds)
}

// KFoldScorer runs unshuffled k-fold cross validation using the model's own Score on each
// held out block.
type KFoldScorer struct{}

// FitAndScore refits the model on every fold. The model instance is reused so its Fit must
// reset prior state.
func (KFoldScorer) FitAndScore(model models.Model, x, y mat.Matrix, folds int) ([]float64, error) {
	if x == nil {
		return nil, models.ErrNoTrainingMatrix
	}
	if y == nil {
		return nil, models.ErrNoTargetMatrix
	}
	m, _ := x.Dims()
	ym, _ := y.Dims()
	if m != ym {
		return nil, fmt.Errorf("training data has %d rows and target has %d row, %w", m, ym, models.ErrTargetLenMismatch)
	}

	kfolds, err := KFold(m, folds)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, 0, len(kfolds))
	for i, fold := range kfolds {
		score, err := scoreFold(model, x, y, fold)
		if err != nil {
			return nil, fmt.Errorf("fold %d, %w", i, err)
		}
		slog.Debug("scored cross validation fold", "fold", i, "train", len(fold.Train), "validate", len(fold.Validate), "score", score)
		scores = append(scores, score)
	}
	return scores, nil
}

func scoreFold(model models.Model, x, y mat.Matrix, fold Fold) (float64, error) {
	xTrain, err := mat_.SelectRows(x, fold.Train)
	if err != nil {
		return 0, err
	}
	yTrain, err := mat_.SelectRows(y, fold.Train)
	if err != nil {
		return 0, err
	}
	xVal, err := mat_.SelectRows(x, fold.Validate)
	if err != nil {
		return 0, err
	}
	yVal, err := mat_.SelectRows(y, fold.Validate)
	if err != nil {
		return 0, err
	}

	if err := model.Fit(xTrain, yTrain); err != nil {
		return 0, fmt.Errorf("unable to fit model, %w", err)
	}
	return model.Score(xVal, yVal)
}
