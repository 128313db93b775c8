// Package selection partitions observations for model evaluation: seeded train/test splits,
// k-fold assignment and cross validated scoring.
package selection

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
)

var (
	ErrTestSize    = errors.New("test size must be in (0, 1)")
	ErrTooFewRows  = errors.New("not enough observations to partition")
	ErrFolds       = errors.New("number of folds must be at least 2")
	ErrFoldsExceed = errors.New("number of folds exceeds number of observations")
)

// Split holds row positions for the training and test partitions
type Split struct {
	Train []int
	Test  []int
}

// TrainTestSplit shuffles n row positions with a seeded source and assigns the first
// ceil(testSize*n) of them to the test partition. The same seed always yields the same split.
func TrainTestSplit(n int, testSize float64, seed uint64) (Split, error) {
	if testSize <= 0 || testSize >= 1 {
		return Split{}, fmt.Errorf("got %.3f, %w", testSize, ErrTestSize)
	}
	nTest := int(math.Ceil(testSize * float64(n)))
	nTrain := n - nTest
	if nTest < 1 || nTrain < 1 {
		return Split{}, fmt.Errorf("%d observations with test size %.3f, %w", n, testSize, ErrTooFewRows)
	}

	rng := rand.New(rand.NewPCG(seed, seed))
	perm := rng.Perm(n)

	return Split{
		Train: perm[nTest:],
		Test:  perm[:nTest],
	}, nil
}

// Fold holds the row positions used to train and validate one round of k-fold cross validation
type Fold struct {
	Train    []int
	Validate []int
}

// KFold partitions n consecutive rows into k contiguous validation blocks without shuffling.
// The first n%k blocks hold one extra row.
func KFold(n, k int) ([]Fold, error) {
	if k < 2 {
		return nil, fmt.Errorf("got %d, %w", k, ErrFolds)
	}
	if k > n {
		return nil, fmt.Errorf("%d folds for %d observations, %w", k, n, ErrFoldsExceed)
	}

	folds := make([]Fold, 0, k)
	start := 0
	for f := 0; f < k; f++ {
		size := n / k
		if f < n%k {
			size++
		}
		end := start + size

		validate := make([]int, 0, size)
		train := make([]int, 0, n-size)
		for i := 0; i < n; i++ {
			if i >= start && i < end {
				validate = append(validate, i)
				continue
			}
			train = append(train, i)
		}
		folds = append(folds, Fold{Train: train, Validate: validate})
		start = end
	}
	return folds, nil
}
