package mat

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

var (
	ErrNegativeDim        = errors.New("negative dimensions not allowed")
	ErrColMismatch        = errors.New("column size mismatch")
	ErrRowMismatch        = errors.New("row size mismatch")
	ErrUninitializedArray = errors.New("uninitialized array")
	ErrRowOutOfBounds     = errors.New("row is out of bounds")
	ErrColOutOfBounds     = errors.New("column is out of bounds")
)

// NewDenseFromArray builds a dense matrix from a row major slice of rows. All rows must have
// the same number of columns.
func NewDenseFromArray(x [][]float64) (*mat.Dense, error) {
	m := len(x)

	n := -1
	for i, row := range x {
		if n >= 0 && len(row) != n {
			return nil, fmt.Errorf("at row %d, %w", i, ErrColMismatch)
		}
		if n < 0 {
			n = len(row)
		}
	}
	if n < 0 {
		n = 0
	}

	// flatten to row order
	data := make([]float64, 0, m*n)
	for _, row := range x {
		data = append(data, row...)
	}
	return mat.NewDense(m, n, data), nil
}

// NewDenseFromCols builds a dense matrix where each input slice becomes a column. All columns
// must have the same number of rows.
func NewDenseFromCols(cols [][]float64) (*mat.Dense, error) {
	n := len(cols)
	if n == 0 {
		return nil, mat.ErrZeroLength
	}
	m := len(cols[0])
	for j, col := range cols {
		if len(col) != m {
			return nil, fmt.Errorf("at column %d, %w", j, ErrRowMismatch)
		}
	}
	if m == 0 {
		return nil, mat.ErrZeroLength
	}

	data := make([]float64, m*n)
	for j, col := range cols {
		for i, val := range col {
			data[i*n+j] = val
		}
	}
	return mat.NewDense(m, n, data), nil
}

// SelectRows copies the requested rows of x, in the order given, into a new dense matrix.
func SelectRows(x mat.Matrix, rows []int) (*mat.Dense, error) {
	if x == nil {
		return nil, ErrUninitializedArray
	}
	if len(rows) == 0 {
		return nil, mat.ErrZeroLength
	}
	m, _ := x.Dims()

	out := make([][]float64, 0, len(rows))
	for _, r := range rows {
		if r < 0 || r >= m {
			return nil, fmt.Errorf("row %d of %d, %w", r, m, ErrRowOutOfBounds)
		}
		out = append(out, mat.Row(nil, r, x))
	}
	return NewDenseFromArray(out)
}

// ColVector wraps a slice as a single column matrix without copying.
func ColVector(y []float64) *mat.Dense {
	return mat.NewDense(len(y), 1, y)
}
