// Package dataset holds the tabular data consumed by the diagnostics and feature elimination
// routines: named float columns aligned to an explicit observation index.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	mat_ "github.com/aouyang1/go-modeldiag/mat"
	"gonum.org/v1/gonum/mat"
)

var (
	ErrNoData             = errors.New("no data")
	ErrUnknownColumn      = errors.New("column does not exist in dataset")
	ErrDuplicateColumn    = errors.New("column already exists in dataset")
	ErrDatasetLenMismatch = errors.New("column has a different length than the index")
	ErrNoColumns          = errors.New("no columns selected")
)

// Frame is a read only table of named feature columns. Every column is aligned to the same
// observation index so row labels survive selection, splitting and plotting.
type Frame struct {
	index []string
	names []string
	cols  map[string][]float64
}

// New returns a Frame from a set of column names and their values. If index is nil, rows are
// labelled by their position starting at 0.
func New(index []string, names []string, cols [][]float64) (*Frame, error) {
	if len(names) != len(cols) {
		return nil, fmt.Errorf("%d names for %d columns, %w", len(names), len(cols), ErrDatasetLenMismatch)
	}
	m := len(index)
	if index == nil {
		if len(cols) == 0 {
			return nil, ErrNoData
		}
		m = len(cols[0])
		index = PositionalIndex(m)
	}
	if m == 0 {
		return nil, ErrNoData
	}

	f := &Frame{
		index: make([]string, m),
		names: make([]string, 0, len(names)),
		cols:  make(map[string][]float64, len(names)),
	}
	copy(f.index, index)

	for i, name := range names {
		if _, exists := f.cols[name]; exists {
			return nil, fmt.Errorf("%s, %w", name, ErrDuplicateColumn)
		}
		if len(cols[i]) != m {
			return nil, fmt.Errorf(
				"column %s has length of %d, but index has a length of %d, %w",
				name, len(cols[i]), m, ErrDatasetLenMismatch,
			)
		}
		col := make([]float64, m)
		copy(col, cols[i])
		f.names = append(f.names, name)
		f.cols[name] = col
	}
	return f, nil
}

// PositionalIndex labels n rows by their position.
func PositionalIndex(n int) []string {
	index := make([]string, n)
	for i := range index {
		index[i] = strconv.Itoa(i)
	}
	return index
}

// Len returns the number of observations
func (f *Frame) Len() int {
	return len(f.index)
}

// Index returns a copy of the observation labels
func (f *Frame) Index() []string {
	index := make([]string, len(f.index))
	copy(index, f.index)
	return index
}

// Names returns the column names in insertion order
func (f *Frame) Names() []string {
	names := make([]string, len(f.names))
	copy(names, f.names)
	return names
}

// Has reports whether the named column exists
func (f *Frame) Has(name string) bool {
	_, exists := f.cols[name]
	return exists
}

// Missing returns the names that are not columns of the frame, preserving input order.
func (f *Frame) Missing(names ...string) []string {
	var missing []string
	for _, name := range names {
		if !f.Has(name) {
			missing = append(missing, name)
		}
	}
	return missing
}

// Column returns a copy of the named column
func (f *Frame) Column(name string) ([]float64, error) {
	col, exists := f.cols[name]
	if !exists {
		return nil, fmt.Errorf("%s, %w", name, ErrUnknownColumn)
	}
	out := make([]float64, len(col))
	copy(out, col)
	return out, nil
}

// Select returns a new frame with only the named columns in the given order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	if len(names) == 0 {
		return nil, ErrNoColumns
	}
	if missing := f.Missing(names...); len(missing) > 0 {
		return nil, fmt.Errorf("%v, %w", missing, ErrUnknownColumn)
	}
	cols := make([][]float64, 0, len(names))
	for _, name := range names {
		cols = append(cols, f.cols[name])
	}
	return New(f.index, names, cols)
}

// Drop returns a new frame without the named columns.
func (f *Frame) Drop(names ...string) (*Frame, error) {
	if missing := f.Missing(names...); len(missing) > 0 {
		return nil, fmt.Errorf("%v, %w", missing, ErrUnknownColumn)
	}
	drop := make(map[string]struct{}, len(names))
	for _, name := range names {
		drop[name] = struct{}{}
	}
	keep := make([]string, 0, len(f.names))
	for _, name := range f.names {
		if _, exists := drop[name]; exists {
			continue
		}
		keep = append(keep, name)
	}
	return f.Select(keep...)
}

// Rows returns a new frame with the requested rows in the given order. Index labels move with
// their rows.
func (f *Frame) Rows(rows []int) (*Frame, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	index := make([]string, len(rows))
	cols := make([][]float64, len(f.names))
	for j := range cols {
		cols[j] = make([]float64, len(rows))
	}
	for i, r := range rows {
		if r < 0 || r >= f.Len() {
			return nil, fmt.Errorf("row %d of %d, %w", r, f.Len(), mat_.ErrRowOutOfBounds)
		}
		index[i] = f.index[r]
		for j, name := range f.names {
			cols[j][i] = f.cols[name][r]
		}
	}
	return New(index, f.names, cols)
}

// DropMissing returns a new frame without the rows that hold a NaN in any column.
func (f *Frame) DropMissing() (*Frame, error) {
	rows := make([]int, 0, f.Len())
	for i := 0; i < f.Len(); i++ {
		complete := true
		for _, name := range f.names {
			if math.IsNaN(f.cols[name][i]) {
				complete = false
				break
			}
		}
		if complete {
			rows = append(rows, i)
		}
	}
	return f.Rows(rows)
}

// Matrix returns the frame as an observation by feature matrix with columns ordered as Names.
func (f *Frame) Matrix() (*mat.Dense, error) {
	cols := make([][]float64, 0, len(f.names))
	for _, name := range f.names {
		cols = append(cols, f.cols[name])
	}
	return mat_.NewDenseFromCols(cols)
}
