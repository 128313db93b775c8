package dataset

import (
	"math"
	"strings"
	"testing"

	mat_ "github.com/aouyang1/go-modeldiag/mat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNew(t *testing.T) {
	testData := map[string]struct {
		index []string
		names []string
		cols  [][]float64
		err   error
	}{
		"positional index": {
			nil,
			[]string{"a", "b"},
			[][]float64{{1, 2, 3}, {4, 5, 6}},
			nil,
		},
		"explicit index": {
			[]string{"x", "y", "z"},
			[]string{"a"},
			[][]float64{{1, 2, 3}},
			nil,
		},
		"no columns": {nil, nil, nil, ErrNoData},
		"names mismatch": {
			nil,
			[]string{"a", "b"},
			[][]float64{{1, 2, 3}},
			ErrDatasetLenMismatch,
		},
		"ragged column": {
			nil,
			[]string{"a", "b"},
			[][]float64{{1, 2, 3}, {4, 5}},
			ErrDatasetLenMismatch,
		},
		"duplicate column": {
			nil,
			[]string{"a", "a"},
			[][]float64{{1, 2}, {4, 5}},
			ErrDuplicateColumn,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			f, err := New(td.index, td.names, td.cols)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.names, f.Names())
			assert.Equal(t, len(td.cols[0]), f.Len())
			if td.index == nil {
				assert.Equal(t, PositionalIndex(f.Len()), f.Index())
			} else {
				assert.Equal(t, td.index, f.Index())
			}
		})
	}
}

func TestFrameCopiesInput(t *testing.T) {
	col := []float64{1, 2, 3}
	f, err := New(nil, []string{"a"}, [][]float64{col})
	require.Nil(t, err)

	col[0] = 100
	out, err := f.Column("a")
	require.Nil(t, err)
	assert.Equal(t, []float64{1, 2, 3}, out)

	out[1] = 100
	out, err = f.Column("a")
	require.Nil(t, err)
	assert.Equal(t, []float64{1, 2, 3}, out)
}

func TestFrameSelectDrop(t *testing.T) {
	f, err := New(
		[]string{"r0", "r1"},
		[]string{"a", "b", "c"},
		[][]float64{{1, 2}, {3, 4}, {5, 6}},
	)
	require.Nil(t, err)

	sel, err := f.Select("c", "a")
	require.Nil(t, err)
	assert.Equal(t, []string{"c", "a"}, sel.Names())
	assert.Equal(t, []string{"r0", "r1"}, sel.Index())

	_, err = f.Select("a", "missing")
	assert.ErrorIs(t, err, ErrUnknownColumn)

	_, err = f.Select()
	assert.ErrorIs(t, err, ErrNoColumns)

	dropped, err := f.Drop("b")
	require.Nil(t, err)
	assert.Equal(t, []string{"a", "c"}, dropped.Names())

	_, err = f.Drop("missing")
	assert.ErrorIs(t, err, ErrUnknownColumn)

	assert.Equal(t, []string{"x", "y"}, f.Missing("a", "x", "b", "y"))
}

func TestFrameRows(t *testing.T) {
	f, err := New(
		[]string{"r0", "r1", "r2"},
		[]string{"a", "b"},
		[][]float64{{1, 2, 3}, {4, 5, 6}},
	)
	require.Nil(t, err)

	sub, err := f.Rows([]int{2, 0})
	require.Nil(t, err)
	assert.Equal(t, []string{"r2", "r0"}, sub.Index())

	a, err := sub.Column("a")
	require.Nil(t, err)
	assert.Equal(t, []float64{3, 1}, a)

	_, err = f.Rows([]int{3})
	assert.ErrorIs(t, err, mat_.ErrRowOutOfBounds)

	_, err = f.Rows(nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestFrameDropMissing(t *testing.T) {
	f, err := New(
		[]string{"r0", "r1", "r2", "r3"},
		[]string{"a", "b"},
		[][]float64{{1, math.NaN(), 3, 4}, {5, 6, 7, math.NaN()}},
	)
	require.Nil(t, err)

	complete, err := f.DropMissing()
	require.Nil(t, err)
	assert.Equal(t, []string{"r0", "r2"}, complete.Index())

	b, err := complete.Column("b")
	require.Nil(t, err)
	assert.Equal(t, []float64{5, 7}, b)

	allMissing, err := New(nil, []string{"a"}, [][]float64{{math.NaN()}})
	require.Nil(t, err)
	_, err = allMissing.DropMissing()
	assert.ErrorIs(t, err, ErrNoData)
}

func TestFrameMatrix(t *testing.T) {
	f, err := New(nil, []string{"a", "b"}, [][]float64{{1, 2, 3}, {4, 5, 6}})
	require.Nil(t, err)

	x, err := f.Matrix()
	require.Nil(t, err)

	m, n := x.Dims()
	assert.Equal(t, 3, m)
	assert.Equal(t, 2, n)
	assert.Equal(t, []float64{2, 5}, mat.Row(nil, 1, x))
}

func TestReadCSV(t *testing.T) {
	testData := map[string]struct {
		input string
		opt   *CSVOptions
		names []string
		index []string
		err   error
	}{
		"positional": {
			input: "a,b\n1,2\n3,4\n",
			names: []string{"a", "b"},
			index: []string{"0", "1"},
		},
		"index column": {
			input: "id,a,b\nfoo,1,2\nbar,3,4\n",
			opt:   &CSVOptions{IndexColumn: "id"},
			names: []string{"a", "b"},
			index: []string{"foo", "bar"},
		},
		"semicolon": {
			input: "a;b\n1;2\n",
			opt:   &CSVOptions{Comma: ';'},
			names: []string{"a", "b"},
			index: []string{"0"},
		},
		"missing index column": {
			input: "a,b\n1,2\n",
			opt:   &CSVOptions{IndexColumn: "id"},
			err:   ErrUnknownColumn,
		},
		"empty": {
			input: "",
			err:   ErrMissingHeader,
		},
		"header only": {
			input: "a,b\n",
			err:   ErrNoData,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			f, err := ReadCSV(strings.NewReader(td.input), td.opt)
			if td.err != nil {
				require.ErrorIs(t, err, td.err)
				return
			}
			require.Nil(t, err)
			assert.Equal(t, td.names, f.Names())
			assert.Equal(t, td.index, f.Index())
		})
	}
}

func TestReadCSVMissingValues(t *testing.T) {
	f, err := ReadCSV(strings.NewReader("a\n1\nNA\n\n2.5\n"), nil)
	require.Nil(t, err)

	// csv skips blank lines entirely
	a, err := f.Column("a")
	require.Nil(t, err)
	require.Len(t, a, 3)
	assert.Equal(t, 1.0, a[0])
	assert.True(t, math.IsNaN(a[1]))
	assert.Equal(t, 2.5, a[2])

	_, err = ReadCSV(strings.NewReader("a\nfoo\n"), nil)
	assert.Error(t, err)
}

func TestGenerateLinear(t *testing.T) {
	f, y, err := GenerateLinear(7, 50, []string{"x0", "x1"}, 2.0, []float64{3.0, -1.0}, 0.0)
	require.Nil(t, err)
	require.Equal(t, 50, f.Len())
	require.Len(t, y, 50)

	x0, err := f.Column("x0")
	require.Nil(t, err)
	x1, err := f.Column("x1")
	require.Nil(t, err)
	for i := range y {
		assert.InDelta(t, 2.0+3.0*x0[i]-x1[i], y[i], 1e-9)
	}

	g, y2, err := GenerateLinear(7, 50, []string{"x0", "x1"}, 2.0, []float64{3.0, -1.0}, 0.0)
	require.Nil(t, err)
	assert.Equal(t, y, y2)
	assert.Equal(t, f.Names(), g.Names())
}
