package elimination

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/aouyang1/go-modeldiag/dataset"
	"github.com/aouyang1/go-modeldiag/importance"
	"github.com/aouyang1/go-modeldiag/models"
	"github.com/aouyang1/go-modeldiag/selection"
	"github.com/goccy/go-json"
	"github.com/pkg/profile"
	"gonum.org/v1/gonum/mat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// taggedFrame builds a frame where every value of a column equals the column's tag so a stub
// scorer can tell which features it received.
func taggedFrame(t *testing.T, n int, names []string) (*dataset.Frame, []float64) {
	t.Helper()
	cols := make([][]float64, len(names))
	for j := range names {
		cols[j] = dataset.GenerateConstY(n, float64(j+1))
	}
	f, err := dataset.New(nil, names, cols)
	require.Nil(t, err)
	return f, dataset.GenerateConstY(n, 0)
}

type recordingScorer struct {
	calls   int
	rows    []int
	columns [][]float64
	err     error
}

func (r *recordingScorer) FitAndScore(model models.Model, x, y mat.Matrix, folds int) ([]float64, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	m, n := x.Dims()
	r.rows = append(r.rows, m)
	tags := make([]float64, n)
	for j := 0; j < n; j++ {
		tags[j] = x.At(0, j)
	}
	r.columns = append(r.columns, tags)

	scores := make([]float64, folds)
	for i := range scores {
		scores[i] = float64(n) + float64(i)
	}
	return scores, nil
}

func newOLS(t *testing.T) models.Model {
	t.Helper()
	model, err := models.NewOLSRegression(nil)
	require.Nil(t, err)
	return model
}

func exampleTable() importance.Table {
	// tags follow frame column order a=1, b=2, c=3, d=4
	return importance.Table{
		{Name: "c", Importance: 0.3},
		{Name: "a", Importance: 0.9},
		{Name: "d", Importance: 0.1},
		{Name: "b", Importance: 0.5},
	}
}

func TestDropFeaturesSteps(t *testing.T) {
	names := []string{"a", "b", "c", "d"}

	testData := map[string]struct {
		start           int
		expectedTrimmed []int
		expectedTags    [][]float64
	}{
		"from zero": {
			start:           0,
			expectedTrimmed: []int{0, 1, 2, 3},
			expectedTags:    [][]float64{{4, 3, 2, 1}, {3, 2, 1}, {2, 1}, {1}},
		},
		"from two": {
			start:           2,
			expectedTrimmed: []int{2, 3},
			expectedTags:    [][]float64{{2, 1}, {1}},
		},
		"single feature": {
			start:           3,
			expectedTrimmed: []int{3},
			expectedTags:    [][]float64{{1}},
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			x, y := taggedFrame(t, 100, names)
			scorer := &recordingScorer{}
			opt := NewDefaultOptions()
			opt.Scorer = scorer

			res, err := DropFeatures(newOLS(t), exampleTable(), x, y, td.start, opt)
			require.Nil(t, err)

			assert.Equal(t, len(names)-td.start, res.Len())
			assert.Len(t, res.MeanScores, res.Len())
			assert.Len(t, res.StdScores, res.Len())
			assert.Equal(t, td.expectedTrimmed, res.NumTrimmed)
			assert.Equal(t, td.expectedTags, scorer.columns)

			for i, r := range scorer.rows {
				assert.Equal(t, 80, r, "step %d trains on the 80%% partition", i)
			}

			// stub scores are remaining+[0..4] so mean is remaining+2 and population std is sqrt(2)
			for i, trimmed := range res.NumTrimmed {
				assert.InDelta(t, float64(len(names)-trimmed)+2.0, res.MeanScores[i], 1e-9)
				assert.InDelta(t, 1.41421356, res.StdScores[i], 1e-8)
			}
		})
	}
}

func TestDropFeaturesSortIdempotent(t *testing.T) {
	names := []string{"strong", "medium", "weak", "noise"}
	x, y, err := dataset.GenerateLinear(3, 150, names, 2.0, []float64{4.0, 2.0, 0.5, 0.0}, 0.3)
	require.Nil(t, err)

	table := importance.Table{
		{Name: "weak", Importance: 0.05},
		{Name: "strong", Importance: 0.8},
		{Name: "noise", Importance: 0.0},
		{Name: "medium", Importance: 0.3},
	}
	orig := make(importance.Table, len(table))
	copy(orig, table)

	shuffledRes, err := DropFeatures(newOLS(t), table, x, y, 0, nil)
	require.Nil(t, err)
	assert.Equal(t, orig, table, "caller's table must not be reordered")

	sortedRes, err := DropFeatures(newOLS(t), table.SortAscending(), x, y, 0, nil)
	require.Nil(t, err)
	assert.Equal(t, shuffledRes, sortedRes)

	again, err := DropFeatures(newOLS(t), table, x, y, 0, nil)
	require.Nil(t, err)
	assert.Equal(t, shuffledRes, again)

	// keeping only the strongest feature still explains most of the variance
	require.Equal(t, 4, shuffledRes.Len())
	assert.Greater(t, shuffledRes.MeanScores[0], 0.95)
	assert.Greater(t, shuffledRes.MeanScores[3], 0.5)
	assert.GreaterOrEqual(t, shuffledRes.MeanScores[0], shuffledRes.MeanScores[3])
	for _, std := range shuffledRes.StdScores {
		assert.GreaterOrEqual(t, std, 0.0)
	}
}

func TestDropFeaturesSortIdempotentTies(t *testing.T) {
	names := []string{"a", "b", "c"}
	x, y, err := dataset.GenerateLinear(5, 150, names, 0.0, []float64{5.0, 0.1, 3.0}, 0.3)
	require.Nil(t, err)

	testData := map[string]struct {
		table importance.Table
	}{
		"a before b": {importance.Table{{Name: "a", Importance: 0.5}, {Name: "b", Importance: 0.5}, {Name: "c", Importance: 0.9}}},
		"b before a": {importance.Table{{Name: "b", Importance: 0.5}, {Name: "a", Importance: 0.5}, {Name: "c", Importance: 0.9}}},
		"c first":    {importance.Table{{Name: "c", Importance: 0.9}, {Name: "a", Importance: 0.5}, {Name: "b", Importance: 0.5}}},
	}

	expected, err := DropFeatures(newOLS(t), testData["a before b"].table.SortAscending(), x, y, 0, nil)
	require.Nil(t, err)

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			res, err := DropFeatures(newOLS(t), td.table, x, y, 0, nil)
			require.Nil(t, err)
			assert.Equal(t, expected, res)
		})
	}
}

func TestDropFeaturesSeed(t *testing.T) {
	x, y, err := dataset.GenerateLinear(11, 120, []string{"a", "b"}, 0.0, []float64{1.0, 1.0}, 1.0)
	require.Nil(t, err)
	table := importance.Table{{Name: "a", Importance: 1}, {Name: "b", Importance: 2}}

	opt := NewDefaultOptions()
	base, err := DropFeatures(newOLS(t), table, x, y, 0, opt)
	require.Nil(t, err)

	opt = NewDefaultOptions()
	opt.Seed = 42
	reseeded, err := DropFeatures(newOLS(t), table, x, y, 0, opt)
	require.Nil(t, err)

	assert.NotEqual(t, base.MeanScores, reseeded.MeanScores)
	assert.Equal(t, base.NumTrimmed, reseeded.NumTrimmed)
}

func TestDropFeaturesErrors(t *testing.T) {
	names := []string{"a", "b", "c", "d"}
	stubErr := errors.New("scorer exploded")

	testData := map[string]struct {
		table         importance.Table
		yLen          int
		start         int
		opt           *Options
		scorerErr     error
		expectedErr   error
		expectedCalls int
	}{
		"unknown feature": {
			table:       append(exampleTable(), importance.Feature{Name: "zzz", Importance: 1.0}),
			yLen:        100,
			start:       0,
			expectedErr: dataset.ErrUnknownColumn,
		},
		"start negative": {
			table:       exampleTable(),
			yLen:        100,
			start:       -1,
			expectedErr: ErrStartOutOfRange,
		},
		"start at feature count": {
			table:       exampleTable(),
			yLen:        100,
			start:       4,
			expectedErr: ErrStartOutOfRange,
		},
		"target length": {
			table:       exampleTable(),
			yLen:        99,
			start:       0,
			expectedErr: ErrTargetLen,
		},
		"empty table": {
			table:       importance.Table{},
			yLen:        100,
			start:       0,
			expectedErr: importance.ErrEmptyTable,
		},
		"duplicate feature": {
			table:       importance.Table{{Name: "a"}, {Name: "a"}},
			yLen:        100,
			start:       0,
			expectedErr: importance.ErrDuplicateFeature,
		},
		"bad test size": {
			table:       exampleTable(),
			yLen:        100,
			start:       0,
			opt:         &Options{TestSize: 1.5, Folds: 5},
			expectedErr: selection.ErrTestSize,
		},
		"bad folds": {
			table:       exampleTable(),
			yLen:        100,
			start:       0,
			opt:         &Options{TestSize: 0.2, Folds: 1},
			expectedErr: selection.ErrFolds,
		},
		"scorer failure": {
			table:         exampleTable(),
			yLen:          100,
			start:         0,
			scorerErr:     stubErr,
			expectedErr:   stubErr,
			expectedCalls: 1,
		},
	}

	for name, td := range testData {
		t.Run(name, func(t *testing.T) {
			x, y := taggedFrame(t, 100, names)
			scorer := &recordingScorer{err: td.scorerErr}
			opt := td.opt
			if opt == nil {
				opt = NewDefaultOptions()
			}
			opt.Scorer = scorer

			res, err := DropFeatures(newOLS(t), td.table, x, y[:td.yLen], td.start, opt)
			assert.ErrorIs(t, err, td.expectedErr)
			assert.Nil(t, res)
			assert.Equal(t, td.expectedCalls, scorer.calls)
		})
	}
}

func TestDropFeaturesNoModel(t *testing.T) {
	x, y := taggedFrame(t, 20, []string{"a", "b", "c", "d"})
	_, err := DropFeatures(nil, exampleTable(), x, y, 0, nil)
	assert.ErrorIs(t, err, ErrNoModel)
}

func TestDropFeaturesNoData(t *testing.T) {
	scorer := &recordingScorer{}
	opt := NewDefaultOptions()
	opt.Scorer = scorer

	res, err := DropFeatures(newOLS(t), exampleTable(), nil, make([]float64, 20), 0, opt)
	assert.ErrorIs(t, err, dataset.ErrNoData)
	assert.Nil(t, res)
	assert.Equal(t, 0, scorer.calls)
}

func TestOptionsValidate(t *testing.T) {
	var opt *Options
	opt, err := opt.Validate()
	require.Nil(t, err)
	assert.Equal(t, DefaultTestSize, opt.TestSize)
	assert.Equal(t, DefaultFolds, opt.Folds)
	assert.IsType(t, selection.KFoldScorer{}, opt.Scorer)

	opt, err = (&Options{TestSize: 0.3, Folds: 3}).Validate()
	require.Nil(t, err)
	assert.NotNil(t, opt.Scorer)
}

func exampleResult() *Result {
	res := newResult(3)
	res.append(0.91, 0.02, 1)
	res.append(0.95, 0.01, 2)
	res.append(0.80, 0.05, 3)
	return res
}

func TestResultBest(t *testing.T) {
	best, ok := exampleResult().Best()
	require.True(t, ok)
	assert.Equal(t, 1, best)

	tied := newResult(2)
	tied.append(0.9, 0, 0)
	tied.append(0.9, 0, 1)
	best, ok = tied.Best()
	require.True(t, ok)
	assert.Equal(t, 1, best)

	_, ok = newResult(0).Best()
	assert.False(t, ok)
}

func TestResultTablePrint(t *testing.T) {
	var buf bytes.Buffer
	require.Nil(t, exampleResult().TablePrint(&buf, "", "  "))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Feature Elimination:", lines[0])
	assert.Contains(t, lines[1], "Trimmed")
	assert.Contains(t, lines[3], "0.95000")
	assert.Contains(t, lines[5], "Best: 2 trimmed")
}

func TestResultJSON(t *testing.T) {
	var buf bytes.Buffer
	require.Nil(t, exampleResult().WriteJSON(&buf))

	var decoded Result
	require.Nil(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []int{1, 2, 3}, decoded.NumTrimmed)
	assert.Contains(t, buf.String(), `"mean_scores"`)
	assert.Contains(t, buf.String(), `"std_scores"`)
}

func TestResultChart(t *testing.T) {
	line := exampleResult().Chart("sweep")
	require.NotNil(t, line)
	assert.Len(t, line.MultiSeries, 3)

	var buf bytes.Buffer
	require.Nil(t, line.Render(&buf))
	assert.Contains(t, buf.String(), "Features trimmed")
}

func BenchmarkDropFeatures(b *testing.B) {
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	coef := []float64{8, 7, 6, 5, 4, 3, 2, 1}
	x, y, err := dataset.GenerateLinear(1, 2000, names, 1.0, coef, 0.5)
	if err != nil {
		panic(err)
	}
	table := make(importance.Table, 0, len(names))
	for i, name := range names {
		table = append(table, importance.Feature{Name: name, Importance: coef[i]})
	}
	model, err := models.NewOLSRegression(nil)
	if err != nil {
		panic(err)
	}

	b.ResetTimer()
	defer profile.Start(profile.CPUProfile, profile.ProfilePath(".")).Stop()
	for b.Loop() {
		if _, err := DropFeatures(model, table, x, y, 0, nil); err != nil {
			panic(err)
		}
	}
}
