package elimination

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/goccy/go-json"
)

// Result holds one entry per sweep step. All three slices share the same length and order.
type Result struct {
	MeanScores []float64 `json:"mean_scores"`
	StdScores  []float64 `json:"std_scores"`
	NumTrimmed []int     `json:"num_trimmed"`
}

func newResult(steps int) *Result {
	return &Result{
		MeanScores: make([]float64, 0, steps),
		StdScores:  make([]float64, 0, steps),
		NumTrimmed: make([]int, 0, steps),
	}
}

func (r *Result) append(mean, std float64, trimmed int) {
	r.MeanScores = append(r.MeanScores, mean)
	r.StdScores = append(r.StdScores, std)
	r.NumTrimmed = append(r.NumTrimmed, trimmed)
}

// Len is the number of sweep steps
func (r *Result) Len() int {
	return len(r.NumTrimmed)
}

// Best returns the step with the highest mean score. Ties go to the step with more features
// trimmed.
func (r *Result) Best() (int, bool) {
	if r.Len() == 0 {
		return 0, false
	}
	best := 0
	for i := 1; i < r.Len(); i++ {
		if r.MeanScores[i] >= r.MeanScores[best] {
			best = i
		}
	}
	return best, true
}

// WriteJSON encodes the sweep
func (r *Result) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// TablePrint writes a human readable summary of the sweep
func (r *Result) TablePrint(w io.Writer, prefix, indent string) error {
	if _, err := fmt.Fprintf(w, "%sFeature Elimination:\n", prefix); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s%s%-10s%-14s%-14s\n", prefix, indent, "Trimmed", "Mean Score", "Std Score"); err != nil {
		return err
	}
	for i := 0; i < r.Len(); i++ {
		if _, err := fmt.Fprintf(w, "%s%s%-10d%-14.5f%-14.5f\n",
			prefix, indent,
			r.NumTrimmed[i], r.MeanScores[i], r.StdScores[i],
		); err != nil {
			return err
		}
	}
	if best, ok := r.Best(); ok {
		if _, err := fmt.Fprintf(w, "%s%sBest: %d trimmed, mean score %.5f\n",
			prefix, strings.Repeat(indent, 1), r.NumTrimmed[best], r.MeanScores[best]); err != nil {
			return err
		}
	}
	return nil
}

// Chart generates an echart line chart of the mean cross validation score with a band of one
// standard deviation against the number of trimmed features.
func (r *Result) Chart(title string) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(
			opts.Title{
				Title: title,
			},
		),
		charts.WithXAxisOpts(
			opts.XAxis{
				Name: "Features trimmed",
			},
		),
		charts.WithYAxisOpts(
			opts.YAxis{
				Name:  "CV score",
				Scale: opts.Bool(true),
			},
		),
		charts.WithTooltipOpts(
			opts.Tooltip{
				Show:    opts.Bool(true),
				Trigger: "axis",
			},
		),
	)

	trimmed := make([]int, 0, r.Len())
	meanData := make([]opts.LineData, 0, r.Len())
	upperData := make([]opts.LineData, 0, r.Len())
	lowerData := make([]opts.LineData, 0, r.Len())
	for i := 0; i < r.Len(); i++ {
		trimmed = append(trimmed, r.NumTrimmed[i])
		meanData = append(meanData, opts.LineData{Value: r.MeanScores[i]})
		upperData = append(upperData, opts.LineData{Value: r.MeanScores[i] + r.StdScores[i]})
		lowerData = append(lowerData, opts.LineData{Value: r.MeanScores[i] - r.StdScores[i]})
	}

	dashed := charts.WithLineStyleOpts(opts.LineStyle{Type: "dashed", Opacity: opts.Float(0.6)})
	line.SetXAxis(trimmed).
		AddSeries("Mean", meanData).
		AddSeries("Mean + Std", upperData, dashed).
		AddSeries("Mean - Std", lowerData, dashed)
	return line
}
