package diagnostics

import (
	"fmt"
	"math"

	"github.com/aouyang1/go-modeldiag/stats"
	"gonum.org/v1/plot/plotter"
)

// FittedModel is the minimum a regression fit exposes
type FittedModel interface {
	FittedValues() []float64
	Residuals() []float64
	NumParams() int
}

// InfluenceStatistics is a fit that can also report per observation influence. Every slice is
// ordered the same way as the fitted values.
type InfluenceStatistics interface {
	FittedModel
	StudentizedResiduals() []float64
	Leverage() []float64
	CooksDistance() []float64
}

// Annotation labels a single observation on a panel
type Annotation struct {
	Observation int     `json:"observation"`
	Label       string  `json:"label"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
}

// Contour is one Cook's distance isocontour
type Contour struct {
	Level float64     `json:"level"`
	Line  plotter.XYs `json:"line"`
}

// Panel is the data behind one diagnostic chart
type Panel struct {
	Title  string `json:"title"`
	XLabel string `json:"x_label"`
	YLabel string `json:"y_label"`

	Points    plotter.XYs `json:"points"`
	Smooth    plotter.XYs `json:"smooth,omitempty"`
	Reference plotter.XYs `json:"reference,omitempty"`
	Contours  []Contour   `json:"contours,omitempty"`

	Annotations []Annotation `json:"annotations"`

	// XLim and YLim are nil when the axis follows the data
	XLim *Limits `json:"x_lim,omitempty"`
	YLim *Limits `json:"y_lim,omitempty"`
}

// Panels holds the four charts laid out left to right, top to bottom
type Panels struct {
	ResidualsVsFitted   Panel `json:"residuals_vs_fitted"`
	NormalQQ            Panel `json:"normal_qq"`
	ScaleLocation       Panel `json:"scale_location"`
	ResidualsVsLeverage Panel `json:"residuals_vs_leverage"`
}

// Grid returns the panels in their 2x2 figure positions indexed [row][col]
func (p *Panels) Grid() [][]*Panel {
	return [][]*Panel{
		{&p.ResidualsVsFitted, &p.NormalQQ},
		{&p.ScaleLocation, &p.ResidualsVsLeverage},
	}
}

type fitData struct {
	fitted      []float64
	resid       []float64
	studentized []float64
	leverage    []float64
	cooks       []float64
	numParams   int
	index       []string
}

func computePanels(fd *fitData, opt *Options) (*Panels, error) {
	rvf, err := residualsVsFitted(fd, opt)
	if err != nil {
		return nil, err
	}

	// sqrt|r| is monotone in |r| so the scale-location outliers are the q-q outliers
	outliers := stats.TopKAbs(fd.studentized, opt.NumAnnotate)
	qq := normalQQ(fd, outliers)

	sl, err := scaleLocation(fd, outliers, opt)
	if err != nil {
		return nil, err
	}
	rvl, err := residualsVsLeverage(fd, opt)
	if err != nil {
		return nil, err
	}

	return &Panels{
		ResidualsVsFitted:   rvf,
		NormalQQ:            qq,
		ScaleLocation:       sl,
		ResidualsVsLeverage: rvl,
	}, nil
}

func residualsVsFitted(fd *fitData, opt *Options) (Panel, error) {
	smooth, err := smoothed(fd.fitted, fd.resid, opt.Lowess)
	if err != nil {
		return Panel{}, fmt.Errorf("residuals vs fitted, %w", err)
	}
	return Panel{
		Title:       "Residuals vs Fitted",
		XLabel:      "Fitted values",
		YLabel:      "Residuals",
		Points:      toXYs(fd.fitted, fd.resid),
		Smooth:      smooth,
		Annotations: annotate(fd.index, stats.TopKAbs(fd.resid, opt.NumAnnotate), fd.fitted, fd.resid),
	}, nil
}

func normalQQ(fd *fitData, outliers []int) Panel {
	n := len(fd.studentized)
	order := stats.Argsort(fd.studentized)
	quantiles := stats.NormalQuantiles(n)

	rank := make([]int, n)
	pnts := make(plotter.XYs, n)
	for i, obs := range order {
		rank[obs] = i
		pnts[i] = plotter.XY{X: quantiles[i], Y: fd.studentized[obs]}
	}

	lo := math.Min(pnts[0].X, pnts[0].Y)
	hi := math.Max(pnts[n-1].X, pnts[n-1].Y)

	// an outlier sits at the theoretical quantile of its rank in the sorted sample
	annotations := make([]Annotation, 0, len(outliers))
	for _, obs := range outliers {
		annotations = append(annotations, Annotation{
			Observation: obs,
			Label:       fd.index[obs],
			X:           quantiles[rank[obs]],
			Y:           fd.studentized[obs],
		})
	}

	return Panel{
		Title:       "Normal Q-Q",
		XLabel:      "Theoretical Quantiles",
		YLabel:      "Standardized Residuals",
		Points:      pnts,
		Reference:   plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}},
		Annotations: annotations,
	}
}

func scaleLocation(fd *fitData, outliers []int, opt *Options) (Panel, error) {
	scaled := make([]float64, len(fd.studentized))
	for i, r := range fd.studentized {
		scaled[i] = math.Sqrt(math.Abs(r))
	}
	smooth, err := smoothed(fd.fitted, scaled, opt.Lowess)
	if err != nil {
		return Panel{}, fmt.Errorf("scale-location, %w", err)
	}
	return Panel{
		Title:       "Scale-Location",
		XLabel:      "Fitted values",
		YLabel:      "sqrt(|Standardized Residuals|)",
		Points:      toXYs(fd.fitted, scaled),
		Smooth:      smooth,
		Annotations: annotate(fd.index, outliers, fd.fitted, scaled),
	}, nil
}

func residualsVsLeverage(fd *fitData, opt *Options) (Panel, error) {
	smooth, err := smoothed(fd.leverage, fd.studentized, opt.Lowess)
	if err != nil {
		return Panel{}, fmt.Errorf("residuals vs leverage, %w", err)
	}

	h := stats.Linspace(contourStart, opt.LeverageLim.Max, opt.ContourSamples)
	contours := make([]Contour, 0, len(opt.CooksLevels))
	for _, lvl := range opt.CooksLevels {
		line := make(plotter.XYs, len(h))
		for i, x := range h {
			line[i] = plotter.XY{X: x, Y: stats.CooksContour(lvl, fd.numParams, x)}
		}
		contours = append(contours, Contour{Level: lvl, Line: line})
	}

	xLim := opt.LeverageLim
	yLim := opt.ResidualLim
	return Panel{
		Title:       "Residuals vs Leverage",
		XLabel:      "Leverage",
		YLabel:      "Standardized Residuals",
		Points:      toXYs(fd.leverage, fd.studentized),
		Smooth:      smooth,
		Contours:    contours,
		Annotations: annotate(fd.index, stats.TopKAbs(fd.cooks, opt.NumAnnotate), fd.leverage, fd.studentized),
		XLim:        &xLim,
		YLim:        &yLim,
	}, nil
}

func smoothed(x, y []float64, opt *stats.LowessOptions) (plotter.XYs, error) {
	sx, sy, err := stats.Lowess(x, y, opt)
	if err != nil {
		return nil, err
	}
	return toXYs(sx, sy), nil
}

func annotate(index []string, obs []int, x, y []float64) []Annotation {
	annotations := make([]Annotation, 0, len(obs))
	for _, i := range obs {
		annotations = append(annotations, Annotation{
			Observation: i,
			Label:       index[i],
			X:           x[i],
			Y:           y[i],
		})
	}
	return annotations
}

func toXYs(x, y []float64) plotter.XYs {
	pnts := make(plotter.XYs, len(x))
	for i := range x {
		pnts[i] = plotter.XY{X: x[i], Y: y[i]}
	}
	return pnts
}
