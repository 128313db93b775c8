package diagnostics

import (
	"fmt"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot/plotter"
)

// displayPage lays the four panels out as interactive echarts scatter charts
func displayPage(panels *Panels) *components.Page {
	page := components.NewPage()
	page.SetPageTitle("Residual Plots")
	page.SetLayout(components.PageFlexLayout)
	for _, row := range panels.Grid() {
		for _, pnl := range row {
			page.AddCharts(pnl.chart())
		}
	}
	return page
}

func (pnl *Panel) chart() *charts.Scatter {
	xAxis := opts.XAxis{
		Name:  pnl.XLabel,
		Type:  "value",
		Scale: opts.Bool(true),
	}
	yAxis := opts.YAxis{
		Name:  pnl.YLabel,
		Type:  "value",
		Scale: opts.Bool(true),
	}
	if pnl.XLim != nil {
		xAxis.Min, xAxis.Max = pnl.XLim.Min, pnl.XLim.Max
	}
	if pnl.YLim != nil {
		yAxis.Min, yAxis.Max = pnl.YLim.Min, pnl.YLim.Max
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "600px",
			Height: "500px",
		}),
		charts.WithTitleOpts(opts.Title{Title: pnl.Title}),
		charts.WithXAxisOpts(xAxis),
		charts.WithYAxisOpts(yAxis),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(len(pnl.Contours) > 0), Right: "10"}),
	)

	points := make([]opts.ScatterData, 0, len(pnl.Points))
	for _, pt := range pnl.Points {
		points = append(points, opts.ScatterData{Value: []float64{pt.X, pt.Y}, SymbolSize: 6})
	}
	scatter.AddSeries("Observations", points,
		charts.WithItemStyleOpts(opts.ItemStyle{Opacity: opts.Float(0.5)}),
	)

	if len(pnl.Annotations) > 0 {
		marked := make([]opts.ScatterData, 0, len(pnl.Annotations))
		for _, a := range pnl.Annotations {
			marked = append(marked, opts.ScatterData{Name: a.Label, Value: []float64{a.X, a.Y}, SymbolSize: 8})
		}
		scatter.AddSeries("Outliers", marked,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "right", Formatter: "{b}"}),
		)
	}

	var overlays []charts.Overlaper
	if len(pnl.Smooth) > 0 {
		overlays = append(overlays, xyLine("Lowess", pnl.Smooth, opts.LineStyle{Color: "red", Width: 1}))
	}
	if len(pnl.Reference) > 0 {
		overlays = append(overlays, xyLine("Reference", pnl.Reference, opts.LineStyle{Color: "red", Width: 1}))
	}
	for i, c := range pnl.Contours {
		name := cooksLegend
		if i > 0 {
			name = fmt.Sprintf("%s %.1f", cooksLegend, c.Level)
		}
		overlays = append(overlays, xyLine(name, c.Line, opts.LineStyle{Color: "red", Width: 1, Type: "dashed"}))
	}
	if len(overlays) > 0 {
		scatter.Overlap(overlays...)
	}
	return scatter
}

func xyLine(name string, xys plotter.XYs, style opts.LineStyle) *charts.Line {
	data := make([]opts.LineData, 0, len(xys))
	for _, pt := range xys {
		data = append(data, opts.LineData{Value: []float64{pt.X, pt.Y}})
	}
	line := charts.NewLine()
	line.AddSeries(name, data,
		charts.WithLineStyleOpts(style),
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)
	return line
}
