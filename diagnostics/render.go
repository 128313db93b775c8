package diagnostics

import (
	"bytes"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const cooksLegend = "Cook's distance"

var (
	pointColor  = color.NRGBA{R: 0x4c, G: 0x72, B: 0xb0, A: 0x80}
	smoothColor = color.NRGBA{R: 0xff, A: 0xcc}
	cooksColor  = color.NRGBA{R: 0xff, A: 0xff}
)

// renderPNG draws the panels onto a single 2x2 canvas and returns the encoded png
func renderPNG(panels *Panels, opt *Options) ([]byte, error) {
	grid := panels.Grid()
	plots := make([][]*plot.Plot, len(grid))
	for r, row := range grid {
		plots[r] = make([]*plot.Plot, len(row))
		for c, pnl := range row {
			p, err := pnl.plot()
			if err != nil {
				return nil, fmt.Errorf("%s, %w", pnl.Title, err)
			}
			plots[r][c] = p
		}
	}

	img := vgimg.NewWith(
		vgimg.UseWH(vg.Length(opt.Width)*vg.Inch, vg.Length(opt.Height)*vg.Inch),
		vgimg.UseDPI(opt.DPI),
	)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows:      len(plots),
		Cols:      len(plots[0]),
		PadTop:    vg.Points(4),
		PadBottom: vg.Points(4),
		PadLeft:   vg.Points(4),
		PadRight:  vg.Points(8),
		PadX:      vg.Points(20),
		PadY:      vg.Points(20),
	}
	canvases := plot.Align(plots, tiles, dc)
	for r := range plots {
		for c := range plots[r] {
			plots[r][c].Draw(canvases[r][c])
		}
	}

	var buf bytes.Buffer
	if _, err := (vgimg.PngCanvas{Canvas: img}).WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (pnl *Panel) plot() (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = pnl.Title
	p.X.Label.Text = pnl.XLabel
	p.Y.Label.Text = pnl.YLabel

	scatter, err := plotter.NewScatter(pnl.Points)
	if err != nil {
		return nil, err
	}
	scatter.GlyphStyle.Color = pointColor
	scatter.GlyphStyle.Radius = vg.Points(2)
	p.Add(scatter)

	if len(pnl.Reference) > 0 {
		ref, err := plotter.NewLine(pnl.Reference)
		if err != nil {
			return nil, err
		}
		ref.LineStyle.Color = cooksColor
		ref.LineStyle.Width = vg.Points(1)
		p.Add(ref)
	}

	if len(pnl.Smooth) > 0 {
		smooth, err := plotter.NewLine(pnl.Smooth)
		if err != nil {
			return nil, err
		}
		smooth.LineStyle.Color = smoothColor
		smooth.LineStyle.Width = vg.Points(1)
		p.Add(smooth)
	}

	for i, c := range pnl.Contours {
		contour, err := plotter.NewLine(c.Line)
		if err != nil {
			return nil, err
		}
		contour.LineStyle.Color = cooksColor
		contour.LineStyle.Width = vg.Points(1)
		contour.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
		p.Add(contour)
		if i == 0 {
			p.Legend.Add(cooksLegend, contour)
		}
	}
	p.Legend.Top = true

	if len(pnl.Annotations) > 0 {
		xyl := plotter.XYLabels{
			XYs:    make(plotter.XYs, 0, len(pnl.Annotations)),
			Labels: make([]string, 0, len(pnl.Annotations)),
		}
		for _, a := range pnl.Annotations {
			xyl.XYs = append(xyl.XYs, plotter.XY{X: a.X, Y: a.Y})
			xyl.Labels = append(xyl.Labels, a.Label)
		}
		labels, err := plotter.NewLabels(xyl)
		if err != nil {
			return nil, err
		}
		labels.Offset = vg.Point{X: vg.Points(3), Y: vg.Points(3)}
		p.Add(labels)
	}

	// fixed limits override the data driven ranges set by Add
	if pnl.XLim != nil {
		p.X.Min, p.X.Max = pnl.XLim.Min, pnl.XLim.Max
	}
	if pnl.YLim != nil {
		p.Y.Min, p.Y.Max = pnl.YLim.Min, pnl.YLim.Max
	}
	return p, nil
}
