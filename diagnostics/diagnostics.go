// Package diagnostics renders the standard four panel residual analysis of a fitted linear
// regression: residuals vs fitted, normal Q-Q, scale-location and residuals vs leverage.
package diagnostics

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"path/filepath"

	"github.com/aouyang1/go-modeldiag/dataset"
	"github.com/goccy/go-json"
)

// ResidualPlotsFile is the name of the image written by Plot
const ResidualPlotsFile = "residual_plots.png"

const residualTolerance = 1e-6

var (
	ErrMissingInfluence = errors.New("model does not expose influence statistics")
	ErrMisaligned       = errors.New("model outputs are not aligned with the dataset observations")
	ErrNumParams        = errors.New("model must report at least one parameter")
)

// Plot computes the four diagnostic panels for a fit and writes them as a png to
// Options.OutputDir. The fit must also satisfy InfluenceStatistics. The dependent variable
// column of data is used to confirm the fit's observations line up with the data index before
// anything is drawn. Nothing is written unless every panel renders.
func Plot(fit FittedModel, dependentVar string, data *dataset.Frame, opt *Options) (*Panels, error) {
	opt, err := opt.Validate()
	if err != nil {
		return nil, err
	}
	infl, ok := fit.(InfluenceStatistics)
	if !ok {
		return nil, fmt.Errorf("got %T, %w", fit, ErrMissingInfluence)
	}
	if data == nil {
		return nil, dataset.ErrNoData
	}
	y, err := data.Column(dependentVar)
	if err != nil {
		return nil, err
	}

	fd, err := alignFit(infl, y, data.Index())
	if err != nil {
		return nil, err
	}

	panels, err := computePanels(fd, opt)
	if err != nil {
		return nil, err
	}

	img, err := renderPNG(panels, opt)
	if err != nil {
		return nil, fmt.Errorf("unable to render residual plots, %w", err)
	}

	var page []byte
	if opt.DisplayPath != "" {
		var buf bytes.Buffer
		if err := displayPage(panels).Render(&buf); err != nil {
			return nil, fmt.Errorf("unable to render display page, %w", err)
		}
		page = buf.Bytes()
	}

	outPath := filepath.Join(opt.OutputDir, ResidualPlotsFile)
	if err := writeFileAtomic(outPath, img); err != nil {
		return nil, err
	}
	slog.Debug("wrote residual plots", "path", outPath, "observations", len(fd.fitted))

	if page != nil {
		if err := writeFileAtomic(opt.DisplayPath, page); err != nil {
			return nil, err
		}
		slog.Debug("wrote residual display page", "path", opt.DisplayPath)
	}
	return panels, nil
}

func alignFit(fit InfluenceStatistics, y []float64, index []string) (*fitData, error) {
	fd := &fitData{
		fitted:      fit.FittedValues(),
		resid:       fit.Residuals(),
		studentized: fit.StudentizedResiduals(),
		leverage:    fit.Leverage(),
		cooks:       fit.CooksDistance(),
		numParams:   fit.NumParams(),
		index:       index,
	}
	if fd.numParams < 1 {
		return nil, fmt.Errorf("got %d, %w", fd.numParams, ErrNumParams)
	}

	n := len(index)
	if n == 0 {
		return nil, dataset.ErrNoData
	}
	lens := []struct {
		name string
		len  int
	}{
		{"fitted values", len(fd.fitted)},
		{"residuals", len(fd.resid)},
		{"studentized residuals", len(fd.studentized)},
		{"leverage", len(fd.leverage)},
		{"cook's distance", len(fd.cooks)},
		{"dependent variable", len(y)},
	}
	for _, l := range lens {
		if l.len != n {
			return nil, fmt.Errorf("%s has %d values for %d observations, %w", l.name, l.len, n, ErrMisaligned)
		}
	}

	for i := range y {
		diff := math.Abs(y[i] - fd.fitted[i] - fd.resid[i])
		if diff > residualTolerance*(1+math.Abs(y[i])) {
			return nil, fmt.Errorf(
				"observation %s has residual %.6f but observed minus fitted is %.6f, %w",
				index[i], fd.resid[i], y[i]-fd.fitted[i], ErrMisaligned,
			)
		}
	}
	return fd, nil
}

// WriteJSON encodes the computed panels
func (p *Panels) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
