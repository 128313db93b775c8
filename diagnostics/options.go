package diagnostics

import (
	"errors"
	"fmt"

	"github.com/aouyang1/go-modeldiag/stats"
)

const (
	DefaultWidth          = 10.0
	DefaultHeight         = 10.0
	DefaultDPI            = 100
	DefaultNumAnnotate    = 3
	DefaultContourSamples = 50

	// contourStart is the smallest leverage the Cook's distance contours are drawn from
	contourStart = 0.001
)

var (
	ErrInvalidSize       = errors.New("figure width, height and dpi must be positive")
	ErrNegativeAnnotate  = errors.New("number of annotations cannot be negative")
	ErrInvalidLimits     = errors.New("axis limit minimum must be below its maximum")
	ErrContourSamples    = errors.New("cook's distance contours need at least 2 samples")
	ErrInvalidCooksLevel = errors.New("cook's distance levels must be positive")
)

// Limits is a fixed axis range
type Limits struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

func (l Limits) validate() error {
	if l.Min >= l.Max {
		return fmt.Errorf("got [%.3f, %.3f], %w", l.Min, l.Max, ErrInvalidLimits)
	}
	return nil
}

// Options configures the diagnostic figure
type Options struct {
	// Width and Height of the figure in inches
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	DPI    int     `yaml:"dpi"`

	// OutputDir is where residual_plots.png is written
	OutputDir string `yaml:"output_dir"`

	// DisplayPath, when set, also writes an interactive html page of the panels
	DisplayPath string `yaml:"display_path"`

	NumAnnotate    int       `yaml:"num_annotate"`
	LeverageLim    Limits    `yaml:"leverage_lim"`
	ResidualLim    Limits    `yaml:"residual_lim"`
	CooksLevels    []float64 `yaml:"cooks_levels"`
	ContourSamples int       `yaml:"contour_samples"`

	Lowess *stats.LowessOptions `yaml:"lowess"`
}

// NewDefaultOptions returns a 10x10 inch figure at 100 dpi written to the working directory
func NewDefaultOptions() *Options {
	return &Options{
		Width:          DefaultWidth,
		Height:         DefaultHeight,
		DPI:            DefaultDPI,
		OutputDir:      ".",
		NumAnnotate:    DefaultNumAnnotate,
		LeverageLim:    Limits{Min: 0, Max: 0.20},
		ResidualLim:    Limits{Min: -3, Max: 5},
		CooksLevels:    []float64{0.5, 1.0},
		ContourSamples: DefaultContourSamples,
		Lowess:         stats.NewDefaultLowessOptions(),
	}
}

// Validate fills in unset fields and rejects invalid sizes before anything is computed
func (o *Options) Validate() (*Options, error) {
	if o == nil {
		o = NewDefaultOptions()
	}
	if o.Width <= 0 || o.Height <= 0 || o.DPI <= 0 {
		return nil, fmt.Errorf("got %.2fx%.2f inches at %d dpi, %w", o.Width, o.Height, o.DPI, ErrInvalidSize)
	}
	if o.NumAnnotate < 0 {
		return nil, ErrNegativeAnnotate
	}
	if err := o.LeverageLim.validate(); err != nil {
		return nil, fmt.Errorf("leverage, %w", err)
	}
	if o.LeverageLim.Max <= contourStart {
		return nil, fmt.Errorf("leverage maximum of %.4f, %w", o.LeverageLim.Max, ErrInvalidLimits)
	}
	if err := o.ResidualLim.validate(); err != nil {
		return nil, fmt.Errorf("residual, %w", err)
	}
	if o.ContourSamples < 2 {
		return nil, ErrContourSamples
	}
	for _, lvl := range o.CooksLevels {
		if lvl <= 0 {
			return nil, fmt.Errorf("got %.3f, %w", lvl, ErrInvalidCooksLevel)
		}
	}
	if o.OutputDir == "" {
		o.OutputDir = "."
	}

	lowessOpt, err := o.Lowess.Validate()
	if err != nil {
		return nil, err
	}
	o.Lowess = lowessOpt
	return o, nil
}
