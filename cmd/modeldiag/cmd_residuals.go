package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aouyang1/go-modeldiag/diagnostics"
	mat_ "github.com/aouyang1/go-modeldiag/mat"
	"github.com/aouyang1/go-modeldiag/models"
	"github.com/spf13/cobra"
)

type residualsFlags struct {
	dataPath    string
	target      string
	features    []string
	index       string
	outDir      string
	width       float64
	height      float64
	dpi         int
	displayPath string
	summaryPath string
}

func newResidualsCommand(g *globalFlags) *cobra.Command {
	f := &residualsFlags{}
	cmd := &cobra.Command{
		Use:   "residuals",
		Short: "Fit ols and write the residual diagnostic panels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResiduals(cmd, g, f)
		},
	}

	cmd.Flags().StringVar(&f.dataPath, "data", "", "csv file with a header row")
	cmd.Flags().StringVar(&f.target, "target", "", "dependent variable column")
	cmd.Flags().StringSliceVar(&f.features, "features", nil, "feature columns, defaults to every column but the target")
	cmd.Flags().StringVar(&f.index, "index", "", "column holding observation labels")
	cmd.Flags().StringVar(&f.outDir, "out", "", "directory to write "+diagnostics.ResidualPlotsFile+" to")
	cmd.Flags().Float64Var(&f.width, "width", diagnostics.DefaultWidth, "figure width in inches")
	cmd.Flags().Float64Var(&f.height, "height", diagnostics.DefaultHeight, "figure height in inches")
	cmd.Flags().IntVar(&f.dpi, "dpi", diagnostics.DefaultDPI, "figure resolution")
	cmd.Flags().StringVar(&f.displayPath, "display", "", "also write an interactive html page to this path")
	cmd.Flags().StringVar(&f.summaryPath, "summary", "", "write the computed panels as json to this path")
	cmd.MarkFlagRequired("data")
	cmd.MarkFlagRequired("target")
	return cmd
}

func runResiduals(cmd *cobra.Command, g *globalFlags, f *residualsFlags) error {
	cfg, err := loadConfig(g.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("index") {
		cfg.CSV.IndexColumn = f.index
	}
	opt := cfg.Residuals
	if opt == nil {
		opt = diagnostics.NewDefaultOptions()
	}
	if cmd.Flags().Changed("width") {
		opt.Width = f.width
	}
	if cmd.Flags().Changed("height") {
		opt.Height = f.height
	}
	if cmd.Flags().Changed("dpi") {
		opt.DPI = f.dpi
	}
	if f.outDir != "" {
		opt.OutputDir = f.outDir
	}
	if f.displayPath != "" {
		opt.DisplayPath = f.displayPath
	}
	// fail on bad sizes before reading or fitting anything
	opt, err = opt.Validate()
	if err != nil {
		return err
	}

	frame, err := readFrame(f.dataPath, cfg.CSV)
	if err != nil {
		return err
	}
	x, y, err := splitFeatures(frame, f.target, f.features)
	if err != nil {
		return err
	}
	warnCollinear(x)

	xMx, err := x.Matrix()
	if err != nil {
		return err
	}
	model, err := models.NewOLSRegression(nil)
	if err != nil {
		return err
	}
	fit, err := model.Influence(xMx, mat_.ColVector(y))
	if err != nil {
		return fmt.Errorf("unable to fit ols, %w", err)
	}

	panels, err := diagnostics.Plot(fit, f.target, frame, opt)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "wrote %s\n", filepath.Join(opt.OutputDir, diagnostics.ResidualPlotsFile))
	for _, row := range panels.Grid() {
		for _, pnl := range row {
			labels := make([]string, 0, len(pnl.Annotations))
			for _, a := range pnl.Annotations {
				labels = append(labels, a.Label)
			}
			fmt.Fprintf(out, "  %-22s %v\n", pnl.Title, labels)
		}
	}

	if f.summaryPath != "" {
		file, err := os.Create(f.summaryPath)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := panels.WriteJSON(file); err != nil {
			return err
		}
	}
	return nil
}
