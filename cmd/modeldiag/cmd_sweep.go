package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/aouyang1/go-modeldiag/dataset"
	"github.com/aouyang1/go-modeldiag/elimination"
	"github.com/aouyang1/go-modeldiag/importance"
	"github.com/aouyang1/go-modeldiag/models"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/spf13/cobra"
)

type sweepFlags struct {
	dataPath       string
	target         string
	features       []string
	index          string
	importancePath string
	start          int
	folds          int
	seed           uint64
	testSize       float64
	outPath        string
	chartPath      string
}

func newSweepCommand(g *globalFlags) *cobra.Command {
	f := &sweepFlags{}
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Drop the least important features one at a time and cross validate each step",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(cmd, g, f)
		},
	}

	cmd.Flags().StringVar(&f.dataPath, "data", "", "csv file with a header row")
	cmd.Flags().StringVar(&f.target, "target", "", "dependent variable column")
	cmd.Flags().StringSliceVar(&f.features, "features", nil, "feature columns, defaults to every column but the target")
	cmd.Flags().StringVar(&f.index, "index", "", "column holding observation labels")
	cmd.Flags().StringVar(&f.importancePath, "importance", "", "json importance table, computed by permutation when empty")
	cmd.Flags().IntVar(&f.start, "start", 0, "number of least important features dropped before the first step")
	cmd.Flags().IntVar(&f.folds, "folds", elimination.DefaultFolds, "cross validation folds")
	cmd.Flags().Uint64Var(&f.seed, "seed", elimination.DefaultSeed, "train/test split seed")
	cmd.Flags().Float64Var(&f.testSize, "test-size", elimination.DefaultTestSize, "share of rows held out before cross validation")
	cmd.Flags().StringVar(&f.outPath, "out", "", "write the sweep as json to this path")
	cmd.Flags().StringVar(&f.chartPath, "chart", "", "write an html chart of the sweep to this path")
	cmd.MarkFlagRequired("data")
	cmd.MarkFlagRequired("target")
	return cmd
}

func runSweep(cmd *cobra.Command, g *globalFlags, f *sweepFlags) error {
	cfg, err := loadConfig(g.configPath)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("index") {
		cfg.CSV.IndexColumn = f.index
	}
	opt := cfg.Sweep
	if opt == nil {
		opt = elimination.NewDefaultOptions()
	}
	if cmd.Flags().Changed("folds") {
		opt.Folds = f.folds
	}
	if cmd.Flags().Changed("seed") {
		opt.Seed = f.seed
	}
	if cmd.Flags().Changed("test-size") {
		opt.TestSize = f.testSize
	}
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

	model, err := models.NewOLSRegression(nil)
	if err != nil {
		return err
	}

	table, err := loadImportance(f.importancePath, model, x, y, cfg.Importance)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Importance:")
	for _, feat := range table.SortAscending() {
		fmt.Fprintf(out, "  %-20s%-14.5f%-14.5f\n", feat.Name, feat.Importance, feat.StdErr)
	}

	res, err := elimination.DropFeatures(model, table, x, y, f.start, opt)
	if err != nil {
		return err
	}
	if err := res.TablePrint(out, "", "  "); err != nil {
		return err
	}

	if f.outPath != "" {
		file, err := os.Create(f.outPath)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := res.WriteJSON(file); err != nil {
			return err
		}
		slog.Info("wrote sweep", "path", f.outPath)
	}

	if f.chartPath != "" {
		page := components.NewPage()
		page.AddCharts(res.Chart(fmt.Sprintf("Feature elimination on %s", f.target)))
		file, err := os.Create(f.chartPath)
		if err != nil {
			return err
		}
		defer file.Close()
		if err := page.Render(file); err != nil {
			return err
		}
		slog.Info("wrote sweep chart", "path", f.chartPath)
	}
	return nil
}

func loadImportance(path string, model models.Model, x *dataset.Frame, y []float64, opt *importance.PermutationOptions) (importance.Table, error) {
	if path == "" {
		slog.Info("computing permutation importance", "features", len(x.Names()))
		return importance.Permutation(model, x, y, opt)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return importance.ReadJSON(file)
}
