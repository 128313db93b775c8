package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/aouyang1/go-modeldiag/dataset"
	"github.com/aouyang1/go-modeldiag/diagnostics"
	"github.com/aouyang1/go-modeldiag/elimination"
	"github.com/aouyang1/go-modeldiag/importance"
	"github.com/aouyang1/go-modeldiag/stats"
	"gopkg.in/yaml.v3"
)

// vifWarnThreshold is the variance inflation factor above which a feature is reported as
// collinear with the rest
const vifWarnThreshold = 10.0

// Config is the on disk configuration. Any section left out keeps its defaults.
type Config struct {
	CSV        *dataset.CSVOptions            `yaml:"csv"`
	Residuals  *diagnostics.Options           `yaml:"residuals"`
	Sweep      *elimination.Options           `yaml:"sweep"`
	Importance *importance.PermutationOptions `yaml:"importance"`
}

func defaultConfig() *Config {
	return &Config{
		CSV:        dataset.NewDefaultCSVOptions(),
		Residuals:  diagnostics.NewDefaultOptions(),
		Sweep:      elimination.NewDefaultOptions(),
		Importance: importance.NewDefaultPermutationOptions(),
	}
}

func loadConfig(path string) (*Config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config, %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config %s, %w", path, err)
	}
	slog.Debug("loaded config", "path", path)
	return cfg, nil
}

// readFrame loads a csv and drops incomplete rows
func readFrame(path string, opt *dataset.CSVOptions) (*dataset.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	frame, err := dataset.ReadCSV(f, opt)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s, %w", path, err)
	}
	complete, err := frame.DropMissing()
	if err != nil {
		return nil, fmt.Errorf("no complete rows in %s, %w", path, err)
	}
	if dropped := frame.Len() - complete.Len(); dropped > 0 {
		slog.Warn("dropped rows with missing values", "rows", dropped, "remaining", complete.Len())
	}
	return complete, nil
}

// splitFeatures returns the feature frame and the target column. With no features named every
// column other than the target is used.
func splitFeatures(frame *dataset.Frame, target string, features []string) (*dataset.Frame, []float64, error) {
	y, err := frame.Column(target)
	if err != nil {
		return nil, nil, err
	}
	var x *dataset.Frame
	if len(features) == 0 {
		x, err = frame.Drop(target)
	} else {
		x, err = frame.Select(features...)
	}
	if err != nil {
		return nil, nil, err
	}
	return x, y, nil
}

// warnCollinear logs every feature whose variance inflation factor is above the threshold
func warnCollinear(x *dataset.Frame) {
	if len(x.Names()) < 2 {
		return
	}
	features := make(map[string][]float64, len(x.Names()))
	for _, name := range x.Names() {
		col, err := x.Column(name)
		if err != nil {
			return
		}
		features[name] = col
	}
	vif, err := stats.VarianceInflationFactor(features)
	if err != nil {
		slog.Warn("unable to compute variance inflation factors", "error", err.Error())
		return
	}

	names := make([]string, 0, len(vif))
	for name := range vif {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if vif[name] > vifWarnThreshold {
			slog.Warn("feature is highly collinear", "feature", name, "vif", vif[name])
		}
	}
}
