package main

import (
	"log/slog"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
)

var version = "dev"

type globalFlags struct {
	configPath string
	profileDir string
	verbose    bool

	prof interface{ Stop() }
}

func (g *globalFlags) stopProfile() {
	if g.prof == nil {
		return
	}
	g.prof.Stop()
	g.prof = nil
	slog.Info("wrote cpu profile", "dir", g.profileDir)
}

// rootCommand flushes the cpu profile after every run, including runs where a subcommand
// fails and cobra skips the post run hooks.
type rootCommand struct {
	*cobra.Command
	flags *globalFlags
}

func (r *rootCommand) Execute() error {
	defer r.flags.stopProfile()
	return r.Command.Execute()
}

func newRootCommand() *rootCommand {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "modeldiag",
		Short: "Regression diagnostics and feature elimination sweeps",
		Long: `modeldiag fits ordinary least squares models to csv data.

The residuals command writes the four standard diagnostic panels to
residual_plots.png. The sweep command drops the least important features one
at a time and reports the cross validated score at every step.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if g.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))

			if g.profileDir != "" {
				g.prof = profile.Start(profile.CPUProfile, profile.ProfilePath(g.profileDir), profile.Quiet, profile.NoShutdownHook)
			}
		},
	}

	cmd.PersistentFlags().StringVar(&g.configPath, "config", "", "yaml file with residuals, sweep, importance and csv options")
	cmd.PersistentFlags().StringVar(&g.profileDir, "profile", "", "write a cpu profile to this directory")
	cmd.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(newResidualsCommand(g))
	cmd.AddCommand(newSweepCommand(g))
	return &rootCommand{Command: cmd, flags: g}
}
