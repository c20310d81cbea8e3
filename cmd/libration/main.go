package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type options struct {
	dataDir    string
	verbose    bool
	configFile string
	preset     string

	system    string
	mu        float64
	point     string
	epsilon   float64
	offset    float64
	kick      float64
	horizon   float64
	samples   int
	tolerance float64

	plot   bool
	noSave bool

	kicks  []float64
	output string

	log *zap.Logger
}

// main is the entry point for the libration CLI. It exits with status 1
// if the command fails.
func main() {
	if err := newRootCmd(&options{}).Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

func newRootCmd(o *options) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "libration",
		Short:         "invariant manifolds and low-energy transfers in the restricted three-body problem",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if o.log != nil {
				return nil
			}
			log, err := newLogger(o.verbose)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			o.log = log
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = o.log.Sync()
		},
	}

	rootCmd.PersistentFlags().StringVar(&o.dataDir, "data", ".libration", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "debug logging")

	manifoldsCmd := &cobra.Command{
		Use:   "manifolds",
		Short: "trace the four stable/unstable manifold branches of a collinear point",
		Args:  cobra.NoArgs,
		RunE:  o.runManifolds,
	}
	o.scenarioFlags(manifoldsCmd)
	manifoldsCmd.Flags().StringVar(&o.point, "point", "L1", "libration point (L1, L2, L3)")
	manifoldsCmd.Flags().Float64Var(&o.epsilon, "epsilon", 1e-4, "perturbation along the eigendirections")

	interceptCmd := &cobra.Command{
		Use:   "intercept",
		Short: "propagate a kicked departure from L2",
		Args:  cobra.NoArgs,
		RunE:  o.runIntercept,
	}
	o.scenarioFlags(interceptCmd)
	interceptCmd.Flags().Float64Var(&o.offset, "offset", 1e-5, "x offset from L2")
	interceptCmd.Flags().Float64Var(&o.kick, "kick", 0.15, "prograde velocity kick")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "tabulate intercept max radius for each kick",
		Args:  cobra.NoArgs,
		RunE:  o.runSweep,
	}
	o.scenarioFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&o.offset, "offset", 1e-5, "x offset from L2")
	sweepCmd.Flags().Float64SliceVar(&o.kicks, "kicks", []float64{0, 0.025, 0.05, 0.075, 0.1, 0.125, 0.15}, "kicks to evaluate")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  o.listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "summarize and chart a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  o.showRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenario presets",
		Args:  cobra.NoArgs,
		RunE:  o.listPresets,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run-id]",
		Short: "draw a saved run as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  o.exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&o.output, "output", "o", "", "output file (default <run-id>.svg)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run-id]",
		Short: "dump a saved run as json",
		Args:  cobra.ExactArgs(1),
		RunE:  o.exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&o.output, "output", "o", "-", "output file, - for stdout")

	rootCmd.AddCommand(manifoldsCmd, interceptCmd, sweepCmd, listCmd, showCmd, presetsCmd, exportSVGCmd, exportJSONCmd)
	return rootCmd
}

func (o *options) scenarioFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&o.preset, "preset", "", "preset as system/name, see 'presets'")
	cmd.Flags().StringVar(&o.system, "system", "", "primary pair (earth-moon, sun-earth, sun-mars)")
	cmd.Flags().Float64Var(&o.mu, "mu", 0, "mass ratio, overrides --system")
	cmd.Flags().Float64Var(&o.horizon, "horizon", 15, "nondimensional propagation time")
	cmd.Flags().IntVar(&o.samples, "samples", 0, "samples per trajectory")
	cmd.Flags().Float64Var(&o.tolerance, "tol", 1e-10, "integrator tolerance")
	cmd.Flags().BoolVar(&o.plot, "plot", false, "draw the trajectories in the terminal")
	cmd.Flags().BoolVar(&o.noSave, "no-save", false, "do not persist the run")
}
