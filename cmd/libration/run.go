package main

import (
	"context"
	"fmt"
	"math"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/libration/internal/analysis"
	"github.com/san-kum/libration/internal/config"
	"github.com/san-kum/libration/internal/dynamo"
	"github.com/san-kum/libration/internal/intercept"
	"github.com/san-kum/libration/internal/manifold"
	"github.com/san-kum/libration/internal/metrics"
	"github.com/san-kum/libration/internal/optim"
	"github.com/san-kum/libration/internal/physics"
	"github.com/san-kum/libration/internal/storage"
	"github.com/san-kum/libration/internal/viz"
)

func branchMetrics(sys *physics.CR3BP, traj *dynamo.Trajectory) map[string]float64 {
	sx, sy := sys.Secondary()
	return metrics.Apply(traj,
		metrics.NewJacobiDrift(sys),
		metrics.NewMaxRadius(),
		metrics.NewMinDistance("closest_secondary", sx, sy),
	)
}

func radii(traj *dynamo.Trajectory) []float64 {
	r := make([]float64, traj.Len())
	for i, x := range traj.States {
		r[i] = math.Hypot(x[0], x[1])
	}
	return r
}

func (o *options) runManifolds(cmd *cobra.Command, args []string) error {
	cfg, err := o.resolveConfig(cmd, config.ScenarioManifolds)
	if err != nil {
		return err
	}
	mc, err := cfg.ManifoldConfig()
	if err != nil {
		return err
	}

	o.log.Info("tracing manifolds",
		zap.String("system", cfg.System),
		zap.Float64("mu", cfg.Mu),
		zap.String("point", cfg.Point),
		zap.Float64("epsilon", cfg.Epsilon),
		zap.Float64("horizon", cfg.Horizon),
		zap.Int("samples", cfg.Samples),
	)
	start := time.Now()

	res, err := manifold.NewTracer(mc).Trace(cmd.Context())
	if err != nil {
		return err
	}
	o.log.Debug("traced", zap.Duration("elapsed", time.Since(start)))

	sys := physics.NewCR3BP(cfg.Mu)
	sx, _ := sys.Secondary()
	out := cmd.OutOrStdout()

	runMetrics := map[string]float64{
		"toward_primary":   float64(res.Count(manifold.TowardPrimary)),
		"toward_secondary": float64(res.Count(manifold.TowardSecondary)),
	}

	lines := []string{
		viz.KeyValue(res.Point.String(), res.X),
		viz.KeyValue("jacobi", sys.Jacobi(dynamo.State{res.X, 0, 0, 0})),
		viz.KeyValue("unstable eigenvalue", res.Unstable.Value),
		viz.KeyValue("stable eigenvalue", res.Stable.Value),
	}
	fmt.Fprintln(out, viz.Summary(fmt.Sprintf("%s %s manifolds", cfg.System, res.Point), lines...))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BRANCH\tROLE\tCLASS\tFINAL X\tMAX R\tMIN SECONDARY\tJACOBI DRIFT\tSECTION")
	named := make([]storage.Named, 0, len(res.Branches))
	for _, b := range res.Branches {
		m := branchMetrics(sys, b.Trajectory)
		crossings := analysis.Section(b.Trajectory, 0, sx)
		for k, v := range m {
			runMetrics[b.Name()+"."+k] = v
		}
		runMetrics[b.Name()+".section_crossings"] = float64(len(crossings))

		fmt.Fprintf(w, "%s\t%s\t%s\t%.6f\t%.4f\t%.4e\t%.2e\t%d\n",
			b.Name(), b.Role(), b.Classification,
			b.Trajectory.Final()[0], m["max_radius"], m["closest_secondary"], m["jacobi_drift"], len(crossings))

		named = append(named, storage.Named{
			Name:           b.Name(),
			Classification: b.Classification.String(),
			Trajectory:     b.Trajectory,
		})
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if rate, err := analysis.SeparationRate(res.Branches[0].Trajectory, res.Branches[1].Trajectory, 1); err == nil {
		runMetrics["separation_rate"] = rate
		fmt.Fprintln(out, viz.KeyValue("separation rate", rate))
	} else {
		o.log.Debug("separation rate unavailable", zap.Error(err))
	}
	fmt.Fprintln(out, viz.Status(res.Count(manifold.TowardSecondary) == 2,
		fmt.Sprintf("%d toward primary, %d toward secondary",
			res.Count(manifold.TowardPrimary), res.Count(manifold.TowardSecondary))))

	if o.plot {
		series := make([]viz.PlotSeries, len(res.Branches))
		for i, b := range res.Branches {
			series[i] = viz.PlotSeries{Name: b.Name(), Trajectory: b.Trajectory}
		}
		px, py := sys.Primary()
		fmt.Fprintln(out)
		fmt.Fprint(out, viz.PlotXY(series, []viz.PlotMarker{
			{Glyph: 'P', X: px, Y: py},
			{Glyph: 'S', X: sx, Y: 0},
			{Glyph: 'L', X: res.X, Y: 0},
		}, 100, 30))
		fmt.Fprintln(out, viz.Legend(series))
	}

	if o.noSave {
		return nil
	}

	eig := make([][2]float64, len(res.Eigenvalues))
	for i, v := range res.Eigenvalues {
		eig[i] = [2]float64{real(v), imag(v)}
	}
	runID, err := storage.New(o.dataDir).Save(storage.RunMetadata{
		Scenario:    cfg.Scenario,
		System:      cfg.System,
		Mu:          cfg.Mu,
		Point:       res.Point.String(),
		X:           res.X,
		Epsilon:     cfg.Epsilon,
		Horizon:     cfg.Horizon,
		Eigenvalues: eig,
		Metrics:     runMetrics,
	}, named)
	if err != nil {
		return err
	}
	o.log.Info("saved run", zap.String("run_id", runID))
	fmt.Fprintf(out, "run id: %s\n", runID)
	return nil
}

func (o *options) runIntercept(cmd *cobra.Command, args []string) error {
	cfg, err := o.resolveConfig(cmd, config.ScenarioIntercept)
	if err != nil {
		return err
	}

	o.log.Info("propagating departure",
		zap.String("system", cfg.System),
		zap.Float64("mu", cfg.Mu),
		zap.Float64("offset", cfg.Offset),
		zap.Float64("kick", cfg.Kick),
		zap.Float64("horizon", cfg.Horizon),
	)

	res, err := intercept.NewScenario(cfg.InterceptConfig()).Run(cmd.Context())
	if err != nil {
		return err
	}

	sys := physics.NewCR3BP(cfg.Mu)
	m := branchMetrics(sys, res.Trajectory)
	barrier, barrierAt := metrics.Breaches(res.Trajectory, intercept.BarrierRadius)
	mars, marsAt := metrics.Breaches(res.Trajectory, intercept.MarsOrbitRadius)
	m["barrier_crossing"] = barrierAt
	m["mars_crossing"] = marsAt

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, viz.Summary(fmt.Sprintf("%s L2 departure", cfg.System),
		viz.KeyValue("L2", res.Departure.L2),
		viz.KeyValue("kick", res.Departure.Kick),
		viz.KeyValue("max radius", m["max_radius"]),
		viz.KeyValue("jacobi drift", m["jacobi_drift"]),
		viz.Status(barrier, fmt.Sprintf("barrier %.3g", intercept.BarrierRadius)),
		viz.Status(mars, fmt.Sprintf("mars orbit %.4g", intercept.MarsOrbitRadius)),
	))
	if mars {
		fmt.Fprintln(out, viz.KeyValue("reaches mars orbit at", marsAt))
	}

	if o.plot {
		fmt.Fprintln(out, asciigraph.Plot(radii(res.Trajectory),
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption("heliocentric radius r(t)"),
		))
	}

	if o.noSave {
		return nil
	}

	runID, err := storage.New(o.dataDir).Save(storage.RunMetadata{
		Scenario: cfg.Scenario,
		System:   cfg.System,
		Mu:       cfg.Mu,
		Point:    "L2",
		X:        res.Departure.L2,
		Kick:     res.Departure.Kick,
		Horizon:  cfg.Horizon,
		Metrics:  m,
	}, []storage.Named{{Name: "departure", Trajectory: res.Trajectory}})
	if err != nil {
		return err
	}
	o.log.Info("saved run", zap.String("run_id", runID))
	fmt.Fprintf(out, "run id: %s\n", runID)
	return nil
}

func (o *options) runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := o.resolveConfig(cmd, config.ScenarioIntercept)
	if err != nil {
		return err
	}
	if len(o.kicks) == 0 {
		return fmt.Errorf("no kicks to evaluate: %w", dynamo.ErrParameterBounds)
	}

	o.log.Info("sweeping kicks", zap.Float64("mu", cfg.Mu), zap.Float64s("kicks", o.kicks))

	objective := func(ctx context.Context, p map[string]float64) (float64, error) {
		ic := cfg.InterceptConfig()
		ic.Kick = p["kick"]
		res, err := intercept.NewScenario(ic).Run(ctx)
		if err != nil {
			return 0, err
		}
		r := metrics.Apply(res.Trajectory, metrics.NewMaxRadius())["max_radius"]
		o.log.Debug("evaluated kick", zap.Float64("kick", ic.Kick), zap.Float64("max_radius", r))
		return r, nil
	}

	evals, err := optim.NewGrid([]string{"kick"}, [][]float64{o.kicks}).Evaluate(cmd.Context(), objective)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KICK\tMAX R\tMARS")
	for _, e := range evals {
		reached := e.Value >= intercept.MarsOrbitRadius
		fmt.Fprintf(w, "%.4f\t%.4f\t%s\n", e.Params["kick"], e.Value, strings.TrimSpace(viz.Status(reached, "")))
	}
	return w.Flush()
}
