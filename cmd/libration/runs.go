package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/libration/internal/config"
	"github.com/san-kum/libration/internal/dynamo"
	"github.com/san-kum/libration/internal/export"
	"github.com/san-kum/libration/internal/intercept"
	"github.com/san-kum/libration/internal/storage"
	"github.com/san-kum/libration/internal/viz"
)

func (o *options) listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(o.dataDir).List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tSYSTEM\tPOINT\tTIME\tHORIZON\tTRAJECTORIES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2f\t%d\n",
			run.ID,
			run.Scenario,
			run.System,
			run.Point,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Horizon,
			len(run.Trajectories),
		)
	}

	return w.Flush()
}

type loadedRun struct {
	meta  *storage.RunMetadata
	trajs []*dynamo.Trajectory
}

func (o *options) loadRun(runID string) (*loadedRun, error) {
	st := storage.New(o.dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, err
	}

	run := &loadedRun{meta: meta}
	for _, ti := range meta.Trajectories {
		tr, err := st.LoadTrajectory(runID, ti.Name)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", ti.Name, err)
		}
		run.trajs = append(run.trajs, tr)
	}
	o.log.Debug("loaded run", zap.String("run_id", runID), zap.Int("trajectories", len(run.trajs)))
	return run, nil
}

func (o *options) showRun(cmd *cobra.Command, args []string) error {
	run, err := o.loadRun(args[0])
	if err != nil {
		return err
	}
	meta := run.meta
	out := cmd.OutOrStdout()

	lines := []string{
		viz.KeyValue("scenario", meta.Scenario),
		viz.KeyValue("mu", meta.Mu),
		viz.KeyValue(meta.Point, meta.X),
		viz.KeyValue("created", meta.Timestamp.Format("2006-01-02 15:04:05")),
	}
	for _, ti := range meta.Trajectories {
		label := ti.Name
		if ti.Classification != "" {
			label += " (" + ti.Classification + ")"
		}
		lines = append(lines, viz.KeyValue(label, fmt.Sprintf("%d samples", ti.Samples)))
	}
	fmt.Fprintln(out, viz.Summary(meta.ID, lines...))

	names := make([]string, 0, len(meta.Metrics))
	for name := range meta.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "  %s: %.6g\n", name, meta.Metrics[name])
	}
	fmt.Fprintln(out)

	if len(run.trajs) == 0 {
		return fmt.Errorf("no data to plot")
	}

	xs := make([][]float64, len(run.trajs))
	for i, tr := range run.trajs {
		xs[i] = tr.Column(0)
	}
	fmt.Fprintln(out, asciigraph.PlotMany(xs,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Yellow, asciigraph.Blue, asciigraph.Green),
		asciigraph.Caption("x(t) per trajectory"),
	))
	fmt.Fprintln(out)

	rs := make([][]float64, len(run.trajs))
	for i, tr := range run.trajs {
		rs[i] = radii(tr)
	}
	fmt.Fprintln(out, asciigraph.PlotMany(rs,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Yellow, asciigraph.Blue, asciigraph.Green),
		asciigraph.Caption("r(t) per trajectory"),
	))

	return nil
}

func (o *options) listPresets(cmd *cobra.Command, args []string) error {
	systems := make([]string, 0, len(config.Presets))
	for system := range config.Presets {
		systems = append(systems, system)
	}
	sort.Strings(systems)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSCENARIO\tMU\tPOINT\tEPSILON\tKICK\tHORIZON\tSAMPLES")
	for _, system := range systems {
		for _, name := range config.ListPresets(system) {
			p := config.GetPreset(system, name)
			fmt.Fprintf(w, "%s/%s\t%s\t%g\t%s\t%g\t%g\t%g\t%d\n",
				system, name, p.Scenario, p.Mu, p.Point, p.Epsilon, p.Kick, p.Horizon, p.Samples)
		}
	}
	return w.Flush()
}

func (o *options) exportSVG(cmd *cobra.Command, args []string) error {
	run, err := o.loadRun(args[0])
	if err != nil {
		return err
	}
	meta := run.meta

	scene := export.Scene{
		Width:  900,
		Height: 900,
		Markers: []export.Marker{
			{Label: "primary", X: -meta.Mu, Y: 0, Radius: 6, Color: "#ffd75f"},
			{Label: "secondary", X: 1 - meta.Mu, Y: 0, Radius: 4, Color: "#5f87ff"},
			{Label: meta.Point, X: meta.X, Y: 0, Radius: 2},
		},
	}
	for i, ti := range meta.Trajectories {
		scene.Series = append(scene.Series, export.Series{Name: ti.Name, Trajectory: run.trajs[i]})
	}
	if meta.Scenario == config.ScenarioIntercept {
		scene.Circles = []export.Circle{
			{Label: "barrier", Radius: intercept.BarrierRadius},
			{Label: "mars orbit", Radius: intercept.MarsOrbitRadius, Color: "#d75f5f"},
		}
	}

	svg := export.TrajectoriesToSVG(scene)
	if svg == "" {
		return fmt.Errorf("no data to draw")
	}

	path := o.output
	if path == "" {
		path = meta.ID + ".svg"
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	o.log.Info("exported svg", zap.String("run_id", meta.ID), zap.String("path", path))
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

func (o *options) exportJSON(cmd *cobra.Command, args []string) error {
	run, err := o.loadRun(args[0])
	if err != nil {
		return err
	}
	meta := run.meta

	data := &export.ExportData{
		Scenario: meta.Scenario,
		Mu:       meta.Mu,
		Point:    meta.Point,
		X:        meta.X,
		Metrics:  meta.Metrics,
	}
	for i, ti := range meta.Trajectories {
		data.Trajectories = append(data.Trajectories, export.NewTrajectoryData(ti.Name, ti.Classification, run.trajs[i]))
	}

	if o.output == "-" || o.output == "" {
		return export.WriteJSON(cmd.OutOrStdout(), data)
	}
	if err := export.ExportJSON(o.output, data); err != nil {
		return err
	}
	o.log.Info("exported json", zap.String("run_id", meta.ID), zap.String("path", o.output))
	return nil
}
