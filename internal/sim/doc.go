// Package sim propagates CR3BP states over explicit time grids.
//
// [Propagator] wraps the adaptive Dormand-Prince stepper with grid clipping,
// a step budget and divergence detection. Failures are reported as
// *dynamo.SimulationError values matching dynamo.ErrDivergence:
//
//	prop := sim.NewPropagator(physics.NewCR3BP(mu), sim.WithTolerance(1e-11))
//	traj, err := prop.Run(ctx, x0, sim.Linspace(0, -15, 10000))
//	if errors.Is(err, dynamo.ErrDivergence) {
//	    // trajectory came too close to a primary
//	}
package sim
