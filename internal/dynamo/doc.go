// Package dynamo provides the core primitives shared by the libration
// pipeline.
//
// The package defines the fundamental interfaces and types for numerical
// integration of the planar CR3BP and the scenarios built on top of it:
//
//   - [State]: vector representing system state (x, y, vx, vy)
//   - [Trajectory]: ordered states sampled on a monotonic time grid
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator], [AdaptiveIntegrator]: numerical steppers
//   - [Metric]: observer evaluated over a trajectory by callers
//
// # Example
//
//	dyn := physics.NewCR3BP(physics.MuEarthMoon)
//	prop := sim.NewPropagator(dyn)
//	traj, err := prop.Run(ctx, x0, sim.Linspace(0, 15, 10000))
//
// # Thread Safety
//
// State and Trajectory values returned by the core are never mutated after
// they are produced and may be shared freely between goroutines. Integrators
// carry scratch buffers and must not be shared.
package dynamo
