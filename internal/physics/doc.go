// Package physics provides the equations of motion of the planar circular
// restricted three-body problem (CR3BP).
//
// [CR3BP] implements [dynamo.System] and [dynamo.Invariant]; the invariant is
// the Jacobi constant, which is the primary accuracy check for the
// propagator:
//
//	dyn := physics.NewCR3BP(physics.MuEarthMoon)
//	c0 := dyn.Jacobi(x0)
//	// ... propagate ...
//	drift := math.Abs(dyn.Jacobi(xf)-c0) / math.Abs(c0)
package physics
