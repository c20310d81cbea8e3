// Package manifold traces the four linear-regime manifold branches of a
// collinear libration point.
//
// The unstable direction is propagated forward in time (the "drop" away from
// the point) and the stable direction backward in time (the "lift" that
// approaches it). Each direction is tried on both sides, +ε and -ε, and the
// resulting trajectory is classified by where it ends up relative to the
// libration point:
//
//	tracer := manifold.NewTracer(manifold.DefaultConfig(physics.MuEarthMoon))
//	res, err := tracer.Trace(ctx)
//	for _, b := range res.Branches {
//	    fmt.Println(b.Name(), b.Classification)
//	}
//
// # Classification
//
// A branch whose final x exceeds the libration x is [TowardSecondary],
// otherwise [TowardPrimary]. The rule only looks at the last sample, so a
// branch that overshoots and comes back within the horizon is classified by
// where it happens to be at the end.
package manifold
