// Package analysis post-processes sampled trajectories.
//
//   - [Section]: Poincaré section crossings of a coordinate plane
//   - [SeparationRate]: finite-time exponential growth of the distance
//     between two trajectories sharing a time grid
//
// For the two unstable branches leaving a collinear point the separation
// rate over a short window approaches the real eigenvalue of the saddle.
package analysis
