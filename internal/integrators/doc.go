// Package integrators implements the Runge-Kutta steppers used by the
// propagator: an adaptive Dormand-Prince 5(4) pair with embedded error
// control and a fixed-step RK4 for comparison runs.
package integrators
