package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for the libration pipeline.
var (
	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrRootFinding indicates the libration point solver did not converge.
	ErrRootFinding = errors.New("dynamo: root finding did not converge")

	// ErrEigenSelection indicates zero or several eigenvalues matched a
	// required stability class.
	ErrEigenSelection = errors.New("dynamo: eigenvalue selection failed")

	// ErrDivergence indicates the integration left the region where it can
	// be trusted, usually near a primary.
	ErrDivergence = errors.New("dynamo: integration diverged")

	// ErrUnstable indicates the state left the escape radius.
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")

	// ErrInvalidState indicates a state vector with invalid dimensions or values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrStepTooSmall indicates adaptive timestep became too small.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrStepLimit indicates the integrator exhausted its step budget.
	ErrStepLimit = errors.New("dynamo: step budget exhausted")

	// ErrInvariantDrift indicates the conserved quantity of the system moved
	// more than the propagator allows.
	ErrInvariantDrift = errors.New("dynamo: invariant drift above bound")

	// ErrStepRejected is returned by adaptive integrators when the error
	// estimate exceeds the tolerance. The suggested step is still returned.
	ErrStepRejected = errors.New("dynamo: step rejected by error control")

	// ErrInvalidGrid indicates a time grid that is too short or not
	// strictly monotonic.
	ErrInvalidGrid = errors.New("dynamo: time grid must be strictly monotonic with at least two points")

	// ErrDimensionMismatch indicates mismatched state/system dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// SimulationError wraps an error with simulation context. Both ErrDivergence
// and the concrete cause match with errors.Is.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Cause   error
	Wrapped error
}

func (e *SimulationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("step %d (t=%.6f): %v: %v", e.Step, e.Time, e.Wrapped, e.Cause)
	}
	return fmt.Sprintf("step %d (t=%.6f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Wrapped, e.Cause}
	}
	return []error{e.Wrapped}
}
