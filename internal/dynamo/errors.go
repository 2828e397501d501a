package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidMass indicates a body constructed with a non-positive mass.
	ErrInvalidMass = errors.New("dynamo: mass must be positive")

	// ErrDegenerateForce indicates two distinct bodies at the same position,
	// where the inverse-square force is undefined.
	ErrDegenerateForce = errors.New("dynamo: degenerate force (zero distance)")

	// ErrOutOfBoundsConfig indicates non-positive domain dimensions or a
	// margin that leaves no interior.
	ErrOutOfBoundsConfig = errors.New("dynamo: domain dimensions out of bounds")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrInvalidState indicates a position or velocity became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Body    int
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d body %d: %v", e.Step, e.Body, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
