// Package dynamo provides the shared primitives of the gravity simulation.
//
//   - [Vec2]: 2D vector used for positions, velocities and trail samples
//   - domain errors ([ErrInvalidMass], [ErrDegenerateForce],
//     [ErrOutOfBoundsConfig], [ErrParameterBounds], [ErrInvalidState])
//   - [SimulationError]: error with step context
//   - [ParallelFor]: chunked fork/join over an index range
//
// Callers wrap the sentinel errors with fmt.Errorf("...: %w") and match
// them with errors.Is.
package dynamo
