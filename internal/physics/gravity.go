package physics

import (
	"fmt"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// Distance returns the Euclidean distance between the current positions
// of a and b.
func Distance(a, b *Body) float64 {
	return b.pos.Sub(a.pos).Norm()
}

// GravityForce returns the magnitude g*ma*mb/d² of the attraction between
// a and b. Coincident bodies yield ErrDegenerateForce.
func GravityForce(a, b *Body, g float64) (float64, error) {
	d := Distance(a, b)
	if d == 0 {
		return 0, fmt.Errorf("bodies at %v: %w", a.pos, dynamo.ErrDegenerateForce)
	}
	return forceMagnitude(g, a.mass, b.mass, d), nil
}

// ClampedGravityForce is GravityForce with the distance clamped to at
// least minDistance. This is an approximation: below minDistance the force
// stops growing, so close encounters stay finite.
func ClampedGravityForce(a, b *Body, g, minDistance float64) float64 {
	return forceMagnitude(g, a.mass, b.mass, clamp(Distance(a, b), minDistance))
}

func forceMagnitude(g, m1, m2, d float64) float64 {
	return g * m1 * m2 / (d * d)
}

func clamp(d, minDistance float64) float64 {
	if d < minDistance {
		return minDistance
	}
	return d
}
