package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
)

// Separation is the root mean square distance between matching bodies of
// two registries of equal size.
func Separation(a, b *physics.Registry) float64 {
	pa, pb := a.Positions(), b.Positions()
	sum := 0.0
	for i := range pa {
		d := pb[i].Sub(pa[i])
		sum += d.Dot(d)
	}
	return math.Sqrt(sum / float64(len(pa)))
}

// LyapunovExponent estimates the largest Lyapunov exponent, per step, from
// the divergence of a reference registry and a perturbed copy:
//
//	λ ≈ (1/t) * ln(d(t)/d(0))
//
// Bodies cannot be moved from outside, so there is no renormalization;
// the estimate stops once the separation reaches saturate, which keeps it
// in the exponential regime. Both registries are advanced in place.
func LyapunovExponent(ref, perturbed *physics.Registry, stepper sim.Stepper, steps int, saturate float64) (float64, error) {
	if ref.Len() != perturbed.Len() || ref.Len() == 0 {
		return 0, fmt.Errorf("registries of %d and %d bodies: %w", ref.Len(), perturbed.Len(), dynamo.ErrParameterBounds)
	}
	if steps < 1 {
		return 0, fmt.Errorf("steps %d: %w", steps, dynamo.ErrParameterBounds)
	}

	d0 := Separation(ref, perturbed)
	if d0 == 0 {
		return 0, fmt.Errorf("registries start identical: %w", dynamo.ErrParameterBounds)
	}
	if !(d0 < saturate) {
		return 0, fmt.Errorf("initial separation %g not below saturation %g: %w", d0, saturate, dynamo.ErrParameterBounds)
	}

	d, taken := d0, 0
	for taken < steps && d < saturate {
		stepper.Step(ref)
		stepper.Step(perturbed)
		taken++
		d = Separation(ref, perturbed)
	}

	if math.IsNaN(d) || math.IsInf(d, 0) {
		return 0, fmt.Errorf("separation after %d steps: %w", taken, dynamo.ErrInvalidState)
	}
	return math.Log(d/d0) / float64(taken), nil
}
