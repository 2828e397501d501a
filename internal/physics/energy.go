package physics

import "github.com/san-kum/orbitsim/internal/dynamo"

// Energy returns the kinetic energy of the moving bodies plus the pairwise
// potential energy of all bodies, with distances clamped to minDistance.
// StepConfig.Energy applies the stepper's full clamp instead.
func Energy(states []BodyState, g, minDistance float64) float64 {
	return energy(states, g, func(d, _, _ float64) float64 { return clamp(d, minDistance) })
}

func energy(states []BodyState, g float64, separation func(d, ra, rb float64) float64) float64 {
	ke, pe := 0.0, 0.0
	for i, a := range states {
		if !a.Static {
			ke += 0.5 * a.Mass * a.Velocity.Dot(a.Velocity)
		}
		for j := i + 1; j < len(states); j++ {
			b := states[j]
			d := separation(b.Position.Sub(a.Position).Norm(), a.Radius, b.Radius)
			pe -= g * a.Mass * b.Mass / d
		}
	}
	return ke + pe
}

// Momentum returns the total linear momentum of the moving bodies.
func Momentum(states []BodyState) dynamo.Vec2 {
	var p dynamo.Vec2
	for _, s := range states {
		if s.Static {
			continue
		}
		p = p.Add(s.Velocity.Scale(s.Mass))
	}
	return p
}

// AngularMomentum returns the z component of the moving bodies' angular
// momentum about the origin.
func AngularMomentum(states []BodyState) float64 {
	L := 0.0
	for _, s := range states {
		if s.Static {
			continue
		}
		L += s.Mass * (s.Position.X*s.Velocity.Y - s.Position.Y*s.Velocity.X)
	}
	return L
}
