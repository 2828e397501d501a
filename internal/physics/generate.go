package physics

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// DefaultInset is the distance generated bodies keep from the domain edge.
const DefaultInset = 10.0

// Palette assigns display colors to the i-th of n generated bodies.
type Palette interface {
	Colors(i, n int) (color, trail string)
}

// GenerateSpec parameterises random body generation for demos.
type GenerateSpec struct {
	Count       int
	MassMax     float64
	XMax, YMax  float64
	VelocityMax float64
	Inset       float64
	TrailCap    int
	Palette     Palette
}

// Generate draws spec.Count bodies: mass uniform in [0, MassMax), each
// coordinate uniform in [Inset, bound-Inset], each velocity component
// uniform in [0, VelocityMax). A zero mass draw is redrawn.
func Generate(rng *rand.Rand, spec GenerateSpec) ([]*Body, error) {
	if spec.Count < 0 {
		return nil, fmt.Errorf("count %d: %w", spec.Count, dynamo.ErrParameterBounds)
	}
	if !(spec.MassMax > 0) {
		return nil, fmt.Errorf("mass max %v: %w", spec.MassMax, dynamo.ErrInvalidMass)
	}
	if spec.VelocityMax < 0 {
		return nil, fmt.Errorf("velocity max %v: %w", spec.VelocityMax, dynamo.ErrParameterBounds)
	}
	inset := spec.Inset
	if inset == 0 {
		inset = DefaultInset
	}
	if spec.XMax-inset < inset || spec.YMax-inset < inset {
		return nil, fmt.Errorf("bounds %vx%v with inset %v: %w", spec.XMax, spec.YMax, inset, dynamo.ErrOutOfBoundsConfig)
	}

	bodies := make([]*Body, 0, spec.Count)
	for i := 0; i < spec.Count; i++ {
		mass := rng.Float64() * spec.MassMax
		for mass == 0 {
			mass = rng.Float64() * spec.MassMax
		}

		d := Descriptor{
			Mass: mass,
			Position: dynamo.Vec2{
				X: uniform(rng, inset, spec.XMax-inset),
				Y: uniform(rng, inset, spec.YMax-inset),
			},
			Velocity: dynamo.Vec2{
				X: rng.Float64() * spec.VelocityMax,
				Y: rng.Float64() * spec.VelocityMax,
			},
			TrailCap: spec.TrailCap,
		}
		if spec.Palette != nil {
			d.Color, d.TrailColor = spec.Palette.Colors(i, spec.Count)
		}

		b, err := NewBody(d)
		if err != nil {
			return nil, fmt.Errorf("generated body %d: %w", i, err)
		}
		bodies = append(bodies, b)
	}
	return bodies, nil
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
