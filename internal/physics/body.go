package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	DefaultColor      = "#3cb371" // medium sea green
	DefaultTrailColor = "#2e8b57"
)

// Descriptor is the construction input for a body.
type Descriptor struct {
	Mass       float64
	Position   dynamo.Vec2
	Velocity   dynamo.Vec2
	TrailCap   int
	Static     bool
	Color      string
	TrailColor string
}

// Body is one simulated mass. Mass and radius are fixed at construction;
// position, velocity and trail are advanced only by a Stepper.
type Body struct {
	mass       float64
	radius     float64
	static     bool
	color      string
	trailColor string

	pos   dynamo.Vec2
	vel   dynamo.Vec2
	trail *Trail
}

// Radius returns the radius of a unit-density sphere of the given mass.
func Radius(mass float64) float64 {
	return math.Cbrt(mass * math.Pi * 0.75)
}

// NewBody validates d and builds a body from it.
func NewBody(d Descriptor) (*Body, error) {
	if !(d.Mass > 0) || math.IsInf(d.Mass, 0) {
		return nil, fmt.Errorf("mass %v: %w", d.Mass, dynamo.ErrInvalidMass)
	}
	if d.TrailCap < 1 {
		return nil, fmt.Errorf("trail capacity %d: %w", d.TrailCap, dynamo.ErrParameterBounds)
	}
	if !d.Position.IsValid() || !d.Velocity.IsValid() {
		return nil, fmt.Errorf("position %v velocity %v: %w", d.Position, d.Velocity, dynamo.ErrInvalidState)
	}

	color, trailColor := d.Color, d.TrailColor
	if color == "" {
		color = DefaultColor
	}
	if trailColor == "" {
		trailColor = DefaultTrailColor
	}

	return &Body{
		mass:       d.Mass,
		radius:     Radius(d.Mass),
		static:     d.Static,
		color:      color,
		trailColor: trailColor,
		pos:        d.Position,
		vel:        d.Velocity,
		trail:      NewTrail(d.TrailCap, d.Position),
	}, nil
}

func (b *Body) Mass() float64         { return b.mass }
func (b *Body) Radius() float64       { return b.radius }
func (b *Body) Static() bool          { return b.static }
func (b *Body) Color() string         { return b.color }
func (b *Body) TrailColor() string    { return b.trailColor }
func (b *Body) Position() dynamo.Vec2 { return b.pos }
func (b *Body) Velocity() dynamo.Vec2 { return b.vel }
func (b *Body) Trail() []TrailPoint   { return b.trail.Points() }

func (b *Body) state(i int) BodyState { return newBodyState(i, b) }

func (b *Body) clone() *Body {
	c := *b
	c.trail = b.trail.clone()
	return &c
}
