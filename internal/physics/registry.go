package physics

import (
	"fmt"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// BodyState is a read-only copy of one body, as handed to renderers,
// metrics and the run store.
type BodyState struct {
	Index      int
	Mass       float64
	Radius     float64
	Static     bool
	Position   dynamo.Vec2
	Velocity   dynamo.Vec2
	Color      string
	TrailColor string
	Trail      []TrailPoint
}

func newBodyState(i int, b *Body) BodyState {
	return BodyState{
		Index:      i,
		Mass:       b.mass,
		Radius:     b.radius,
		Static:     b.static,
		Position:   b.pos,
		Velocity:   b.vel,
		Color:      b.color,
		TrailColor: b.trailColor,
		Trail:      b.trail.Points(),
	}
}

// Registry is the ordered set of bodies in a simulation. It owns its
// bodies: constructors copy what they are given and callers only ever see
// BodyState snapshots. The set is fixed for the life of the registry.
type Registry struct {
	bodies []*Body
}

// NewRegistry copies bodies into a new registry. Insertion order is the
// iteration and rendering order.
func NewRegistry(bodies ...*Body) (*Registry, error) {
	r := &Registry{bodies: make([]*Body, len(bodies))}
	for i, b := range bodies {
		if b == nil {
			return nil, fmt.Errorf("body %d is nil: %w", i, dynamo.ErrParameterBounds)
		}
		r.bodies[i] = b.clone()
	}
	return r, nil
}

// FromDescriptors builds every body from its descriptor. The first invalid
// descriptor aborts construction.
func FromDescriptors(descs []Descriptor) (*Registry, error) {
	r := &Registry{bodies: make([]*Body, 0, len(descs))}
	for i, d := range descs {
		b, err := NewBody(d)
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		r.bodies = append(r.bodies, b)
	}
	return r, nil
}

func (r *Registry) Len() int { return len(r.bodies) }

// Body returns a snapshot of the i-th body.
func (r *Registry) Body(i int) BodyState {
	return r.bodies[i].state(i)
}

// States returns snapshots of every body in registry order.
func (r *Registry) States() []BodyState {
	out := make([]BodyState, len(r.bodies))
	for i, b := range r.bodies {
		out[i] = b.state(i)
	}
	return out
}

// Positions returns the current positions in registry order.
func (r *Registry) Positions() []dynamo.Vec2 {
	out := make([]dynamo.Vec2, len(r.bodies))
	for i, b := range r.bodies {
		out[i] = b.pos
	}
	return out
}

// Clone returns an independent deep copy of the registry.
func (r *Registry) Clone() *Registry {
	c := &Registry{bodies: make([]*Body, len(r.bodies))}
	for i, b := range r.bodies {
		c.bodies[i] = b.clone()
	}
	return c
}

// Validate reports the first body whose position or velocity is not
// finite.
func (r *Registry) Validate() (int, error) {
	for i, b := range r.bodies {
		if !b.pos.IsValid() || !b.vel.IsValid() {
			return i, dynamo.ErrInvalidState
		}
	}
	return -1, nil
}
