package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

const (
	DefaultMargin      = 10.0
	DefaultRestitution = -0.5
	DefaultMinDistance = 1.0

	// bodies per goroutine below which parallel accumulation runs inline
	parallelMinChunk = 16
)

// Domain is the rectangle [0,Width]x[0,Height]. Bodies bounce off the
// inset box [Margin, Width-Margin]x[Margin, Height-Margin].
type Domain struct {
	Width, Height float64
	Margin        float64
}

// Validate rejects non-positive dimensions and margins that leave no
// interior.
func (d Domain) Validate() error {
	if !(d.Width > 0) || !(d.Height > 0) {
		return fmt.Errorf("domain %vx%v: %w", d.Width, d.Height, dynamo.ErrOutOfBoundsConfig)
	}
	if d.Margin < 0 || d.Margin >= math.Min(d.Width, d.Height)/2 {
		return fmt.Errorf("margin %v for domain %vx%v: %w", d.Margin, d.Width, d.Height, dynamo.ErrOutOfBoundsConfig)
	}
	return nil
}

// Contains reports whether p lies inside the inset box.
func (d Domain) Contains(p dynamo.Vec2) bool {
	return p.X >= d.Margin && p.X <= d.Width-d.Margin &&
		p.Y >= d.Margin && p.Y <= d.Height-d.Margin
}

// StepConfig holds the constants of one integration step.
type StepConfig struct {
	G  float64
	Dt float64 // scales acceleration into velocity
	// Drift scales velocity into position. 1 moves a body by its velocity
	// each step; Dt gives plain explicit Euler.
	Drift       float64
	Restitution float64
	MinDistance float64
	// ContactClamp raises the force distance floor of a pair to the sum of
	// their radii, so a body passing through another gets a contact-sized
	// kick instead of one sized by MinDistance.
	ContactClamp bool
	Domain       Domain
	Parallel     bool
	Workers      int
}

// DefaultStepConfig matches the classic 700x700 demo.
func DefaultStepConfig() StepConfig {
	return StepConfig{
		G:            0.01,
		Dt:           80,
		Drift:        1,
		Restitution:  DefaultRestitution,
		MinDistance:  DefaultMinDistance,
		ContactClamp: true,
		Domain:       Domain{Width: 700, Height: 700, Margin: DefaultMargin},
	}
}

func (c StepConfig) Validate() error {
	if err := c.Domain.Validate(); err != nil {
		return err
	}
	if math.IsNaN(c.G) || math.IsInf(c.G, 0) || c.G < 0 {
		return fmt.Errorf("G %v: %w", c.G, dynamo.ErrParameterBounds)
	}
	if !(c.Dt > 0) {
		return fmt.Errorf("dt %v must be positive: %w", c.Dt, dynamo.ErrParameterBounds)
	}
	if !(c.Drift > 0) {
		return fmt.Errorf("drift %v must be positive: %w", c.Drift, dynamo.ErrParameterBounds)
	}
	if !(c.Restitution > -1 && c.Restitution < 0) {
		return fmt.Errorf("restitution %v must be in (-1, 0): %w", c.Restitution, dynamo.ErrParameterBounds)
	}
	if !(c.MinDistance > 0) {
		return fmt.Errorf("min distance %v must be positive: %w", c.MinDistance, dynamo.ErrParameterBounds)
	}
	return nil
}

// Separation returns the distance used for the force and potential of a
// pair of radii ra and rb that are d apart.
func (c StepConfig) Separation(d, ra, rb float64) float64 {
	floor := c.MinDistance
	if c.ContactClamp {
		floor = math.Max(floor, ra+rb)
	}
	return clamp(d, floor)
}

// Energy is the total energy of states under this config's G and
// distance clamp.
func (c StepConfig) Energy(states []BodyState) float64 {
	return energy(states, c.G, c.Separation)
}

// Stepper advances a Registry by one discrete step at a time. Between calls
// it keeps only scratch buffers, so it must not be shared by goroutines.
type Stepper struct {
	cfg StepConfig
	pos []dynamo.Vec2
	vel []dynamo.Vec2
}

func NewStepper(cfg StepConfig) (*Stepper, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Stepper{cfg: cfg}, nil
}

func (s *Stepper) Config() StepConfig { return s.cfg }

func (s *Stepper) ensureScratch(n int) {
	if len(s.pos) != n {
		s.pos = make([]dynamo.Vec2, n)
		s.vel = make([]dynamo.Vec2, n)
	}
}

// Step advances every body in r by one step. All forces are computed from
// the positions at the start of the step; velocities are committed only
// after every body's accumulation has finished.
func (s *Stepper) Step(r *Registry) {
	n := len(r.bodies)
	s.ensureScratch(n)

	for i, b := range r.bodies {
		s.pos[i] = b.pos
		s.vel[i] = b.vel
	}

	if s.cfg.Parallel {
		dynamo.ParallelFor(n, s.cfg.Workers, parallelMinChunk, func(start, end int) {
			s.accumulate(r.bodies, start, end)
		})
	} else {
		s.accumulate(r.bodies, 0, n)
	}

	dom := s.cfg.Domain
	for i, b := range r.bodies {
		if !b.static {
			v := s.vel[i]
			next := b.pos.Add(v.Scale(s.cfg.Drift))
			if next.X < dom.Margin || next.X > dom.Width-dom.Margin {
				v.X *= s.cfg.Restitution
			}
			if next.Y < dom.Margin || next.Y > dom.Height-dom.Margin {
				v.Y *= s.cfg.Restitution
			}
			b.vel = v
			b.pos = b.pos.Add(v.Scale(s.cfg.Drift))
		}
		b.trail.Push(b.pos)
	}
}

// accumulate adds the gravitational velocity change of every other body
// to s.vel[i] for i in [start, end). It reads only the position snapshot
// and writes only its own range of s.vel.
func (s *Stepper) accumulate(bodies []*Body, start, end int) {
	g, dt := s.cfg.G, s.cfg.Dt
	for i := start; i < end; i++ {
		b := bodies[i]
		if b.static {
			continue
		}
		pi := s.pos[i]
		v := s.vel[i]
		for j, o := range bodies {
			if j == i {
				continue
			}
			dx := s.pos[j].X - pi.X
			dy := s.pos[j].Y - pi.Y
			d := s.cfg.Separation(math.Hypot(dx, dy), b.radius, o.radius)

			force := forceMagnitude(g, b.mass, o.mass, d)
			dv := force / b.mass * dt

			sin, cos := math.Sincos(math.Atan2(dy, dx))
			v.X += dv * cos
			v.Y += dv * sin
		}
		s.vel[i] = v
	}
}
