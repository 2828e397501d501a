package sim

import (
	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

// Stepper advances a registry by one step.
type Stepper interface {
	Step(r *physics.Registry)
}

type Metric interface {
	Name() string
	Observe(step int, states []physics.BodyState)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(step int, states []physics.BodyState)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(step int, states []physics.BodyState)

func (f ObserverFunc) OnStep(step int, states []physics.BodyState) { f(step, states) }

type Config struct {
	MaxSteps      int
	RecordEvery   int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		MaxSteps:      10000,
		RecordEvery:   1,
		ValidateState: true,
	}
}

// Sample is one body's kinematic state in a recorded frame.
type Sample struct {
	Position dynamo.Vec2 `json:"position"`
	Velocity dynamo.Vec2 `json:"velocity"`
}

type Frame struct {
	Step   int      `json:"step"`
	Bodies []Sample `json:"bodies"`
}

type Result struct {
	Frames     []Frame
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

func frameOf(step int, states []physics.BodyState) Frame {
	f := Frame{Step: step, Bodies: make([]Sample, len(states))}
	for i, s := range states {
		f.Bodies[i] = Sample{Position: s.Position, Velocity: s.Velocity}
	}
	return f
}
