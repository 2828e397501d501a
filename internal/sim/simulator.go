package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

type Simulator struct {
	stepper   Stepper
	metrics   []Metric
	observers []Observer
}

func New(stepper Stepper) *Simulator {
	return &Simulator{
		stepper:   stepper,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run steps reg up to cfg.MaxSteps times. On cancellation it returns the
// partial result together with ctx.Err().
func (s *Simulator) Run(ctx context.Context, reg *physics.Registry, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	result := &Result{
		Frames:  make([]Frame, 0, cfg.MaxSteps/cfg.RecordEvery+2),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	states := reg.States()
	s.observe(0, states)
	result.Frames = append(result.Frames, frameOf(0, states))

	for i := 1; i <= cfg.MaxSteps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		s.stepper.Step(reg)
		result.StepsTaken++

		if cfg.ValidateState {
			if idx, err := reg.Validate(); err != nil {
				result.Errors = append(result.Errors, &dynamo.SimulationError{Step: i, Body: idx, Wrapped: err})
				break
			}
		}

		states = reg.States()
		s.observe(i, states)

		if i%cfg.RecordEvery == 0 || i == cfg.MaxSteps {
			result.Frames = append(result.Frames, frameOf(i, states))
		}
	}

	s.collect(result)
	return result, nil
}

func (s *Simulator) observe(step int, states []physics.BodyState) {
	for _, m := range s.metrics {
		m.Observe(step, states)
	}
	for _, obs := range s.observers {
		obs.OnStep(step, states)
	}
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.MaxSteps <= 0 {
		return fmt.Errorf("max steps must be positive, got %d: %w", cfg.MaxSteps, dynamo.ErrParameterBounds)
	}
	if cfg.RecordEvery <= 0 {
		return fmt.Errorf("record interval must be positive, got %d: %w", cfg.RecordEvery, dynamo.ErrParameterBounds)
	}
	return nil
}

// RunWithCallback steps reg until maxSteps, cancellation, or callback
// returning false. The callback sees the registry after each step.
func (s *Simulator) RunWithCallback(ctx context.Context, reg *physics.Registry, maxSteps int, callback func(step int, reg *physics.Registry) bool) error {
	if maxSteps <= 0 {
		return fmt.Errorf("max steps must be positive, got %d: %w", maxSteps, dynamo.ErrParameterBounds)
	}

	for i := 1; i <= maxSteps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.stepper.Step(reg)

		if idx, err := reg.Validate(); err != nil {
			return &dynamo.SimulationError{Step: i, Body: idx, Wrapped: err}
		}
		if !callback(i, reg) {
			return nil
		}
	}

	return nil
}
