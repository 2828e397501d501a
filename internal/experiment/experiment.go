// Package experiment turns a config into a ready-to-run scenario: the
// body registry, the stepper and a simulator with the default metrics.
package experiment

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/san-kum/orbitsim/internal/config"
	"github.com/san-kum/orbitsim/internal/metrics"
	"github.com/san-kum/orbitsim/internal/palette"
	"github.com/san-kum/orbitsim/internal/physics"
	"github.com/san-kum/orbitsim/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	registry  *physics.Registry
	stepper   *physics.Stepper
	simulator *sim.Simulator
}

// New validates cfg and builds the scenario it describes. The config is
// copied, later edits to cfg do not reach the experiment.
func New(cfg *config.Config) (*Experiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.Clone()

	reg, err := BuildRegistry(cfg, cfg.Seed)
	if err != nil {
		return nil, err
	}
	stepper, err := physics.NewStepper(cfg.StepConfig())
	if err != nil {
		return nil, err
	}

	s := sim.New(stepper)
	for _, m := range DefaultMetrics(cfg) {
		s.AddMetric(m)
	}

	return &Experiment{
		cfg:       cfg,
		registry:  reg,
		stepper:   stepper,
		simulator: s,
	}, nil
}

// BuildRegistry creates the listed bodies followed by the generated ones.
// Generation and random colors draw from a source seeded with seed, so the
// same config and seed always give the same bodies.
func BuildRegistry(cfg *config.Config, seed int64) (*physics.Registry, error) {
	rng := rand.New(rand.NewSource(seed))
	pal, err := palette.ForMode(cfg.ColorMode, rng)
	if err != nil {
		return nil, err
	}

	descs := cfg.Descriptors()
	total := len(descs) + cfg.Generate.Count
	for i := range descs {
		d := &descs[i]
		switch {
		case d.Color == "" && cfg.ColorMode != "" && cfg.ColorMode != "fixed":
			d.Color, d.TrailColor = pal.Colors(i, total)
		case d.Color != "" && d.TrailColor == "":
			d.TrailColor = palette.TrailHex(d.Color)
		}
	}

	bodies := make([]*physics.Body, 0, len(descs)+cfg.Generate.Count)
	for i, d := range descs {
		b, err := physics.NewBody(d)
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		bodies = append(bodies, b)
	}

	if cfg.Generate.Count > 0 {
		generated, err := physics.Generate(rng, physics.GenerateSpec{
			Count:       cfg.Generate.Count,
			MassMax:     cfg.Generate.MassMax,
			XMax:        cfg.Width,
			YMax:        cfg.Height,
			VelocityMax: cfg.Generate.VelocityMax,
			Inset:       cfg.Generate.Inset,
			TrailCap:    cfg.TrailLength,
			Palette:     offsetPalette{pal, len(descs), total},
		})
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, generated...)
	}

	return physics.NewRegistry(bodies...)
}

// offsetPalette numbers generated bodies after the listed ones, so
// position-dependent palettes spread over every body of the registry.
type offsetPalette struct {
	physics.Palette
	offset, total int
}

func (p offsetPalette) Colors(i, n int) (string, string) {
	return p.Palette.Colors(p.offset+i, p.total)
}

func DefaultMetrics(cfg *config.Config) []sim.Metric {
	return []sim.Metric{
		metrics.NewEnergyDrift(cfg.StepConfig()),
		metrics.NewMomentumDrift(),
		metrics.NewContainment(cfg.StepConfig().Domain),
	}
}

// Run advances the experiment's registry for cfg.MaxSteps steps.
func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.simulator.Run(ctx, e.registry, e.SimConfig())
}

func (e *Experiment) SimConfig() sim.Config {
	return sim.Config{
		MaxSteps:      e.cfg.MaxSteps,
		RecordEvery:   e.cfg.RecordEvery,
		ValidateState: true,
	}
}

// Reset rebuilds the bodies from the config, discarding all progress.
func (e *Experiment) Reset() error {
	reg, err := BuildRegistry(e.cfg, e.cfg.Seed)
	if err != nil {
		return err
	}
	e.registry = reg
	return nil
}

// Ensemble runs the scenario for runs consecutive seeds starting at the
// config seed. Only generated bodies and random colors vary between runs.
func (e *Experiment) Ensemble(ctx context.Context, runs int) ([]*sim.Result, error) {
	cfg := e.cfg
	build := func(seed int64) (*physics.Registry, sim.Stepper, error) {
		reg, err := BuildRegistry(cfg, seed)
		if err != nil {
			return nil, nil, err
		}
		st, err := physics.NewStepper(cfg.StepConfig())
		return reg, st, err
	}
	factory := func() []sim.Metric { return DefaultMetrics(cfg) }
	return sim.NewEnsemble(build, factory, runs, cfg.Seed).Run(ctx, e.SimConfig())
}

func (e *Experiment) Config() *config.Config       { return e.cfg }
func (e *Experiment) Registry() *physics.Registry  { return e.registry }
func (e *Experiment) Stepper() *physics.Stepper    { return e.stepper }
func (e *Experiment) GetSimulator() *sim.Simulator { return e.simulator }
