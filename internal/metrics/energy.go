package metrics

import (
	"math"

	"github.com/san-kum/orbitsim/internal/physics"
)

// EnergyDrift tracks the largest relative deviation of total energy from
// its first observed value.
type EnergyDrift struct {
	name          string
	cfg           physics.StepConfig
	initialEnergy float64
	maxDrift      float64
	samples       int
}

// NewEnergyDrift measures energy with the G and distance clamp of cfg.
func NewEnergyDrift(cfg physics.StepConfig) *EnergyDrift {
	return &EnergyDrift{
		name: "energy_drift",
		cfg:  cfg,
	}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(step int, states []physics.BodyState) {
	energy := e.cfg.Energy(states)

	if e.samples == 0 {
		e.initialEnergy = energy
	}
	e.samples++

	if e.initialEnergy != 0 {
		drift := math.Abs(energy-e.initialEnergy) / math.Abs(e.initialEnergy)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 {
	return e.maxDrift
}

func (e *EnergyDrift) Reset() {
	e.initialEnergy = 0
	e.maxDrift = 0
	e.samples = 0
}

// MomentumDrift tracks the largest change in total linear momentum of the
// moving bodies. Static anchors and wall bounces both break conservation,
// so this measures how far a run is from an isolated system.
type MomentumDrift struct {
	name     string
	initial  [2]float64
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(step int, states []physics.BodyState) {
	p := physics.Momentum(states)
	if m.samples == 0 {
		m.initial = [2]float64{p.X, p.Y}
	}
	m.samples++
	m.maxDrift = math.Max(m.maxDrift, math.Hypot(p.X-m.initial[0], p.Y-m.initial[1]))
}

func (m *MomentumDrift) Value() float64 {
	return m.maxDrift
}

func (m *MomentumDrift) Reset() {
	m.initial = [2]float64{}
	m.maxDrift = 0
	m.samples = 0
}
