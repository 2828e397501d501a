package config

import (
	"fmt"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/orbitsim/internal/dynamo"
	"github.com/san-kum/orbitsim/internal/physics"
)

const (
	DefaultWidth       = 700.0
	DefaultHeight      = 700.0
	DefaultMargin      = physics.DefaultMargin
	DefaultG           = 0.01
	DefaultDt          = 80.0
	DefaultDrift       = 1.0
	DefaultRestitution = physics.DefaultRestitution
	DefaultMinDistance = physics.DefaultMinDistance
	DefaultMaxSteps    = 10000
	DefaultTrailLength = 50
	DefaultFPS         = 50 // the classic demo redraws every 20ms
)

type Config struct {
	Name        string  `yaml:"name"`
	Width       float64 `yaml:"width"`
	Height      float64 `yaml:"height"`
	Margin      float64 `yaml:"margin"`
	G           float64 `yaml:"g"`
	Dt          float64 `yaml:"dt"`
	Drift       float64 `yaml:"drift"`
	Restitution float64 `yaml:"restitution"`
	MinDistance float64 `yaml:"min_distance"`
	// ContactClamp floors force distances at the sum of the two radii.
	ContactClamp bool           `yaml:"contact_clamp"`
	MaxSteps     int            `yaml:"max_steps"`
	TrailLength  int            `yaml:"trail_length"`
	RecordEvery  int            `yaml:"record_every"`
	Parallel     bool           `yaml:"parallel"`
	Seed         int64          `yaml:"seed"`
	FPS          int            `yaml:"fps"`
	ColorMode    string         `yaml:"color_mode"`
	Bodies       []BodyConfig   `yaml:"bodies"`
	Generate     GenerateConfig `yaml:"generate"`
}

type BodyConfig struct {
	Mass       float64 `yaml:"mass"`
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	VX         float64 `yaml:"vx"`
	VY         float64 `yaml:"vy"`
	Static     bool    `yaml:"static,omitempty"`
	Color      string  `yaml:"color,omitempty"`
	TrailColor string  `yaml:"trail_color,omitempty"`
}

// GenerateConfig adds Count random bodies after the listed ones.
type GenerateConfig struct {
	Count       int     `yaml:"count"`
	MassMax     float64 `yaml:"mass_max"`
	VelocityMax float64 `yaml:"velocity_max"`
	Inset       float64 `yaml:"inset"`
}

func DefaultConfig() *Config {
	return &Config{
		Name:         "custom",
		Width:        DefaultWidth,
		Height:       DefaultHeight,
		Margin:       DefaultMargin,
		G:            DefaultG,
		Dt:           DefaultDt,
		Drift:        DefaultDrift,
		Restitution:  DefaultRestitution,
		MinDistance:  DefaultMinDistance,
		ContactClamp: true,
		MaxSteps:     DefaultMaxSteps,
		TrailLength:  DefaultTrailLength,
		RecordEvery:  1,
		FPS:          DefaultFPS,
		ColorMode:    "fixed",
		Generate: GenerateConfig{
			Inset: physics.DefaultInset,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy, so presets can be handed out and edited.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Bodies = append([]BodyConfig(nil), c.Bodies...)
	return &cp
}

// StepConfig maps the file onto the integrator's constants.
func (c *Config) StepConfig() physics.StepConfig {
	return physics.StepConfig{
		G:            c.G,
		Dt:           c.Dt,
		Drift:        c.Drift,
		Restitution:  c.Restitution,
		MinDistance:  c.MinDistance,
		ContactClamp: c.ContactClamp,
		Domain:       physics.Domain{Width: c.Width, Height: c.Height, Margin: c.Margin},
		Parallel:     c.Parallel,
	}
}

// Descriptors returns the explicitly listed bodies.
func (c *Config) Descriptors() []physics.Descriptor {
	out := make([]physics.Descriptor, len(c.Bodies))
	for i, b := range c.Bodies {
		out[i] = physics.Descriptor{
			Mass:       b.Mass,
			Position:   dynamo.Vec2{X: b.X, Y: b.Y},
			Velocity:   dynamo.Vec2{X: b.VX, Y: b.VY},
			TrailCap:   c.TrailLength,
			Static:     b.Static,
			Color:      b.Color,
			TrailColor: b.TrailColor,
		}
	}
	return out
}

// Validate checks everything the simulation would otherwise reject later,
// so a bad file fails before any body is built.
func (c *Config) Validate() error {
	if err := c.StepConfig().Validate(); err != nil {
		return err
	}
	if c.MaxSteps < 1 {
		return fmt.Errorf("max_steps %d: %w", c.MaxSteps, dynamo.ErrParameterBounds)
	}
	if c.TrailLength < 1 {
		return fmt.Errorf("trail_length %d: %w", c.TrailLength, dynamo.ErrParameterBounds)
	}
	if c.RecordEvery < 1 {
		return fmt.Errorf("record_every %d: %w", c.RecordEvery, dynamo.ErrParameterBounds)
	}
	if c.FPS < 1 {
		return fmt.Errorf("fps %d: %w", c.FPS, dynamo.ErrParameterBounds)
	}
	switch c.ColorMode {
	case "", "fixed", "random", "gradient":
	default:
		return fmt.Errorf("color_mode %q: %w", c.ColorMode, dynamo.ErrParameterBounds)
	}
	if len(c.Bodies) == 0 && c.Generate.Count == 0 {
		return fmt.Errorf("no bodies listed or generated: %w", dynamo.ErrParameterBounds)
	}
	for i, b := range c.Bodies {
		if !(b.Mass > 0) {
			return fmt.Errorf("body %d mass %v: %w", i, b.Mass, dynamo.ErrInvalidMass)
		}
		for _, hex := range []string{b.Color, b.TrailColor} {
			if hex == "" {
				continue
			}
			if _, err := colorful.Hex(hex); err != nil {
				return fmt.Errorf("body %d color %q: %w", i, hex, dynamo.ErrParameterBounds)
			}
		}
	}
	if c.Generate.Count < 0 {
		return fmt.Errorf("generate.count %d: %w", c.Generate.Count, dynamo.ErrParameterBounds)
	}
	if c.Generate.Count > 0 && !(c.Generate.MassMax > 0) {
		return fmt.Errorf("generate.mass_max %v: %w", c.Generate.MassMax, dynamo.ErrInvalidMass)
	}
	return nil
}
