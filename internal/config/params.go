package config

import (
	"fmt"
	"strings"

	"github.com/san-kum/orbitsim/internal/dynamo"
)

// SetParam sets one numeric field by its yaml path, e.g. "g",
// "generate.count" or "bodies[1].vx". Integer fields truncate.
func (c *Config) SetParam(name string, v float64) error {
	switch name {
	case "width":
		c.Width = v
	case "height":
		c.Height = v
	case "margin":
		c.Margin = v
	case "g":
		c.G = v
	case "dt":
		c.Dt = v
	case "drift":
		c.Drift = v
	case "restitution":
		c.Restitution = v
	case "min_distance":
		c.MinDistance = v
	case "max_steps":
		c.MaxSteps = int(v)
	case "trail_length":
		c.TrailLength = int(v)
	case "record_every":
		c.RecordEvery = int(v)
	case "seed":
		c.Seed = int64(v)
	case "generate.count":
		c.Generate.Count = int(v)
	case "generate.mass_max":
		c.Generate.MassMax = v
	case "generate.velocity_max":
		c.Generate.VelocityMax = v
	case "generate.inset":
		c.Generate.Inset = v
	default:
		if strings.HasPrefix(name, "bodies[") {
			return c.setBodyParam(name, v)
		}
		return fmt.Errorf("unknown parameter %q: %w", name, dynamo.ErrParameterBounds)
	}
	return nil
}

func (c *Config) setBodyParam(name string, v float64) error {
	var idx int
	var field string
	if _, err := fmt.Sscanf(name, "bodies[%d].%s", &idx, &field); err != nil {
		return fmt.Errorf("parameter %q: %w", name, dynamo.ErrParameterBounds)
	}
	if idx < 0 || idx >= len(c.Bodies) {
		return fmt.Errorf("parameter %q: only %d bodies: %w", name, len(c.Bodies), dynamo.ErrParameterBounds)
	}

	b := &c.Bodies[idx]
	switch field {
	case "mass":
		b.Mass = v
	case "x":
		b.X = v
	case "y":
		b.Y = v
	case "vx":
		b.VX = v
	case "vy":
		b.VY = v
	default:
		return fmt.Errorf("unknown body field %q: %w", field, dynamo.ErrParameterBounds)
	}
	return nil
}
