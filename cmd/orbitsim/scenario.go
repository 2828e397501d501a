package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/orbitsim/internal/config"
)

// loadScenario resolves the config for a command: the named preset (first
// argument or --preset), else --config, else the orbit preset; explicitly
// set flags then override single fields.
func loadScenario(cmd *cobra.Command, args []string) (*config.Config, error) {
	name := preset
	if len(args) > 0 {
		name = args[0]
	}

	var cfg *config.Config
	switch {
	case name != "":
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)", name, strings.Join(config.ListPresets(), ", "))
		}
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	default:
		cfg = config.GetPreset("orbit")
	}

	flags := cmd.Flags()
	if flags.Changed("steps") {
		cfg.MaxSteps = steps
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("g") {
		cfg.G = gravity
	}
	if flags.Changed("drift") {
		cfg.Drift = drift
	}
	if flags.Changed("restitution") {
		cfg.Restitution = restitution
	}
	if flags.Changed("min-distance") {
		cfg.MinDistance = minDistance
	}
	if flags.Changed("contact-clamp") {
		cfg.ContactClamp = contactClamp
	}
	if flags.Changed("trail") {
		cfg.TrailLength = trailLength
	}
	if flags.Changed("record-every") {
		cfg.RecordEvery = recordEvery
	}
	if flags.Changed("parallel") {
		cfg.Parallel = parallel
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("color-mode") {
		cfg.ColorMode = colorMode
	}
	if flags.Changed("generate") {
		cfg.Generate.Count = generate
		if cfg.Generate.MassMax == 0 {
			cfg.Generate.MassMax = 100
		}
	}
	if flags.Changed("fps") {
		cfg.FPS = frameRate
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
