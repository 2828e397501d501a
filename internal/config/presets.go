package config

import "sort"

func preset(name string, bodies []BodyConfig, gen GenerateConfig) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	cfg.Bodies = bodies
	if gen.Count > 0 {
		if gen.Inset == 0 {
			gen.Inset = cfg.Generate.Inset
		}
		cfg.Generate = gen
	}
	return cfg
}

var anchor = BodyConfig{Mass: 1500, X: 350, Y: 350, Static: true}

var Presets = map[string]*Config{
	// three near-circular orbits around a fixed anchor
	"orbit": preset("orbit", []BodyConfig{
		{Mass: 10, X: 350, Y: 250, VX: 3.5, Color: "#9f79ee"},
		{Mass: 10, X: 350, Y: 150, VX: 2.5, Color: "#cd2626"},
		{Mass: 10, X: 350, Y: 50, VX: 2, Color: "#00b2ee"},
		anchor,
	}, GenerateConfig{}),
	// the classic four-body demo; its heavy body is free to move
	"classic": preset("classic", []BodyConfig{
		{Mass: 10, X: 450, Y: 250, VX: 4, Color: "#9f79ee"},
		{Mass: 10, X: 350, Y: 250, VX: 4, Color: "#cd2626"},
		{Mass: 10, X: 350, Y: 150, VX: 1, Color: "#00b2ee"},
		{Mass: 1500, X: 350, Y: 350},
	}, GenerateConfig{}),
	"swarm": preset("swarm", []BodyConfig{anchor}, GenerateConfig{
		Count: 20, MassMax: 100, VelocityMax: 0,
	}),
	"binary": preset("binary", []BodyConfig{
		{Mass: 400, X: 300, Y: 350, VY: -0.9, Color: "#ffa500"},
		{Mass: 400, X: 400, Y: 350, VY: 0.9, Color: "#1e90ff"},
		{Mass: 5, X: 350, Y: 120, VX: 2.4},
	}, GenerateConfig{}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
