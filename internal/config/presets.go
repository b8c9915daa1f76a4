package config

// Presets are named jump setups, keyed by model then preset name.
var Presets = map[string]map[string]*Config{
	"trampoline": {
		"reference": {
			Model: "trampoline", Integrator: "rk4", Dt: 0.002, Duration: 12.0,
			Jumper: JumperConfig{Mass: 90, DropHeight: 1.0},
			Mat:    MatConfig{Depth: 0.5, Gravity: 9.81},
		},
		"lossy": {
			Model: "trampoline", Integrator: "rk4", Dt: 0.002, Duration: 20.0,
			Jumper: JumperConfig{Mass: 90, DropHeight: 1.0},
			Mat:    MatConfig{Depth: 0.5, Damping: 120, Gravity: 9.81},
		},
		"pumped": {
			Model: "trampoline", Integrator: "rk4", Controller: "pump", Dt: 0.002, Duration: 30.0,
			Jumper: JumperConfig{Mass: 90, DropHeight: 0.2},
			Mat:    MatConfig{Depth: 0.5, Damping: 60, Gravity: 9.81},
			Pump:   PumpConfig{Kp: 400, Ki: 20, Kd: 50, Target: 1.5, MaxForce: 2500},
		},
		"kid": {
			Model: "trampoline", Integrator: "rk4", Dt: 0.001, Duration: 12.0,
			Jumper: JumperConfig{Mass: 30, DropHeight: 0.6},
			Mat:    MatConfig{Depth: 0.4, Gravity: 9.81},
		},
		"moon": {
			Model: "trampoline", Integrator: "rk4", Dt: 0.002, Duration: 30.0,
			Jumper: JumperConfig{Mass: 90, DropHeight: 1.0},
			Mat:    MatConfig{Depth: 0.5, Gravity: 1.62},
		},
		"stiff": {
			Model: "trampoline", Integrator: "rk45", Dt: 0.002, Duration: 12.0,
			Jumper: JumperConfig{Mass: 90, DropHeight: 1.0},
			Mat:    MatConfig{Depth: 0.5, Stiffness: 40000, Gravity: 9.81},
		},
	},
	"harmonic": {
		"classroom": {
			Model: "harmonic", Integrator: "rk4", Dt: 0.05, Duration: 6.283185307179586,
			Jumper: JumperConfig{Mass: 90, DropHeight: 1.0},
			Mat:    MatConfig{Depth: 0.5, Gravity: 9.81},
			Omega:  1.0,
		},
		"brisk": {
			Model: "harmonic", Integrator: "rk4", Dt: 0.01, Duration: 10.0,
			Jumper: JumperConfig{Mass: 90, DropHeight: 1.0},
			Mat:    MatConfig{Depth: 0.5, Gravity: 9.81},
			Omega:  3.0,
		},
	},
}

func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	return cfg
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	return names
}
