package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 0.002
	DefaultDuration = 12.0
	DefaultMass     = 90.0
	DefaultGravity  = 9.81
	DefaultMatDepth = 0.5
	DefaultDrop     = 1.0
	DefaultOmega    = 1.0
	DefaultKp       = 400.0
	DefaultKi       = 20.0
	DefaultKd       = 50.0
)

type Config struct {
	Model      string       `yaml:"model" mapstructure:"model"`
	Integrator string       `yaml:"integrator" mapstructure:"integrator"`
	Controller string       `yaml:"controller" mapstructure:"controller"`
	Dt         float64      `yaml:"dt" mapstructure:"dt"`
	Duration   float64      `yaml:"duration" mapstructure:"duration"`
	Seed       int64        `yaml:"seed" mapstructure:"seed"`
	Jumper     JumperConfig `yaml:"jumper" mapstructure:"jumper"`
	Mat        MatConfig    `yaml:"mat" mapstructure:"mat"`
	Omega      float64      `yaml:"omega" mapstructure:"omega"`
	Pump       PumpConfig   `yaml:"pump" mapstructure:"pump"`
}

type JumperConfig struct {
	Mass       float64 `yaml:"mass" mapstructure:"mass"`
	DropHeight float64 `yaml:"drop_height" mapstructure:"drop_height"`
}

// MatConfig describes the trampoline. Stiffness zero means derive it
// from energy conservation so the reference drop bottoms out at zero.
type MatConfig struct {
	Depth     float64 `yaml:"depth" mapstructure:"depth"`
	Stiffness float64 `yaml:"stiffness" mapstructure:"stiffness"`
	Damping   float64 `yaml:"damping" mapstructure:"damping"`
	Gravity   float64 `yaml:"gravity" mapstructure:"gravity"`
}

type PumpConfig struct {
	Kp       float64 `yaml:"kp" mapstructure:"kp"`
	Ki       float64 `yaml:"ki" mapstructure:"ki"`
	Kd       float64 `yaml:"kd" mapstructure:"kd"`
	Target   float64 `yaml:"target" mapstructure:"target"`
	MaxForce float64 `yaml:"max_force" mapstructure:"max_force"`
}

func DefaultConfig() *Config {
	return &Config{
		Model:      "trampoline",
		Integrator: "rk4",
		Controller: "none",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Jumper: JumperConfig{
			Mass:       DefaultMass,
			DropHeight: DefaultDrop,
		},
		Mat: MatConfig{
			Depth:   DefaultMatDepth,
			Gravity: DefaultGravity,
		},
		Omega: DefaultOmega,
		Pump: PumpConfig{
			Kp:     DefaultKp,
			Ki:     DefaultKi,
			Kd:     DefaultKd,
			Target: DefaultDrop,
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
		return nil, err
	}
	return cfg, nil
}

// LoadInto decodes the file on top of an existing config, so values the
// file omits keep what cfg already holds.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ModelParams flattens the physical settings into the parameter map the
// model factories consume.
func (c *Config) ModelParams() map[string]float64 {
	return map[string]float64{
		"mass":        c.Jumper.Mass,
		"drop_height": c.Jumper.DropHeight,
		"mat_depth":   c.Mat.Depth,
		"stiffness":   c.Mat.Stiffness,
		"damping":     c.Mat.Damping,
		"gravity":     c.Mat.Gravity,
		"omega":       c.Omega,
	}
}

// ControllerParams flattens the pump settings for controller factories.
func (c *Config) ControllerParams() map[string]float64 {
	return map[string]float64{
		"kp":        c.Pump.Kp,
		"ki":        c.Pump.Ki,
		"kd":        c.Pump.Kd,
		"target":    c.Pump.Target,
		"max_force": c.Pump.MaxForce,
		"mat_depth": c.Mat.Depth,
		"gravity":   c.Mat.Gravity,
	}
}

// InitState returns the starting state: at rest at the drop height.
func (c *Config) InitState() []float64 {
	return []float64{c.Jumper.DropHeight, 0}
}
