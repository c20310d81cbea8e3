package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/libration/internal/dynamo"
	"github.com/san-kum/libration/internal/intercept"
	"github.com/san-kum/libration/internal/libration"
	"github.com/san-kum/libration/internal/manifold"
	"github.com/san-kum/libration/internal/physics"
	"github.com/san-kum/libration/internal/sim"
)

const (
	ScenarioManifolds = "manifolds"
	ScenarioIntercept = "intercept"
)

// Mass ratios by system name.
var Systems = map[string]float64{
	"earth-moon": physics.MuEarthMoon,
	"sun-earth":  physics.MuSunEarth,
	"sun-mars":   physics.MuSunMars,
}

type Config struct {
	Scenario  string  `yaml:"scenario"`
	System    string  `yaml:"system"`
	Mu        float64 `yaml:"mu"`
	Point     string  `yaml:"point"`
	Epsilon   float64 `yaml:"epsilon"`
	Offset    float64 `yaml:"offset"`
	Kick      float64 `yaml:"kick"`
	Horizon   float64 `yaml:"horizon"`
	Samples   int     `yaml:"samples"`
	Tolerance float64 `yaml:"tolerance"`
}

func DefaultConfig() *Config {
	return &Config{
		Scenario:  ScenarioManifolds,
		System:    "earth-moon",
		Mu:        physics.MuEarthMoon,
		Point:     "L1",
		Epsilon:   manifold.DefaultEpsilon,
		Offset:    intercept.DefaultOffset,
		Kick:      intercept.DefaultKick,
		Horizon:   manifold.DefaultHorizon,
		Samples:   manifold.DefaultSamples,
		Tolerance: sim.DefaultTolerance,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Mu = 0
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	// A named system without an explicit mass ratio takes the catalog value.
	if cfg.Mu == 0 {
		cfg.Mu = Systems[cfg.System]
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

func (c *Config) Validate() error {
	switch c.Scenario {
	case ScenarioManifolds, ScenarioIntercept:
	default:
		return fmt.Errorf("unknown scenario %q: %w", c.Scenario, dynamo.ErrParameterBounds)
	}
	if !(c.Mu > 0 && c.Mu <= 0.5) {
		return fmt.Errorf("mass ratio %g not in (0, 0.5]: %w", c.Mu, dynamo.ErrParameterBounds)
	}
	if _, err := libration.ParsePoint(c.Point); err != nil {
		return err
	}
	if c.Epsilon < 0 || c.Offset < 0 {
		return fmt.Errorf("epsilon %g, offset %g must not be negative: %w", c.Epsilon, c.Offset, dynamo.ErrParameterBounds)
	}
	if c.Horizon <= 0 {
		return fmt.Errorf("horizon %g must be positive: %w", c.Horizon, dynamo.ErrParameterBounds)
	}
	if c.Samples < 2 {
		return fmt.Errorf("need at least 2 samples, got %d: %w", c.Samples, dynamo.ErrParameterBounds)
	}
	if c.Tolerance <= 0 {
		return fmt.Errorf("tolerance %g must be positive: %w", c.Tolerance, dynamo.ErrParameterBounds)
	}
	return nil
}

func (c *Config) propagatorOptions() []sim.Option {
	return []sim.Option{sim.WithTolerance(c.Tolerance)}
}

// ManifoldConfig maps the file onto a tracer configuration.
func (c *Config) ManifoldConfig() (manifold.Config, error) {
	p, err := libration.ParsePoint(c.Point)
	if err != nil {
		return manifold.Config{}, err
	}
	mc := manifold.DefaultConfig(c.Mu)
	mc.Point = p
	mc.Epsilon = c.Epsilon
	mc.Horizon = c.Horizon
	mc.Samples = c.Samples
	mc.Propagator = c.propagatorOptions()
	return mc, nil
}

// InterceptConfig maps the file onto an intercept scenario.
func (c *Config) InterceptConfig() intercept.Config {
	ic := intercept.DefaultConfig(c.Mu)
	ic.Offset = c.Offset
	ic.Kick = c.Kick
	ic.Horizon = c.Horizon
	ic.Samples = c.Samples
	ic.Propagator = c.propagatorOptions()
	return ic
}
