package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/libration/internal/config"
	"github.com/san-kum/libration/internal/dynamo"
)

// resolveConfig layers the preset, then the config file, then any flag the
// user set explicitly.
func (o *options) resolveConfig(cmd *cobra.Command, scenario string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Scenario = scenario
	if scenario == config.ScenarioIntercept {
		cfg.System = "sun-earth"
		cfg.Mu = config.Systems["sun-earth"]
		cfg.Point = "L2"
		cfg.Samples = 5000
	}

	if o.preset != "" {
		system, name, ok := strings.Cut(o.preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset %q is not system/name: %w", o.preset, dynamo.ErrParameterBounds)
		}
		p := config.GetPreset(system, name)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", o.preset, config.ListPresets(system))
		}
		cfg = p
		o.log.Debug("applied preset", zap.String("preset", o.preset))
	}

	if o.configFile != "" {
		loaded, err := config.Load(o.configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		o.log.Debug("loaded config", zap.String("path", o.configFile))
	}

	flags := cmd.Flags()
	if flags.Changed("system") {
		mu, ok := config.Systems[o.system]
		if !ok {
			return nil, fmt.Errorf("unknown system %q: %w", o.system, dynamo.ErrParameterBounds)
		}
		cfg.System = o.system
		cfg.Mu = mu
	}
	if flags.Changed("mu") {
		cfg.Mu = o.mu
		cfg.System = "custom"
	}
	if flags.Changed("point") {
		cfg.Point = o.point
	}
	if flags.Changed("epsilon") {
		cfg.Epsilon = o.epsilon
	}
	if flags.Changed("offset") {
		cfg.Offset = o.offset
	}
	if flags.Changed("kick") {
		cfg.Kick = o.kick
	}
	if flags.Changed("horizon") {
		cfg.Horizon = o.horizon
	}
	if flags.Changed("samples") {
		cfg.Samples = o.samples
	}
	if flags.Changed("tol") {
		cfg.Tolerance = o.tolerance
	}

	if cfg.Scenario != scenario {
		return nil, fmt.Errorf("config describes a %s run, not %s: %w", cfg.Scenario, scenario, dynamo.ErrParameterBounds)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
