package config

import (
	"sort"

	"github.com/san-kum/libration/internal/physics"
)

var Presets = map[string]map[string]*Config{
	"earth-moon": {
		"l1": {
			Scenario: ScenarioManifolds, System: "earth-moon", Mu: physics.MuEarthMoon, Point: "L1",
			Epsilon: 1e-4, Horizon: 15.0, Samples: 10000, Tolerance: 1e-10,
		},
		"l2": {
			Scenario: ScenarioManifolds, System: "earth-moon", Mu: physics.MuEarthMoon, Point: "L2",
			Epsilon: 1e-4, Horizon: 15.0, Samples: 10000, Tolerance: 1e-10,
		},
	},
	"sun-earth": {
		"kick": {
			Scenario: ScenarioIntercept, System: "sun-earth", Mu: physics.MuSunEarth, Point: "L2",
			Offset: 1e-5, Kick: 0.15, Horizon: 15.0, Samples: 5000, Tolerance: 1e-10,
		},
		"drift": {
			Scenario: ScenarioIntercept, System: "sun-earth", Mu: physics.MuSunEarth, Point: "L2",
			Offset: 1e-5, Kick: 0, Horizon: 15.0, Samples: 5000, Tolerance: 1e-10,
		},
	},
	"sun-mars": {
		"l1": {
			Scenario: ScenarioManifolds, System: "sun-mars", Mu: physics.MuSunMars, Point: "L1",
			Epsilon: 1e-6, Horizon: 15.0, Samples: 5000, Tolerance: 1e-10,
		},
	},
}

// GetPreset returns a copy so callers can override fields freely.
func GetPreset(system, preset string) *Config {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	cfg, ok := systemPresets[preset]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(system string) []string {
	systemPresets, ok := Presets[system]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(systemPresets))
	for name := range systemPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
