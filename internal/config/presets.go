package config

import "sort"

var Presets = map[string]*SimulationConfig{
	"reference": {Duration: 50, Samples: 5000, Integrator: "zoh"},
	"coarse":    {Duration: 50, Samples: 500, Integrator: "zoh"},
	"fine":      {Duration: 50, Samples: 50000, Integrator: "zoh"},
	"short":     {Duration: 20, Samples: 2000, Integrator: "zoh"},
	"rk4":       {Duration: 50, Samples: 5000, Integrator: "rk4"},
}

func GetPreset(name string) *SimulationConfig {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *p
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
