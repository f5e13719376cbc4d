package config

import "sort"

// Presets are named starting points, grouped by how many foci they seed.
var Presets = map[string]map[string]*Config{
	"single": {
		"reference": withFoci(DefaultConfig(), [2]int{50, 50}),
		"small":     withFoci(resize(DefaultConfig(), 31, 5, 0.25), [2]int{15, 15}),
		"corner":    withFoci(resize(DefaultConfig(), 41, 10, 0.5), [2]int{0, 0}),
	},
	"pair": {
		"twin":     withFoci(DefaultConfig(), [2]int{50, 30}, [2]int{50, 70}),
		"diagonal": withFoci(resize(DefaultConfig(), 51, 10, 0.5), [2]int{12, 12}, [2]int{38, 38}),
	},
	"none": {
		"blank": withFoci(resize(DefaultConfig(), 31, 5, 0.5)),
	},
	"demo": {
		"tiny": tiny(),
	},
}

func withFoci(c *Config, foci ...[2]int) *Config {
	c.Foci = foci
	return c
}

func resize(c *Config, n int, end, step float64) *Config {
	c.GridSize = n
	c.TimeSpan = [2]float64{0, end}
	c.TimeStep = step
	return c
}

// tiny is the five-cell grid with every rate at one and no diffusion.
func tiny() *Config {
	c := resize(DefaultConfig(), 5, 1, 0.5)
	c.K1, c.K2, c.K3, c.K4, c.K5 = 1, 1, 1, 1, 1
	c.D1, c.D2 = 0, 0
	c.P0AtFoci = 0.2
	return withFoci(c, [2]int{2, 2})
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(group, preset string) *Config {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	cfg, ok := groupPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(group string) []string {
	groupPresets, ok := Presets[group]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(groupPresets))
	for name := range groupPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func ListGroups() []string {
	groups := make([]string, 0, len(Presets))
	for g := range Presets {
		groups = append(groups, g)
	}
	sort.Strings(groups)
	return groups
}
