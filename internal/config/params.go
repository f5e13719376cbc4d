package config

import (
	"sort"

	"github.com/san-kum/eyespot/internal/dynamo"
)

// fields maps the scalar parameter names of the record to their storage.
func (c *Config) fields() map[string]*float64 {
	return map[string]*float64{
		"k1":                  &c.K1,
		"k2":                  &c.K2,
		"k3":                  &c.K3,
		"k4":                  &c.K4,
		"k5":                  &c.K5,
		"D1":                  &c.D1,
		"D2":                  &c.D2,
		"A_0":                 &c.A0,
		"M1_0":                &c.M1_0,
		"M2_0":                &c.M2_0,
		"P0_0":                &c.P0_0,
		"P1_0":                &c.P1_0,
		"P2_0":                &c.P2_0,
		"P0_0_with_precursor": &c.P0AtFoci,
		"A0_0_with_precursor": &c.AAtFoci,
		"time_step":           &c.TimeStep,
		"rtol":                &c.RTol,
		"atol":                &c.ATol,
	}
}

// paramAliases maps the model keyword names of the foci magnitudes to the
// client names the record is stored under. Only SetParam and Param read
// them; YAML and JSON documents use the client names.
var paramAliases = map[string]string{
	"A_0_at_foci":  "A0_0_with_precursor",
	"P0_0_at_foci": "P0_0_with_precursor",
}

func (c *Config) field(name string) (*float64, error) {
	if canonical, ok := paramAliases[name]; ok {
		name = canonical
	}
	p, ok := c.fields()[name]
	if !ok {
		return nil, dynamo.Configf("unknown parameter %q", name)
	}
	return p, nil
}

// SetParam assigns a scalar parameter by its configuration name.
func (c *Config) SetParam(name string, v float64) error {
	p, err := c.field(name)
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Param reads a scalar parameter by its configuration name.
func (c *Config) Param(name string) (float64, error) {
	p, err := c.field(name)
	if err != nil {
		return 0, err
	}
	return *p, nil
}

// ParamNames lists the canonical names SetParam accepts. The _at_foci
// aliases are accepted too but not listed.
func ParamNames() []string {
	var c Config
	names := make([]string, 0, 18)
	for k := range c.fields() {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
