package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/eyespot/internal/dynamo"
	"github.com/san-kum/eyespot/internal/eyespot"
	"github.com/san-kum/eyespot/internal/sim"
)

const (
	DefaultGridSize = 101
	DefaultStart    = 0.0
	DefaultEnd      = 15.0
	DefaultStep     = 0.1
	DefaultRTol     = 1e-3
	DefaultATol     = 1e-6
)

// Foci orderings accepted in configuration. The registry itself is always
// (row, col).
const (
	OrderRowCol = "row_col"
	OrderColRow = "col_row"
)

// Config is the inbound configuration record. Field names follow the web
// client so the same document works as YAML on disk and JSON over HTTP.
type Config struct {
	GridSize int        `yaml:"grid_size" json:"grid_size"`
	TimeSpan [2]float64 `yaml:"time_span" json:"time_span"`
	TimeStep float64    `yaml:"time_step" json:"time_step"`
	Times    []float64  `yaml:"times,omitempty" json:"times,omitempty"`

	Method  string  `yaml:"method" json:"method"`
	RTol    float64 `yaml:"rtol" json:"rtol"`
	ATol    float64 `yaml:"atol" json:"atol"`
	MaxStep float64 `yaml:"max_step,omitempty" json:"max_step,omitempty"`

	K1 float64 `yaml:"k1" json:"k1"`
	K2 float64 `yaml:"k2" json:"k2"`
	K3 float64 `yaml:"k3" json:"k3"`
	K4 float64 `yaml:"k4" json:"k4"`
	K5 float64 `yaml:"k5" json:"k5"`
	D1 float64 `yaml:"D1" json:"D1"`
	D2 float64 `yaml:"D2" json:"D2"`

	A0   float64 `yaml:"A_0" json:"A_0"`
	M1_0 float64 `yaml:"M1_0" json:"M1_0"`
	M2_0 float64 `yaml:"M2_0" json:"M2_0"`
	P0_0 float64 `yaml:"P0_0" json:"P0_0"`
	P1_0 float64 `yaml:"P1_0" json:"P1_0"`
	P2_0 float64 `yaml:"P2_0" json:"P2_0"`

	P0AtFoci float64 `yaml:"P0_0_with_precursor" json:"P0_0_with_precursor"`
	AAtFoci  float64 `yaml:"A0_0_with_precursor" json:"A0_0_with_precursor"`

	Foci      [][2]int `yaml:"foci" json:"foci"`
	FociOrder string   `yaml:"foci_order,omitempty" json:"foci_order,omitempty"`
}

func DefaultConfig() *Config {
	p := eyespot.DefaultParams()
	return &Config{
		GridSize: DefaultGridSize,
		TimeSpan: [2]float64{DefaultStart, DefaultEnd},
		TimeStep: DefaultStep,
		Method:   sim.MethodRK45,
		RTol:     DefaultRTol,
		ATol:     DefaultATol,
		K1:       p.K1,
		K2:       p.K2,
		K3:       p.K3,
		K4:       p.K4,
		K5:       p.K5,
		D1:       p.D1,
		D2:       p.D2,
		P0_0:     p.P0Init,
		P0AtFoci: p.P0AtFoci,
		AAtFoci:  p.AAtFoci,
		Foci:     [][2]int{{DefaultGridSize / 2, DefaultGridSize / 2}},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", dynamo.ErrConfiguration, path, err)
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

// Validate checks the parts of the record the model packages do not: the
// time grid, the solver settings and the foci ordering.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if _, err := c.EvalTimes(); err != nil {
		return err
	}
	if _, err := sim.NewIntegrator(c.Method); err != nil {
		return err
	}
	if err := c.SolverOptions().Validate(); err != nil {
		return err
	}
	if _, err := c.Positions(); err != nil {
		return err
	}
	return nil
}

func (c *Config) Params() eyespot.Params {
	return eyespot.Params{
		GridSize: c.GridSize,
		K1:       c.K1,
		K2:       c.K2,
		K3:       c.K3,
		K4:       c.K4,
		K5:       c.K5,
		D1:       c.D1,
		D2:       c.D2,
		M1Init:   c.M1_0,
		M2Init:   c.M2_0,
		P0Init:   c.P0_0,
		P1Init:   c.P1_0,
		P2Init:   c.P2_0,
		AInit:    c.A0,
		AAtFoci:  c.AAtFoci,
		P0AtFoci: c.P0AtFoci,
	}
}

func (c *Config) Span() sim.Span {
	return sim.Span{Start: c.TimeSpan[0], End: c.TimeSpan[1]}
}

// EvalTimes returns the explicit evaluation times when given, otherwise
// the inclusive grid built from the span and step.
func (c *Config) EvalTimes() ([]float64, error) {
	span := c.Span()
	if len(c.Times) > 0 {
		if err := sim.ValidateGrid(span, c.Times); err != nil {
			return nil, err
		}
		return append([]float64(nil), c.Times...), nil
	}
	return sim.EvalGrid(span, c.TimeStep)
}

// Positions normalizes the configured foci into registry (row, col) order.
func (c *Config) Positions() ([]eyespot.Pos, error) {
	swap := false
	switch c.FociOrder {
	case "", OrderRowCol:
	case OrderColRow:
		swap = true
	default:
		return nil, dynamo.Configf("unknown foci_order %q (want %s or %s)", c.FociOrder, OrderRowCol, OrderColRow)
	}

	out := make([]eyespot.Pos, len(c.Foci))
	for i, f := range c.Foci {
		if swap {
			out[i] = eyespot.Pos{Row: f[1], Col: f[0]}
		} else {
			out[i] = eyespot.Pos{Row: f[0], Col: f[1]}
		}
	}
	return out, nil
}

func (c *Config) SolverOptions() sim.Options {
	return sim.Options{RTol: c.RTol, ATol: c.ATol, MaxStep: c.MaxStep}
}

// NewModel builds a model from the record and syncs its foci registry.
func (c *Config) NewModel() (*eyespot.Model, error) {
	m, err := eyespot.NewModel(c.Params())
	if err != nil {
		return nil, err
	}
	pos, err := c.Positions()
	if err != nil {
		return nil, err
	}
	if err := m.Foci().Sync(pos...); err != nil {
		return nil, err
	}
	return m, nil
}

// Clone returns a deep copy, so presets and sweeps can mutate freely.
func (c *Config) Clone() *Config {
	out := *c
	out.Times = append([]float64(nil), c.Times...)
	out.Foci = append([][2]int(nil), c.Foci...)
	return &out
}
