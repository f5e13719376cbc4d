package eyespot

import (
	"math"

	"github.com/san-kum/eyespot/internal/dynamo"
)

// Params are the kinetic rates, diffusion coefficients and initial
// magnitudes of one simulation. They are fixed for the lifetime of a run.
type Params struct {
	GridSize int

	K1, K2, K3, K4, K5 float64
	D1, D2             float64

	M1Init, M2Init         float64
	P0Init, P1Init, P2Init float64
	AInit                  float64

	// Values written at every focus, replacing AInit and P0Init there.
	AAtFoci  float64
	P0AtFoci float64
}

// DefaultParams returns the reference parameter set of the eyespot model.
func DefaultParams() Params {
	return Params{
		GridSize: 101,
		K1:       1.0,
		K2:       0.05,
		K3:       4.0,
		K4:       0.01,
		K5:       4.0,
		D1:       0.002,
		D2:       0.002,
		P0Init:   0.2,
		AAtFoci:  20,
	}
}

// Step is the spatial step h = 1/N used by the Laplacian.
func (p Params) Step() float64 { return 1.0 / float64(p.GridSize) }

func (p Params) Validate() error {
	if p.GridSize <= 0 {
		return dynamo.Configf("grid size must be positive, got %d", p.GridSize)
	}
	rates := []struct {
		name string
		v    float64
	}{{"k1", p.K1}, {"k2", p.K2}, {"k3", p.K3}, {"k4", p.K4}, {"k5", p.K5}}
	for _, r := range rates {
		if !(r.v > 0) || math.IsInf(r.v, 0) {
			return dynamo.Configf("%s must be positive and finite, got %g", r.name, r.v)
		}
	}
	nonNegative := []struct {
		name string
		v    float64
	}{
		{"D1", p.D1}, {"D2", p.D2},
		{"M1_0", p.M1Init}, {"M2_0", p.M2Init},
		{"P0_0", p.P0Init}, {"P1_0", p.P1Init}, {"P2_0", p.P2Init},
		{"A_0", p.AInit}, {"A_0_at_foci", p.AAtFoci}, {"P0_0_at_foci", p.P0AtFoci},
	}
	for _, v := range nonNegative {
		if !(v.v >= 0) || math.IsInf(v.v, 0) {
			return dynamo.Configf("%s must be non-negative and finite, got %g", v.name, v.v)
		}
	}
	return nil
}
