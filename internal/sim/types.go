package sim

import (
	"math"

	"github.com/san-kum/eyespot/internal/dynamo"
)

const (
	MethodRK45 = "rk45"
	MethodRK4  = "rk4"
)

// Span is the closed integration interval [Start, End].
type Span struct {
	Start float64
	End   float64
}

// Options tune the adaptive driver. Zero values select defaults.
type Options struct {
	RTol      float64
	ATol      float64
	MaxStep   float64
	FirstStep float64
	MaxSteps  int
}

func DefaultOptions() Options {
	return Options{
		RTol:     1e-3,
		ATol:     1e-6,
		MaxStep:  math.Inf(1),
		MaxSteps: 1_000_000,
	}
}

// Validate rejects settings that withDefaults would otherwise silently
// replace: negative or NaN values. Zero still selects the default.
func (o Options) Validate() error {
	if o.MaxStep < 0 || math.IsNaN(o.MaxStep) {
		return dynamo.Configf("max step must be non-negative, got %g", o.MaxStep)
	}
	if o.FirstStep < 0 || math.IsNaN(o.FirstStep) {
		return dynamo.Configf("first step must be non-negative, got %g", o.FirstStep)
	}
	if o.RTol < 0 || o.ATol < 0 || math.IsNaN(o.RTol) || math.IsNaN(o.ATol) {
		return dynamo.Configf("tolerances must be non-negative, got rtol=%g atol=%g", o.RTol, o.ATol)
	}
	if o.MaxSteps < 0 {
		return dynamo.Configf("max steps must be non-negative, got %d", o.MaxSteps)
	}
	return nil
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.RTol <= 0 {
		o.RTol = d.RTol
	}
	if o.ATol <= 0 {
		o.ATol = d.ATol
	}
	if o.MaxStep <= 0 {
		o.MaxStep = d.MaxStep
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = d.MaxSteps
	}
	return o
}

// Stats counts the work done by one solve.
type Stats struct {
	Evaluations int
	Accepted    int
	Rejected    int
}

// Result is the time series produced by one successful solve.
type Result struct {
	Times   []float64
	States  []dynamo.State
	Metrics map[string]float64
	Stats   Stats
}
