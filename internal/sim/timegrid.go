package sim

import (
	"math"

	"github.com/san-kum/eyespot/internal/dynamo"
)

// gridTol is the relative slack used to decide whether the span end falls on
// the step grid.
const gridTol = 1e-9

// MaxEvalTimes bounds the number of reported times of one solve. Every
// reported time keeps a full state vector.
const MaxEvalTimes = 1_000_000

// EvalGrid returns t0, t0+step, ... up to and including t1 when t1 lies on
// the grid. Points are computed as t0 + i*step so error does not accumulate,
// and the final point is snapped to t1 when it is within rounding of it.
func EvalGrid(span Span, step float64) ([]float64, error) {
	if err := span.Validate(); err != nil {
		return nil, err
	}
	if !(step > 0) || math.IsInf(step, 0) {
		return nil, dynamo.Configf("time step must be positive and finite, got %g", step)
	}

	length := span.End - span.Start
	count := math.Floor(length/step+gridTol) + 1
	if math.IsInf(count, 0) || math.IsNaN(count) || count > MaxEvalTimes {
		return nil, dynamo.Configf("time step %g gives %g evaluation times over (%g, %g), limit is %d",
			step, count, span.Start, span.End, MaxEvalTimes)
	}
	n := int(count) - 1
	times := make([]float64, n+1)
	for i := range times {
		times[i] = span.Start + float64(i)*step
	}
	last := times[n]
	if math.Abs(last-span.End) <= gridTol*math.Max(1, math.Abs(span.End)) || last > span.End {
		times[n] = span.End
	}
	return times, nil
}

func (s Span) Validate() error {
	if math.IsNaN(s.Start) || math.IsNaN(s.End) || math.IsInf(s.Start, 0) || math.IsInf(s.End, 0) {
		return dynamo.Configf("time span (%g, %g) must be finite", s.Start, s.End)
	}
	if !(s.Start < s.End) {
		return dynamo.Configf("time span start %g must be before end %g", s.Start, s.End)
	}
	return nil
}

// ValidateGrid checks that times is non-empty, no longer than MaxEvalTimes,
// strictly increasing and inside the span.
func ValidateGrid(span Span, times []float64) error {
	if err := span.Validate(); err != nil {
		return err
	}
	if len(times) == 0 {
		return dynamo.Configf("evaluation grid is empty")
	}
	if len(times) > MaxEvalTimes {
		return dynamo.Configf("evaluation grid has %d times, limit is %d", len(times), MaxEvalTimes)
	}
	for i, t := range times {
		if math.IsNaN(t) || t < span.Start || t > span.End {
			return dynamo.Configf("evaluation time %g at index %d outside [%g, %g]", t, i, span.Start, span.End)
		}
		if i > 0 && !(t > times[i-1]) {
			return dynamo.Configf("evaluation times must be strictly increasing (index %d: %g after %g)", i, t, times[i-1])
		}
	}
	return nil
}
