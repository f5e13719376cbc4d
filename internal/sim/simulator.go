package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/go-logr/logr"
	"github.com/san-kum/eyespot/internal/dynamo"
	"github.com/san-kum/eyespot/internal/integrators"
)

var (
	errStepTooSmall = errors.New("required step size is below the spacing of representable times")
	errTooManySteps = errors.New("maximum number of steps exceeded")
	errNonFinite    = errors.New("state became non-finite")
)

// Simulator drives one System from an initial state across a span and
// reports the state at requested times. It holds no per-solve state, so the
// same Simulator may solve repeatedly.
type Simulator struct {
	sys        dynamo.System
	integrator dynamo.Integrator
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
	log        logr.Logger
}

func New(sys dynamo.System, integrator dynamo.Integrator) *Simulator {
	return &Simulator{
		sys:        sys,
		integrator: integrator,
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
		log:        logr.Discard(),
	}
}

// NewIntegrator returns the stepper registered under method.
func NewIntegrator(method string) (dynamo.Integrator, error) {
	switch method {
	case "", MethodRK45:
		return integrators.NewRK45(), nil
	case MethodRK4:
		return integrators.NewRK4(), nil
	default:
		return nil, dynamo.Configf("unknown integration method %q", method)
	}
}

func (s *Simulator) WithLogger(log logr.Logger) *Simulator {
	s.log = log
	return s
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Solve integrates from x0 at span.Start to span.End and returns the state
// at every time in tEval. Adaptive integrators pick their own internal
// steps and interpolate to tEval; fixed-step integrators step exactly onto
// each evaluation time using sub-steps no longer than opts.MaxStep.
// No partial Result is returned on failure.
func (s *Simulator) Solve(ctx context.Context, x0 dynamo.State, span Span, tEval []float64, opts Options) (*Result, error) {
	if err := ValidateGrid(span, tEval); err != nil {
		return nil, err
	}
	if dim := s.sys.StateDim(); dim != len(x0) {
		return nil, dynamo.Shapef("initial state has length %d, system expects %d", len(x0), dim)
	}
	if !x0.IsValid() {
		return nil, dynamo.Configf("initial state contains non-finite values")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()

	for _, m := range s.metrics {
		m.Reset()
	}

	result := &Result{
		Times:   make([]float64, 0, len(tEval)),
		States:  make([]dynamo.State, 0, len(tEval)),
		Metrics: make(map[string]float64),
	}

	s.log.V(1).Info("solve started", "dim", len(x0), "start", span.Start, "end", span.End, "points", len(tEval))

	var err error
	if adaptive, ok := s.integrator.(dynamo.AdaptiveIntegrator); ok {
		err = s.solveAdaptive(ctx, adaptive, x0, span, tEval, opts, result)
	} else {
		err = s.solveFixed(ctx, x0, span, tEval, opts, result)
	}
	if err != nil {
		s.log.V(1).Info("solve failed", "error", err.Error(), "accepted", result.Stats.Accepted, "rejected", result.Stats.Rejected)
		return nil, err
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	s.log.V(1).Info("solve finished",
		"accepted", result.Stats.Accepted,
		"rejected", result.Stats.Rejected,
		"evaluations", result.Stats.Evaluations)

	return result, nil
}

func (s *Simulator) record(result *Result, x dynamo.State, t float64) {
	result.Times = append(result.Times, t)
	result.States = append(result.States, x)
	for _, m := range s.metrics {
		m.OnStep(x, t)
	}
	for _, obs := range s.observers {
		obs.OnStep(x, t)
	}
}

func (s *Simulator) derive(result *Result, x dynamo.State, t float64) dynamo.State {
	result.Stats.Evaluations++
	return s.sys.Derive(x, t)
}

func (s *Simulator) solveAdaptive(ctx context.Context, integ dynamo.AdaptiveIntegrator, x0 dynamo.State, span Span, tEval []float64, opts Options, result *Result) error {
	tol := dynamo.Tolerance{RTol: opts.RTol, ATol: opts.ATol}
	counted := countingSystem{sys: s.sys, stats: &result.Stats}

	t := span.Start
	x := x0.Clone()
	f := s.derive(result, x, t)

	next := 0
	for next < len(tEval) && tEval[next] == t {
		s.record(result, x.Clone(), t)
		next++
	}

	h := opts.FirstStep
	if h <= 0 {
		h = initialStep(counted, x, f, t, span.End-t, integ.Order(), tol)
	}

	for step := 0; t < span.End; step++ {
		select {
		case <-ctx.Done():
			return &dynamo.SimulationError{Step: step, Time: t, Wrapped: ctx.Err()}
		default:
		}

		if result.Stats.Accepted+result.Stats.Rejected >= opts.MaxSteps {
			return &dynamo.SimulationError{Step: step, Time: t, Wrapped: errTooManySteps}
		}

		minStep := 10 * (math.Nextafter(t, math.Inf(1)) - t)
		h = math.Min(h, opts.MaxStep)
		if h < minStep {
			return &dynamo.SimulationError{Step: step, Time: t, Wrapped: errStepTooSmall}
		}

		tNew := t + h
		if tNew >= span.End {
			tNew = span.End
		}
		dt := tNew - t

		trial := integ.Attempt(counted, x, f, t, dt, tol)
		if !(trial.ErrNorm <= 1) || !trial.X.IsValid() {
			result.Stats.Rejected++
			h = dt * trial.Factor
			if !trial.X.IsValid() && h < minStep {
				return &dynamo.SimulationError{Step: step, Time: t, Wrapped: errNonFinite}
			}
			s.log.V(2).Info("step rejected", "t", t, "dt", dt, "err", trial.ErrNorm)
			continue
		}

		result.Stats.Accepted++
		for next < len(tEval) && tEval[next] <= tNew {
			te := tEval[next]
			if te == tNew {
				s.record(result, trial.X.Clone(), te)
			} else {
				s.record(result, hermite(x, f, trial.X, trial.F, t, dt, te), te)
			}
			next++
		}

		s.log.V(2).Info("step accepted", "t", tNew, "dt", dt, "err", trial.ErrNorm)

		t, x, f = tNew, trial.X, trial.F
		h = dt * trial.Factor
	}

	if next != len(tEval) {
		return &dynamo.SimulationError{Time: t, Wrapped: fmt.Errorf("reached %g with %d evaluation times unreported", t, len(tEval)-next)}
	}
	return nil
}

func (s *Simulator) solveFixed(ctx context.Context, x0 dynamo.State, span Span, tEval []float64, opts Options, result *Result) error {
	t := span.Start
	x := x0.Clone()
	step := 0

	for _, te := range tEval {
		for t < te {
			select {
			case <-ctx.Done():
				return &dynamo.SimulationError{Step: step, Time: t, Wrapped: ctx.Err()}
			default:
			}

			remaining := te - t
			subSteps := 1
			if !math.IsInf(opts.MaxStep, 1) {
				n := math.Ceil(remaining/opts.MaxStep - gridTol)
				if n > float64(opts.MaxSteps) {
					return dynamo.Configf("max step %g needs %g steps to reach t=%g, limit is %d", opts.MaxStep, n, te, opts.MaxSteps)
				}
				subSteps = max(1, int(n))
			}
			dt := remaining / float64(subSteps)
			for i := 0; i < subSteps; i++ {
				if result.Stats.Accepted >= opts.MaxSteps {
					return &dynamo.SimulationError{Step: step, Time: t, Wrapped: errTooManySteps}
				}
				x = s.integrator.Step(s.sys, x, t, dt)
				result.Stats.Accepted++
				step++
				if i == subSteps-1 {
					t = te
				} else {
					t += dt
				}
				if !x.IsValid() {
					return &dynamo.SimulationError{Step: step, Time: t, Wrapped: errNonFinite}
				}
			}
		}
		s.record(result, x.Clone(), te)
	}
	return nil
}

// hermite evaluates the cubic Hermite interpolant of an accepted step
// [t, t+dt] at te. It is a linear combination of states and derivatives,
// so linear invariants of the system hold at interpolated times.
func hermite(x0, f0, x1, f1 dynamo.State, t, dt, te float64) dynamo.State {
	theta := (te - t) / dt
	t2 := theta * theta
	t3 := t2 * theta
	h00 := 2*t3 - 3*t2 + 1
	h10 := (t3 - 2*t2 + theta) * dt
	h01 := -2*t3 + 3*t2
	h11 := (t3 - t2) * dt

	out := make(dynamo.State, len(x0))
	for i := range out {
		out[i] = h00*x0[i] + h10*f0[i] + h01*x1[i] + h11*f1[i]
	}
	return out
}

// initialStep estimates a first step size from the scale of the state and
// its derivative, following Hairer, Norsett & Wanner (II.4).
func initialStep(sys dynamo.System, x, f dynamo.State, t, interval float64, order int, tol dynamo.Tolerance) float64 {
	n := float64(len(x))
	if n == 0 {
		return interval
	}

	var d0, d1 float64
	for i := range x {
		scale := tol.ATol + math.Abs(x[i])*tol.RTol
		d0 += (x[i] / scale) * (x[i] / scale)
		d1 += (f[i] / scale) * (f[i] / scale)
	}
	d0 = math.Sqrt(d0 / n)
	d1 = math.Sqrt(d1 / n)

	h0 := 1e-6
	if d0 >= 1e-5 && d1 >= 1e-5 {
		h0 = 0.01 * d0 / d1
	}
	h0 = math.Min(h0, interval)

	x1 := make(dynamo.State, len(x))
	for i := range x {
		x1[i] = x[i] + h0*f[i]
	}
	f1 := sys.Derive(x1, t+h0)

	var d2 float64
	for i := range x {
		scale := tol.ATol + math.Abs(x[i])*tol.RTol
		d := (f1[i] - f[i]) / scale
		d2 += d * d
	}
	d2 = math.Sqrt(d2/n) / h0

	var h1 float64
	if d1 <= 1e-15 && d2 <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/math.Max(d1, d2), 1/float64(order+1))
	}

	return math.Min(math.Min(100*h0, h1), interval)
}

// countingSystem counts right-hand side evaluations made by steppers.
type countingSystem struct {
	sys   dynamo.System
	stats *Stats
}

func (c countingSystem) Derive(x dynamo.State, t float64) dynamo.State {
	c.stats.Evaluations++
	return c.sys.Derive(x, t)
}

func (c countingSystem) StateDim() int { return c.sys.StateDim() }
