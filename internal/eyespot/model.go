package eyespot

import (
	"context"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/san-kum/eyespot/internal/dynamo"
	"github.com/san-kum/eyespot/internal/grid"
	"github.com/san-kum/eyespot/internal/sim"
)

// Model is the configuration of one eyespot system: its parameters and the
// foci registry. Runs built from it own snapshots and share nothing with
// the model or with each other.
type Model struct {
	params Params
	foci   *Foci
	codec  Codec
	log    logr.Logger
}

func NewModel(p Params) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Model{
		params: p,
		foci:   NewFoci(p.GridSize),
		codec:  NewCodec(p.GridSize),
		log:    logr.Discard(),
	}, nil
}

func (m *Model) WithLogger(log logr.Logger) *Model {
	m.log = log
	return m
}

func (m *Model) Params() Params { return m.params }
func (m *Model) Foci() *Foci    { return m.foci }
func (m *Model) Codec() Codec   { return m.codec }

// InitialConditions fills each species and the source field with its
// scalar default, then writes the foci magnitudes at every registered
// focus. It returns the flat initial state and the static source field.
func (m *Model) InitialConditions() (dynamo.State, grid.Field) {
	p := m.params
	n := p.GridSize

	f := Fields{
		M1: grid.Filled(n, p.M1Init),
		M2: grid.Filled(n, p.M2Init),
		P0: grid.Filled(n, p.P0Init),
		P1: grid.Filled(n, p.P1Init),
		P2: grid.Filled(n, p.P2Init),
	}
	a0 := grid.Filled(n, p.AInit)

	for _, pos := range m.foci.Positions() {
		a0.Set(pos.Row, pos.Col, p.AAtFoci)
		f.P0.Set(pos.Row, pos.Col, p.P0AtFoci)
	}

	// Fields are built at the codec's size, so Encode cannot fail here.
	y0, err := m.codec.Encode(f)
	if err != nil {
		panic(err)
	}
	return y0, a0
}

// RunOptions select the integration method and tolerances of a run.
type RunOptions struct {
	Method    string
	Solver    sim.Options
	Metrics   []dynamo.Metric
	Observers []dynamo.Observer
}

// NewRun validates the time grid and returns a run in the Configured phase.
func (m *Model) NewRun(span sim.Span, times []float64, opts RunOptions) (*Run, error) {
	if err := sim.ValidateGrid(span, times); err != nil {
		return nil, err
	}
	integ, err := sim.NewIntegrator(opts.Method)
	if err != nil {
		return nil, err
	}
	return &Run{
		model:      m,
		span:       span,
		times:      append([]float64(nil), times...),
		opts:       opts,
		integrator: integ,
		phase:      PhaseConfigured,
	}, nil
}

// Solve builds a fresh run from the current registry and solves it.
func (m *Model) Solve(ctx context.Context, span sim.Span, times []float64, opts RunOptions) (*Solution, error) {
	run, err := m.NewRun(span, times, opts)
	if err != nil {
		return nil, err
	}
	return run.Solve(ctx)
}

// Phase is the lifecycle position of a Run.
type Phase int

const (
	PhaseConfigured Phase = iota
	PhaseInitialConditionsBuilt
	PhaseSolving
	PhaseSolved
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseConfigured:
		return "configured"
	case PhaseInitialConditionsBuilt:
		return "initial-conditions-built"
	case PhaseSolving:
		return "solving"
	case PhaseSolved:
		return "solved"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Run is a single solve: Configured → InitialConditionsBuilt → Solving →
// Solved or Failed. Solved and Failed are terminal.
type Run struct {
	model      *Model
	span       sim.Span
	times      []float64
	opts       RunOptions
	integrator dynamo.Integrator

	phase    Phase
	y0       dynamo.State
	a0       grid.Field
	solution *Solution
	err      error
}

func (r *Run) Phase() Phase { return r.phase }

// Err is the failure of a Failed run.
func (r *Run) Err() error { return r.err }

// Solution is nil until the run is Solved.
func (r *Run) Solution() *Solution { return r.solution }

// Build snapshots the foci registry into initial conditions. Calling it
// again after the build is a no-op.
func (r *Run) Build() error {
	switch r.phase {
	case PhaseConfigured:
		r.y0, r.a0 = r.model.InitialConditions()
		r.phase = PhaseInitialConditionsBuilt
		return nil
	case PhaseInitialConditionsBuilt:
		return nil
	default:
		return dynamo.Configf("run is %s; initial conditions can no longer be built", r.phase)
	}
}

// InitialState returns a copy of the built initial state.
func (r *Run) InitialState() (Fields, error) {
	if r.y0 == nil {
		return Fields{}, dynamo.Configf("run is %s; initial conditions not built", r.phase)
	}
	return r.model.codec.Decode(r.y0)
}

// SourceField returns a copy of the built static source field A0.
func (r *Run) SourceField() (grid.Field, error) {
	if r.y0 == nil {
		return grid.Field{}, dynamo.Configf("run is %s; initial conditions not built", r.phase)
	}
	return r.a0.Clone(), nil
}

// Solve integrates the run. A run solves at most once; build a new run to
// solve again.
func (r *Run) Solve(ctx context.Context) (*Solution, error) {
	if err := r.Build(); err != nil {
		return nil, err
	}
	r.phase = PhaseSolving

	kin, err := NewKinetics(r.model.params, r.a0)
	if err != nil {
		return nil, r.fail(err)
	}

	s := sim.New(kin, r.integrator).WithLogger(r.model.log)
	for _, metric := range r.opts.Metrics {
		s.AddMetric(metric)
	}
	for _, obs := range r.opts.Observers {
		s.AddObserver(obs)
	}

	r.model.log.V(1).Info("run solving",
		"grid", r.model.params.GridSize,
		"foci", len(r.model.foci.Positions()),
		"method", r.opts.Method,
		"times", len(r.times))

	res, err := s.Solve(ctx, r.y0, r.span, r.times, r.opts.Solver)
	if err != nil {
		return nil, r.fail(err)
	}

	r.solution = &Solution{
		Times:   res.Times,
		States:  res.States,
		Metrics: res.Metrics,
		Stats:   res.Stats,
		codec:   r.model.codec,
	}
	r.phase = PhaseSolved
	return r.solution, nil
}

func (r *Run) fail(err error) error {
	r.err = err
	r.phase = PhaseFailed
	return err
}
