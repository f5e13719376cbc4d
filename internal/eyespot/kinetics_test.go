package eyespot

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/eyespot/internal/dynamo"
	"github.com/san-kum/eyespot/internal/grid"
	"github.com/san-kum/eyespot/internal/sim"
)

func testParams(n int) Params {
	p := DefaultParams()
	p.GridSize = n
	return p
}

func TestKineticsPigmentDerivativesCancel(t *testing.T) {
	p := testParams(4)
	a0 := grid.Filled(4, 3)
	k, err := NewKinetics(p, a0)
	if err != nil {
		t.Fatalf("NewKinetics: %v", err)
	}

	f := Fields{
		M1: grid.Filled(4, 0.7), M2: grid.Filled(4, 0.4),
		P0: grid.Filled(4, 0.2), P1: grid.Filled(4, 0.05), P2: grid.Filled(4, 0.01),
	}
	f.M1.Set(1, 2, 2.5)
	f.P0.Set(3, 0, 0.9)

	d, err := k.DeriveFields(f, 0.3)
	if err != nil {
		t.Fatalf("DeriveFields: %v", err)
	}
	for i := range d.P0.Data {
		sum := d.P0.Data[i] + d.P1.Data[i] + d.P2.Data[i]
		if math.Abs(sum) > 1e-12 {
			t.Errorf("cell %d: dP0+dP1+dP2 = %g", i, sum)
		}
	}
}

func TestKineticsDiffusionTerm(t *testing.T) {
	p := testParams(3)
	p.D1 = 1
	k, err := NewKinetics(p, grid.NewField(3))
	if err != nil {
		t.Fatalf("NewKinetics: %v", err)
	}

	f := Fields{
		M1: grid.NewField(3), M2: grid.NewField(3),
		P0: grid.NewField(3), P1: grid.NewField(3), P2: grid.NewField(3),
	}
	f.M1.Set(1, 1, 1)

	d, err := k.DeriveFields(f, 0)
	if err != nil {
		t.Fatalf("DeriveFields: %v", err)
	}

	lap := grid.Laplacian(f.M1, p.Step())
	for i := range d.M1.Data {
		want := -p.K2*f.M1.Data[i] + p.D1*lap.Data[i]
		if math.Abs(d.M1.Data[i]-want) > 1e-12 {
			t.Errorf("cell %d: dM1 = %g, want %g", i, d.M1.Data[i], want)
		}
	}
	if got := d.M1.At(1, 1); math.Abs(got-(-36-p.K2)) > 1e-9 {
		t.Errorf("center dM1 = %g, want %g", got, -36-p.K2)
	}
}

func TestKineticsRejectsMismatchedSource(t *testing.T) {
	if _, err := NewKinetics(testParams(4), grid.NewField(3)); !errors.Is(err, dynamo.ErrShape) {
		t.Errorf("got %v, want ErrShape", err)
	}
}

func TestKineticsPanicsOnBadState(t *testing.T) {
	k, err := NewKinetics(testParams(2), grid.NewField(2))
	if err != nil {
		t.Fatalf("NewKinetics: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Error("expected panic for short state")
		}
	}()
	k.Derive(make(dynamo.State, 3), 0)
}

// With no precursor and no diffusion M1 follows the closed form
// k1·A0/(k2−k1)·(e^{−k1·t} − e^{−k2·t}).
func TestSourceDecayMatchesClosedForm(t *testing.T) {
	p := testParams(3)
	p.P0Init = 0
	p.D1, p.D2 = 0, 0
	p.AInit = 1

	m, err := NewModel(p)
	if err != nil {
		t.Fatalf("NewModel: %v", err)
	}
	times, err := sim.EvalGrid(sim.Span{Start: 0, End: 2}, 0.25)
	if err != nil {
		t.Fatalf("EvalGrid: %v", err)
	}

	opts := RunOptions{Solver: sim.Options{RTol: 1e-9, ATol: 1e-12}}
	sol, err := m.Solve(context.Background(), sim.Span{Start: 0, End: 2}, times, opts)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	for i, tm := range sol.Times {
		f, err := sol.Fields(i)
		if err != nil {
			t.Fatalf("Fields(%d): %v", i, err)
		}
		want := p.K1 * p.AInit / (p.K2 - p.K1) * (math.Exp(-p.K1*tm) - math.Exp(-p.K2*tm))
		if got := f.M1.At(1, 1); math.Abs(got-want) > 1e-6 {
			t.Errorf("t=%g: M1 = %.9f, want %.9f", tm, got, want)
		}
		if f.M2.Max() != 0 || f.P1.Max() != 0 {
			t.Errorf("t=%g: M2/P1 moved without precursor", tm)
		}
	}
}

func BenchmarkKinetics101(b *testing.B) {
	m, err := NewModel(DefaultParams())
	if err != nil {
		b.Fatal(err)
	}
	if err := m.Foci().Sync(Pos{Row: 50, Col: 50}); err != nil {
		b.Fatal(err)
	}
	x, a0 := m.InitialConditions()
	k, err := NewKinetics(m.Params(), a0)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		k.Derive(x, 0)
	}
}
