package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/eyespot/internal/dynamo"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) StateDim() int { return 2 }

func (h *harmonicOscillator) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (h *harmonicOscillator) Energy(x dynamo.State) float64 {
	return 0.5 * (x[0]*x[0] + x[1]*x[1])
}

type decay struct{ rate float64 }

func (d *decay) StateDim() int { return 1 }
func (d *decay) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{-d.rate * x[0]}
}

func TestRK45_Step(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x := dynamo.State{1.0, 0.0}
	dt := 0.01

	for i := 0; i < 1000; i++ {
		x = integrator.Step(dyn, x, float64(i)*dt, dt)
	}

	if !x.IsValid() {
		t.Error("RK45 produced invalid state")
	}
	if math.Abs(x[0]-math.Cos(10)) > 1e-8 {
		t.Errorf("x(10) = %.10f, want %.10f", x[0], math.Cos(10))
	}
}

func TestRK45_EnergyConservation(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	initialEnergy := dyn.Energy(x0)
	x := x0.Clone()
	dt := 0.01

	for i := 0; i < 10000; i++ {
		x = integrator.Step(dyn, x, float64(i)*dt, dt)
	}

	drift := math.Abs(dyn.Energy(x)-initialEnergy) / initialEnergy
	if drift > 1e-6 {
		t.Errorf("RK45 energy drift too high: %e", drift)
	}
}

func TestRK45_AttemptFSAL(t *testing.T) {
	integrator := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	trial := integrator.Attempt(dyn, x0, dyn.Derive(x0, 0), 0, 0.1, dynamo.Tolerance{RTol: 1e-8, ATol: 1e-10})

	if !trial.X.IsValid() {
		t.Fatal("Attempt produced invalid state")
	}
	want := dyn.Derive(trial.X, 0.1)
	for i := range want {
		if trial.F[i] != want[i] {
			t.Errorf("F[%d] = %g, want derivative at new state %g", i, trial.F[i], want[i])
		}
	}
	if trial.Factor <= 0 {
		t.Errorf("invalid step factor %f", trial.Factor)
	}
}

func TestRK45_ErrorNormDrivesFactor(t *testing.T) {
	integrator := NewRK45()
	dyn := &decay{rate: 50}
	x0 := dynamo.State{1.0}
	tol := dynamo.Tolerance{RTol: 1e-6, ATol: 1e-9}

	big := integrator.Attempt(dyn, x0, dyn.Derive(x0, 0), 0, 0.5, tol)
	if big.ErrNorm <= 1 {
		t.Fatalf("expected a large step to exceed tolerance, err=%g", big.ErrNorm)
	}
	if big.Factor >= 1 || big.Factor < integrator.minScale {
		t.Errorf("rejected step factor %g outside [%g, 1)", big.Factor, integrator.minScale)
	}

	small := integrator.Attempt(dyn, x0, dyn.Derive(x0, 0), 0, 1e-4, tol)
	if small.ErrNorm > 1 {
		t.Fatalf("expected a tiny step to be accepted, err=%g", small.ErrNorm)
	}
	if small.Factor <= 1 {
		t.Errorf("accepted step should suggest growth, got %g", small.Factor)
	}
}

func TestRK45_FactorHandlesNonFinite(t *testing.T) {
	r := NewRK45()
	if f := r.factor(math.NaN()); f != r.minScale {
		t.Errorf("factor(NaN) = %g, want %g", f, r.minScale)
	}
	if f := r.factor(0); f != r.maxScale {
		t.Errorf("factor(0) = %g, want %g", f, r.maxScale)
	}
}

func TestRK45_VsRK4_Accuracy(t *testing.T) {
	rk4 := NewRK4()
	rk45 := NewRK45()
	dyn := &harmonicOscillator{}
	x0 := dynamo.State{1.0, 0.0}

	x4 := x0.Clone()
	x45 := x0.Clone()
	dt := 0.1

	for i := 0; i < 100; i++ {
		x4 = rk4.Step(dyn, x4, float64(i)*dt, dt)
		x45 = rk45.Step(dyn, x45, float64(i)*dt, dt)
	}

	t.Logf("RK4 final: [%.6f, %.6f]", x4[0], x4[1])
	t.Logf("RK45 final: [%.6f, %.6f]", x45[0], x45[1])

	e4 := dyn.Energy(x4)
	e45 := dyn.Energy(x45)

	if math.Abs(e45-0.5) > math.Abs(e4-0.5) {
		t.Log("Warning: RK45 not more accurate than RK4 for this case")
	}
}
