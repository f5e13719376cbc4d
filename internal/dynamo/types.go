package dynamo

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// System is an autonomous-or-not ODE right-hand side. Derive must be a pure
// function of (x, t): adaptive steppers evaluate it out of order and repeat
// evaluations for rejected steps.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Integrator interface {
	Step(sys System, x State, t, dt float64) State
}

// Tolerance is the mixed relative/absolute accuracy target of an adaptive
// step: component i is within tolerance when |err_i| <= ATol + RTol*|x_i|.
type Tolerance struct {
	RTol float64
	ATol float64
}

// Trial is the outcome of one embedded step attempt.
type Trial struct {
	X, F    State   // proposed state at t+dt and its derivative (FSAL)
	ErrNorm float64 // RMS error in units of the tolerance; <= 1 is acceptable
	Factor  float64 // suggested multiplier for the next step size
}

// AdaptiveIntegrator performs one embedded trial step from x, whose
// derivative fx is already known, and rates its local error.
type AdaptiveIntegrator interface {
	Integrator
	Order() int
	Attempt(sys System, x, fx State, t, dt float64, tol Tolerance) Trial
}

// Observer is notified with every state the driver reports.
type Observer interface {
	OnStep(x State, t float64)
}

type Metric interface {
	Observer
	Name() string
	Value() float64
	Reset()
}
