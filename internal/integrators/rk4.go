package integrators

import (
	"github.com/san-kum/eyespot/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// RK4 is the classic fixed-step fourth order Runge-Kutta method.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(sys dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	scratch := make(dynamo.State, n)

	k1 := sys.Derive(x, t)

	floats.AddScaledTo(scratch, x, dt*0.5, k1)
	k2 := sys.Derive(scratch, t+dt*0.5)

	floats.AddScaledTo(scratch, x, dt*0.5, k2)
	k3 := sys.Derive(scratch, t+dt*0.5)

	floats.AddScaledTo(scratch, x, dt, k3)
	k4 := sys.Derive(scratch, t+dt)

	result := make(dynamo.State, n)
	dt6 := dt / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + dt6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}

	return result
}
