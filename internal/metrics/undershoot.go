package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/eyespot/internal/dynamo"
)

// Undershoot is the most negative concentration seen in any species, or
// zero when every observed value stayed non-negative. Concentrations are
// not clamped, so this flags steps where the stepper overshot.
type Undershoot struct {
	name string
	min  float64
}

func NewUndershoot() *Undershoot {
	return &Undershoot{name: "undershoot"}
}

func (u *Undershoot) Name() string { return u.name }

func (u *Undershoot) OnStep(x dynamo.State, t float64) {
	if len(x) == 0 {
		return
	}
	u.min = math.Min(u.min, floats.Min(x))
}

func (u *Undershoot) Value() float64 { return u.min }

func (u *Undershoot) Reset() { u.min = 0 }
