package metrics

import (
	"math"

	"github.com/san-kum/eyespot/internal/dynamo"
	"github.com/san-kum/eyespot/internal/eyespot"
)

// PigmentDrift is the largest cellwise change of P0+P1+P2 from the first
// observed state. The kinetics conserve that total, so the value measures
// integration error.
type PigmentDrift struct {
	name     string
	codec    eyespot.Codec
	initial  []float64
	maxDrift float64
}

func NewPigmentDrift(codec eyespot.Codec) *PigmentDrift {
	return &PigmentDrift{
		name:  "pigment_drift",
		codec: codec,
	}
}

func (p *PigmentDrift) Name() string { return p.name }

func (p *PigmentDrift) OnStep(x dynamo.State, t float64) {
	f, err := p.codec.Decode(x)
	if err != nil {
		return
	}
	total := f.Pigment().Data

	if p.initial == nil {
		p.initial = total
		return
	}
	for i, v := range total {
		p.maxDrift = math.Max(p.maxDrift, math.Abs(v-p.initial[i]))
	}
}

func (p *PigmentDrift) Value() float64 { return p.maxDrift }

func (p *PigmentDrift) Reset() {
	p.initial = nil
	p.maxDrift = 0
}
