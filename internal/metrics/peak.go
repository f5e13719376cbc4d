package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/eyespot/internal/dynamo"
	"github.com/san-kum/eyespot/internal/eyespot"
)

// Peak tracks the largest value one species reaches anywhere on the grid
// over all observed times.
type Peak struct {
	name    string
	codec   eyespot.Codec
	species int
	peak    float64
	samples int
}

// NewPeak watches species by its index in eyespot.SpeciesNames.
func NewPeak(codec eyespot.Codec, species int) *Peak {
	return &Peak{
		name:    "peak_" + eyespot.SpeciesNames[species],
		codec:   codec,
		species: species,
	}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) OnStep(x dynamo.State, t float64) {
	f, err := p.codec.Decode(x)
	if err != nil {
		return
	}
	m := floats.Max(f.Species()[p.species].Data)
	if p.samples == 0 {
		p.peak = m
	} else {
		p.peak = math.Max(p.peak, m)
	}
	p.samples++
}

func (p *Peak) Value() float64 { return p.peak }

func (p *Peak) Reset() {
	p.peak = 0
	p.samples = 0
}
