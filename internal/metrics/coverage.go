package metrics

import (
	"github.com/san-kum/eyespot/internal/dynamo"
	"github.com/san-kum/eyespot/internal/eyespot"
)

// Coverage is the fraction of cells whose dominant pigment is class in the
// most recently observed state.
type Coverage struct {
	name     string
	codec    eyespot.Codec
	class    eyespot.Pigment
	fraction float64
}

func NewCoverage(codec eyespot.Codec, class eyespot.Pigment) *Coverage {
	return &Coverage{
		name:  "coverage_" + class.String(),
		codec: codec,
		class: class,
	}
}

func (c *Coverage) Name() string { return c.name }

func (c *Coverage) OnStep(x dynamo.State, t float64) {
	f, err := c.codec.Decode(x)
	if err != nil {
		return
	}
	m := f.Classify()
	if len(m.Cells) == 0 {
		c.fraction = 0
		return
	}
	c.fraction = float64(m.Counts()[c.class]) / float64(len(m.Cells))
}

func (c *Coverage) Value() float64 { return c.fraction }

func (c *Coverage) Reset() { c.fraction = 0 }
