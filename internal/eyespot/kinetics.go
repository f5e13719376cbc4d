package eyespot

import (
	"fmt"
	"math"

	"github.com/san-kum/eyespot/internal/dynamo"
	"github.com/san-kum/eyespot/internal/grid"
)

// Kinetics is the reaction-diffusion right-hand side:
//
//	A    = A0·exp(-k1·t)
//	dM1  = k1·A − k2·M1 − k3·M1·P0 + D1·∇²M1
//	dM2  = k3·M1·P0 − k4·M2 − k5·M2·P0 + D2·∇²M2
//	dP0  = −k3·M1·P0 − k5·M2·P0
//	dP1  = k3·M1·P0
//	dP2  = k5·M2·P0
//
// Derive depends only on (x, t); Laplacian scratch comes from a pool and
// is fully overwritten on every call.
type Kinetics struct {
	p     Params
	h     float64
	a0    grid.Field
	codec Codec
	pool  *dynamo.StatePool
}

func NewKinetics(p Params, a0 grid.Field) (*Kinetics, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if a0.N != p.GridSize || len(a0.Data) != p.GridSize*p.GridSize {
		return nil, dynamo.Shapef("source field is %dx%d, want %dx%d", a0.N, a0.N, p.GridSize, p.GridSize)
	}
	return &Kinetics{
		p:     p,
		h:     p.Step(),
		a0:    a0.Clone(),
		codec: NewCodec(p.GridSize),
		pool:  dynamo.NewStatePool(p.GridSize * p.GridSize),
	}, nil
}

func (k *Kinetics) StateDim() int { return k.codec.Len() }

// Derive evaluates the right-hand side on the flat state. It panics on a
// length mismatch; the driver checks dimensions before integrating.
func (k *Kinetics) Derive(x dynamo.State, t float64) dynamo.State {
	if len(x) != k.codec.Len() {
		panic(fmt.Sprintf("eyespot: kinetics got state of length %d, want %d", len(x), k.codec.Len()))
	}
	out := make(dynamo.State, len(x))
	k.deriveInto(k.codec.view(out), k.codec.view(x), t)
	return out
}

// DeriveFields evaluates the right-hand side on named fields.
func (k *Kinetics) DeriveFields(f Fields, t float64) (Fields, error) {
	x, err := k.codec.Encode(f)
	if err != nil {
		return Fields{}, err
	}
	return k.codec.view(k.Derive(x, t)), nil
}

func (k *Kinetics) deriveInto(d, f Fields, t float64) {
	p := k.p
	decay := math.Exp(-p.K1 * t)

	lap1 := grid.Field{N: p.GridSize, Data: k.pool.Get()}
	lap2 := grid.Field{N: p.GridSize, Data: k.pool.Get()}
	defer k.pool.Put(lap1.Data)
	defer k.pool.Put(lap2.Data)

	grid.LaplacianInto(lap1, f.M1, k.h)
	grid.LaplacianInto(lap2, f.M2, k.h)

	for i := range f.M1.Data {
		m1, m2, p0 := f.M1.Data[i], f.M2.Data[i], f.P0.Data[i]
		a := k.a0.Data[i] * decay
		conv1 := p.K3 * m1 * p0
		conv2 := p.K5 * m2 * p0

		d.M1.Data[i] = p.K1*a - p.K2*m1 - conv1 + p.D1*lap1.Data[i]
		d.M2.Data[i] = conv1 - p.K4*m2 - conv2 + p.D2*lap2.Data[i]
		d.P0.Data[i] = -conv1 - conv2
		d.P1.Data[i] = conv1
		d.P2.Data[i] = conv2
	}
}
