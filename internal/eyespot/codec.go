package eyespot

import (
	"github.com/san-kum/eyespot/internal/dynamo"
	"github.com/san-kum/eyespot/internal/grid"
)

// NumSpecies is the number of evolving fields in the state vector.
const NumSpecies = 5

// SpeciesNames lists the evolving fields in state-vector order.
var SpeciesNames = [NumSpecies]string{"M1", "M2", "P0", "P1", "P2"}

// Fields is the struct-of-grids view of one model state.
type Fields struct {
	M1, M2     grid.Field
	P0, P1, P2 grid.Field
}

// Species returns the fields in state-vector order.
func (f Fields) Species() [NumSpecies]grid.Field {
	return [NumSpecies]grid.Field{f.M1, f.M2, f.P0, f.P1, f.P2}
}

// Pigment returns the cellwise total P0+P1+P2.
func (f Fields) Pigment() grid.Field {
	total := grid.NewField(f.P0.N)
	for i := range total.Data {
		total.Data[i] = f.P0.Data[i] + f.P1.Data[i] + f.P2.Data[i]
	}
	return total
}

// Codec converts between the flat state vector and named fields for a
// fixed grid size.
type Codec struct {
	n int
}

func NewCodec(gridSize int) Codec {
	return Codec{n: gridSize}
}

func (c Codec) GridSize() int { return c.n }

// Len is the flat vector length, 5·N².
func (c Codec) Len() int { return NumSpecies * c.n * c.n }

// Decode copies flat into five independent fields.
func (c Codec) Decode(flat dynamo.State) (Fields, error) {
	if len(flat) != c.Len() {
		return Fields{}, dynamo.Shapef("state has length %d, want %d for a %dx%d grid", len(flat), c.Len(), c.n, c.n)
	}
	return c.view(flat.Clone()), nil
}

// Encode stacks the five fields into a new flat vector.
func (c Codec) Encode(f Fields) (dynamo.State, error) {
	flat := make(dynamo.State, c.Len())
	block := c.n * c.n
	for i, field := range f.Species() {
		if field.N != c.n || len(field.Data) != block {
			return nil, dynamo.Shapef("field %s is %dx%d with %d cells, want %dx%d",
				SpeciesNames[i], field.N, field.N, len(field.Data), c.n, c.n)
		}
		copy(flat[i*block:(i+1)*block], field.Data)
	}
	return flat, nil
}

// view returns fields aliasing flat. The caller guarantees the length.
func (c Codec) view(flat dynamo.State) Fields {
	block := c.n * c.n
	at := func(i int) grid.Field {
		return grid.Field{N: c.n, Data: flat[i*block : (i+1)*block : (i+1)*block]}
	}
	return Fields{M1: at(0), M2: at(1), P0: at(2), P1: at(3), P2: at(4)}
}
