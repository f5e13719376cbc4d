package eyespot

import (
	"github.com/san-kum/eyespot/internal/dynamo"
	"github.com/san-kum/eyespot/internal/sim"
)

// Solution is the read-only time series of a solved run.
type Solution struct {
	Times   []float64
	States  []dynamo.State
	Metrics map[string]float64
	Stats   sim.Stats

	codec Codec
}

// NewSolution wraps an existing time series, for example one loaded by a
// consumer, so it can be decoded with the codec of gridSize.
func NewSolution(gridSize int, times []float64, states []dynamo.State) (*Solution, error) {
	if len(times) != len(states) {
		return nil, dynamo.Shapef("%d times for %d states", len(times), len(states))
	}
	codec := NewCodec(gridSize)
	for i, s := range states {
		if len(s) != codec.Len() {
			return nil, dynamo.Shapef("state %d has length %d, want %d", i, len(s), codec.Len())
		}
	}
	return &Solution{Times: times, States: states, codec: codec}, nil
}

func (s *Solution) Len() int { return len(s.Times) }

func (s *Solution) GridSize() int { return s.codec.GridSize() }

func (s *Solution) Codec() Codec { return s.codec }

// Fields decodes the state at evaluation index i.
func (s *Solution) Fields(i int) (Fields, error) {
	if i < 0 || i >= len(s.States) {
		return Fields{}, dynamo.Configf("time index %d outside [0,%d)", i, len(s.States))
	}
	return s.codec.Decode(s.States[i])
}

// Final decodes the state at the last evaluation time.
func (s *Solution) Final() (Fields, error) {
	return s.Fields(len(s.States) - 1)
}
