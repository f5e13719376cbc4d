// Package export encodes solved runs for consumers outside the process:
// JSON documents for the web client and files, CSV totals and SVG images.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/san-kum/eyespot/internal/dynamo"
	"github.com/san-kum/eyespot/internal/eyespot"
	"github.com/san-kum/eyespot/internal/sim"
)

// Final is the five fields at the last evaluation time as nested arrays.
type Final struct {
	GridSize int                `json:"grid_size"`
	Time     float64            `json:"time"`
	M1       [][]float64        `json:"M1"`
	M2       [][]float64        `json:"M2"`
	P0       [][]float64        `json:"P0"`
	P1       [][]float64        `json:"P1"`
	P2       [][]float64        `json:"P2"`
	Pigment  [][]uint8          `json:"pigment"`
	Metrics  map[string]float64 `json:"metrics,omitempty"`
	Stats    sim.Stats          `json:"stats"`
}

// Series is the full flattened time series. Each state is five row-major
// blocks in the order given by Species.
type Series struct {
	GridSize int                `json:"grid_size"`
	Species  []string           `json:"species"`
	Times    []float64          `json:"times"`
	States   [][]float64        `json:"states"`
	Metrics  map[string]float64 `json:"metrics,omitempty"`
	Stats    sim.Stats          `json:"stats"`
}

func NewFinal(sol *eyespot.Solution) (*Final, error) {
	if sol.Len() == 0 {
		return nil, dynamo.Shapef("solution has no evaluation times")
	}
	f, err := sol.Final()
	if err != nil {
		return nil, err
	}
	pm := f.Classify()
	pigment := make([][]uint8, pm.N)
	for r := range pigment {
		pigment[r] = make([]uint8, pm.N)
		for c := range pigment[r] {
			pigment[r][c] = uint8(pm.At(r, c))
		}
	}
	return &Final{
		GridSize: sol.GridSize(),
		Time:     sol.Times[sol.Len()-1],
		M1:       f.M1.Rows(),
		M2:       f.M2.Rows(),
		P0:       f.P0.Rows(),
		P1:       f.P1.Rows(),
		P2:       f.P2.Rows(),
		Pigment:  pigment,
		Metrics:  sol.Metrics,
		Stats:    sol.Stats,
	}, nil
}

func NewSeries(sol *eyespot.Solution) *Series {
	states := make([][]float64, len(sol.States))
	for i, s := range sol.States {
		states[i] = s
	}
	return &Series{
		GridSize: sol.GridSize(),
		Species:  append([]string(nil), eyespot.SpeciesNames[:]...),
		Times:    sol.Times,
		States:   states,
		Metrics:  sol.Metrics,
		Stats:    sol.Stats,
	}
}

// Solution rebuilds a decodable solution from a loaded series.
func (s *Series) Solution() (*eyespot.Solution, error) {
	states := make([]dynamo.State, len(s.States))
	for i, st := range s.States {
		states[i] = st
	}
	sol, err := eyespot.NewSolution(s.GridSize, s.Times, states)
	if err != nil {
		return nil, err
	}
	sol.Metrics = s.Metrics
	sol.Stats = s.Stats
	return sol, nil
}

// WriteJSON encodes v with two-space indentation.
func WriteJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func SaveJSON(path string, v any) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(file, v); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// LoadSeries reads a series written by SaveJSON.
func LoadSeries(path string) (*eyespot.Solution, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Series
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", dynamo.ErrConfiguration, path, err)
	}
	return s.Solution()
}
