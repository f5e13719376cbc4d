package eyespot

import (
	"strings"

	"github.com/san-kum/eyespot/internal/dynamo"
	"github.com/san-kum/eyespot/internal/grid"
)

// Pigment classifies a cell by its dominant pigment state.
type Pigment uint8

const (
	PigmentNone Pigment = iota
	PigmentPrecursor
	PigmentP1
	PigmentP2
)

func (p Pigment) String() string {
	switch p {
	case PigmentPrecursor:
		return "P0"
	case PigmentP1:
		return "P1"
	case PigmentP2:
		return "P2"
	default:
		return "none"
	}
}

// ParsePigment is the inverse of Pigment.String, ignoring case.
func ParsePigment(name string) (Pigment, error) {
	for p := PigmentNone; p <= PigmentP2; p++ {
		if strings.EqualFold(p.String(), name) {
			return p, nil
		}
	}
	return 0, dynamo.Configf("unknown pigment %q (want none, P0, P1 or P2)", name)
}

// PigmentMap is the per-cell dominant pigment of one state.
type PigmentMap struct {
	N     int
	Cells []Pigment
}

func (m PigmentMap) At(r, c int) Pigment { return m.Cells[r*m.N+c] }

// Counts returns how many cells fall in each class, indexed by Pigment.
func (m PigmentMap) Counts() [4]int {
	var counts [4]int
	for _, c := range m.Cells {
		counts[c]++
	}
	return counts
}

// Classify marks a cell PigmentNone when P0+P1+P2 is zero, otherwise the
// species holding the largest amount. Ties go to the earlier species.
func Classify(p0, p1, p2 grid.Field) PigmentMap {
	m := PigmentMap{N: p0.N, Cells: make([]Pigment, len(p0.Data))}
	for i := range p0.Data {
		a, b, c := p0.Data[i], p1.Data[i], p2.Data[i]
		if a+b+c == 0 {
			continue
		}
		best, class := a, PigmentPrecursor
		if b > best {
			best, class = b, PigmentP1
		}
		if c > best {
			class = PigmentP2
		}
		m.Cells[i] = class
	}
	return m
}

// Classify returns the dominant pigment map of f.
func (f Fields) Classify() PigmentMap {
	return Classify(f.P0, f.P1, f.P2)
}
