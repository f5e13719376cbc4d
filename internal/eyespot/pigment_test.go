package eyespot

import (
	"errors"
	"testing"

	"github.com/san-kum/eyespot/internal/dynamo"
	"github.com/san-kum/eyespot/internal/grid"
)

func TestClassify(t *testing.T) {
	p0, _ := grid.FromRows([][]float64{{0, 0.5}, {0.2, 0.1}})
	p1, _ := grid.FromRows([][]float64{{0, 0.5}, {0.3, 0.1}})
	p2, _ := grid.FromRows([][]float64{{0, 0.1}, {0.1, 0.4}})

	m := Classify(p0, p1, p2)

	want := [][]Pigment{
		{PigmentNone, PigmentPrecursor},
		{PigmentP1, PigmentP2},
	}
	for r := range want {
		for c := range want[r] {
			if got := m.At(r, c); got != want[r][c] {
				t.Errorf("(%d,%d) = %s, want %s", r, c, got, want[r][c])
			}
		}
	}

	counts := m.Counts()
	if counts != [4]int{1, 1, 1, 1} {
		t.Errorf("Counts() = %v", counts)
	}
}

func TestParsePigment(t *testing.T) {
	for _, p := range []Pigment{PigmentNone, PigmentPrecursor, PigmentP1, PigmentP2} {
		got, err := ParsePigment(p.String())
		if err != nil || got != p {
			t.Errorf("ParsePigment(%q) = %v, %v", p.String(), got, err)
		}
	}
	if got, err := ParsePigment("p2"); err != nil || got != PigmentP2 {
		t.Errorf("lower case: got %v, %v", got, err)
	}
	if _, err := ParsePigment("P3"); !errors.Is(err, dynamo.ErrConfiguration) {
		t.Errorf("expected configuration error, got %v", err)
	}
}
