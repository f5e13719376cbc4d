package eyespot

import (
	"fmt"

	"github.com/san-kum/eyespot/internal/dynamo"
)

// Pos addresses a grid cell by row and column.
type Pos struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

func (p Pos) String() string { return fmt.Sprintf("(%d,%d)", p.Row, p.Col) }

// Foci is the ordered registry of focus cells. It starts unset, which is
// distinct from an explicitly empty registry but has the same effect: no
// cell is overridden. Duplicates are kept in insertion order.
type Foci struct {
	gridSize  int
	active    bool
	positions []Pos
}

func NewFoci(gridSize int) *Foci {
	return &Foci{gridSize: gridSize}
}

// IsSet reports whether the registry has been given an explicit list.
func (f *Foci) IsSet() bool { return f.active }

func (f *Foci) Len() int { return len(f.positions) }

// Positions returns a copy of the registered positions, nil when unset.
func (f *Foci) Positions() []Pos {
	if !f.active {
		return nil
	}
	out := make([]Pos, len(f.positions))
	copy(out, f.positions)
	return out
}

// Add appends positions. An unset registry becomes active even when no
// position is given.
func (f *Foci) Add(pos ...Pos) error {
	if err := f.check(pos); err != nil {
		return err
	}
	f.active = true
	f.positions = append(f.positions, pos...)
	return nil
}

// Remove deletes the first occurrence of each position. Either every
// position is removed or, on ErrNotFound, the registry is left unchanged.
func (f *Foci) Remove(pos ...Pos) error {
	remaining := make([]Pos, len(f.positions))
	copy(remaining, f.positions)

	for _, p := range pos {
		idx := -1
		for i, q := range remaining {
			if q == p {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("%w: focus %s is not registered", dynamo.ErrNotFound, p)
		}
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}

	if len(pos) > 0 {
		f.positions = remaining
	}
	return nil
}

// Sync replaces the whole registry with pos.
func (f *Foci) Sync(pos ...Pos) error {
	if err := f.check(pos); err != nil {
		return err
	}
	f.active = true
	f.positions = append(make([]Pos, 0, len(pos)), pos...)
	return nil
}

// Reset returns the registry to the unset state.
func (f *Foci) Reset() {
	f.active = false
	f.positions = nil
}

func (f *Foci) check(pos []Pos) error {
	for _, p := range pos {
		if p.Row < 0 || p.Row >= f.gridSize || p.Col < 0 || p.Col >= f.gridSize {
			return dynamo.Configf("focus %s outside grid [0,%d)", p, f.gridSize)
		}
	}
	return nil
}
