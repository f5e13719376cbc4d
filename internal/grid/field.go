// Package grid holds the square scalar fields the eyespot model evolves and
// the discrete spatial operator applied to them.
package grid

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Field is an N×N scalar field stored in row-major order.
type Field struct {
	N    int
	Data []float64
}

// NewField allocates a zero field of side n.
func NewField(n int) Field {
	return Field{N: n, Data: make([]float64, n*n)}
}

// Filled allocates a field of side n with every cell set to v.
func Filled(n int, v float64) Field {
	f := NewField(n)
	for i := range f.Data {
		f.Data[i] = v
	}
	return f
}

// FromRows builds a field from a square nested slice.
func FromRows(rows [][]float64) (Field, error) {
	n := len(rows)
	f := NewField(n)
	for r, row := range rows {
		if len(row) != n {
			return Field{}, fmt.Errorf("row %d has %d columns, want %d", r, len(row), n)
		}
		copy(f.Data[r*n:(r+1)*n], row)
	}
	return f, nil
}

// Index returns the linear slice index for (row, col).
func (f Field) Index(r, c int) int { return r*f.N + c }

func (f Field) At(r, c int) float64 { return f.Data[r*f.N+c] }

func (f Field) Set(r, c int, v float64) { f.Data[r*f.N+c] = v }

// InBounds reports whether (r, c) addresses a cell of the field.
func (f Field) InBounds(r, c int) bool {
	return r >= 0 && r < f.N && c >= 0 && c < f.N
}

func (f Field) Clone() Field {
	c := Field{N: f.N, Data: make([]float64, len(f.Data))}
	copy(c.Data, f.Data)
	return c
}

func (f Field) Sum() float64 {
	if len(f.Data) == 0 {
		return 0
	}
	return floats.Sum(f.Data)
}

func (f Field) Max() float64 {
	if len(f.Data) == 0 {
		return 0
	}
	return floats.Max(f.Data)
}

// Rows copies the field into a nested slice, one inner slice per row.
func (f Field) Rows() [][]float64 {
	rows := make([][]float64, f.N)
	for r := range rows {
		rows[r] = make([]float64, f.N)
		copy(rows[r], f.Data[r*f.N:(r+1)*f.N])
	}
	return rows
}
