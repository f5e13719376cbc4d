package grid

import "github.com/san-kum/eyespot/internal/dynamo"

// parallelRows is the row count below which the stencil runs serially.
const parallelRows = 64

// Laplacian returns the 5-point discrete Laplacian of u with step h.
// Out-of-grid neighbors are mirrored about the edge cell, so a constant
// field has a Laplacian of exactly zero everywhere.
func Laplacian(u Field, h float64) Field {
	dst := NewField(u.N)
	LaplacianInto(dst, u, h)
	return dst
}

// LaplacianInto writes the Laplacian of u into dst, which must have the same
// side as u and must not alias it.
func LaplacianInto(dst, u Field, h float64) {
	n := u.N
	if n == 0 {
		return
	}
	invH2 := 1.0 / (h * h)
	data := u.Data

	rows := func(start, end int) {
		for r := start; r < end; r++ {
			up := mirror(r-1, n) * n
			down := mirror(r+1, n) * n
			row := r * n
			for c := 0; c < n; c++ {
				center := data[row+c]
				left := data[row+mirror(c-1, n)]
				right := data[row+mirror(c+1, n)]
				dst.Data[row+c] = ((data[up+c] - center) + (data[down+c] - center) +
					(left - center) + (right - center)) * invH2
			}
		}
	}

	if n < parallelRows {
		rows(0, n)
		return
	}
	dynamo.ParallelFor(n, parallelRows/4, rows)
}

// mirror reflects an index about the border cell: -1 maps to 1 and n maps
// to n-2. A single-cell axis mirrors onto itself.
func mirror(i, n int) int {
	if n == 1 {
		return 0
	}
	if i < 0 {
		return -i
	}
	if i >= n {
		return 2*n - 2 - i
	}
	return i
}
