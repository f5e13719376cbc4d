package grid

import (
	"math"
	"math/rand"
	"testing"
)

func TestLaplacianConstantFieldIsZero(t *testing.T) {
	for _, n := range []int{1, 2, 5, 64, 101} {
		for _, h := range []float64{1, 0.5, 1.0 / 101, 1e-3} {
			lap := Laplacian(Filled(n, 3.7), h)
			for i, v := range lap.Data {
				if v != 0 {
					t.Fatalf("n=%d h=%g: cell %d = %g, want exactly 0", n, h, i, v)
				}
			}
		}
	}
}

func TestLaplacianQuadraticInterior(t *testing.T) {
	n := 9
	u := NewField(n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			u.Set(r, c, float64(r*r+c*c))
		}
	}

	lap := Laplacian(u, 1)
	for r := 1; r < n-1; r++ {
		for c := 1; c < n-1; c++ {
			if got := lap.At(r, c); math.Abs(got-4) > 1e-12 {
				t.Errorf("lap(%d,%d) = %g, want 4", r, c, got)
			}
		}
	}
}

func TestLaplacianMirrorBoundary(t *testing.T) {
	// 3x3 with a single spike in the corner. Mirroring reflects about the
	// edge cell, so the corner sees its inner neighbors twice.
	u := NewField(3)
	u.Set(0, 1, 1)

	lap := Laplacian(u, 1)

	tests := []struct {
		r, c int
		want float64
	}{
		{0, 0, 2},  // (0,1) is both left and right neighbor
		{0, 1, -4}, // spike loses to all four
		{0, 2, 2},
		{1, 1, 1},
		{1, 0, 0},
		{2, 1, 0},
	}
	for _, tt := range tests {
		if got := lap.At(tt.r, tt.c); got != tt.want {
			t.Errorf("lap(%d,%d) = %g, want %g", tt.r, tt.c, got, tt.want)
		}
	}
}

func TestLaplacianParallelMatchesSerial(t *testing.T) {
	n := 130
	rng := rand.New(rand.NewSource(7))
	u := NewField(n)
	for i := range u.Data {
		u.Data[i] = rng.Float64()
	}
	h := 1.0 / float64(n)

	got := Laplacian(u, h)
	want := NewField(n)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			center := u.At(r, c)
			sum := (u.At(mirror(r-1, n), c) - center) + (u.At(mirror(r+1, n), c) - center) +
				(u.At(r, mirror(c-1, n)) - center) + (u.At(r, mirror(c+1, n)) - center)
			want.Set(r, c, sum/(h*h))
		}
	}

	for i := range want.Data {
		if got.Data[i] != want.Data[i] {
			t.Fatalf("cell %d: parallel %g != serial %g", i, got.Data[i], want.Data[i])
		}
	}
}

func TestMirror(t *testing.T) {
	tests := []struct {
		i, n, want int
	}{
		{-1, 5, 1},
		{5, 5, 3},
		{0, 5, 0},
		{4, 5, 4},
		{-1, 2, 1},
		{2, 2, 0},
		{-1, 1, 0},
		{1, 1, 0},
	}
	for _, tt := range tests {
		if got := mirror(tt.i, tt.n); got != tt.want {
			t.Errorf("mirror(%d, %d) = %d, want %d", tt.i, tt.n, got, tt.want)
		}
	}
}

func BenchmarkLaplacian101(b *testing.B) {
	u := Filled(101, 1)
	u.Set(50, 50, 20)
	dst := NewField(101)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		LaplacianInto(dst, u, 1.0/101)
	}
}
