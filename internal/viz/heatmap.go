package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/eyespot/internal/eyespot"
	"github.com/san-kum/eyespot/internal/grid"
)

// stride is the sampling step that fits n cells into at most limit.
func stride(n, limit int) int {
	if limit <= 0 || n <= limit {
		return 1
	}
	return (n + limit - 1) / limit
}

// RenderPigment draws the dominant-pigment map with half-block characters:
// each character shows two grid rows, the upper one as foreground and the
// lower one as background. Grids wider than maxWidth are sampled.
func RenderPigment(m eyespot.PigmentMap, theme Theme, maxWidth int) string {
	s := stride(m.N, maxWidth)

	var b strings.Builder
	for r := 0; r < m.N; r += 2 * s {
		for c := 0; c < m.N; c += s {
			top := theme.Color(m.At(r, c))
			style := lipgloss.NewStyle().Foreground(top)
			if below := r + s; below < m.N {
				style = style.Background(theme.Color(m.At(below, c)))
			}
			b.WriteString(style.Render("▀"))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Legend lists the pigment classes with their counts in m.
func Legend(m eyespot.PigmentMap, theme Theme) string {
	counts := m.Counts()
	total := max(len(m.Cells), 1)

	parts := make([]string, 0, len(counts))
	for i, n := range counts {
		p := eyespot.Pigment(i)
		swatch := lipgloss.NewStyle().Foreground(theme.Color(p)).Render("██")
		share := fmt.Sprintf("%.1f%%", 100*float64(n)/float64(total))
		parts = append(parts, swatch+" "+p.String()+" "+MetricValue.Render(share))
	}
	return strings.Join(parts, "  ")
}

var shades = []rune(" ░▒▓█")

// RenderField draws a scalar field with shade characters scaled between
// its minimum and maximum.
func RenderField(f grid.Field, maxWidth int) string {
	if f.N == 0 {
		return ""
	}
	lo, hi := f.Data[0], f.Data[0]
	for _, v := range f.Data {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	s := stride(f.N, maxWidth)
	var b strings.Builder
	for r := 0; r < f.N; r += 2 * s {
		for c := 0; c < f.N; c += s {
			norm := (f.At(r, c) - lo) / rng
			idx := max(0, min(int(norm*float64(len(shades)-1)+0.5), len(shades)-1))
			b.WriteRune(shades[idx])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
