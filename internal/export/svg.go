package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/eyespot/internal/eyespot"
	"github.com/san-kum/eyespot/internal/viz"
)

// PigmentSVG draws the dominant-pigment map as one square per cell. Runs
// of equal cells in a row share a rect to keep large grids small.
func PigmentSVG(m eyespot.PigmentMap, theme viz.Theme, scale float64) string {
	side := float64(m.N) * scale

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f" shape-rendering="crispEdges">
<rect width="100%%" height="100%%" fill="%s"/>
`, side, side, side, side, theme.Color(eyespot.PigmentNone))

	for r := 0; r < m.N; r++ {
		for c := 0; c < m.N; {
			class := m.At(r, c)
			run := 1
			for c+run < m.N && m.At(r, c+run) == class {
				run++
			}
			if class != eyespot.PigmentNone {
				fmt.Fprintf(&sb, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>
`, float64(c)*scale, float64(r)*scale, float64(run)*scale, scale, theme.Color(class))
			}
			c += run
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesSVG draws values against times as a polyline.
func SeriesSVG(times, values []float64, width, height int, strokeColor string) string {
	if len(times) < 2 || len(times) != len(values) {
		return ""
	}

	minX, maxX := times[0], times[len(times)-1]
	minY, maxY := values[0], values[0]
	for _, v := range values {
		minY = min(minY, v)
		maxY = max(maxY, v)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minY -= rangeY * 0.1
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	for i := range times {
		x := (times[i] - minX) / rangeX * float64(width)
		y := float64(height) - (values[i]-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
