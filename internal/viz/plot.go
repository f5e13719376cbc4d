package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/eyespot/internal/eyespot"
)

var seriesColors = []asciigraph.AnsiColor{
	asciigraph.Cyan,
	asciigraph.Magenta,
	asciigraph.Yellow,
	asciigraph.Green,
	asciigraph.Red,
}

// Totals returns, for each species in state-vector order, its sum over the
// grid at every evaluation time.
func Totals(sol *eyespot.Solution) ([eyespot.NumSpecies][]float64, error) {
	var out [eyespot.NumSpecies][]float64
	for i := range out {
		out[i] = make([]float64, sol.Len())
	}
	for t := 0; t < sol.Len(); t++ {
		f, err := sol.Fields(t)
		if err != nil {
			return out, err
		}
		for s, field := range f.Species() {
			out[s][t] = floats.Sum(field.Data)
		}
	}
	return out, nil
}

// AtCell returns the value of one species at one cell over time.
func AtCell(sol *eyespot.Solution, species int, pos eyespot.Pos) ([]float64, error) {
	out := make([]float64, sol.Len())
	for t := 0; t < sol.Len(); t++ {
		f, err := sol.Fields(t)
		if err != nil {
			return nil, err
		}
		field := f.Species()[species]
		if !field.InBounds(pos.Row, pos.Col) {
			return nil, fmt.Errorf("cell %s outside %dx%d grid", pos, field.N, field.N)
		}
		out[t] = field.At(pos.Row, pos.Col)
	}
	return out, nil
}

// PlotSeries draws one or more series on a shared axis.
func PlotSeries(caption string, height, width int, series ...[]float64) string {
	if len(series) == 0 || len(series[0]) == 0 {
		return ""
	}
	opts := []asciigraph.Option{
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	}
	if len(series) > 1 {
		opts = append(opts, asciigraph.SeriesColors(seriesColors[:min(len(series), len(seriesColors))]...))
	}
	return asciigraph.PlotMany(series, opts...)
}

// PlotTotals plots the grid totals of the selected species.
func PlotTotals(sol *eyespot.Solution, species []int, height, width int) (string, error) {
	totals, err := Totals(sol)
	if err != nil {
		return "", err
	}
	series := make([][]float64, 0, len(species))
	caption := "total"
	for _, s := range species {
		series = append(series, totals[s])
		caption += " " + eyespot.SpeciesNames[s]
	}
	if sol.Len() > 0 {
		caption += fmt.Sprintf(" over t=[%g, %g]", sol.Times[0], sol.Times[sol.Len()-1])
	}
	return PlotSeries(caption, height, width, series...), nil
}
