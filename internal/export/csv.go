package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/eyespot/internal/eyespot"
)

// WriteTotalsCSV writes one row per evaluation time with the grid total of
// every species.
func WriteTotalsCSV(w io.Writer, sol *eyespot.Solution) error {
	cw := csv.NewWriter(w)

	header := append([]string{"time"}, eyespot.SpeciesNames[:]...)
	if err := cw.Write(header); err != nil {
		return err
	}

	for i, t := range sol.Times {
		f, err := sol.Fields(i)
		if err != nil {
			return err
		}
		row := []string{strconv.FormatFloat(t, 'g', -1, 64)}
		for _, field := range f.Species() {
			row = append(row, strconv.FormatFloat(floats.Sum(field.Data), 'g', 10, 64))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
