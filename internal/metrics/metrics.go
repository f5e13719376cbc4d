// Package metrics holds observers that summarize a solve at its reported
// evaluation times.
package metrics

import (
	"github.com/san-kum/eyespot/internal/dynamo"
	"github.com/san-kum/eyespot/internal/eyespot"
)

// Standard returns the metric set the CLI and HTTP server report.
func Standard(codec eyespot.Codec) []dynamo.Metric {
	return []dynamo.Metric{
		NewPigmentDrift(codec),
		NewPeak(codec, 0),
		NewPeak(codec, 1),
		NewCoverage(codec, eyespot.PigmentP1),
		NewCoverage(codec, eyespot.PigmentP2),
		NewUndershoot(),
	}
}
