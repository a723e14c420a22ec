package guidance

import (
	"math"

	"github.com/litescript/ls-satfinder/internal/astro"
	"github.com/litescript/ls-satfinder/internal/link"
	"github.com/litescript/ls-satfinder/internal/pointing"
)

// Metrics score how close an orientation is to the target, for progress
// displays and saved records.
type Metrics struct {
	AzimuthAccuracy   float64 `json:"azimuth_accuracy"`   // percent
	ElevationAccuracy float64 `json:"elevation_accuracy"` // percent
	OverallScore      float64 `json:"overall_score"`      // percent
	EstimatedSeconds  int     `json:"estimated_seconds"`
}

// Assess scores current against target. Azimuth error is weighted 60%.
func Assess(current Orientation, target pointing.Angles) (Metrics, error) {
	azDiff, elDiff, err := diffs(current, target)
	if err != nil {
		return Metrics{}, err
	}
	az, el := math.Abs(azDiff), math.Abs(elDiff)

	azAcc := astro.Clamp(1-az/180, 0, 1)
	elAcc := astro.Clamp(1-el/90, 0, 1)
	return Metrics{
		AzimuthAccuracy:   azAcc * 100,
		ElevationAccuracy: elAcc * 100,
		OverallScore:      (azAcc*0.6 + elAcc*0.4) * 100,
		EstimatedSeconds:  int((az + el) * 2),
	}, nil
}

// PredictSignalStrength scales the elevation-based quality prediction by how
// well the dish is aligned. The result is in [0, 100].
func PredictSignalStrength(elevationDeg float64, m Metrics, profile pointing.Profile) int {
	factor := (m.AzimuthAccuracy + m.ElevationAccuracy) / 200
	q := float64(link.PredictQuality(elevationDeg, profile)) * factor
	return int(astro.Clamp(math.Round(q), 0, 100))
}
