package link

import (
	"math"

	"github.com/litescript/ls-satfinder/internal/pointing"
)

// qualityBands maps elevation thresholds to the base quality at the start of
// each band. Quality rises linearly to the next band's value.
var qualityBands = []struct {
	fromDeg float64
	quality float64
}{
	{0, 20},
	{5, 40},
	{10, 60},
	{20, 80},
	{30, 100},
}

// BaseQuality returns the elevation-only quality in [0, 100] before the
// atmospheric multiplier is applied.
func BaseQuality(elevationDeg float64) float64 {
	if math.IsNaN(elevationDeg) || elevationDeg < qualityBands[0].fromDeg {
		return 0
	}
	last := qualityBands[len(qualityBands)-1]
	if elevationDeg >= last.fromDeg {
		return last.quality
	}
	for i := 0; i < len(qualityBands)-1; i++ {
		lo, hi := qualityBands[i], qualityBands[i+1]
		if elevationDeg < hi.fromDeg {
			frac := (elevationDeg - lo.fromDeg) / (hi.fromDeg - lo.fromDeg)
			return lo.quality + frac*(hi.quality-lo.quality)
		}
	}
	return last.quality
}

// PredictQuality maps elevation and atmospheric profile to a 0-100 quality
// score. It never decreases as elevation increases.
func PredictQuality(elevationDeg float64, profile pointing.Profile) int {
	q := BaseQuality(elevationDeg) * profile.SignalMultiplier()
	return int(math.Round(math.Max(0, math.Min(100, q))))
}

// Quality is a display tier for a quality score.
type Quality string

const (
	QualityExcellent Quality = "EXCELLENT"
	QualityGood      Quality = "GOOD"
	QualityFair      Quality = "FAIR"
	QualityPoor      Quality = "POOR"
	QualityNone      Quality = "NO SIGNAL"
)

// ClassifyQuality converts a quality score to a tier.
//
// Thresholds:
//   - EXCELLENT: q >= 80
//   - GOOD: 60 <= q < 80
//   - FAIR: 40 <= q < 60
//   - POOR: 20 <= q < 40
//   - NO SIGNAL: q < 20
func ClassifyQuality(q int) Quality {
	switch {
	case q >= 80:
		return QualityExcellent
	case q >= 60:
		return QualityGood
	case q >= 40:
		return QualityFair
	case q >= 20:
		return QualityPoor
	default:
		return QualityNone
	}
}

// Description is the operator-facing hint for a tier.
func (q Quality) Description() string {
	switch q {
	case QualityExcellent:
		return "Perfect alignment"
	case QualityGood:
		return "Strong signal"
	case QualityFair:
		return "Acceptable signal"
	case QualityPoor:
		return "Weak signal"
	default:
		return "Adjust antenna"
	}
}
