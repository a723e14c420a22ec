// Package obstacle flags likely line-of-sight obstructions, either from the
// pattern of recent signal-quality samples or from a survey of the
// surrounding horizon.
package obstacle

import (
	"encoding/json"
	"math"

	"github.com/litescript/ls-satfinder/internal/astro"
)

// Detection thresholds.
const (
	// MinSamples is the shortest signal history that can be judged.
	MinSamples = 5

	// VarianceThreshold is the population variance (quality points²)
	// above which a history counts as unstable.
	VarianceThreshold = 100.0

	// WeakSignal is the quality below which the latest sample counts as a
	// drop-out.
	WeakSignal = 50.0

	// ClearanceMarginDeg is added above the highest obstruction when
	// recommending a mount elevation.
	ClearanceMarginDeg = 5.0
)

// Severity grades an obstruction.
type Severity int

const (
	None Severity = iota
	Moderate
	High
	Critical
)

func (s Severity) String() string {
	switch s {
	case None:
		return "none"
	case Moderate:
		return "moderate"
	case High:
		return "high"
	case Critical:
		return "critical"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the severity by name.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// Messages shown with each verdict.
const (
	MsgInsufficient = "Insufficient data"
	MsgClear        = "Clear line of sight"
	MsgPossible     = "Possible obstacle detected"
	MsgModerate     = "Minor obstruction - elevate slightly"
	MsgHigh         = "Significant obstacle - elevation required"
	MsgCritical     = "Critical obstruction - relocate recommended"
)

// Verdict is the outcome of one obstacle check.
type Verdict struct {
	HasObstacle             bool     `json:"has_obstacle"`
	Severity                Severity `json:"severity"`
	RecommendedClearanceDeg float64  `json:"recommended_clearance"`
	Message                 string   `json:"message"`

	// Variance is the population variance of the signal history. Zero for
	// profile checks.
	Variance float64 `json:"variance"`

	// Insufficient is set when there was not enough data to judge. It is a
	// normal outcome, not an error.
	Insufficient bool `json:"insufficient"`
}

// FromHistory inspects recent signal-quality samples, oldest first. An
// obstacle is flagged when the history is unstable and the latest sample is
// weak.
func FromHistory(samples []float64) (Verdict, error) {
	for i, s := range samples {
		if !astro.IsFinite(s) {
			return Verdict{}, &astro.InputError{Field: "samples", Value: i, Reason: "must be finite"}
		}
	}
	if len(samples) < MinSamples {
		return Verdict{Severity: None, Message: MsgInsufficient, Insufficient: true}, nil
	}

	v := variance(samples)
	if v > VarianceThreshold && samples[len(samples)-1] < WeakSignal {
		return Verdict{HasObstacle: true, Severity: Moderate, Message: MsgPossible, Variance: v}, nil
	}
	return Verdict{Severity: None, Message: MsgClear, Variance: v}, nil
}

// FromProfile compares the target elevation against surveyed obstruction
// elevations around the boresight.
func FromProfile(targetElevationDeg float64, surrounding []float64) (Verdict, error) {
	if !astro.IsFinite(targetElevationDeg) {
		return Verdict{}, &astro.InputError{Field: "elevation", Value: targetElevationDeg, Reason: "must be finite"}
	}
	if len(surrounding) == 0 {
		return Verdict{Severity: None, Message: MsgInsufficient, RecommendedClearanceDeg: targetElevationDeg, Insufficient: true}, nil
	}

	highest := math.Inf(-1)
	for i, e := range surrounding {
		if !astro.IsFinite(e) {
			return Verdict{}, &astro.InputError{Field: "surrounding", Value: i, Reason: "must be finite"}
		}
		highest = math.Max(highest, e)
	}

	excess := highest - targetElevationDeg
	sev := classify(excess)
	if sev == None {
		return Verdict{Severity: None, Message: MsgClear, RecommendedClearanceDeg: targetElevationDeg}, nil
	}
	return Verdict{
		HasObstacle:             true,
		Severity:                sev,
		RecommendedClearanceDeg: highest + ClearanceMarginDeg,
		Message:                 message(sev),
	}, nil
}

func classify(excessDeg float64) Severity {
	switch {
	case excessDeg <= 0:
		return None
	case excessDeg > 10:
		return Critical
	case excessDeg > 5:
		return High
	default:
		return Moderate
	}
}

func message(s Severity) string {
	switch s {
	case Moderate:
		return MsgModerate
	case High:
		return MsgHigh
	case Critical:
		return MsgCritical
	default:
		return MsgClear
	}
}

func variance(values []float64) float64 {
	var mean float64
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values))
}
