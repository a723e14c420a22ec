// Package guidance turns live antenna orientation samples into directional
// corrections toward a target pointing solution.
//
// Guide is pure and re-entrant. A host typically calls it once per sensor
// tick with the latest fused orientation.
package guidance

import (
	"math"

	"github.com/litescript/ls-satfinder/internal/astro"
	"github.com/litescript/ls-satfinder/internal/pointing"
)

// Default lock tolerances in degrees.
const (
	DefaultAzimuthTolerance   = 2.0
	DefaultElevationTolerance = 2.0

	maxIntensity = 10.0
)

// Orientation is a fused antenna heading sample.
type Orientation struct {
	AzimuthDeg   float64 `json:"azimuth" validate:"gte=0,lt=360"`
	ElevationDeg float64 `json:"elevation" validate:"gte=-90,lte=90"`
}

// Direction is the corrective action to take next.
type Direction int

const (
	Locked Direction = iota
	RotateLeft
	RotateRight
	TiltUp
	TiltDown
)

func (d Direction) String() string {
	switch d {
	case Locked:
		return "LOCKED"
	case RotateLeft:
		return "ROTATE LEFT"
	case RotateRight:
		return "ROTATE RIGHT"
	case TiltUp:
		return "TILT UP"
	case TiltDown:
		return "TILT DOWN"
	default:
		return "UNKNOWN"
	}
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Options are the lock tolerances. Non-positive values select the defaults.
type Options struct {
	AzimuthTolerance   float64 `json:"azimuth_tolerance" validate:"gte=0,lte=45"`
	ElevationTolerance float64 `json:"elevation_tolerance" validate:"gte=0,lte=45"`
}

// DefaultOptions returns the 2°/2° tolerances.
func DefaultOptions() Options {
	return Options{
		AzimuthTolerance:   DefaultAzimuthTolerance,
		ElevationTolerance: DefaultElevationTolerance,
	}
}

func (o Options) withDefaults() Options {
	if !(o.AzimuthTolerance > 0) {
		o.AzimuthTolerance = DefaultAzimuthTolerance
	}
	if !(o.ElevationTolerance > 0) {
		o.ElevationTolerance = DefaultElevationTolerance
	}
	return o
}

// Result is one guidance decision.
type Result struct {
	Direction  Direction `json:"direction"`
	Intensity  float64   `json:"intensity"` // [0, 10]
	Suggestion string    `json:"suggestion"`
	Confidence float64   `json:"confidence"` // [0, 1]

	// Signed corrections: positive azimuth means rotate clockwise, positive
	// elevation means tilt up.
	AzimuthDiffDeg   float64 `json:"azimuth_diff"`
	ElevationDiffDeg float64 `json:"elevation_diff"`
}

// Locked reports whether the sample is within tolerance on both axes.
func (r Result) Locked() bool {
	return r.Direction == Locked
}

// Guide compares the current orientation against the target and returns the
// next correction. Non-finite samples are rejected.
func Guide(current Orientation, target pointing.Angles, opts Options) (Result, error) {
	azDiff, elDiff, err := diffs(current, target)
	if err != nil {
		return Result{}, err
	}
	opts = opts.withDefaults()

	locked := within(azDiff, elDiff, opts)
	return Result{
		Direction:        direction(azDiff, elDiff, locked),
		Intensity:        astro.Clamp(math.Hypot(azDiff, elDiff)/10, 0, maxIntensity),
		Suggestion:       suggest(azDiff, elDiff, locked),
		Confidence:       confidence(azDiff, elDiff),
		AzimuthDiffDeg:   azDiff,
		ElevationDiffDeg: elDiff,
	}, nil
}

// IsAligned reports whether current lies strictly within the tolerances of
// target. Non-finite samples are never aligned.
func IsAligned(current Orientation, target pointing.Angles, opts Options) bool {
	azDiff, elDiff, err := diffs(current, target)
	if err != nil {
		return false
	}
	return within(azDiff, elDiff, opts.withDefaults())
}

func diffs(current Orientation, target pointing.Angles) (azDiff, elDiff float64, err error) {
	if !astro.IsFinite(current.AzimuthDeg) {
		return 0, 0, &astro.InputError{Field: "azimuth", Value: current.AzimuthDeg, Reason: "must be finite"}
	}
	if !astro.IsFinite(current.ElevationDeg) {
		return 0, 0, &astro.InputError{Field: "elevation", Value: current.ElevationDeg, Reason: "must be finite"}
	}
	if !astro.IsFinite(target.AzimuthDeg, target.ElevationDeg) {
		return 0, 0, &astro.InputError{Field: "target", Value: target, Reason: "must be finite"}
	}
	return astro.CircularDiff(target.AzimuthDeg, current.AzimuthDeg),
		target.ElevationDeg - current.ElevationDeg,
		nil
}

func within(azDiff, elDiff float64, opts Options) bool {
	return math.Abs(azDiff) < opts.AzimuthTolerance && math.Abs(elDiff) < opts.ElevationTolerance
}

func direction(azDiff, elDiff float64, locked bool) Direction {
	switch {
	case locked:
		return Locked
	case math.Abs(azDiff) > math.Abs(elDiff):
		if azDiff > 0 {
			return RotateRight
		}
		return RotateLeft
	default:
		if elDiff > 0 {
			return TiltUp
		}
		return TiltDown
	}
}

func confidence(azDiff, elDiff float64) float64 {
	return astro.Clamp(1-(math.Abs(azDiff)+math.Abs(elDiff))/100, 0, 1)
}
