// Package astro provides angle arithmetic, observer positions, and the sky
// math shared by the pointing and guidance packages.
package astro

import "math"

// DegToRad converts degrees to radians.
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// NormalizeAzimuth maps any finite angle into [0, 360).
func NormalizeAzimuth(deg float64) float64 {
	return math.Mod(math.Mod(deg, 360)+360, 360)
}

// CircularDiff returns the shortest signed rotation from `from` to `to`,
// in degrees, within (-180, 180]. Positive values are clockwise.
func CircularDiff(to, from float64) float64 {
	diff := math.Mod(to-from, 360)
	for diff > 180 {
		diff -= 360
	}
	for diff <= -180 {
		diff += 360
	}
	return diff
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// IsFinite reports whether every value is neither NaN nor infinite.
func IsFinite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
