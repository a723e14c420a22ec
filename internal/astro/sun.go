package astro

import (
	"math"
	"time"
)

// SunPosition calculates the apparent equatorial coordinates of the Sun.
// Uses a simplified solar ephemeris based on the Astronomical Almanac.
// Accuracy: ~0.01 degrees, well inside what a glare warning needs.
func SunPosition(t time.Time) (raDeg, decDeg float64) {
	T := (JulianDate(t) - 2451545.0) / 36525.0

	// Mean longitude and mean anomaly (degrees)
	L0 := NormalizeAzimuth(280.46646 + 36000.76983*T + 0.0003032*T*T)
	M := NormalizeAzimuth(357.52911 + 35999.05029*T - 0.0001537*T*T)
	Mrad := DegToRad(M)

	// Equation of center
	C := (1.914602 - 0.004817*T - 0.000014*T*T) * math.Sin(Mrad)
	C += (0.019993 - 0.000101*T) * math.Sin(2*Mrad)
	C += 0.000289 * math.Sin(3*Mrad)

	// Apparent longitude, corrected for aberration and nutation
	omega := 125.04 - 1934.136*T
	sunLonApp := L0 + C - 0.00569 - 0.00478*math.Sin(DegToRad(omega))

	eps0 := 23.439291 - 0.0130042*T - 0.00000016*T*T + 0.000000504*T*T*T
	eps := eps0 + 0.00256*math.Cos(DegToRad(omega))

	sunLonRad := DegToRad(sunLonApp)
	epsRad := DegToRad(eps)

	ra := math.Atan2(math.Cos(epsRad)*math.Sin(sunLonRad), math.Cos(sunLonRad))
	raDeg = NormalizeAzimuth(RadToDeg(ra))
	decDeg = RadToDeg(math.Asin(math.Sin(epsRad) * math.Sin(sunLonRad)))

	return raDeg, decDeg
}

// SunHorizontal returns the Sun's azimuth and elevation for an observer.
func SunHorizontal(obs GeoPosition, t time.Time) Horizontal {
	ra, dec := SunPosition(t)
	return EquatorialToHorizontal(ra, dec, obs, t)
}

// AngularSeparation returns the great-circle angle in degrees between two
// directions given as (longitude-like, latitude-like) pairs. It applies
// equally to RA/Dec and Az/El.
func AngularSeparation(lon1, lat1, lon2, lat2 float64) float64 {
	lat1Rad := DegToRad(lat1)
	lat2Rad := DegToRad(lat2)
	dLon := DegToRad(lon2 - lon1)
	dLat := lat2Rad - lat1Rad

	// Haversine
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return RadToDeg(2 * math.Asin(math.Sqrt(Clamp(a, 0, 1))))
}

// SunSeparationTier categorizes how close the Sun is to the antenna boresight.
type SunSeparationTier int

const (
	SunSepSafe    SunSeparationTier = iota // >= 20 degrees
	SunSepCaution                          // 10-20 degrees
	SunSepWarning                          // < 10 degrees
)

func (t SunSeparationTier) String() string {
	switch t {
	case SunSepSafe:
		return "safe"
	case SunSepCaution:
		return "caution"
	case SunSepWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// GetSunSeparationTier returns the tier for a given separation angle.
func GetSunSeparationTier(sepDeg float64) SunSeparationTier {
	switch {
	case sepDeg < 10:
		return SunSepWarning
	case sepDeg < 20:
		return SunSepCaution
	default:
		return SunSepSafe
	}
}
