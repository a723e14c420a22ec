package astro

import (
	"math"
	"time"
)

// Horizontal is a local sky direction seen from an observer.
//   - Azimuth: 0° = North, 90° = East, 180° = South, 270° = West
//   - Elevation: 0° = horizon, 90° = zenith (may be negative)
type Horizontal struct {
	AzDeg float64
	ElDeg float64
}

// EquatorialToHorizontal converts equatorial coordinates (RA/Dec, degrees)
// to the observer's horizontal frame at time t.
func EquatorialToHorizontal(raDeg, decDeg float64, obs GeoPosition, t time.Time) Horizontal {
	lat := DegToRad(obs.LatitudeDeg)
	ra := DegToRad(raDeg)
	dec := DegToRad(decDeg)

	ha := DegToRad(localSiderealTime(t, obs.LongitudeDeg)) - ra

	sinAlt := math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)
	alt := math.Asin(Clamp(sinAlt, -1, 1))

	// Observers at a pole have no defined azimuth; report north.
	den := math.Cos(alt) * math.Cos(lat)
	if math.Abs(den) < 1e-12 {
		return Horizontal{AzDeg: 0, ElDeg: RadToDeg(alt)}
	}

	cosAz := Clamp((math.Sin(dec)-math.Sin(alt)*math.Sin(lat))/den, -1, 1)
	az := math.Acos(cosAz)

	// Positive hour angle puts the object west of the meridian.
	if math.Sin(ha) > 0 {
		az = 2*math.Pi - az
	}

	return Horizontal{
		AzDeg: NormalizeAzimuth(RadToDeg(az)),
		ElDeg: RadToDeg(alt),
	}
}

// localSiderealTime calculates the Local Sidereal Time in degrees
// for a given UTC time and observer longitude.
func localSiderealTime(t time.Time, lonDeg float64) float64 {
	return NormalizeAzimuth(greenwichMeanSiderealTime(t) + lonDeg)
}

// greenwichMeanSiderealTime calculates GMST in degrees (IAU 1982).
func greenwichMeanSiderealTime(t time.Time) float64 {
	jd := JulianDate(t)
	T := (jd - 2451545.0) / 36525.0

	gmst := 280.46061837 +
		360.98564736629*(jd-2451545.0) +
		0.000387933*T*T -
		T*T*T/38710000.0

	return NormalizeAzimuth(gmst)
}

// JulianDate calculates the Julian Date for a given time.
func JulianDate(t time.Time) float64 {
	t = t.UTC()

	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())

	dayFrac := (float64(t.Hour()) +
		float64(t.Minute())/60 +
		float64(t.Second())/3600 +
		float64(t.Nanosecond())/3600e9) / 24.0

	// January and February count as months 13 and 14 of the previous year.
	if m <= 2 {
		y--
		m += 12
	}

	// Gregorian calendar correction
	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	return math.Floor(365.25*(y+4716)) +
		math.Floor(30.6001*(m+1)) +
		d + dayFrac + B - 1524.5
}
