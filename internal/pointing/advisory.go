package pointing

import (
	"time"

	"github.com/litescript/ls-satfinder/internal/astro"
)

// DefaultConeHalfWidthDeg is the search cone half-width shown around the
// target while sweeping.
const DefaultConeHalfWidthDeg = 2.0

// Cone is a rectangular az/el search window around the target. When the
// window straddles north, AzimuthStartDeg is greater than AzimuthEndDeg.
type Cone struct {
	AzimuthStartDeg   float64 `json:"azimuth_start"`
	AzimuthEndDeg     float64 `json:"azimuth_end"`
	ElevationStartDeg float64 `json:"elevation_start"`
	ElevationEndDeg   float64 `json:"elevation_end"`
}

// LookCone returns the search cone of the given half-width around a.
func LookCone(a Angles, halfWidthDeg float64) Cone {
	if halfWidthDeg <= 0 {
		halfWidthDeg = DefaultConeHalfWidthDeg
	}
	return Cone{
		AzimuthStartDeg:   astro.NormalizeAzimuth(a.AzimuthDeg - halfWidthDeg),
		AzimuthEndDeg:     astro.NormalizeAzimuth(a.AzimuthDeg + halfWidthDeg),
		ElevationStartDeg: astro.Clamp(a.ElevationDeg-halfWidthDeg, 0, 90),
		ElevationEndDeg:   astro.Clamp(a.ElevationDeg+halfWidthDeg, 0, 90),
	}
}

// Contains reports whether an orientation falls inside the cone.
func (c Cone) Contains(azDeg, elDeg float64) bool {
	if elDeg < c.ElevationStartDeg || elDeg > c.ElevationEndDeg {
		return false
	}
	span := astro.NormalizeAzimuth(c.AzimuthEndDeg - c.AzimuthStartDeg)
	offset := astro.NormalizeAzimuth(azDeg - c.AzimuthStartDeg)
	return offset <= span
}

// MagneticDeclination returns a coarse regional magnetic declination in
// degrees (east positive). It is a lookup table, not a field model.
func MagneticDeclination(pos astro.GeoPosition) float64 {
	lat, lon := pos.LatitudeDeg, pos.LongitudeDeg
	switch {
	case lat > 60 || lat < -60:
		return 15.0
	case lon > -30 && lon < 30 && lat > 30:
		return -5.0 // Europe
	case lon > 30 && lon < 60 && lat > 0:
		return 0.0 // Middle East
	case lon > 60 && lon < 120 && lat > 0:
		return 5.0 // Asia
	default:
		return 0.0
	}
}

// MagneticAzimuth converts a true-north azimuth into the heading a magnetic
// compass shows at pos.
func MagneticAzimuth(trueAzDeg float64, pos astro.GeoPosition) float64 {
	return astro.NormalizeAzimuth(trueAzDeg - MagneticDeclination(pos))
}

// Window is a coarse recommendation of when to align.
type Window struct {
	Description   string  `json:"description"`
	Reason        string  `json:"reason"`
	QualityFactor float64 `json:"quality_factor"`
}

// AlignmentWindow picks a time-of-day window from the dish's azimuth sector.
func AlignmentWindow(a Angles) Window {
	az := a.AzimuthDeg
	switch {
	case az >= 45 && az <= 135:
		return Window{"Morning (6AM - 12PM)", "Sun behind satellite - minimal atmospheric interference", 0.95}
	case az > 135 && az <= 225:
		return Window{"Afternoon (12PM - 6PM)", "Moderate conditions - avoid direct sunlight on dish", 0.85}
	case az > 225 && az <= 315:
		return Window{"Evening (6PM - 10PM)", "Good conditions - cooler temperatures", 0.90}
	default:
		return Window{"Night/Early Morning", "Excellent conditions - minimal atmospheric noise", 1.0}
	}
}

// SunReport relates the Sun's position to the antenna boresight.
type SunReport struct {
	SunAzimuthDeg   float64                 `json:"sun_azimuth"`
	SunElevationDeg float64                 `json:"sun_elevation"`
	SeparationDeg   float64                 `json:"separation"`
	Tier            astro.SunSeparationTier `json:"-"`
	TierName        string                  `json:"tier"`
}

// SunInterference reports whether the Sun is both up and close enough to the
// boresight to degrade reception.
func (r SunReport) SunInterference() bool {
	return r.SunElevationDeg > 0 && r.Tier == astro.SunSepWarning
}

// SunAdvisory computes the angular distance between the Sun and the antenna
// boresight at time t.
func SunAdvisory(obs astro.GeoPosition, a Angles, t time.Time) SunReport {
	sun := astro.SunHorizontal(obs, t)
	sep := astro.AngularSeparation(sun.AzDeg, sun.ElDeg, a.AzimuthDeg, a.ElevationDeg)
	tier := astro.GetSunSeparationTier(sep)
	return SunReport{
		SunAzimuthDeg:   sun.AzDeg,
		SunElevationDeg: sun.ElDeg,
		SeparationDeg:   sep,
		Tier:            tier,
		TierName:        tier.String(),
	}
}
