// Package pointing computes antenna look angles toward geostationary
// satellites: azimuth, elevation, LNB skew and slant range, with an optional
// first-order atmospheric correction.
//
// Every function is pure. Inputs are validated at the boundary and
// degenerate geometry returns defined sentinel values.
package pointing

import (
	"math"

	"github.com/litescript/ls-satfinder/internal/astro"
)

// Spherical-Earth geostationary model.
const (
	EarthRadiusKm = 6371.0
	GEORadiusKm   = 42164.0
	GEOAltitudeKm = GEORadiusKm - EarthRadiusKm

	// equatorEpsilonDeg is the latitude band treated as the equator when
	// computing skew, where tan(latitude) vanishes.
	equatorEpsilonDeg = 1e-9
)

// Tier selects how much correction is applied to the raw geometry.
type Tier int

const (
	// TierBasic reports the geometric look angles only.
	TierBasic Tier = iota
	// TierCorrected adds refraction and altitude corrections to elevation.
	TierCorrected
)

func (t Tier) String() string {
	switch t {
	case TierBasic:
		return "basic"
	case TierCorrected:
		return "corrected"
	default:
		return "unknown"
	}
}

// ParseTier parses "basic" or "corrected"; empty selects TierCorrected.
func ParseTier(s string) (Tier, error) {
	switch canonical(s) {
	case "", "corrected", "refraction":
		return TierCorrected, nil
	case "basic", "raw":
		return TierBasic, nil
	default:
		return TierCorrected, &astro.InputError{Field: "tier", Value: s, Reason: "must be basic or corrected"}
	}
}

// AzimuthConvention picks the azimuth formula variant.
type AzimuthConvention int

const (
	// AzimuthStandard is the bearing from the observer to the
	// sub-satellite point.
	AzimuthStandard AzimuthConvention = iota
	// AzimuthLegacy adds 180° for observers at or north of the equator,
	// reproducing readings recorded by older versions of the app.
	AzimuthLegacy
)

// Options tune a pointing computation. The zero value is TierBasic with the
// Standard profile and standard azimuth.
type Options struct {
	Tier    Tier
	Profile Profile
	Azimuth AzimuthConvention
}

// DefaultOptions returns the refraction-corrected configuration.
func DefaultOptions() Options {
	return Options{Tier: TierCorrected, Profile: Standard, Azimuth: AzimuthStandard}
}

// Angles are the look angles for one observer/satellite pair.
type Angles struct {
	AzimuthDeg      float64 `json:"azimuth"`      // [0, 360)
	ElevationDeg    float64 `json:"elevation"`    // [0, 90]
	PolarizationDeg float64 `json:"polarization"` // [-90, 90]
	SlantRangeKm    float64 `json:"slant_range_km"`

	// RawElevationDeg is the unclamped geometric elevation. Negative values
	// mean the satellite is below the horizon.
	RawElevationDeg float64 `json:"raw_elevation"`
}

// BelowHorizon reports whether the satellite cannot be seen at all.
func (a Angles) BelowHorizon() bool {
	return a.RawElevationDeg < 0
}

// Compute returns look angles from obs to a geostationary satellite at
// satLonDeg.
func Compute(obs astro.GeoPosition, satLonDeg float64, opts Options) (Angles, error) {
	if err := obs.Validate(); err != nil {
		return Angles{}, err
	}
	if err := astro.ValidateLongitude("satellite_longitude", satLonDeg); err != nil {
		return Angles{}, err
	}

	lonDiff := satLonDeg - obs.LongitudeDeg
	raw := GeometricElevation(obs.LatitudeDeg, lonDiff)

	elevation := astro.Clamp(raw, 0, 90)
	if opts.Tier == TierCorrected {
		elevation = Correct(raw, obs.AltitudeM, opts.Profile)
	}

	return Angles{
		AzimuthDeg:      Azimuth(obs.LatitudeDeg, lonDiff, opts.Azimuth),
		ElevationDeg:    elevation,
		PolarizationDeg: Polarization(obs.LatitudeDeg, lonDiff),
		SlantRangeKm:    SlantRange(obs.LatitudeDeg, lonDiff),
		RawElevationDeg: raw,
	}, nil
}

// Azimuth returns the compass bearing in [0, 360) toward the satellite.
// lonDiffDeg is satellite longitude minus observer longitude.
func Azimuth(latDeg, lonDiffDeg float64, conv AzimuthConvention) float64 {
	lat := astro.DegToRad(latDeg)
	dLon := astro.DegToRad(lonDiffDeg)

	// cos(lat)·tan(subSatLat) vanishes: a geostationary satellite sits
	// over the equator.
	const subSatLat = 0.0
	y := math.Sin(dLon)
	x := math.Cos(lat)*math.Tan(subSatLat) - math.Sin(lat)*math.Cos(dLon)

	az := astro.RadToDeg(math.Atan2(y, x))
	if conv == AzimuthLegacy && latDeg >= 0 {
		az += 180
	}
	return astro.NormalizeAzimuth(az)
}

// GeometricElevation returns the unclamped elevation in degrees. Negative
// values are below the horizon.
func GeometricElevation(latDeg, lonDiffDeg float64) float64 {
	cosGamma := centralAngleCos(latDeg, lonDiffDeg)
	sinGamma := math.Sqrt(math.Max(0, 1-cosGamma*cosGamma))
	return astro.RadToDeg(math.Atan2(cosGamma-EarthRadiusKm/GEORadiusKm, sinGamma))
}

// Polarization returns the LNB skew in [-90, 90]. Exactly on the equator the
// skew is undefined and 0 is returned.
func Polarization(latDeg, lonDiffDeg float64) float64 {
	if math.Abs(latDeg) < equatorEpsilonDeg {
		return 0
	}
	lat := astro.DegToRad(latDeg)
	skew := astro.RadToDeg(math.Atan(math.Sin(astro.DegToRad(lonDiffDeg)) / math.Tan(lat)))
	if latDeg < 0 {
		skew = -skew
	}
	return astro.Clamp(skew, -90, 90)
}

// SlantRange returns the straight-line observer-to-satellite distance in km.
func SlantRange(latDeg, lonDiffDeg float64) float64 {
	cosGamma := centralAngleCos(latDeg, lonDiffDeg)
	return math.Sqrt(EarthRadiusKm*EarthRadiusKm +
		GEORadiusKm*GEORadiusKm -
		2*EarthRadiusKm*GEORadiusKm*cosGamma)
}

// centralAngleCos is the cosine of the Earth-centre angle between the
// observer and the sub-satellite point.
func centralAngleCos(latDeg, lonDiffDeg float64) float64 {
	return math.Cos(astro.DegToRad(latDeg)) * math.Cos(astro.DegToRad(lonDiffDeg))
}
