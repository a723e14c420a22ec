package pointing

import (
	"math"

	"github.com/litescript/ls-satfinder/internal/astro"
)

// Standard-atmosphere constants for the refraction estimate.
const (
	StandardPressureHPa   = 1013.25
	StandardTemperatureC  = 15.0
	LapseRateCPerM        = 0.0065
	PressureScaleHeightM  = 8500.0
	RefractionCoefficient = 0.0167 // degrees (1 arcminute)

	// AltitudeCorrectionPerKm is the small elevation bump applied per
	// kilometre of observer altitude.
	AltitudeCorrectionPerKm = 0.01
)

// PressureAt returns barometric pressure (hPa) at altitudeM.
func PressureAt(altitudeM float64) float64 {
	return StandardPressureHPa * math.Exp(-altitudeM/PressureScaleHeightM)
}

// TemperatureAt returns air temperature (°C) at altitudeM.
func TemperatureAt(altitudeM float64) float64 {
	return StandardTemperatureC - LapseRateCPerM*altitudeM
}

// Refraction returns the Saemundsson-style refraction lift in degrees for a
// geometric elevation. Below-horizon elevations get no correction.
func Refraction(elevationDeg, altitudeM float64, profile Profile) float64 {
	if elevationDeg < 0 {
		return 0
	}

	pressure := PressureAt(altitudeM)
	temperature := TemperatureAt(altitudeM)

	// The cotangent argument crosses 90° just below the zenith.
	arg := math.Min(elevationDeg+7.31/(elevationDeg+4.4), 90)
	r := (pressure / StandardPressureHPa) *
		(283.0 / (273.0 + temperature)) *
		RefractionCoefficient /
		math.Tan(astro.DegToRad(arg))

	return r * profile.RefractionMultiplier()
}

// AltitudeCorrection returns the altitude-dependent elevation bump.
func AltitudeCorrection(altitudeM float64) float64 {
	return altitudeM / 1000.0 * AltitudeCorrectionPerKm
}

// Correct applies refraction and altitude correction to a raw elevation and
// clamps the result into [0, 90].
func Correct(rawElevationDeg, altitudeM float64, profile Profile) float64 {
	e := rawElevationDeg +
		Refraction(rawElevationDeg, altitudeM, profile) +
		AltitudeCorrection(altitudeM)
	return astro.Clamp(e, 0, 90)
}
