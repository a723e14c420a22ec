package pointing

import (
	"math"
	"time"

	satellite "github.com/joshuaferrara/go-satellite"

	"github.com/litescript/ls-satfinder/internal/astro"
)

// go-satellite's LLAToECI places points on a sphere of this radius.
const goSatelliteEarthRadiusKm = 6378.137

// LookAngles is a vector-derived look direction. Elevation may be negative.
type LookAngles struct {
	AzimuthDeg   float64 `json:"azimuth"`
	ElevationDeg float64 `json:"elevation"`
	RangeKm      float64 `json:"range_km"`
}

// Topocentric solves the same look angles as Compute by rotating both the
// observer and the satellite into ECI at time t and projecting the range
// vector onto the observer's south-east-zenith frame. The result is
// independent of the closed-form trigonometry and serves as a cross-check.
func Topocentric(obs astro.GeoPosition, satLonDeg float64, t time.Time) (LookAngles, error) {
	if err := obs.Validate(); err != nil {
		return LookAngles{}, err
	}
	if err := astro.ValidateLongitude("satellite_longitude", satLonDeg); err != nil {
		return LookAngles{}, err
	}

	t = t.UTC()
	jday := satellite.JDay(t.Year(), int(t.Month()), t.Day(), t.Hour(), t.Minute(), t.Second())

	subSat := satellite.LatLong{Latitude: 0, Longitude: astro.DegToRad(satLonDeg)}
	satECI := satellite.LLAToECI(subSat, GEORadiusKm-goSatelliteEarthRadiusKm, jday)

	site := satellite.LatLong{
		Latitude:  astro.DegToRad(obs.LatitudeDeg),
		Longitude: astro.DegToRad(obs.LongitudeDeg),
	}
	look := satellite.ECIToLookAngles(satECI, site, obs.AltitudeM/1000, jday)

	az := astro.RadToDeg(look.Az)
	if math.IsNaN(az) {
		// Satellite straight overhead.
		az = 0
	}
	return LookAngles{
		AzimuthDeg:   astro.NormalizeAzimuth(az),
		ElevationDeg: astro.RadToDeg(look.El),
		RangeKm:      look.Rg,
	}, nil
}

// Discrepancy is the difference between the closed-form and vector
// solutions.
type Discrepancy struct {
	AzimuthDeg   float64 `json:"azimuth"`
	ElevationDeg float64 `json:"elevation"`
	RangeKm      float64 `json:"range_km"`
}

// Verify compares a closed-form result against Topocentric. Elevation is
// compared before clamping and correction.
func Verify(obs astro.GeoPosition, satLonDeg float64, a Angles, t time.Time) (Discrepancy, error) {
	look, err := Topocentric(obs, satLonDeg, t)
	if err != nil {
		return Discrepancy{}, err
	}
	return Discrepancy{
		AzimuthDeg:   astro.CircularDiff(a.AzimuthDeg, look.AzimuthDeg),
		ElevationDeg: a.RawElevationDeg - look.ElevationDeg,
		RangeKm:      a.SlantRangeKm - look.RangeKm,
	}, nil
}
