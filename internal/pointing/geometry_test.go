package pointing

import (
	"errors"
	"math"
	"testing"

	"github.com/litescript/ls-satfinder/internal/astro"
)

func mustPos(t *testing.T, lat, lon, alt float64) astro.GeoPosition {
	t.Helper()
	p, err := astro.NewGeoPosition(lat, lon, alt)
	if err != nil {
		t.Fatalf("NewGeoPosition(%v, %v, %v): %v", lat, lon, alt, err)
	}
	return p
}

func TestCompute_KnownValues(t *testing.T) {
	tests := []struct {
		name      string
		lat, lon  float64
		satLon    float64
		wantAz    float64
		wantEl    float64
		wantPol   float64
		wantRange float64
	}{
		{"Cairo to 7E", 30, 31, 7, 221.6837, 46.3014, -35.1643, 37327.50},
		{"Sydney to Optus D2", -33.87, 151.21, 152, 1.4173, 50.6207, 1.1768, 37045.26},
		{"London to Astra 28.2E", 51.5, -0.12, 28.2, 145.4492, 25.3843, 20.6741, 39038.11},
		{"New York to Galaxy 19", 40.7, -74.0, -97, 213.0616, 37.3580, -24.4307, 37992.91},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(mustPos(t, tt.lat, tt.lon, 0), tt.satLon, Options{Tier: TierBasic})
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}
			if math.Abs(got.AzimuthDeg-tt.wantAz) > 0.001 {
				t.Errorf("azimuth = %.4f, want %.4f", got.AzimuthDeg, tt.wantAz)
			}
			if math.Abs(got.ElevationDeg-tt.wantEl) > 0.001 {
				t.Errorf("elevation = %.4f, want %.4f", got.ElevationDeg, tt.wantEl)
			}
			if math.Abs(got.PolarizationDeg-tt.wantPol) > 0.001 {
				t.Errorf("polarization = %.4f, want %.4f", got.PolarizationDeg, tt.wantPol)
			}
			if math.Abs(got.SlantRangeKm-tt.wantRange) > 0.01 {
				t.Errorf("slant range = %.2f, want %.2f", got.SlantRangeKm, tt.wantRange)
			}
		})
	}
}

func TestCompute_LegacyAzimuthShiftsNorthernHemisphere(t *testing.T) {
	cairo := mustPos(t, 30, 31, 0)
	std, err := Compute(cairo, 7, Options{})
	if err != nil {
		t.Fatal(err)
	}
	legacy, err := Compute(cairo, 7, Options{Azimuth: AzimuthLegacy})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(legacy.AzimuthDeg-41.6837) > 0.001 {
		t.Errorf("legacy azimuth = %.4f, want 41.6837", legacy.AzimuthDeg)
	}
	if math.Abs(math.Abs(astro.CircularDiff(legacy.AzimuthDeg, std.AzimuthDeg))-180) > 1e-9 {
		t.Errorf("legacy and standard differ by %v, want 180", astro.CircularDiff(legacy.AzimuthDeg, std.AzimuthDeg))
	}

	sydney := mustPos(t, -33.87, 151.21, 0)
	a, _ := Compute(sydney, 152, Options{})
	b, _ := Compute(sydney, 152, Options{Azimuth: AzimuthLegacy})
	if a.AzimuthDeg != b.AzimuthDeg {
		t.Errorf("southern hemisphere azimuth changed: %v vs %v", a.AzimuthDeg, b.AzimuthDeg)
	}
}

func TestCompute_BelowHorizonClampsToZero(t *testing.T) {
	for _, tier := range []Tier{TierBasic, TierCorrected} {
		got, err := Compute(mustPos(t, 60, 0, 0), 100, Options{Tier: tier})
		if err != nil {
			t.Fatal(err)
		}
		if got.ElevationDeg != 0 {
			t.Errorf("%v: elevation = %v, want 0", tier, got.ElevationDeg)
		}
		if !got.BelowHorizon() {
			t.Errorf("%v: BelowHorizon() = false for raw %v", tier, got.RawElevationDeg)
		}
	}
}

func TestCompute_ElevationNeverNegative(t *testing.T) {
	for lat := -90.0; lat <= 90; lat += 15 {
		for lon := -180.0; lon <= 180; lon += 30 {
			for sat := -180.0; sat <= 180; sat += 45 {
				got, err := Compute(astro.GeoPosition{LatitudeDeg: lat, LongitudeDeg: lon}, sat, DefaultOptions())
				if err != nil {
					t.Fatalf("Compute(%v,%v,%v): %v", lat, lon, sat, err)
				}
				if got.ElevationDeg < 0 || got.ElevationDeg > 90 || math.IsNaN(got.ElevationDeg) {
					t.Fatalf("elevation %v out of [0,90] for (%v,%v,%v)", got.ElevationDeg, lat, lon, sat)
				}
				if got.AzimuthDeg < 0 || got.AzimuthDeg >= 360 {
					t.Fatalf("azimuth %v out of [0,360) for (%v,%v,%v)", got.AzimuthDeg, lat, lon, sat)
				}
				if got.PolarizationDeg < -90 || got.PolarizationDeg > 90 || math.IsNaN(got.PolarizationDeg) {
					t.Fatalf("polarization %v out of range for (%v,%v,%v)", got.PolarizationDeg, lat, lon, sat)
				}
			}
		}
	}
}

func TestCompute_DegenerateGeometry(t *testing.T) {
	// Observer directly under the satellite.
	got, err := Compute(mustPos(t, 0, 10, 0), 10, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got.ElevationDeg != 90 {
		t.Errorf("sub-satellite elevation = %v, want 90", got.ElevationDeg)
	}
	if got.PolarizationDeg != 0 || math.IsNaN(got.AzimuthDeg) {
		t.Errorf("sub-satellite angles = %+v, want finite with zero skew", got)
	}
	if math.Abs(got.SlantRangeKm-GEOAltitudeKm) > 1e-6 {
		t.Errorf("sub-satellite range = %v, want %v", got.SlantRangeKm, GEOAltitudeKm)
	}

	// On the equator but off the satellite meridian.
	got, err = Compute(mustPos(t, 0, 10, 0), 40, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got.PolarizationDeg != 0 {
		t.Errorf("equator polarization = %v, want sentinel 0", got.PolarizationDeg)
	}
}

func TestCompute_Idempotent(t *testing.T) {
	obs := mustPos(t, 45.5, -73.6, 120)
	a, _ := Compute(obs, -105, DefaultOptions())
	b, _ := Compute(obs, -105, DefaultOptions())
	if a != b {
		t.Errorf("Compute not deterministic: %+v vs %+v", a, b)
	}
}

func TestCompute_CorrectedTierAddsRefraction(t *testing.T) {
	obs := mustPos(t, 30, 31, 1500)
	basic, _ := Compute(obs, 7, Options{Tier: TierBasic})
	corrected, _ := Compute(obs, 7, Options{Tier: TierCorrected})

	want := basic.ElevationDeg + 0.0135364 + 0.015
	if math.Abs(corrected.ElevationDeg-want) > 1e-5 {
		t.Errorf("corrected elevation = %.6f, want %.6f", corrected.ElevationDeg, want)
	}
	if corrected.AzimuthDeg != basic.AzimuthDeg || corrected.PolarizationDeg != basic.PolarizationDeg {
		t.Error("tier must only affect elevation")
	}
}

func TestCompute_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		obs    astro.GeoPosition
		satLon float64
	}{
		{"latitude", astro.GeoPosition{LatitudeDeg: 95}, 0},
		{"longitude", astro.GeoPosition{LongitudeDeg: -200}, 0},
		{"satellite longitude", astro.GeoPosition{}, 190},
		{"nan satellite", astro.GeoPosition{}, math.NaN()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Compute(tt.obs, tt.satLon, DefaultOptions()); !errors.Is(err, astro.ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
		})
	}
}

func TestSlantRange_MonotonicInCentralAngle(t *testing.T) {
	prev := 0.0
	for d := 0.0; d <= 80; d += 5 {
		r := SlantRange(0, d)
		if r < prev {
			t.Fatalf("range decreased at lonDiff=%v: %v < %v", d, r, prev)
		}
		prev = r
	}
}

func TestParseTier(t *testing.T) {
	for in, want := range map[string]Tier{"": TierCorrected, "basic": TierBasic, "Corrected": TierCorrected} {
		got, err := ParseTier(in)
		if err != nil || got != want {
			t.Errorf("ParseTier(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseTier("precise"); !errors.Is(err, astro.ErrInvalidInput) {
		t.Errorf("ParseTier(precise) err = %v", err)
	}
}
