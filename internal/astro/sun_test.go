package astro

import (
	"math"
	"testing"
	"time"
)

func TestSunPosition(t *testing.T) {
	tests := []struct {
		name       string
		time       time.Time
		wantRAMin  float64
		wantRAMax  float64
		wantDecMin float64
		wantDecMax float64
	}{
		{"March equinox", time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC), 359, 2, -1, 1},
		{"June solstice", time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC), 88, 92, 23, 24},
		{"September equinox", time.Date(2024, 9, 22, 12, 0, 0, 0, time.UTC), 178, 182, -1, 1},
		{"December solstice", time.Date(2024, 12, 21, 12, 0, 0, 0, time.UTC), 268, 272, -24, -23},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotRA, gotDec := SunPosition(tt.time)

			var raOK bool
			if tt.wantRAMin > tt.wantRAMax {
				raOK = gotRA >= tt.wantRAMin || gotRA <= tt.wantRAMax
			} else {
				raOK = gotRA >= tt.wantRAMin && gotRA <= tt.wantRAMax
			}
			if !raOK {
				t.Errorf("RA = %.2f°, want [%.0f, %.0f]", gotRA, tt.wantRAMin, tt.wantRAMax)
			}
			if gotDec < tt.wantDecMin || gotDec > tt.wantDecMax {
				t.Errorf("Dec = %.2f°, want [%.0f, %.0f]", gotDec, tt.wantDecMin, tt.wantDecMax)
			}
		})
	}
}

func TestSunHorizontal_NoonIsHigh(t *testing.T) {
	// Local solar noon at Greenwich near the June solstice: the Sun is due
	// south at about 90 - 51.5 + 23.4 degrees.
	obs := GeoPosition{LatitudeDeg: 51.5, LongitudeDeg: 0}
	got := SunHorizontal(obs, time.Date(2024, 6, 21, 12, 2, 0, 0, time.UTC))

	if math.Abs(got.ElDeg-61.9) > 1.5 {
		t.Errorf("noon elevation = %.2f°, want ~61.9°", got.ElDeg)
	}
	if math.Abs(CircularDiff(got.AzDeg, 180)) > 5 {
		t.Errorf("noon azimuth = %.2f°, want ~180°", got.AzDeg)
	}
}

func TestAngularSeparation(t *testing.T) {
	tests := []struct {
		name       string
		lon1, lat1 float64
		lon2, lat2 float64
		want       float64
		tol        float64
	}{
		{"same point", 100, 30, 100, 30, 0, 0.001},
		{"quarter turn on equator", 0, 0, 90, 0, 90, 0.001},
		{"opposite on equator", 0, 0, 180, 0, 180, 0.001},
		{"pole to equator", 0, 90, 0, 0, 90, 0.001},
		{"wraps across north", 350, 10, 10, 10, 19.7, 0.05},
		{"small offset", 100, 30, 101, 30, 0.866, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AngularSeparation(tt.lon1, tt.lat1, tt.lon2, tt.lat2)
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("AngularSeparation() = %.4f°, want %.4f°", got, tt.want)
			}
		})
	}
}

func TestGetSunSeparationTier(t *testing.T) {
	tests := []struct {
		sepDeg float64
		want   SunSeparationTier
	}{
		{5, SunSepWarning},
		{9.9, SunSepWarning},
		{10, SunSepCaution},
		{19.9, SunSepCaution},
		{20, SunSepSafe},
		{180, SunSepSafe},
	}

	for _, tt := range tests {
		if got := GetSunSeparationTier(tt.sepDeg); got != tt.want {
			t.Errorf("GetSunSeparationTier(%.1f) = %v, want %v", tt.sepDeg, got, tt.want)
		}
	}
}
