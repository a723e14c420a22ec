package link

import (
	"math"
	"testing"

	"github.com/litescript/ls-satfinder/internal/pointing"
)

func TestBaseQuality(t *testing.T) {
	tests := []struct {
		elev float64
		want float64
	}{
		{-0.1, 0},
		{0, 20},
		{2.5, 30},
		{5, 40},
		{7.5, 50},
		{15, 70},
		{25, 90},
		{30, 100},
		{89, 100},
		{math.NaN(), 0},
	}
	for _, tt := range tests {
		if got := BaseQuality(tt.elev); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("BaseQuality(%v) = %v, want %v", tt.elev, got, tt.want)
		}
	}
}

func TestPredictQuality_Profiles(t *testing.T) {
	tests := []struct {
		elev    float64
		profile pointing.Profile
		want    int
	}{
		{46.3, pointing.Standard, 100},
		{46.3, pointing.HotHumid, 85},
		{46.3, pointing.ColdDry, 100}, // clamped
		{46.3, pointing.Rainy, 60},
		{46.3, pointing.Foggy, 75},
		{7.5, pointing.Rainy, 30},
		{-3, pointing.ColdDry, 0},
	}
	for _, tt := range tests {
		if got := PredictQuality(tt.elev, tt.profile); got != tt.want {
			t.Errorf("PredictQuality(%v, %v) = %d, want %d", tt.elev, tt.profile, got, tt.want)
		}
	}
}

func TestPredictQuality_Monotonic(t *testing.T) {
	for _, p := range pointing.Profiles() {
		prev := -1
		for e := -5.0; e <= 90; e += 0.25 {
			q := PredictQuality(e, p)
			if q < 0 || q > 100 {
				t.Fatalf("%v: quality %d out of range at %v°", p, q, e)
			}
			if q < prev {
				t.Fatalf("%v: quality fell from %d to %d at %v°", p, prev, q, e)
			}
			prev = q
		}
	}
}

func TestClassifyQuality(t *testing.T) {
	tests := []struct {
		q    int
		want Quality
	}{
		{100, QualityExcellent},
		{80, QualityExcellent},
		{79, QualityGood},
		{60, QualityGood},
		{45, QualityFair},
		{20, QualityPoor},
		{19, QualityNone},
		{0, QualityNone},
	}
	for _, tt := range tests {
		got := ClassifyQuality(tt.q)
		if got != tt.want {
			t.Errorf("ClassifyQuality(%d) = %s, want %s", tt.q, got, tt.want)
		}
		if got.Description() == "" {
			t.Errorf("%s has no description", got)
		}
	}
}
