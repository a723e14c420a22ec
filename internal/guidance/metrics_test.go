package guidance

import (
	"math"
	"testing"

	"github.com/litescript/ls-satfinder/internal/pointing"
)

func TestAssess(t *testing.T) {
	target := pointing.Angles{AzimuthDeg: 180, ElevationDeg: 45}
	tests := []struct {
		name         string
		cur          Orientation
		az, el, over float64
		secs         int
	}{
		{"on target", Orientation{180, 45}, 100, 100, 100, 0},
		{"18/9 off", Orientation{198, 36}, 90, 90, 90, 54},
		{"opposite", Orientation{0, 45}, 0, 100, 40, 360},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Assess(tt.cur, target)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(m.AzimuthAccuracy-tt.az) > 1e-9 ||
				math.Abs(m.ElevationAccuracy-tt.el) > 1e-9 ||
				math.Abs(m.OverallScore-tt.over) > 1e-9 {
				t.Errorf("metrics = %+v", m)
			}
			if m.EstimatedSeconds != tt.secs {
				t.Errorf("estimated seconds = %d, want %d", m.EstimatedSeconds, tt.secs)
			}
		})
	}
}

func TestPredictSignalStrength(t *testing.T) {
	perfect := Metrics{AzimuthAccuracy: 100, ElevationAccuracy: 100}
	if got := PredictSignalStrength(46, perfect, pointing.Standard); got != 100 {
		t.Errorf("perfect alignment = %d, want 100", got)
	}
	half := Metrics{AzimuthAccuracy: 50, ElevationAccuracy: 50}
	if got := PredictSignalStrength(46, half, pointing.Rainy); got != 30 {
		t.Errorf("half alignment in rain = %d, want 30", got)
	}
	if got := PredictSignalStrength(-2, perfect, pointing.Standard); got != 0 {
		t.Errorf("below horizon = %d, want 0", got)
	}
}
