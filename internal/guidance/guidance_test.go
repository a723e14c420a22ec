package guidance

import (
	"errors"
	"math"
	"testing"

	"github.com/litescript/ls-satfinder/internal/astro"
	"github.com/litescript/ls-satfinder/internal/pointing"
)

var (
	target = pointing.Angles{AzimuthDeg: 221.68, ElevationDeg: 46.3}
	// exact has binary-exact angles for boundary cases.
	exact = pointing.Angles{AzimuthDeg: 180, ElevationDeg: 45}
)

func TestGuide_OnTargetIsLocked(t *testing.T) {
	r, err := Guide(Orientation{target.AzimuthDeg, target.ElevationDeg}, target, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !r.Locked() || r.Direction != Locked {
		t.Errorf("direction = %v, want LOCKED", r.Direction)
	}
	if r.Confidence != 1 {
		t.Errorf("confidence = %v, want 1", r.Confidence)
	}
	if r.Intensity != 0 {
		t.Errorf("intensity = %v, want 0", r.Intensity)
	}
	if r.Suggestion != SuggestLocked {
		t.Errorf("suggestion = %q", r.Suggestion)
	}
}

func TestGuide_Directions(t *testing.T) {
	tests := []struct {
		name    string
		current Orientation
		want    Direction
	}{
		{"too far clockwise", Orientation{target.AzimuthDeg + 10, target.ElevationDeg}, RotateLeft},
		{"too far counter-clockwise", Orientation{target.AzimuthDeg - 10, target.ElevationDeg}, RotateRight},
		{"too low", Orientation{target.AzimuthDeg, target.ElevationDeg - 8}, TiltUp},
		{"too high", Orientation{target.AzimuthDeg + 1, target.ElevationDeg + 8}, TiltDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Guide(tt.current, target, Options{})
			if err != nil {
				t.Fatal(err)
			}
			if r.Direction != tt.want {
				t.Errorf("direction = %v, want %v", r.Direction, tt.want)
			}
			if r.Confidence >= 1 {
				t.Errorf("confidence = %v, want < 1", r.Confidence)
			}
		})
	}
}

func TestGuide_Boundaries(t *testing.T) {
	tests := []struct {
		name    string
		current Orientation
		want    Direction
	}{
		{"tie goes to elevation", Orientation{175, 40}, TiltUp},
		{"azimuth exactly at tolerance", Orientation{182, 45}, RotateLeft},
		{"elevation exactly at tolerance", Orientation{180, 43}, TiltUp},
		{"just inside", Orientation{181.5, 46.5}, Locked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := Guide(tt.current, exact, DefaultOptions())
			if err != nil {
				t.Fatal(err)
			}
			if r.Direction != tt.want {
				t.Errorf("direction = %v, want %v", r.Direction, tt.want)
			}
		})
	}
}

func TestGuide_WrapsAcrossNorth(t *testing.T) {
	north := pointing.Angles{AzimuthDeg: 2, ElevationDeg: 30}
	r, err := Guide(Orientation{355, 30}, north, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if r.Direction != RotateRight {
		t.Errorf("direction = %v, want ROTATE RIGHT", r.Direction)
	}
	if math.Abs(r.AzimuthDiffDeg-7) > 1e-9 {
		t.Errorf("azimuth diff = %v, want 7", r.AzimuthDiffDeg)
	}
}

func TestGuide_IntensityAndConfidence(t *testing.T) {
	r, _ := Guide(Orientation{target.AzimuthDeg - 30, target.ElevationDeg - 40}, target, Options{})
	if math.Abs(r.Intensity-5) > 1e-9 {
		t.Errorf("intensity = %v, want 5", r.Intensity)
	}
	if math.Abs(r.Confidence-0.3) > 1e-9 {
		t.Errorf("confidence = %v, want 0.3", r.Confidence)
	}

	r, _ = Guide(Orientation{target.AzimuthDeg + 179, 0}, target, Options{})
	if r.Intensity > 10 || r.Confidence != 0 {
		t.Errorf("far-off sample: intensity %v confidence %v", r.Intensity, r.Confidence)
	}
}

func TestGuide_Suggestions(t *testing.T) {
	tests := []struct {
		dAz, dEl float64
		want     string
	}{
		{0.5, 0.5, SuggestLocked},
		{3, 1, SuggestNear},
		{4.9, 4.9, SuggestNear},
		{31, 0, SuggestLarge},
		{0, 21, SuggestLarge},
		{10, 10, SuggestKeepOn},
		{29, 19, SuggestKeepOn},
	}
	for _, tt := range tests {
		r, err := Guide(Orientation{target.AzimuthDeg - tt.dAz, target.ElevationDeg - tt.dEl}, target, Options{})
		if err != nil {
			t.Fatal(err)
		}
		if r.Suggestion != tt.want {
			t.Errorf("offset (%v, %v): suggestion = %q, want %q", tt.dAz, tt.dEl, r.Suggestion, tt.want)
		}
	}
}

func TestGuide_CustomTolerance(t *testing.T) {
	cur := Orientation{target.AzimuthDeg + 4, target.ElevationDeg}
	if IsAligned(cur, target, Options{}) {
		t.Error("4° off should not align at default tolerance")
	}
	opts := Options{AzimuthTolerance: 5, ElevationTolerance: 1}
	if !IsAligned(cur, target, opts) {
		t.Error("4° off should align at 5° tolerance")
	}
	r, _ := Guide(cur, target, opts)
	if !r.Locked() {
		t.Errorf("direction = %v, want LOCKED", r.Direction)
	}
}

func TestIsAligned_StrictBoundary(t *testing.T) {
	edge := Orientation{exact.AzimuthDeg, exact.ElevationDeg + 2}
	if IsAligned(edge, exact, DefaultOptions()) {
		t.Error("exactly at tolerance must not count as aligned")
	}
	if IsAligned(Orientation{math.NaN(), 0}, target, DefaultOptions()) {
		t.Error("NaN sample must not align")
	}
}

func TestGuide_RejectsNonFinite(t *testing.T) {
	for _, cur := range []Orientation{{math.NaN(), 10}, {10, math.Inf(1)}} {
		if _, err := Guide(cur, target, Options{}); !errors.Is(err, astro.ErrInvalidInput) {
			t.Errorf("Guide(%v) err = %v, want ErrInvalidInput", cur, err)
		}
	}
}

func TestDirection_String(t *testing.T) {
	for d, want := range map[Direction]string{
		Locked: "LOCKED", RotateLeft: "ROTATE LEFT", RotateRight: "ROTATE RIGHT",
		TiltUp: "TILT UP", TiltDown: "TILT DOWN", Direction(9): "UNKNOWN",
	} {
		if got := d.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(d), got, want)
		}
	}
}
