package pointing

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/litescript/ls-satfinder/internal/astro"
)

func TestParseProfile(t *testing.T) {
	tests := []struct {
		in   string
		want Profile
	}{
		{"", Standard},
		{"standard", Standard},
		{"hot-humid", HotHumid},
		{"HOT_HUMID", HotHumid},
		{"HotHumid", HotHumid},
		{"cold dry", ColdDry},
		{"Rainy", Rainy},
		{" foggy ", Foggy},
	}
	for _, tt := range tests {
		got, err := ParseProfile(tt.in)
		if err != nil {
			t.Errorf("ParseProfile(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseProfile(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	_, err := ParseProfile("monsoon")
	var ie *astro.InputError
	if !errors.As(err, &ie) || ie.Field != "profile" {
		t.Errorf("ParseProfile(monsoon) err = %v, want InputError on profile", err)
	}
}

func TestProfile_Multipliers(t *testing.T) {
	tests := []struct {
		p                  Profile
		refraction, signal float64
	}{
		{Standard, 1.0, 1.0},
		{HotHumid, 0.95, 0.85},
		{ColdDry, 1.05, 1.05},
		{Rainy, 0.8, 0.6},
		{Foggy, 0.9, 0.75},
		{Profile(42), 1.0, 1.0},
	}
	for _, tt := range tests {
		if got := tt.p.RefractionMultiplier(); got != tt.refraction {
			t.Errorf("%v.RefractionMultiplier() = %v, want %v", tt.p, got, tt.refraction)
		}
		if got := tt.p.SignalMultiplier(); got != tt.signal {
			t.Errorf("%v.SignalMultiplier() = %v, want %v", tt.p, got, tt.signal)
		}
	}
}

func TestProfile_NextCycles(t *testing.T) {
	p := Standard
	seen := map[Profile]bool{}
	for range Profiles() {
		seen[p] = true
		p = p.Next()
	}
	if p != Standard || len(seen) != len(Profiles()) {
		t.Errorf("Next did not cycle through all profiles: ended at %v, saw %d", p, len(seen))
	}
}

func TestProfile_JSON(t *testing.T) {
	var v struct {
		Profile Profile `json:"profile"`
	}
	if err := json.Unmarshal([]byte(`{"profile":"rainy"}`), &v); err != nil {
		t.Fatal(err)
	}
	if v.Profile != Rainy {
		t.Errorf("profile = %v, want rainy", v.Profile)
	}
	b, _ := json.Marshal(v)
	if string(b) != `{"profile":"rainy"}` {
		t.Errorf("marshal = %s", b)
	}
	if err := json.Unmarshal([]byte(`{"profile":"hail"}`), &v); err == nil {
		t.Error("expected error for unknown profile")
	}
}
