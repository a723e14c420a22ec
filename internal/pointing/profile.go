package pointing

import (
	"fmt"
	"strings"

	"github.com/litescript/ls-satfinder/internal/astro"
)

// Profile is an atmospheric-condition preset. Each preset scales the
// refraction term and the predicted signal quality.
type Profile int

const (
	Standard Profile = iota
	HotHumid
	ColdDry
	Rainy
	Foggy
)

type profileCoefficients struct {
	name       string
	refraction float64
	signal     float64
}

var profileTable = [...]profileCoefficients{
	Standard: {"standard", 1.0, 1.0},
	HotHumid: {"hot-humid", 0.95, 0.85},
	ColdDry:  {"cold-dry", 1.05, 1.05},
	Rainy:    {"rainy", 0.8, 0.6},
	Foggy:    {"foggy", 0.9, 0.75},
}

// Profiles lists every preset in declaration order.
func Profiles() []Profile {
	return []Profile{Standard, HotHumid, ColdDry, Rainy, Foggy}
}

func (p Profile) valid() bool {
	return p >= Standard && p <= Foggy
}

func (p Profile) String() string {
	if !p.valid() {
		return fmt.Sprintf("profile(%d)", int(p))
	}
	return profileTable[p].name
}

// RefractionMultiplier scales the refraction correction. Unknown values
// behave like Standard.
func (p Profile) RefractionMultiplier() float64 {
	if !p.valid() {
		return 1
	}
	return profileTable[p].refraction
}

// SignalMultiplier scales the predicted signal quality. Unknown values
// behave like Standard.
func (p Profile) SignalMultiplier() float64 {
	if !p.valid() {
		return 1
	}
	return profileTable[p].signal
}

// Next cycles through the presets.
func (p Profile) Next() Profile {
	if !p.valid() {
		return Standard
	}
	return (p + 1) % Profile(len(profileTable))
}

// ParseProfile accepts "hot-humid", "hot_humid", "HotHumid" and similar
// spellings. An empty string selects Standard.
func ParseProfile(s string) (Profile, error) {
	key := canonical(s)
	if key == "" {
		return Standard, nil
	}
	for _, p := range Profiles() {
		if canonical(p.String()) == key {
			return p, nil
		}
	}
	return Standard, &astro.InputError{Field: "profile", Value: s, Reason: "unknown atmospheric profile"}
}

// MarshalText encodes the profile by name.
func (p Profile) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a profile name.
func (p *Profile) UnmarshalText(b []byte) error {
	parsed, err := ParseProfile(string(b))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func canonical(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(s)
}
