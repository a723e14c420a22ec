// Package catalog holds geostationary satellite reference data and ranks the
// entries visible from an observer.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/litescript/ls-satfinder/internal/astro"
	"github.com/litescript/ls-satfinder/internal/link"
	"github.com/litescript/ls-satfinder/internal/pointing"
)

// DefaultMinElevationDeg is the lowest elevation treated as usable.
const DefaultMinElevationDeg = 10.0

var (
	ErrUnknownSatellite = errors.New("unknown satellite")
	ErrEmptyCatalog     = errors.New("catalog has no satellites")
)

// Satellite is one geostationary catalog entry.
type Satellite struct {
	Name         string  `json:"name" validate:"required"`
	LongitudeDeg float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Region       string  `json:"region,omitempty"`
	Bands        string  `json:"bands,omitempty"`
	Operator     string  `json:"operator,omitempty"`
}

// Band returns the preferred downlink band: Ku when listed, otherwise Ka or
// C, defaulting to Ku for DTH entries that only name a provider.
func (s Satellite) Band() string {
	b := strings.ToLower(s.Bands)
	switch {
	case strings.Contains(b, "ku"):
		return "Ku"
	case strings.Contains(b, "ka"):
		return "Ka"
	case strings.HasPrefix(b, "c-") || strings.HasPrefix(b, "c/") || strings.Contains(b, "/c-"):
		return "C"
	default:
		return "Ku"
	}
}

// FrequencyGHz is the typical downlink frequency for Band.
func (s Satellite) FrequencyGHz() float64 {
	return link.BandFrequency(s.Band())
}

// Catalog is an ordered, read-only satellite list. Names need not be unique;
// lookups return the first match.
type Catalog struct {
	sats   []Satellite
	byName map[string]int
}

// New validates sats and builds a catalog.
func New(sats []Satellite) (*Catalog, error) {
	if len(sats) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := &Catalog{
		sats:   make([]Satellite, len(sats)),
		byName: make(map[string]int, len(sats)),
	}
	copy(c.sats, sats)
	for i, s := range c.sats {
		if err := astro.ValidateStruct(s); err != nil {
			return nil, fmt.Errorf("satellite %d (%q): %w", i, s.Name, err)
		}
		key := normalizeName(s.Name)
		if _, dup := c.byName[key]; !dup {
			c.byName[key] = i
		}
	}
	return c, nil
}

// Default returns the built-in reference catalog.
func Default() *Catalog {
	c, err := New(reference)
	if err != nil {
		panic("catalog: invalid reference data: " + err.Error())
	}
	return c
}

// Load reads a JSON array of satellites.
func Load(r io.Reader) (*Catalog, error) {
	var sats []Satellite
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&sats); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(sats)
}

// All returns a copy of every entry in catalog order.
func (c *Catalog) All() []Satellite {
	out := make([]Satellite, len(c.sats))
	copy(out, c.sats)
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.sats)
}

// Lookup finds a satellite by name, ignoring case and surrounding space.
func (c *Catalog) Lookup(name string) (Satellite, error) {
	i, ok := c.byName[normalizeName(name)]
	if !ok {
		return Satellite{}, fmt.Errorf("%w: %q", ErrUnknownSatellite, name)
	}
	return c.sats[i], nil
}

// ByRegion returns entries whose region mentions region, case-insensitively.
// "Europe" matches "Europe/UK" and "Africa/Europe".
func (c *Catalog) ByRegion(region string) []Satellite {
	want := normalizeName(region)
	var out []Satellite
	for _, s := range c.sats {
		for _, part := range strings.Split(s.Region, "/") {
			if normalizeName(part) == want {
				out = append(out, s)
				break
			}
		}
	}
	return out
}

// Regions lists distinct region names in first-seen order.
func (c *Catalog) Regions() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range c.sats {
		for _, part := range strings.Split(s.Region, "/") {
			part = strings.TrimSpace(part)
			if part == "" || seen[normalizeName(part)] {
				continue
			}
			seen[normalizeName(part)] = true
			out = append(out, part)
		}
	}
	return out
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Candidate is a catalog entry evaluated for one observer.
type Candidate struct {
	Satellite Satellite       `json:"satellite"`
	Angles    pointing.Angles `json:"angles"`
	Link      link.Metrics    `json:"link"`
	Visible   bool            `json:"visible"`
	Score     float64         `json:"score"`
}

// VisibleOptions tune Visible. A zero FrequencyGHz uses each satellite's
// band.
type VisibleOptions struct {
	Pointing     pointing.Options
	FrequencyGHz float64
}

// Visible evaluates every entry from pos and returns them ranked by
// recommendation score, best first. Entries below minElevationDeg are kept
// with Visible unset.
func (c *Catalog) Visible(pos astro.GeoPosition, minElevationDeg float64, opts VisibleOptions) ([]Candidate, error) {
	if !astro.IsFinite(minElevationDeg) || minElevationDeg < 0 || minElevationDeg > 90 {
		return nil, &astro.InputError{Field: "min_elevation", Value: minElevationDeg, Reason: "must be within [0, 90]"}
	}
	if err := pos.Validate(); err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, len(c.sats))
	for _, s := range c.sats {
		a, err := pointing.Compute(pos, s.LongitudeDeg, opts.Pointing)
		if err != nil {
			return nil, fmt.Errorf("satellite %q: %w", s.Name, err)
		}
		freq := opts.FrequencyGHz
		if freq <= 0 {
			freq = s.FrequencyGHz()
		}
		m := link.Compute(a, link.Options{FrequencyGHz: freq, Profile: opts.Pointing.Profile})
		out = append(out, Candidate{
			Satellite: s,
			Angles:    a,
			Link:      m,
			Visible:   a.ElevationDeg >= minElevationDeg && !a.BelowHorizon(),
			Score:     Score(a.ElevationDeg, m.PredictedQuality),
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out, nil
}

// Score weights elevation 40% and predicted quality 60%.
func Score(elevationDeg float64, quality int) float64 {
	elevationScore := math.Max(0, elevationDeg) / 90 * 100
	return elevationScore*0.4 + float64(quality)*0.6
}

// VisibleOnly filters candidates down to the visible ones, keeping order.
func VisibleOnly(cands []Candidate) []Candidate {
	var out []Candidate
	for _, c := range cands {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out
}
