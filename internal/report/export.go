// Package report renders pointing solutions and alignment records as JSON
// and as plain-text tables.
package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/litescript/ls-satfinder/internal/astro"
	"github.com/litescript/ls-satfinder/internal/link"
	"github.com/litescript/ls-satfinder/internal/pointing"
	"github.com/litescript/ls-satfinder/internal/state"
)

// PointingExport is the JSON-serializable representation of a target.
type PointingExport struct {
	GeneratedAt time.Time         `json:"generated_at"`
	Satellite   string            `json:"satellite"`
	SatLonDeg   float64           `json:"satellite_longitude"`
	Observer    astro.GeoPosition `json:"observer"`
	Tier        string            `json:"tier"`
	Profile     pointing.Profile  `json:"profile"`

	Angles          pointing.Angles `json:"angles"`
	MagneticAzimuth float64         `json:"magnetic_azimuth"`
	Link            link.Metrics    `json:"link"`
	Quality         link.Quality    `json:"quality"`

	Cone    pointing.Cone      `json:"search_cone"`
	Window  pointing.Window    `json:"window"`
	Sun     pointing.SunReport `json:"sun"`
	Visible bool               `json:"visible"`
}

// ExportTarget converts a solved target to an exportable form, adding the
// compass heading and time-of-day advisories for at.
func ExportTarget(t state.Target, at time.Time) *PointingExport {
	return &PointingExport{
		GeneratedAt:     at,
		Satellite:       t.Satellite.Name,
		SatLonDeg:       t.Satellite.LongitudeDeg,
		Observer:        t.Observer,
		Tier:            t.Options.Tier.String(),
		Profile:         t.Options.Profile,
		Angles:          t.Angles,
		MagneticAzimuth: pointing.MagneticAzimuth(t.Angles.AzimuthDeg, t.Observer),
		Link:            t.Link,
		Quality:         link.ClassifyQuality(t.Link.PredictedQuality),
		Cone:            pointing.LookCone(t.Angles, pointing.DefaultConeHalfWidthDeg),
		Window:          pointing.AlignmentWindow(t.Angles),
		Sun:             pointing.SunAdvisory(t.Observer, t.Angles, at),
		Visible:         !t.Angles.BelowHorizon(),
	}
}

// WriteJSON writes the export as indented JSON.
func (e *PointingExport) WriteJSON(w io.Writer) error {
	return writeJSON(w, e)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
