package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-satfinder/internal/astro"
	"github.com/litescript/ls-satfinder/internal/catalog"
	"github.com/litescript/ls-satfinder/internal/link"
)

// Tier colors, shared with the terminal UI.
var (
	ColorExcellent = lipgloss.Color("#00FF00")
	ColorGood      = lipgloss.Color("#7FFF00")
	ColorFair      = lipgloss.Color("#FFAA00")
	ColorPoor      = lipgloss.Color("#FF6600")
	ColorNone      = lipgloss.Color("#FF0000")
)

// QualityColor maps a quality tier to its display color.
func QualityColor(q link.Quality) lipgloss.Color {
	switch q {
	case link.QualityExcellent:
		return ColorExcellent
	case link.QualityGood:
		return ColorGood
	case link.QualityFair:
		return ColorFair
	case link.QualityPoor:
		return ColorPoor
	default:
		return ColorNone
	}
}

// TableOptions control WriteVisibleTable.
type TableOptions struct {
	// Color renders the quality column with lipgloss tier colors.
	Color bool
	// All includes satellites below the minimum elevation.
	All bool
}

// SummaryRow represents one row in the visibility table.
type SummaryRow struct {
	Satellite string
	Position  string
	Azimuth   float64
	Elevation float64
	Skew      float64
	Range     string
	Quality   int
	Tier      link.Quality
	Score     float64
	Visible   bool
}

// GenerateSummaryRows creates rows from ranked candidates.
func GenerateSummaryRows(cands []catalog.Candidate, all bool) []SummaryRow {
	var rows []SummaryRow
	for _, c := range cands {
		if !all && !c.Visible {
			continue
		}
		rows = append(rows, SummaryRow{
			Satellite: c.Satellite.Name,
			Position:  formatOrbitalPosition(c.Satellite.LongitudeDeg),
			Azimuth:   c.Angles.AzimuthDeg,
			Elevation: c.Angles.ElevationDeg,
			Skew:      c.Angles.PolarizationDeg,
			Range:     link.FormatRange(c.Link.SlantRangeKm),
			Quality:   c.Link.PredictedQuality,
			Tier:      link.ClassifyQuality(c.Link.PredictedQuality),
			Score:     c.Score,
			Visible:   c.Visible,
		})
	}
	return rows
}

// WriteVisibleTable writes a ranked satellite table for pos.
func WriteVisibleTable(w io.Writer, pos astro.GeoPosition, cands []catalog.Candidate, timestamp time.Time, opts TableOptions) {
	rows := GenerateSummaryRows(cands, opts.All)

	fmt.Fprintf(w, "Satellites from %s @ %s\n", pos, timestamp.Format(time.RFC3339))
	fmt.Fprintln(w, strings.Repeat("─", 86))

	if len(rows) == 0 {
		fmt.Fprintln(w, "No satellites above the minimum elevation")
		return
	}

	fmt.Fprintf(w, "%-20s %-7s %7s %6s %6s %-10s %-12s %5s\n",
		"Satellite", "Pos", "Az", "El", "Skew", "Range", "Quality", "Score")
	fmt.Fprintln(w, strings.Repeat("─", 86))

	for _, r := range rows {
		quality := fmt.Sprintf("%3d %-8s", r.Quality, r.Tier)
		if opts.Color {
			quality = lipgloss.NewStyle().Foreground(QualityColor(r.Tier)).Render(quality)
		}
		mark := ""
		if !r.Visible {
			mark = " (low)"
		}
		fmt.Fprintf(w, "%-20s %-7s %6.1f° %5.1f° %5.1f° %-10s %s %5.1f%s\n",
			truncateStr(r.Satellite, 20),
			r.Position,
			r.Azimuth,
			r.Elevation,
			r.Skew,
			r.Range,
			quality,
			r.Score,
			mark,
		)
	}

	fmt.Fprintf(w, "\nTotal: %d satellites\n", len(rows))
}

// WritePointingSummary writes a human-readable pointing card for e.
func WritePointingSummary(w io.Writer, e *PointingExport) {
	fmt.Fprintf(w, "%s (%s) from %s\n", e.Satellite, formatOrbitalPosition(e.SatLonDeg), e.Observer)
	fmt.Fprintln(w, strings.Repeat("─", 50))
	if !e.Visible {
		fmt.Fprintf(w, "Below the horizon (geometric elevation %.2f°)\n", e.Angles.RawElevationDeg)
		return
	}
	fmt.Fprintf(w, "Azimuth        %7.2f° true  (%.1f° magnetic)\n", e.Angles.AzimuthDeg, e.MagneticAzimuth)
	fmt.Fprintf(w, "Elevation      %7.2f°  (%s, %s)\n", e.Angles.ElevationDeg, e.Tier, e.Profile)
	fmt.Fprintf(w, "LNB skew       %7.2f°\n", e.Angles.PolarizationDeg)
	fmt.Fprintf(w, "Slant range    %s\n", link.FormatRange(e.Link.SlantRangeKm))
	fmt.Fprintf(w, "Signal delay   %s\n", link.FormatDelay(e.Link.SignalDelayMs))
	fmt.Fprintf(w, "Path loss      %.1f dB @ %.1f GHz\n", e.Link.FreeSpacePathLossDB, e.Link.FrequencyGHz)
	fmt.Fprintf(w, "Quality        %d (%s: %s)\n", e.Link.PredictedQuality, e.Quality, e.Quality.Description())
	fmt.Fprintf(w, "Search cone    az %.1f°-%.1f°  el %.1f°-%.1f°\n",
		e.Cone.AzimuthStartDeg, e.Cone.AzimuthEndDeg, e.Cone.ElevationStartDeg, e.Cone.ElevationEndDeg)
	fmt.Fprintf(w, "Best window    %s\n", e.Window.Description)
	if e.Sun.SunInterference() {
		fmt.Fprintf(w, "Warning        Sun within %.1f° of boresight\n", e.Sun.SeparationDeg)
	}
}

func formatOrbitalPosition(lonDeg float64) string {
	if lonDeg < 0 {
		return fmt.Sprintf("%.1f°W", -lonDeg)
	}
	return fmt.Sprintf("%.1f°E", lonDeg)
}

func truncateStr(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
