package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-satfinder/internal/catalog"
	"github.com/litescript/ls-satfinder/internal/link"
	"github.com/litescript/ls-satfinder/internal/report"
	"github.com/litescript/ls-satfinder/internal/state"
)

func renderSatellites(cands []catalog.Candidate, cursor int, snap state.Snapshot, height int) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Satellites"))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d visible of %d", len(catalog.VisibleOnly(cands)), len(cands))))
	b.WriteString("\n")

	header := fmt.Sprintf("  %-20s %-7s %7s %6s %6s %-14s",
		"Satellite", "Pos", "Az", "El", "Skew", "Quality")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	if len(cands) == 0 {
		b.WriteString("  No satellites in catalog\n")
		return b.String()
	}

	current := ""
	if snap.Target != nil {
		current = snap.Target.Satellite.Name
	}

	maxRows := height
	if maxRows < 5 {
		maxRows = 5
	}
	startIdx := 0
	if cursor >= maxRows {
		startIdx = cursor - maxRows + 1
	}
	endIdx := startIdx + maxRows
	if endIdx > len(cands) {
		endIdx = len(cands)
	}

	for i := startIdx; i < endIdx; i++ {
		c := cands[i]
		mark := " "
		if c.Satellite.Name == current {
			mark = "★"
		}
		q := link.ClassifyQuality(c.Link.PredictedQuality)
		row := fmt.Sprintf("%s %-20s %-7s %6.1f° %5.1f° %5.1f° ",
			mark,
			truncate(c.Satellite.Name, 20),
			fmt.Sprintf("%.1f°%s", abs(c.Satellite.LongitudeDeg), eastWest(c.Satellite.LongitudeDeg)),
			c.Angles.AzimuthDeg,
			c.Angles.ElevationDeg,
			c.Angles.PolarizationDeg,
		)
		quality := fmt.Sprintf("%3d %-9s", c.Link.PredictedQuality, q)

		switch {
		case i == cursor:
			b.WriteString(selectedRowStyle.Render(row + quality))
		case !c.Visible:
			b.WriteString(mutedStyle.Render(row + quality))
		default:
			b.WriteString(rowStyle.Render(row))
			b.WriteString(lipgloss.NewStyle().Foreground(report.QualityColor(q)).Render(quality))
		}
		b.WriteString("\n")
	}

	if len(cands) > maxRows {
		b.WriteString(fmt.Sprintf("\n  Showing %d-%d of %d satellites", startIdx+1, endIdx, len(cands)))
	}
	return b.String()
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
