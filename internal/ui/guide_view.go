package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-satfinder/internal/guidance"
	"github.com/litescript/ls-satfinder/internal/link"
	"github.com/litescript/ls-satfinder/internal/report"
	"github.com/litescript/ls-satfinder/internal/state"
)

// SparklineWidth is the fixed width of the signal sparkline.
const SparklineWidth = 40

// sparklineBlocks are the Unicode block characters for sparkline (0 = lowest, 7 = highest).
var sparklineBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

var (
	signalColorLow  = [3]uint8{0xff, 0x33, 0x00}
	signalColorMid  = [3]uint8{0xff, 0xaa, 0x00}
	signalColorHigh = [3]uint8{0x00, 0xff, 0x66}
)

// directionArrows are the glyphs shown next to each correction.
var directionArrows = map[guidance.Direction]string{
	guidance.Locked:      "◉",
	guidance.RotateLeft:  "◀",
	guidance.RotateRight: "▶",
	guidance.TiltUp:      "▲",
	guidance.TiltDown:    "▼",
}

func renderGuide(snap state.Snapshot, events []state.Event) string {
	var b strings.Builder

	if snap.Target == nil {
		b.WriteString("  No target selected\n")
		return b.String()
	}

	b.WriteString(renderTargetCard(snap.Target))
	b.WriteString("\n")

	if !snap.HasSample {
		b.WriteString(mutedStyle.Render("  Waiting for orientation..."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(renderDirection(snap))
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("Signal"))
	b.WriteString("\n  ")
	b.WriteString(renderSignalSparkline(snap.Signal, SparklineWidth))
	b.WriteString(fmt.Sprintf("  %3.0f", snap.Last.Signal))
	b.WriteString("\n  ")
	b.WriteString(renderObstacle(snap))
	b.WriteString("\n\n")

	b.WriteString(renderEvents(events))
	return b.String()
}

func renderTargetCard(t *state.Target) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Target: " + t.Satellite.Name))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %.1f°%s", abs(t.Satellite.LongitudeDeg), eastWest(t.Satellite.LongitudeDeg))))
	b.WriteString("\n")

	if t.Angles.BelowHorizon() {
		b.WriteString(errorStyle.Render(fmt.Sprintf("  Below the horizon (%.1f°)", t.Angles.RawElevationDeg)))
		b.WriteString("\n")
		return b.String()
	}

	q := link.ClassifyQuality(t.Link.PredictedQuality)
	qStyle := lipgloss.NewStyle().Foreground(report.QualityColor(q))
	rows := [][2]string{
		{"Azimuth", fmt.Sprintf("%7.2f°", t.Angles.AzimuthDeg)},
		{"Elevation", fmt.Sprintf("%7.2f°", t.Angles.ElevationDeg)},
		{"LNB skew", fmt.Sprintf("%7.2f°", t.Angles.PolarizationDeg)},
		{"Range", link.FormatRange(t.Link.SlantRangeKm) + "  " + link.FormatDelay(t.Link.SignalDelayMs)},
		{"Predicted", qStyle.Render(fmt.Sprintf("%d %s", t.Link.PredictedQuality, q))},
	}
	for _, r := range rows {
		b.WriteString("  " + labelStyle.Render(fmt.Sprintf("%-10s", r[0])) + " " + valueStyle.Render(r[1]) + "\n")
	}
	return b.String()
}

func renderDirection(snap state.Snapshot) string {
	res := snap.Guidance
	var b strings.Builder

	cur := snap.Last.Orientation()
	b.WriteString("  " + labelStyle.Render("Current   ") + " " +
		valueStyle.Render(fmt.Sprintf("az %6.2f°  el %5.2f°", cur.AzimuthDeg, cur.ElevationDeg)) + "\n\n")

	arrow := directionArrows[res.Direction]
	label := fmt.Sprintf("  %s  %s", arrow, res.Direction)
	if res.Locked() {
		b.WriteString(lockedStyle.Render(label))
		if snap.LockedFor > 0 {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("  (%s)", snap.LockedFor.Round(100*time.Millisecond))))
		}
	} else {
		b.WriteString(moveStyle.Render(label))
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  Δaz %+.1f°  Δel %+.1f°", res.AzimuthDiffDeg, res.ElevationDiffDeg)))
	}
	b.WriteString("\n  ")
	b.WriteString(valueStyle.Render(res.Suggestion))
	b.WriteString("\n\n")

	b.WriteString("  " + labelStyle.Render("Intensity ") + " " + renderBar(res.Intensity/10, 20) + "\n")
	b.WriteString("  " + labelStyle.Render("Confidence") + " " + renderBar(res.Confidence, 20) +
		fmt.Sprintf(" %3.0f%%", res.Confidence*100) + "\n")
	b.WriteString("  " + labelStyle.Render("Accuracy  ") + " " + renderBar(snap.Metrics.OverallScore/100, 20) +
		fmt.Sprintf(" %3.0f%%", snap.Metrics.OverallScore))
	if snap.Metrics.EstimatedSeconds > 0 {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  ~%ds to lock", snap.Metrics.EstimatedSeconds)))
	}
	b.WriteString("\n")
	return b.String()
}

// renderBar draws a fill bar for frac in [0, 1].
func renderBar(frac float64, width int) string {
	filled := int(frac * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}

// renderSignalSparkline renders the most recent samples, right-aligned.
func renderSignalSparkline(samples []float64, width int) string {
	if len(samples) > width {
		samples = samples[len(samples)-width:]
	}
	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", width-len(samples)))
	for _, v := range samples {
		t := v / 100
		if t < 0 {
			t = 0
		}
		if t > 1 {
			t = 1
		}
		idx := int(t * 7.0)
		r, g, b := interpolateSignalColor(t)
		color := fmt.Sprintf("#%02x%02x%02x", r, g, b)
		sb.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(string(sparklineBlocks[idx])))
	}
	return sb.String()
}

func interpolateSignalColor(t float64) (uint8, uint8, uint8) {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	from, to, s := signalColorLow, signalColorMid, t*2
	if t >= 0.5 {
		from, to, s = signalColorMid, signalColorHigh, (t-0.5)*2
	}
	mix := func(i int) uint8 {
		return uint8(float64(from[i])*(1-s) + float64(to[i])*s)
	}
	return mix(0), mix(1), mix(2)
}

func renderObstacle(snap state.Snapshot) string {
	v := snap.Obstacle
	switch {
	case v.HasObstacle:
		return warnStyle.Render("⚠ " + v.Message)
	case v.Insufficient || v.Message == "":
		return mutedStyle.Render("Collecting signal history...")
	default:
		return labelStyle.Render("✓ " + v.Message)
	}
}

// eventStripLen is how many recent events the guide view lists.
const eventStripLen = 5

// renderEvents lists events newest first.
func renderEvents(events []state.Event) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Events"))
	b.WriteString("\n")
	if len(events) == 0 {
		b.WriteString(mutedStyle.Render("  none"))
		b.WriteString("\n")
		return b.String()
	}
	for i := len(events) - 1; i >= 0; i-- {
		e := events[i]
		line := fmt.Sprintf("  %s %-18s %s", e.Timestamp.Format("15:04:05"), e.Type, e.Message)
		b.WriteString(rowStyle.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func eastWest(lon float64) string {
	if lon < 0 {
		return "W"
	}
	return "E"
}
