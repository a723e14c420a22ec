package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-satfinder/internal/astro"
	"github.com/litescript/ls-satfinder/internal/guidance"
	"github.com/litescript/ls-satfinder/internal/pointing"
	"github.com/litescript/ls-satfinder/internal/state"
)

const (
	// Angular half-span of the scope around the target.
	scopeSpanAz = 30.0
	scopeSpanEl = 15.0

	glyphTarget  = '✚'
	glyphCurrent = '◆'

	colorTarget  = "229"
	colorCurrent = "#d0c8ff"
	colorGrid    = "238"
	colorBox     = "46"
	colorCone    = "214"
)

// renderScope draws a crosshair centered on the target with the current
// orientation plotted relative to it.
func renderScope(snap state.Snapshot, width, height int) string {
	if snap.Target == nil {
		return "  No target selected\n"
	}

	w := width - 4
	if w > 61 {
		w = 61
	}
	if w < 21 {
		w = 21
	}
	h := height
	if h > 21 {
		h = 21
	}
	if h < 9 {
		h = 9
	}
	// Odd sizes keep the target on a cell.
	if w%2 == 0 {
		w--
	}
	if h%2 == 0 {
		h--
	}

	canvas := make([][]rune, h)
	colors := make([][]lipgloss.Color, h)
	for y := range canvas {
		canvas[y] = []rune(strings.Repeat(" ", w))
		colors[y] = make([]lipgloss.Color, w)
	}
	cx, cy := w/2, h/2

	for x := 0; x < w; x++ {
		canvas[cy][x] = '─'
		colors[cy][x] = colorGrid
	}
	for y := 0; y < h; y++ {
		canvas[y][cx] = '│'
		colors[y][cx] = colorGrid
	}

	drawToleranceBox(canvas, colors, w, h)

	canvas[cy][cx] = glyphTarget
	colors[cy][cx] = colorTarget

	if snap.HasSample {
		cur := snap.Last.Orientation()
		dAz := astro.CircularDiff(cur.AzimuthDeg, snap.Target.Angles.AzimuthDeg)
		dEl := cur.ElevationDeg - snap.Target.Angles.ElevationDeg
		x, y, inside := projectToScope(dAz, dEl, w, h)
		glyph := glyphCurrent
		if !inside {
			glyph = edgeArrow(x, y, w, h)
		}
		canvas[y][x] = glyph
		colors[y][x] = colorCurrent
		if inSearchCone(snap) {
			colors[y][x] = colorCone
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Aim scope"))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  ±%.0f° az  ±%.0f° el", scopeSpanAz, scopeSpanEl)))
	b.WriteString("\n")
	for y := 0; y < h; y++ {
		b.WriteString("  ")
		for x := 0; x < w; x++ {
			r := canvas[y][x]
			if colors[y][x] == "" {
				b.WriteRune(r)
				continue
			}
			b.WriteString(lipgloss.NewStyle().Foreground(colors[y][x]).Render(string(r)))
		}
		b.WriteString("\n")
	}
	if snap.HasSample {
		b.WriteString("  ")
		b.WriteString(mutedStyle.Render(fmt.Sprintf("%s %s  %s target  %s you",
			directionArrows[snap.Guidance.Direction], snap.Guidance.Direction,
			string(glyphTarget), string(glyphCurrent))))
		if inSearchCone(snap) && !snap.Locked {
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(colorCone)).Render("  in search cone, sweep slowly"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// inSearchCone reports whether the last sample lies in the look cone around
// the target.
func inSearchCone(snap state.Snapshot) bool {
	if snap.Target == nil || !snap.HasSample {
		return false
	}
	cur := snap.Last.Orientation()
	cone := pointing.LookCone(snap.Target.Angles, pointing.DefaultConeHalfWidthDeg)
	return cone.Contains(cur.AzimuthDeg, cur.ElevationDeg)
}

// projectToScope maps an offset from the target to canvas cells, clamping
// to the border when it falls outside the span.
func projectToScope(dAz, dEl float64, w, h int) (x, y int, inside bool) {
	inside = dAz >= -scopeSpanAz && dAz <= scopeSpanAz && dEl >= -scopeSpanEl && dEl <= scopeSpanEl
	dAz = astro.Clamp(dAz, -scopeSpanAz, scopeSpanAz)
	dEl = astro.Clamp(dEl, -scopeSpanEl, scopeSpanEl)

	x = int((dAz+scopeSpanAz)/(2*scopeSpanAz)*float64(w-1) + 0.5)
	y = int((scopeSpanEl-dEl)/(2*scopeSpanEl)*float64(h-1) + 0.5)
	return x, y, inside
}

func drawToleranceBox(canvas [][]rune, colors [][]lipgloss.Color, w, h int) {
	x0, y0, _ := projectToScope(-guidance.DefaultAzimuthTolerance, guidance.DefaultElevationTolerance, w, h)
	x1, y1, _ := projectToScope(guidance.DefaultAzimuthTolerance, -guidance.DefaultElevationTolerance, w, h)
	if x1-x0 < 2 || y1-y0 < 2 {
		return
	}
	corners := map[[2]int]rune{{x0, y0}: '┌', {x1, y0}: '┐', {x0, y1}: '└', {x1, y1}: '┘'}
	for p, r := range corners {
		canvas[p[1]][p[0]] = r
		colors[p[1]][p[0]] = colorBox
	}
}

func edgeArrow(x, y, w, h int) rune {
	switch {
	case x == 0:
		return '◀'
	case x == w-1:
		return '▶'
	case y == 0:
		return '▲'
	case y == h-1:
		return '▼'
	}
	return glyphCurrent
}
