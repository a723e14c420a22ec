// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-satfinder/internal/astro"
	"github.com/litescript/ls-satfinder/internal/catalog"
	"github.com/litescript/ls-satfinder/internal/logging"
	"github.com/litescript/ls-satfinder/internal/metrics"
	"github.com/litescript/ls-satfinder/internal/pointing"
	"github.com/litescript/ls-satfinder/internal/report"
	"github.com/litescript/ls-satfinder/internal/sensor"
	"github.com/litescript/ls-satfinder/internal/state"
	"github.com/litescript/ls-satfinder/internal/version"
)

// ViewMode represents the current UI view.
type ViewMode int

const (
	ViewGuide ViewMode = iota
	ViewScope
	ViewSatellites

	viewCount
)

// Manual nudge step sizes in degrees.
var nudgeSteps = []float64{0.1, 0.5, 1, 5}

// Msg types for Bubble Tea
type (
	// TickMsg triggers periodic UI updates.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time

	// SampleMsg carries one orientation reading from the sensor stream.
	SampleMsg struct {
		Sample sensor.Sample
	}

	// streamClosedMsg signals the sensor stream ended.
	streamClosedMsg struct{}

	// savedMsg reports a saved alignment record.
	savedMsg struct {
		record report.AlignmentRecord
		path   string
	}

	// ErrorMsg signals a failure to show in the status line.
	ErrorMsg struct {
		Error error
	}
)

// Config wires the UI to an alignment session.
type Config struct {
	Session  *state.Manager
	Catalog  *catalog.Catalog
	Observer astro.GeoPosition

	// Satellite is the initial target name.
	Satellite    string
	Pointing     pointing.Options
	FrequencyGHz float64
	MinElevation float64
	RecordsDir   string

	// Samples drives the orientation from a sensor. When nil, arrow keys
	// move a manual reading instead.
	Samples <-chan sensor.Sample

	Metrics *metrics.Collector
	Log     *logging.Logger
}

// Model is the root Bubble Tea model.
type Model struct {
	cfg Config
	log *logging.Logger

	// UI state
	viewMode  ViewMode
	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int

	// Manual orientation, used when no sensor stream is attached.
	manualAz float64
	manualEl float64
	stepIdx  int

	// Ranked candidates for the observer and cursor into them.
	candidates []catalog.Candidate
	cursor     int

	snapshot state.Snapshot
	lastErr  error
}

// New creates the root model and selects the initial target.
func New(cfg Config) (Model, error) {
	if cfg.Log == nil {
		cfg.Log = logging.Discard()
	}
	if cfg.Satellite == "" {
		cfg.Satellite = "Nilesat 201"
	}
	m := Model{
		cfg:     cfg,
		log:     cfg.Log.With("ui"),
		stepIdx: 1,
	}
	if err := m.refreshCandidates(); err != nil {
		return Model{}, err
	}
	sat, err := cfg.Catalog.Lookup(cfg.Satellite)
	if err != nil {
		return Model{}, err
	}
	if err := m.selectTarget(sat); err != nil {
		return Model{}, err
	}

	// Start the manual reading off-target so guidance has work to do.
	if t := m.snapshot.Target; t != nil {
		m.manualAz = astro.NormalizeAzimuth(t.Angles.AzimuthDeg - 20)
		m.manualEl = astro.Clamp(t.Angles.ElevationDeg-10, 0, 90)
	}
	return m, nil
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(), animTickCmd()}
	if m.cfg.Samples != nil {
		cmds = append(cmds, waitForSample(m.cfg.Samples))
	} else {
		cmds = append(cmds, m.manualSampleCmd())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

	case TickMsg:
		cmds = append(cmds, tickCmd())
		m.snapshot = m.cfg.Session.Snapshot()

	case AnimTickMsg:
		cmds = append(cmds, animTickCmd())
		m.animTick++

	case SampleMsg:
		m.feed(msg.Sample)
		if m.cfg.Samples != nil {
			cmds = append(cmds, waitForSample(m.cfg.Samples))
		}

	case streamClosedMsg:
		m.statusMsg = "Sensor stream ended"

	case savedMsg:
		m.cfg.Session.MarkSaved(msg.record.ID)
		m.lastErr = nil
		m.statusMsg = "Saved " + msg.path
		m.snapshot = m.cfg.Session.Snapshot()

	case ErrorMsg:
		m.lastErr = msg.Error
		m.statusMsg = msg.Error.Error()
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "1", "g":
		m.viewMode = ViewGuide
	case "2", "o":
		m.viewMode = ViewScope
	case "3", "l":
		m.viewMode = ViewSatellites
	case "tab":
		m.viewMode = (m.viewMode + 1) % viewCount
	case "n":
		m.nextSatellite()
		return m.manualSampleCmd()
	case "p":
		m.cycleProfile()
		return m.manualSampleCmd()
	case "s":
		return m.saveCmd()
	case "+", "=":
		if m.stepIdx < len(nudgeSteps)-1 {
			m.stepIdx++
		}
	case "-", "_":
		if m.stepIdx > 0 {
			m.stepIdx--
		}
	default:
		if m.viewMode == ViewSatellites {
			return m.updateSatellites(msg)
		}
		return m.nudge(msg.String())
	}
	return nil
}

// nudge moves the manual reading with the arrow keys.
func (m *Model) nudge(key string) tea.Cmd {
	if m.cfg.Samples != nil {
		return nil
	}
	step := nudgeSteps[m.stepIdx]
	switch key {
	case "left", "h":
		m.manualAz = astro.NormalizeAzimuth(m.manualAz - step)
	case "right":
		m.manualAz = astro.NormalizeAzimuth(m.manualAz + step)
	case "up", "k":
		m.manualEl = astro.Clamp(m.manualEl+step, -90, 90)
	case "down", "j":
		m.manualEl = astro.Clamp(m.manualEl-step, -90, 90)
	default:
		return nil
	}
	return m.manualSampleCmd()
}

func (m *Model) updateSatellites(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.candidates)-1 {
			m.cursor++
		}
	case "home":
		m.cursor = 0
	case "end":
		if len(m.candidates) > 0 {
			m.cursor = len(m.candidates) - 1
		}
	case "enter":
		if m.cursor < len(m.candidates) {
			if err := m.selectTarget(m.candidates[m.cursor].Satellite); err != nil {
				m.lastErr = err
				return nil
			}
			m.viewMode = ViewGuide
			return m.manualSampleCmd()
		}
	}
	return nil
}

// feed pushes one sample through the session.
func (m *Model) feed(s sensor.Sample) {
	res, err := m.cfg.Session.Update(s)
	if err != nil {
		m.lastErr = err
		m.cfg.Metrics.ObserveInvalidSample()
		m.log.Warn("sample rejected: %v", err)
		return
	}
	m.lastErr = nil
	m.snapshot = m.cfg.Session.Snapshot()
	m.cfg.Metrics.ObserveGuidance(res.Direction.String(), res.Confidence, m.snapshot.Last.Signal, res.Locked())
}

func (m *Model) selectTarget(sat catalog.Satellite) error {
	t, err := state.NewTarget(m.cfg.Observer, sat, m.cfg.Pointing, m.cfg.FrequencyGHz)
	if err != nil {
		return err
	}
	m.cfg.Session.SetTarget(t)
	m.cfg.Metrics.ObserveComputation(m.cfg.Pointing.Tier.String())
	m.cfg.Metrics.ObserveTarget(t.Angles.AzimuthDeg, t.Angles.ElevationDeg)
	m.snapshot = m.cfg.Session.Snapshot()
	m.statusMsg = fmt.Sprintf("Target: %s", sat.Name)
	m.log.Info("target %s az=%.2f el=%.2f", sat.Name, t.Angles.AzimuthDeg, t.Angles.ElevationDeg)
	return nil
}

// nextSatellite advances to the next visible candidate after the current
// target, wrapping around.
func (m *Model) nextSatellite() {
	visible := catalog.VisibleOnly(m.candidates)
	if len(visible) == 0 {
		m.statusMsg = "No visible satellites"
		return
	}
	current := ""
	if m.snapshot.Target != nil {
		current = m.snapshot.Target.Satellite.Name
	}
	next := visible[0]
	for i, c := range visible {
		if c.Satellite.Name == current {
			next = visible[(i+1)%len(visible)]
			break
		}
	}
	if err := m.selectTarget(next.Satellite); err != nil {
		m.lastErr = err
	}
}

// cycleProfile switches to the next atmospheric profile and re-solves.
func (m *Model) cycleProfile() {
	m.cfg.Pointing.Profile = m.cfg.Pointing.Profile.Next()
	if err := m.refreshCandidates(); err != nil {
		m.lastErr = err
		return
	}
	if t := m.snapshot.Target; t != nil {
		if err := m.selectTarget(t.Satellite); err != nil {
			m.lastErr = err
			return
		}
	}
	m.statusMsg = "Profile: " + m.cfg.Pointing.Profile.String()
}

func (m *Model) refreshCandidates() error {
	cands, err := m.cfg.Catalog.Visible(m.cfg.Observer, m.cfg.MinElevation, catalog.VisibleOptions{
		Pointing:     m.cfg.Pointing,
		FrequencyGHz: m.cfg.FrequencyGHz,
	})
	if err != nil {
		return err
	}
	m.candidates = cands
	if m.cursor >= len(cands) {
		m.cursor = 0
	}
	return nil
}

func (m Model) manualSampleCmd() tea.Cmd {
	if m.cfg.Samples != nil {
		return nil
	}
	s := sensor.Sample{AzimuthDeg: m.manualAz, ElevationDeg: m.manualEl, Time: time.Now()}
	return func() tea.Msg { return SampleMsg{Sample: s} }
}

func (m Model) saveCmd() tea.Cmd {
	snap := m.cfg.Session.Snapshot()
	dir := m.cfg.RecordsDir
	return func() tea.Msg {
		rec, err := report.NewRecord(snap, time.Now())
		if err != nil {
			return ErrorMsg{Error: fmt.Errorf("save: %w", err)}
		}
		path, err := report.Save(dir, rec)
		if err != nil {
			return ErrorMsg{Error: fmt.Errorf("save: %w", err)}
		}
		return savedMsg{record: rec, path: path}
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var content string
	switch m.viewMode {
	case ViewGuide:
		content = renderGuide(m.snapshot, m.cfg.Session.RecentEvents(eventStripLen))
	case ViewScope:
		content = renderScope(m.snapshot, m.width, m.height-12)
	case ViewSatellites:
		content = renderSatellites(m.candidates, m.cursor, m.snapshot, m.height-12)
	}

	return m.renderHeader() + "\n" + content + "\n" + m.renderFooter()
}

func (m Model) renderHeader() string {
	var b strings.Builder
	b.WriteString("\n")
	title := "  LS-SATFINDER"
	for col, r := range title {
		style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(gradientColor(col, len(title))))
		b.WriteString(style.Render(string(r)))
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  v%s · %s · %s", version.Version, m.cfg.Observer, m.cfg.Pointing.Profile)))
	b.WriteString("\n\n")
	b.WriteString(m.renderTabs())
	b.WriteString("\n")
	return b.String()
}

// gradientColor returns a hex color along a blue to magenta ramp.
func gradientColor(col, width int) string {
	t := float64(col) / float64(width)
	var r, g, b float64
	if t < 0.5 {
		s := t * 2
		r = 59 + s*(139-59)
		g = 130 + s*(92-130)
		b = 246
	} else {
		s := (t - 0.5) * 2
		r = 139 + s*(217-139)
		g = 92 + s*(70-92)
		b = 246 + s*(239-246)
	}
	return fmt.Sprintf("#%02X%02X%02X", int(r), int(g), int(b))
}

func (m Model) renderTabs() string {
	tabs := []string{"[1] Guide", "[2] Scope", "[3] Satellites"}
	var parts []string
	for i, tab := range tabs {
		if ViewMode(i) == m.viewMode {
			parts = append(parts, activeTabStyle.Render("▶ "+tab))
		} else {
			parts = append(parts, mutedStyle.Render("  "+tab))
		}
	}
	return "  " + strings.Join(parts, "  ")
}

func (m Model) renderFooter() string {
	spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	spinner := spinnerFrames[m.animTick%len(spinnerFrames)]

	var status string
	switch {
	case m.lastErr != nil:
		status = errorStyle.Render("ERROR: " + m.lastErr.Error())
	case m.cfg.Samples != nil:
		status = accentStyle.Render(spinner) + mutedStyle.Render(fmt.Sprintf(" sensor · %d samples", m.snapshot.Samples))
	default:
		status = accentStyle.Render("✎") + mutedStyle.Render(fmt.Sprintf(" manual · step %.1f°", nudgeSteps[m.stepIdx]))
	}

	var help string
	switch m.viewMode {
	case ViewSatellites:
		help = "↑↓: select | enter: target | n: next | p: profile | s: save | q: quit"
	default:
		help = "←→↑↓: move | +/-: step | n: next sat | p: profile | s: save | q: quit"
	}

	footer := "  " + status + "  " + mutedStyle.Render("|") + "  " + mutedStyle.Render(help)
	if m.statusMsg != "" {
		footer += "\n  " + mutedStyle.Render(m.statusMsg)
	}
	return footer
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

func waitForSample(ch <-chan sensor.Sample) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return SampleMsg{Sample: s}
	}
}
