// Package state tracks one live alignment session with thread-safe access:
// the selected target, the latest guidance, a rolling signal window and an
// event log.
package state

import (
	"errors"
	"sync"
	"time"

	"github.com/litescript/ls-satfinder/internal/astro"
	"github.com/litescript/ls-satfinder/internal/catalog"
	"github.com/litescript/ls-satfinder/internal/guidance"
	"github.com/litescript/ls-satfinder/internal/link"
	"github.com/litescript/ls-satfinder/internal/obstacle"
	"github.com/litescript/ls-satfinder/internal/pointing"
	"github.com/litescript/ls-satfinder/internal/sensor"
)

// ErrNoTarget is returned when samples arrive before a target is set.
var ErrNoTarget = errors.New("no target selected")

// EventType represents the type of session event.
type EventType string

const (
	EventTargetSet       EventType = "TARGET_SET"
	EventLocked          EventType = "LOCKED"
	EventLockLost        EventType = "LOCK_LOST"
	EventObstacle        EventType = "OBSTACLE_DETECTED"
	EventObstacleCleared EventType = "OBSTACLE_CLEARED"
	EventSaved           EventType = "ALIGNMENT_SAVED"
)

// Event is one notable change in the session.
type Event struct {
	Type         EventType `json:"type"`
	Timestamp    time.Time `json:"timestamp"`
	Satellite    string    `json:"satellite"`
	AzimuthDeg   float64   `json:"azimuth"`
	ElevationDeg float64   `json:"elevation"`
	Message      string    `json:"message,omitempty"`
}

// Target is the satellite being aligned to and its solved geometry.
type Target struct {
	Satellite catalog.Satellite `json:"satellite"`
	Observer  astro.GeoPosition `json:"observer"`
	Options   pointing.Options  `json:"-"`
	Angles    pointing.Angles   `json:"angles"`
	Link      link.Metrics      `json:"link"`
}

// NewTarget solves geometry and link metrics for sat seen from obs.
// freqGHz of 0 uses the satellite's band.
func NewTarget(obs astro.GeoPosition, sat catalog.Satellite, opts pointing.Options, freqGHz float64) (Target, error) {
	a, err := pointing.Compute(obs, sat.LongitudeDeg, opts)
	if err != nil {
		return Target{}, err
	}
	if freqGHz <= 0 {
		freqGHz = sat.FrequencyGHz()
	}
	return Target{
		Satellite: sat,
		Observer:  obs,
		Options:   opts,
		Angles:    a,
		Link:      link.Compute(a, link.Options{FrequencyGHz: freqGHz, Profile: opts.Profile}),
	}, nil
}

// Config holds configuration for the state manager.
type Config struct {
	MaxEvents    int
	SignalWindow int
	Guidance     guidance.Options

	// OnEvent, when set, is called for every event after it is logged. It
	// runs with the manager lock released.
	OnEvent func(Event)
}

// DefaultConfig returns sensible default configuration.
func DefaultConfig() Config {
	return Config{
		MaxEvents:    50,
		SignalWindow: 20,
		Guidance:     guidance.DefaultOptions(),
	}
}

// Manager handles session state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	target    *Target
	last      sensor.Sample
	hasSample bool
	result    guidance.Result
	metrics   guidance.Metrics
	locked    bool
	lockedAt  time.Time
	samples   int

	// Rolling signal window, oldest first.
	signal       []float64
	signalWindow int
	verdict      obstacle.Verdict

	// Event log (ring buffer)
	events       []Event
	maxEvents    int
	eventWriteAt int

	opts    guidance.Options
	onEvent func(Event)
	now     func() time.Time
}

// NewManager creates a new state manager.
func NewManager(cfg Config) *Manager {
	maxEvents := cfg.MaxEvents
	if maxEvents <= 0 {
		maxEvents = 50
	}
	window := cfg.SignalWindow
	if window < obstacle.MinSamples {
		window = obstacle.MinSamples
	}
	return &Manager{
		maxEvents:    maxEvents,
		events:       make([]Event, 0, maxEvents),
		signalWindow: window,
		signal:       make([]float64, 0, window),
		opts:         cfg.Guidance,
		onEvent:      cfg.OnEvent,
		now:          time.Now,
	}
}

// SetTarget switches the session to a new target and clears per-target
// history.
func (m *Manager) SetTarget(t Target) {
	m.mu.Lock()
	m.target = &t
	m.hasSample = false
	m.result = guidance.Result{}
	m.metrics = guidance.Metrics{}
	m.locked = false
	m.lockedAt = time.Time{}
	m.samples = 0
	m.signal = m.signal[:0]
	m.verdict = obstacle.Verdict{}
	e := m.addEvent(EventTargetSet, t.Angles.AzimuthDeg, t.Angles.ElevationDeg, t.Satellite.Name)
	m.mu.Unlock()

	m.emit(e)
}

// SetGuidanceOptions replaces the lock tolerances for subsequent samples.
func (m *Manager) SetGuidanceOptions(opts guidance.Options) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opts = opts
}

// Update feeds one orientation sample through guidance and obstacle
// detection. Samples without a measured signal use the predicted strength
// for the current alignment.
func (m *Manager) Update(s sensor.Sample) (guidance.Result, error) {
	m.mu.Lock()
	if m.target == nil {
		m.mu.Unlock()
		return guidance.Result{}, ErrNoTarget
	}
	t := *m.target
	cur := s.Orientation()

	res, err := guidance.Guide(cur, t.Angles, m.opts)
	if err != nil {
		m.mu.Unlock()
		return guidance.Result{}, err
	}
	metrics, err := guidance.Assess(cur, t.Angles)
	if err != nil {
		m.mu.Unlock()
		return guidance.Result{}, err
	}

	if s.Time.IsZero() {
		s.Time = m.now()
	}
	if !s.HasSignal {
		s.Signal = float64(guidance.PredictSignalStrength(t.Angles.ElevationDeg, metrics, t.Options.Profile))
	}

	m.last = s
	m.hasSample = true
	m.result = res
	m.metrics = metrics
	m.samples++
	m.pushSignal(s.Signal)

	var pending []Event
	switch {
	case res.Locked() && !m.locked:
		m.locked = true
		m.lockedAt = s.Time
		pending = append(pending, m.addEvent(EventLocked, cur.AzimuthDeg, cur.ElevationDeg, res.Suggestion))
	case !res.Locked() && m.locked:
		m.locked = false
		m.lockedAt = time.Time{}
		pending = append(pending, m.addEvent(EventLockLost, cur.AzimuthDeg, cur.ElevationDeg, res.Direction.String()))
	}

	prev := m.verdict
	if v, err := obstacle.FromHistory(m.signal); err == nil {
		m.verdict = v
		switch {
		case v.HasObstacle && !prev.HasObstacle:
			pending = append(pending, m.addEvent(EventObstacle, cur.AzimuthDeg, cur.ElevationDeg, v.Message))
		case !v.HasObstacle && prev.HasObstacle:
			pending = append(pending, m.addEvent(EventObstacleCleared, cur.AzimuthDeg, cur.ElevationDeg, v.Message))
		}
	}
	m.mu.Unlock()

	for _, e := range pending {
		m.emit(e)
	}
	return res, nil
}

// MarkSaved logs that the current alignment was persisted.
func (m *Manager) MarkSaved(id string) {
	m.mu.Lock()
	var az, el float64
	if m.hasSample {
		o := m.last.Orientation()
		az, el = o.AzimuthDeg, o.ElevationDeg
	}
	e := m.addEvent(EventSaved, az, el, id)
	m.mu.Unlock()

	m.emit(e)
}

func (m *Manager) pushSignal(v float64) {
	if len(m.signal) == m.signalWindow {
		copy(m.signal, m.signal[1:])
		m.signal = m.signal[:len(m.signal)-1]
	}
	m.signal = append(m.signal, v)
}

// addEvent adds an event to the ring buffer. Callers hold the lock.
func (m *Manager) addEvent(typ EventType, az, el float64, msg string) Event {
	e := Event{
		Type:         typ,
		Timestamp:    m.now(),
		AzimuthDeg:   az,
		ElevationDeg: el,
		Message:      msg,
	}
	if m.target != nil {
		e.Satellite = m.target.Satellite.Name
	}
	if len(m.events) < m.maxEvents {
		m.events = append(m.events, e)
	} else {
		m.events[m.eventWriteAt] = e
		m.eventWriteAt = (m.eventWriteAt + 1) % m.maxEvents
	}
	return e
}

func (m *Manager) emit(e Event) {
	if m.onEvent != nil {
		m.onEvent(e)
	}
}

// Snapshot represents an immutable snapshot of current state.
type Snapshot struct {
	Target    *Target          `json:"target,omitempty"`
	Last      sensor.Sample    `json:"last"`
	HasSample bool             `json:"has_sample"`
	Guidance  guidance.Result  `json:"guidance"`
	Metrics   guidance.Metrics `json:"metrics"`
	Locked    bool             `json:"locked"`
	LockedFor time.Duration    `json:"locked_for"`
	Samples   int              `json:"samples"`
	Signal    []float64        `json:"signal"`
	Obstacle  obstacle.Verdict `json:"obstacle"`
	Events    []Event          `json:"events"`
}

// Snapshot returns a consistent snapshot of current state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var target *Target
	if m.target != nil {
		t := *m.target
		target = &t
	}
	signal := make([]float64, len(m.signal))
	copy(signal, m.signal)

	var lockedFor time.Duration
	if m.locked {
		lockedFor = m.last.Time.Sub(m.lockedAt)
	}

	return Snapshot{
		Target:    target,
		Last:      m.last,
		HasSample: m.hasSample,
		Guidance:  m.result,
		Metrics:   m.metrics,
		Locked:    m.locked,
		LockedFor: lockedFor,
		Samples:   m.samples,
		Signal:    signal,
		Obstacle:  m.verdict,
		Events:    m.getEventsOrdered(),
	}
}

// HasTarget reports whether a target has been selected.
func (m *Manager) HasTarget() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.target != nil
}

// getEventsOrdered returns events in chronological order.
func (m *Manager) getEventsOrdered() []Event {
	if len(m.events) == 0 {
		return nil
	}

	if len(m.events) < m.maxEvents {
		result := make([]Event, len(m.events))
		copy(result, m.events)
		return result
	}

	result := make([]Event, m.maxEvents)
	for i := 0; i < m.maxEvents; i++ {
		idx := (m.eventWriteAt + i) % m.maxEvents
		result[i] = m.events[idx]
	}
	return result
}

// RecentEvents returns the last n events, oldest first. n <= 0 returns nil.
func (m *Manager) RecentEvents(n int) []Event {
	if n <= 0 {
		return nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := m.getEventsOrdered()
	if len(all) <= n {
		return all
	}
	return all[len(all)-n:]
}
