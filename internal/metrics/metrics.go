// Package metrics exposes Prometheus collectors for pointing requests,
// guidance samples and alignment session events.
package metrics

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "satfinder"

// Collector bundles the application's metrics.
type Collector struct {
	gatherer prometheus.Gatherer

	HTTPRequests  *prometheus.CounterVec
	HTTPDurations *prometheus.HistogramVec

	Computations   *prometheus.CounterVec
	GuidanceSteps  *prometheus.CounterVec
	SessionEvents  *prometheus.CounterVec
	InvalidSamples prometheus.Counter

	TargetAzimuth      prometheus.Gauge
	TargetElevation    prometheus.Gauge
	SignalQuality      prometheus.Gauge
	GuidanceConfidence prometheus.Gauge
	Locked             prometheus.Gauge
}

// New registers the collectors against reg, defaulting to the global
// registry when nil. Registering twice on the same registry reuses the
// existing collectors.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	c := &Collector{gatherer: gatherer}
	var err error

	if c.HTTPRequests, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests handled, labeled by method, route and status code.",
	}, []string{"method", "route", "code"})); err != nil {
		return nil, err
	}
	if c.HTTPDurations, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 1},
	}, []string{"method", "route"})); err != nil {
		return nil, err
	}
	if c.Computations, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pointing_computations_total",
		Help:      "Look-angle solutions computed, labeled by precision tier.",
	}, []string{"tier"})); err != nil {
		return nil, err
	}
	if c.GuidanceSteps, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guidance_samples_total",
		Help:      "Orientation samples evaluated, labeled by resulting direction.",
	}, []string{"direction"})); err != nil {
		return nil, err
	}
	if c.SessionEvents, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_events_total",
		Help:      "Alignment session events, labeled by type.",
	}, []string{"type"})); err != nil {
		return nil, err
	}
	if c.InvalidSamples, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "invalid_samples_total",
		Help:      "Orientation samples rejected as malformed or non-finite.",
	})); err != nil {
		return nil, err
	}

	gauges := []struct {
		dst  *prometheus.Gauge
		name string
		help string
	}{
		{&c.TargetAzimuth, "target_azimuth_degrees", "Azimuth of the current alignment target."},
		{&c.TargetElevation, "target_elevation_degrees", "Elevation of the current alignment target."},
		{&c.SignalQuality, "signal_quality", "Latest measured or predicted signal quality (0-100)."},
		{&c.GuidanceConfidence, "guidance_confidence", "Confidence of the latest guidance result (0-1)."},
		{&c.Locked, "locked", "1 while the antenna is within lock tolerance."},
	}
	for _, g := range gauges {
		if *g.dst, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      g.name,
			Help:      g.help,
		})); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// Handler exposes a ready-to-use /metrics handler.
func (c *Collector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// ObserveHTTP records one handled request.
func (c *Collector) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDurations.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveComputation counts one pointing solution.
func (c *Collector) ObserveComputation(tier string) {
	if c == nil {
		return
	}
	c.Computations.WithLabelValues(tier).Inc()
}

// ObserveTarget publishes the active target.
func (c *Collector) ObserveTarget(azimuthDeg, elevationDeg float64) {
	if c == nil {
		return
	}
	c.TargetAzimuth.Set(azimuthDeg)
	c.TargetElevation.Set(elevationDeg)
}

// ObserveGuidance records one guidance decision.
func (c *Collector) ObserveGuidance(direction string, confidence, signal float64, locked bool) {
	if c == nil {
		return
	}
	c.GuidanceSteps.WithLabelValues(direction).Inc()
	c.GuidanceConfidence.Set(confidence)
	c.SignalQuality.Set(signal)
	if locked {
		c.Locked.Set(1)
	} else {
		c.Locked.Set(0)
	}
}

// ObserveEvent counts a session event.
func (c *Collector) ObserveEvent(eventType string) {
	if c == nil {
		return
	}
	c.SessionEvents.WithLabelValues(eventType).Inc()
}

// ObserveInvalidSample counts a rejected sample.
func (c *Collector) ObserveInvalidSample() {
	if c == nil {
		return
	}
	c.InvalidSamples.Inc()
}

// register adds col to reg, returning the already-registered collector of
// the same type when there is one.
func register[T prometheus.Collector](reg prometheus.Registerer, col T) (T, error) {
	if err := reg.Register(col); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing, nil
			}
			var zero T
			return zero, fmt.Errorf("collector already registered with incompatible type: %w", err)
		}
		var zero T
		return zero, err
	}
	return col, nil
}
