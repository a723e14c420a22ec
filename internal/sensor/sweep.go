package sensor

import (
	"context"
	"math"
	"time"

	"github.com/litescript/ls-satfinder/internal/astro"
	"github.com/litescript/ls-satfinder/internal/guidance"
	"github.com/litescript/ls-satfinder/internal/pointing"
)

// Sweep simulates an installer converging on a target: an azimuth pass from
// a start offset followed by an elevation trim, with a little jitter.
type Sweep struct {
	Target pointing.Angles
	Start  guidance.Orientation
	Steps  int

	// Jitter is the peak hand-tremor amplitude in degrees.
	Jitter float64
}

// Samples returns the sweep as a deterministic slice ending on target.
func (s Sweep) Samples() []Sample {
	steps := s.Steps
	if steps < 2 {
		steps = 2
	}
	azSpan := astro.CircularDiff(s.Target.AzimuthDeg, s.Start.AzimuthDeg)
	elSpan := s.Target.ElevationDeg - s.Start.ElevationDeg

	half := steps / 2
	out := make([]Sample, 0, steps)
	for i := 0; i < steps; i++ {
		var az, el float64
		if i < half {
			f := ease(float64(i+1) / float64(half))
			az = s.Start.AzimuthDeg + azSpan*f
			el = s.Start.ElevationDeg
		} else {
			f := ease(float64(i-half+1) / float64(steps-half))
			az = s.Target.AzimuthDeg
			el = s.Start.ElevationDeg + elSpan*f
		}
		if i < steps-1 {
			az += s.Jitter * math.Sin(float64(i)*1.7)
			el += s.Jitter * math.Cos(float64(i)*2.3)
		}
		out = append(out, Sample{
			AzimuthDeg:   astro.NormalizeAzimuth(az),
			ElevationDeg: astro.Clamp(el, -90, 90),
		})
	}
	return out
}

// Play sends the sweep on out at the given interval. It stops early when ctx
// is cancelled and does not close out. A non-positive interval is rejected
// with an *astro.InputError before anything is sent.
func (s Sweep) Play(ctx context.Context, interval time.Duration, out chan<- Sample) error {
	if interval <= 0 {
		return &astro.InputError{Field: "interval", Value: interval, Reason: "must be positive"}
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for _, sample := range s.Samples() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-ticker.C:
			sample.Time = t
			select {
			case out <- sample:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return nil
}

// ease is a smoothstep so the simulated dish slows down near the target.
func ease(f float64) float64 {
	f = astro.Clamp(f, 0, 1)
	return f * f * (3 - 2*f)
}
