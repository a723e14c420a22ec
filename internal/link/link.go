// Package link derives link-budget figures from pointing geometry: one-way
// propagation delay, free-space path loss and a heuristic signal quality.
package link

import (
	"fmt"
	"math"
	"strings"

	"github.com/litescript/ls-satfinder/internal/pointing"
)

const (
	// SpeedOfLight in km/s (vacuum).
	SpeedOfLight = 299792.458

	// fsplConstantDB is 20·log10(4π/c) for distance in km and frequency in GHz.
	fsplConstantDB = 32.45
)

// Typical geostationary downlink frequencies in GHz.
const (
	FreqCBand  = 4.0
	FreqKuBand = 12.0
	FreqKaBand = 20.0

	DefaultFrequencyGHz = FreqKuBand
)

// Metrics are the link figures for one observer/satellite pair.
type Metrics struct {
	SlantRangeKm        float64 `json:"slant_range_km"`
	SignalDelayMs       float64 `json:"signal_delay_ms"`
	FreeSpacePathLossDB float64 `json:"free_space_path_loss_db"`
	FrequencyGHz        float64 `json:"frequency_ghz"`
	PredictedQuality    int     `json:"predicted_quality"`
}

// Options configure Compute. The zero value uses the Ku-band default and the
// Standard profile.
type Options struct {
	FrequencyGHz float64
	Profile      pointing.Profile
}

// Compute derives link metrics from a pointing solution. Quality is
// predicted from the reported (corrected) elevation.
func Compute(a pointing.Angles, opts Options) Metrics {
	freq := opts.FrequencyGHz
	if !(freq > 0) || math.IsInf(freq, 0) {
		freq = DefaultFrequencyGHz
	}
	return Metrics{
		SlantRangeKm:        a.SlantRangeKm,
		SignalDelayMs:       Delay(a.SlantRangeKm),
		FreeSpacePathLossDB: PathLoss(a.SlantRangeKm, freq),
		FrequencyGHz:        freq,
		PredictedQuality:    PredictQuality(a.ElevationDeg, opts.Profile),
	}
}

// Delay returns one-way light time in milliseconds for rangeKm.
func Delay(rangeKm float64) float64 {
	if rangeKm <= 0 {
		return 0
	}
	return rangeKm / SpeedOfLight * 1000
}

// PathLoss returns free-space path loss in dB. Non-positive inputs yield 0.
func PathLoss(rangeKm, freqGHz float64) float64 {
	if rangeKm <= 0 || freqGHz <= 0 {
		return 0
	}
	return 20*math.Log10(rangeKm) + 20*math.Log10(freqGHz) + fsplConstantDB
}

// BandFrequency returns the typical downlink frequency for a band name.
// Unknown bands fall back to Ku.
func BandFrequency(band string) float64 {
	switch strings.ToLower(strings.TrimSpace(band)) {
	case "c":
		return FreqCBand
	case "ku":
		return FreqKuBand
	case "ka":
		return FreqKaBand
	default:
		return DefaultFrequencyGHz
	}
}

// FormatDelay renders a delay for display, e.g. "124.5 ms".
func FormatDelay(ms float64) string {
	if ms <= 0 {
		return "N/A"
	}
	return fmt.Sprintf("%.1f ms", ms)
}

// FormatRange renders a slant range for display, e.g. "37,328 km".
func FormatRange(km float64) string {
	if km <= 0 {
		return "N/A"
	}
	n := int64(math.Round(km))
	s := fmt.Sprintf("%d", n)
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return b.String() + " km"
}
