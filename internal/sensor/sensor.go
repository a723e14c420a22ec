// Package sensor reads fused antenna orientation samples from line-oriented
// streams and generates simulated sweeps for demos and tests.
package sensor

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/litescript/ls-satfinder/internal/astro"
	"github.com/litescript/ls-satfinder/internal/guidance"
	"github.com/litescript/ls-satfinder/internal/logging"
)

// ErrSkip marks blank and comment lines.
var ErrSkip = errors.New("no sample on line")

// Sample is one orientation reading, optionally with a measured signal
// quality in [0, 100].
type Sample struct {
	AzimuthDeg   float64   `json:"azimuth"`
	ElevationDeg float64   `json:"elevation"`
	Signal       float64   `json:"signal"`
	HasSignal    bool      `json:"-"`
	Time         time.Time `json:"time"`
}

// Orientation returns the sample's heading with azimuth normalized.
func (s Sample) Orientation() guidance.Orientation {
	return guidance.Orientation{
		AzimuthDeg:   astro.NormalizeAzimuth(s.AzimuthDeg),
		ElevationDeg: s.ElevationDeg,
	}
}

type jsonSample struct {
	Azimuth   *float64 `json:"azimuth"`
	Elevation *float64 `json:"elevation"`
	Signal    *float64 `json:"signal"`
}

// ParseLine parses "azimuth elevation [signal]" with fields separated by
// commas and/or whitespace, or a JSON object with the same keys. Blank lines
// and lines starting with '#' return ErrSkip.
func ParseLine(line string) (Sample, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Sample{}, ErrSkip
	}
	if strings.HasPrefix(line, "{") {
		return parseJSON(line)
	}

	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t'
	})
	if len(fields) < 2 || len(fields) > 3 {
		return Sample{}, &astro.InputError{Field: "line", Value: line, Reason: "want azimuth elevation [signal]"}
	}

	names := []string{"azimuth", "elevation", "signal"}
	vals := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil || !astro.IsFinite(v) {
			return Sample{}, &astro.InputError{Field: names[i], Value: f, Reason: "must be a finite number"}
		}
		vals[i] = v
	}

	s := Sample{AzimuthDeg: vals[0], ElevationDeg: vals[1]}
	if len(vals) == 3 {
		s.Signal, s.HasSignal = vals[2], true
	}
	return s, validate(s)
}

func parseJSON(line string) (Sample, error) {
	var js jsonSample
	if err := json.Unmarshal([]byte(line), &js); err != nil {
		return Sample{}, fmt.Errorf("%w: %v", astro.ErrInvalidInput, err)
	}
	if js.Azimuth == nil || js.Elevation == nil {
		return Sample{}, &astro.InputError{Field: "line", Value: line, Reason: "azimuth and elevation are required"}
	}
	s := Sample{AzimuthDeg: *js.Azimuth, ElevationDeg: *js.Elevation}
	if js.Signal != nil {
		s.Signal, s.HasSignal = *js.Signal, true
	}
	return s, validate(s)
}

func validate(s Sample) error {
	if s.ElevationDeg < -90 || s.ElevationDeg > 90 {
		return &astro.InputError{Field: "elevation", Value: s.ElevationDeg, Reason: "must be within [-90, 90]"}
	}
	if s.HasSignal && (s.Signal < 0 || s.Signal > 100) {
		return &astro.InputError{Field: "signal", Value: s.Signal, Reason: "must be within [0, 100]"}
	}
	return nil
}

// Stream reads samples from r and sends them on out until r is exhausted
// or ctx is cancelled. Malformed lines are logged and skipped. Stream does
// not close out. It returns the number of samples delivered.
func Stream(ctx context.Context, r io.Reader, out chan<- Sample, log *logging.Logger) (int, error) {
	if log == nil {
		log = logging.Discard()
	}
	scanner := bufio.NewScanner(r)
	n, lineNo := 0, 0
	for scanner.Scan() {
		lineNo++
		s, err := ParseLine(scanner.Text())
		if errors.Is(err, ErrSkip) {
			continue
		}
		if err != nil {
			log.Warn("line %d: %v", lineNo, err)
			continue
		}
		s.Time = time.Now()

		select {
		case out <- s:
			n++
		case <-ctx.Done():
			return n, ctx.Err()
		}
	}
	if err := scanner.Err(); err != nil {
		return n, fmt.Errorf("read samples: %w", err)
	}
	return n, nil
}
