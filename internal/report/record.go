package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/litescript/ls-satfinder/internal/astro"
	"github.com/litescript/ls-satfinder/internal/state"
)

// AlignmentRecord is a saved, successful alignment.
type AlignmentRecord struct {
	ID              string            `json:"id"`
	Satellite       string            `json:"satellite"`
	SatLonDeg       float64           `json:"satellite_longitude"`
	Location        astro.GeoPosition `json:"location"`
	AzimuthDeg      float64           `json:"azimuth"`
	ElevationDeg    float64           `json:"elevation"`
	PolarizationDeg float64           `json:"polarization"`
	SignalQuality   float64           `json:"signal_quality"`
	Profile         string            `json:"profile"`
	Timestamp       time.Time         `json:"timestamp"`
}

// NewRecord captures the session's current target and signal.
func NewRecord(snap state.Snapshot, at time.Time) (AlignmentRecord, error) {
	if snap.Target == nil {
		return AlignmentRecord{}, state.ErrNoTarget
	}
	t := snap.Target
	return AlignmentRecord{
		ID:              uuid.NewString(),
		Satellite:       t.Satellite.Name,
		SatLonDeg:       t.Satellite.LongitudeDeg,
		Location:        t.Observer,
		AzimuthDeg:      t.Angles.AzimuthDeg,
		ElevationDeg:    t.Angles.ElevationDeg,
		PolarizationDeg: t.Angles.PolarizationDeg,
		SignalQuality:   lastSignal(snap),
		Profile:         t.Options.Profile.String(),
		Timestamp:       at.UTC(),
	}, nil
}

func lastSignal(snap state.Snapshot) float64 {
	if n := len(snap.Signal); n > 0 {
		return snap.Signal[n-1]
	}
	if snap.Target != nil {
		return float64(snap.Target.Link.PredictedQuality)
	}
	return 0
}

// WriteJSON writes the record as indented JSON.
func (r AlignmentRecord) WriteJSON(w io.Writer) error {
	return writeJSON(w, r)
}

// FileName is the record's file name inside a records directory.
func (r AlignmentRecord) FileName() string {
	short := r.ID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("alignment-%s-%s.json", slug(r.Satellite), short)
}

// Save writes r into dir, creating the directory if needed, and returns the
// file path.
func Save(dir string, r AlignmentRecord) (string, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create records dir: %w", err)
	}
	path := filepath.Join(dir, r.FileName())
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create record: %w", err)
	}
	if err := r.WriteJSON(f); err != nil {
		f.Close()
		return "", fmt.Errorf("write record: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close record: %w", err)
	}
	return path, nil
}

// LoadRecord reads a record previously written by Save.
func LoadRecord(path string) (AlignmentRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return AlignmentRecord{}, err
	}
	defer f.Close()

	var r AlignmentRecord
	if err := json.NewDecoder(f).Decode(&r); err != nil {
		return AlignmentRecord{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if _, err := uuid.Parse(r.ID); err != nil {
		return AlignmentRecord{}, fmt.Errorf("record %s: bad id: %w", path, err)
	}
	return r, nil
}

func slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
