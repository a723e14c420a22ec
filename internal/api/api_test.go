package api

import (
	"encoding/json"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/litescript/ls-satfinder/internal/catalog"
	"github.com/litescript/ls-satfinder/internal/metrics"
	"github.com/litescript/ls-satfinder/internal/pointing"
	"github.com/litescript/ls-satfinder/internal/state"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*Server, Deps) {
	t.Helper()
	m, err := metrics.New(prometheus.NewRegistry())
	if err != nil {
		t.Fatalf("metrics.New: %v", err)
	}
	deps := Deps{
		Catalog:      catalog.Default(),
		Session:      state.NewManager(state.DefaultConfig()),
		Metrics:      m,
		Pointing:     pointing.DefaultOptions(),
		MinElevation: catalog.DefaultMinElevationDeg,
		RecordsDir:   t.TempDir(),
		Now:          func() time.Time { return fixedNow },
	}
	return New(deps), deps
}

func do(t *testing.T, s *Server, method, target, body string) (int, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.App().Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	out := map[string]any{}
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
	}
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	code, body := do(t, s, http.MethodGet, "/health", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v", body["status"])
	}
	if body["target_set"] != false {
		t.Errorf("target_set = %v before any target", body["target_set"])
	}

	do(t, s, http.MethodPut, "/api/v1/session/target", `{"latitude":30,"longitude":31,"satellite":"Nilesat 201"}`)
	if _, body = do(t, s, http.MethodGet, "/health", ""); body["target_set"] != true {
		t.Errorf("target_set = %v after PUT target", body["target_set"])
	}
}

func TestListSatellites(t *testing.T) {
	s, deps := newTestServer(t)

	code, body := do(t, s, http.MethodGet, "/api/v1/satellites", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if got := int(body["count"].(float64)); got != deps.Catalog.Len() {
		t.Errorf("count = %d, want %d", got, deps.Catalog.Len())
	}

	_, body = do(t, s, http.MethodGet, "/api/v1/satellites?region=Europe", "")
	if got := int(body["count"].(float64)); got != len(deps.Catalog.ByRegion("Europe")) {
		t.Errorf("Europe count = %d", got)
	}
}

func TestVisibleSatellites(t *testing.T) {
	s, _ := newTestServer(t)

	code, _ := do(t, s, http.MethodGet, "/api/v1/satellites/visible?lon=31", "")
	if code != http.StatusBadRequest {
		t.Errorf("missing lat: status = %d, want 400", code)
	}

	code, _ = do(t, s, http.MethodGet, "/api/v1/satellites/visible?lat=30&lon=abc", "")
	if code != http.StatusBadRequest {
		t.Errorf("bad lon: status = %d, want 400", code)
	}

	code, body := do(t, s, http.MethodGet, "/api/v1/satellites/visible?lat=30&lon=31", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d: %v", code, body)
	}
	sats := body["satellites"].([]any)
	if len(sats) == 0 {
		t.Fatal("expected visible satellites from Cairo")
	}
	found := false
	for _, raw := range sats {
		cand := raw.(map[string]any)
		if cand["visible"] != true {
			t.Errorf("hidden candidate returned without all=true: %v", cand["satellite"])
		}
		if cand["satellite"].(map[string]any)["name"] == "Nilesat 201" {
			found = true
		}
	}
	if !found {
		t.Error("Nilesat 201 should be visible from Cairo")
	}
}

func TestPointing(t *testing.T) {
	s, _ := newTestServer(t)

	code, body := do(t, s, http.MethodGet, "/api/v1/pointing?lat=30&lon=31&satellite=Nilesat%20201&tier=basic", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d: %v", code, body)
	}
	angles := body["angles"].(map[string]any)
	if az := angles["azimuth"].(float64); math.Abs(az-221.684) > 0.01 {
		t.Errorf("azimuth = %.3f, want ~221.684", az)
	}
	if el := angles["elevation"].(float64); math.Abs(el-46.301) > 0.01 {
		t.Errorf("elevation = %.3f, want ~46.301", el)
	}
}

func TestPointing_CustomLongitude(t *testing.T) {
	s, _ := newTestServer(t)
	code, body := do(t, s, http.MethodGet, "/api/v1/pointing?lat=30&lon=31&sat_lon=7", "")
	if code != http.StatusOK {
		t.Fatalf("status = %d: %v", code, body)
	}
	if body["satellite"] != "custom" {
		t.Errorf("satellite = %v, want custom", body["satellite"])
	}
}

func TestPointing_Errors(t *testing.T) {
	s, _ := newTestServer(t)
	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"unknown satellite", "lat=30&lon=31&satellite=Nope", http.StatusNotFound},
		{"latitude out of range", "lat=95&lon=31&satellite=Nilesat%20201", http.StatusBadRequest},
		{"missing latitude", "lon=31&satellite=Nilesat%20201", http.StatusBadRequest},
		{"no satellite", "lat=30&lon=31", http.StatusBadRequest},
		{"bad profile", "lat=30&lon=31&satellite=Nilesat%20201&profile=sandstorm", http.StatusBadRequest},
		{"bad tier", "lat=30&lon=31&satellite=Nilesat%20201&tier=ultra", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := do(t, s, http.MethodGet, "/api/v1/pointing?"+tt.query, "")
			if code != tt.want {
				t.Errorf("status = %d, want %d (%v)", code, tt.want, body)
			}
			if body["error"] != true {
				t.Errorf("error body = %v", body)
			}
		})
	}
}

func TestGuidance_Stateless(t *testing.T) {
	s, _ := newTestServer(t)

	code, body := do(t, s, http.MethodPost, "/api/v1/guidance",
		`{"azimuth":180.5,"elevation":45.5,"target":{"azimuth":180,"elevation":45}}`)
	if code != http.StatusOK {
		t.Fatalf("status = %d: %v", code, body)
	}
	g := body["guidance"].(map[string]any)
	if g["direction"] != "LOCKED" {
		t.Errorf("direction = %v, want LOCKED", g["direction"])
	}

	_, body = do(t, s, http.MethodPost, "/api/v1/guidance",
		`{"azimuth":150,"elevation":45,"target":{"azimuth":180,"elevation":45}}`)
	if got := body["guidance"].(map[string]any)["direction"]; got != "ROTATE RIGHT" {
		t.Errorf("direction = %v, want ROTATE RIGHT", got)
	}
}

func TestGuidance_Validation(t *testing.T) {
	s, _ := newTestServer(t)
	tests := []struct {
		name string
		body string
	}{
		{"missing azimuth", `{"elevation":45,"target":{"azimuth":180,"elevation":45}}`},
		{"elevation out of range", `{"azimuth":1,"elevation":120,"target":{"azimuth":180,"elevation":45}}`},
		{"signal out of range", `{"azimuth":1,"elevation":10,"signal":140}`},
		{"malformed json", `{"azimuth":`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, body := do(t, s, http.MethodPost, "/api/v1/guidance", tt.body); code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (%v)", code, body)
			}
		})
	}
}

func TestGuidance_SessionWithoutTarget(t *testing.T) {
	s, _ := newTestServer(t)
	code, _ := do(t, s, http.MethodPost, "/api/v1/guidance", `{"azimuth":180,"elevation":45}`)
	if code != http.StatusConflict {
		t.Errorf("status = %d, want 409", code)
	}
}

func TestSessionFlow(t *testing.T) {
	s, deps := newTestServer(t)

	code, body := do(t, s, http.MethodPut, "/api/v1/session/target",
		`{"latitude":30,"longitude":31,"satellite":"Nilesat 201","tier":"basic"}`)
	if code != http.StatusOK {
		t.Fatalf("set target: status = %d: %v", code, body)
	}
	angles := body["angles"].(map[string]any)
	az, el := angles["azimuth"].(float64), angles["elevation"].(float64)

	sample := `{"azimuth":` + jsonNum(az) + `,"elevation":` + jsonNum(el) + `,"signal":90}`
	code, body = do(t, s, http.MethodPost, "/api/v1/guidance", sample)
	if code != http.StatusOK {
		t.Fatalf("guidance: status = %d: %v", code, body)
	}
	if body["locked"] != true {
		t.Errorf("locked = %v, want true", body["locked"])
	}

	code, body = do(t, s, http.MethodGet, "/api/v1/session", "")
	if code != http.StatusOK {
		t.Fatalf("snapshot: status = %d", code)
	}
	if got := int(body["samples"].(float64)); got != 1 {
		t.Errorf("samples = %d, want 1", got)
	}

	code, body = do(t, s, http.MethodPost, "/api/v1/session/save", "")
	if code != http.StatusCreated {
		t.Fatalf("save: status = %d: %v", code, body)
	}
	if body["signal_quality"].(float64) != 90 {
		t.Errorf("signal_quality = %v, want 90", body["signal_quality"])
	}
	entries, err := os.ReadDir(deps.RecordsDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("records dir entries = %v, err = %v", entries, err)
	}

	events := deps.Session.RecentEvents(10)
	last := events[len(events)-1]
	if last.Type != state.EventSaved || last.Message != body["id"] {
		t.Errorf("last event = %+v, want ALIGNMENT_SAVED for %v", last, body["id"])
	}
}

func TestSession_Tolerances(t *testing.T) {
	tests := []struct {
		name   string
		target string
		locked bool
	}{
		{"server default", `{"latitude":30,"longitude":31,"satellite":"Nilesat 201","tier":"basic"}`, false},
		{"widened", `{"latitude":30,"longitude":31,"satellite":"Nilesat 201","tier":"basic","azimuth_tolerance":10}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestServer(t)
			code, body := do(t, s, http.MethodPut, "/api/v1/session/target", tt.target)
			if code != http.StatusOK {
				t.Fatalf("set target: status = %d: %v", code, body)
			}
			angles := body["angles"].(map[string]any)
			az, el := angles["azimuth"].(float64), angles["elevation"].(float64)

			sample := `{"azimuth":` + jsonNum(az+5) + `,"elevation":` + jsonNum(el) + `}`
			code, body = do(t, s, http.MethodPost, "/api/v1/guidance", sample)
			if code != http.StatusOK {
				t.Fatalf("guidance: status = %d: %v", code, body)
			}
			if body["locked"] != tt.locked {
				t.Errorf("locked = %v, want %v", body["locked"], tt.locked)
			}
		})
	}
}

func TestSession_GuidanceRejectsTolerances(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodPut, "/api/v1/session/target", `{"latitude":30,"longitude":31,"satellite":"Nilesat 201"}`)

	code, _ := do(t, s, http.MethodPost, "/api/v1/guidance", `{"azimuth":220,"elevation":46,"azimuth_tolerance":5}`)
	if code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", code)
	}
	_, body := do(t, s, http.MethodGet, "/api/v1/session", "")
	if got := body["samples"].(float64); got != 0 {
		t.Errorf("rejected sample reached the session: samples = %v", got)
	}
}

func TestSession_SaveWithoutTarget(t *testing.T) {
	s, _ := newTestServer(t)
	if code, _ := do(t, s, http.MethodPost, "/api/v1/session/save", ""); code != http.StatusConflict {
		t.Errorf("status = %d, want 409", code)
	}
}

func TestSession_Disabled(t *testing.T) {
	s := New(Deps{Catalog: catalog.Default()})
	if code, _ := do(t, s, http.MethodGet, "/api/v1/session", ""); code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", code)
	}
	if code, _ := do(t, s, http.MethodPost, "/api/v1/guidance", `{"azimuth":1,"elevation":1}`); code != http.StatusBadRequest {
		t.Errorf("guidance without session or target: status = %d, want 400", code)
	}
}

func TestObstacle(t *testing.T) {
	s, _ := newTestServer(t)
	tests := []struct {
		name     string
		body     string
		severity string
		obstacle bool
	}{
		{"profile clear", `{"target_elevation":30,"surrounding":[10,20,25]}`, "none", false},
		{"profile high", `{"target_elevation":30,"surrounding":[10,37]}`, "high", true},
		{"history unstable", `{"history":[90,20,85,15,80,10]}`, "moderate", true},
		{"history short", `{"history":[90,80]}`, "none", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := do(t, s, http.MethodPost, "/api/v1/obstacle", tt.body)
			if code != http.StatusOK {
				t.Fatalf("status = %d: %v", code, body)
			}
			if body["severity"] != tt.severity {
				t.Errorf("severity = %v, want %s", body["severity"], tt.severity)
			}
			if body["has_obstacle"] != tt.obstacle {
				t.Errorf("has_obstacle = %v, want %v", body["has_obstacle"], tt.obstacle)
			}
		})
	}

	if code, _ := do(t, s, http.MethodPost, "/api/v1/obstacle", `{"history":[150]}`); code != http.StatusBadRequest {
		t.Errorf("out-of-range history: status = %d, want 400", code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	do(t, s, http.MethodGet, "/api/v1/satellites", "")

	resp, err := s.App().Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(raw), `satfinder_http_requests_total{code="200",method="GET",route="/api/v1/satellites"} 1`) {
		t.Errorf("metrics output missing request counter:\n%s", raw)
	}
}

func jsonNum(v float64) string {
	b, _ := json.Marshal(v)
	return string(b)
}
