package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func fixedLogger(level Level) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New(level)
	l.SetOutput(&buf)
	l.sink.now = func() time.Time { return time.Date(2025, 1, 1, 12, 30, 45, 123e6, time.UTC) }
	return l, &buf
}

func TestLogger_LevelFilter(t *testing.T) {
	l, buf := fixedLogger(LevelWarn)
	l.Debug("hidden %d", 1)
	l.Info("hidden %d", 2)
	l.Warn("shown %d", 3)
	l.Error("shown %d", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("filtered messages leaked: %q", out)
	}
	if got := strings.Count(out, "\n"); got != 2 {
		t.Errorf("got %d lines, want 2: %q", got, out)
	}
	if !strings.HasPrefix(out, "12:30:45.123 [WARN] shown 3\n") {
		t.Errorf("unexpected format: %q", out)
	}
}

func TestLogger_With(t *testing.T) {
	l, buf := fixedLogger(LevelDebug)
	api := l.With("api")
	api.With("guidance").Info("ok")
	api.Debug("x")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.HasSuffix(lines[0], "[INFO] api.guidance: ok") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "[DEBUG] api: x") {
		t.Errorf("line 1 = %q", lines[1])
	}

	// Children share the parent's level.
	l.SetLevel(LevelError)
	if api.Enabled(LevelInfo) {
		t.Error("child ignored parent level change")
	}
}

func TestLogger_Writer(t *testing.T) {
	l, buf := fixedLogger(LevelInfo)
	w := l.With("http").Writer(LevelInfo)
	n, err := w.Write([]byte("GET /health 200\n"))
	if err != nil || n != 16 {
		t.Fatalf("Write = %d, %v", n, err)
	}
	if !strings.HasSuffix(strings.TrimSpace(buf.String()), "http: GET /health 200") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug": LevelDebug, "DEBUG": LevelDebug, "Info": LevelInfo,
		"warning": LevelWarn, "error": LevelError, "bogus": LevelInfo, "": LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error("nothing")
	if l.Enabled(LevelError) {
		t.Error("Discard logger reports enabled")
	}
}
