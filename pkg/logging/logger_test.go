package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{" error ", slog.LevelError, false},
		{"verbose", slog.LevelWarn, true},
	}
	for _, tc := range tests {
		got, err := ParseLevel(tc.input)
		if got != tc.want || (err != nil) != tc.wantErr {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, err %v", tc.input, got, err, tc.want, tc.wantErr)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	lg := New(Config{Level: "warn", Output: &buf, Name: "test"})

	lg.Debug("hidden")
	lg.Info("hidden")
	lg.Warn("shown", "key", "value")
	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("output contains records below warn: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") || !strings.Contains(buf.String(), "key=value") {
		t.Errorf("warn record missing: %s", buf.String())
	}
	if !strings.Contains(buf.String(), "logger=test") {
		t.Errorf("logger name missing: %s", buf.String())
	}

	buf.Reset()
	lg.With("stage", "macro").SetLevel(slog.LevelDebug)
	lg.Debug("now visible")
	if !strings.Contains(buf.String(), "now visible") {
		t.Errorf("SetLevel on derived logger did not apply: %s", buf.String())
	}
}

func TestJSONRunID(t *testing.T) {
	var buf bytes.Buffer
	lg := New(Config{Level: "info", Format: FormatJSON, Output: &buf}).WithRunID()
	lg.ErrorWithErr("failed", errors.New("boom"), "line", 3)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v: %s", err, buf.String())
	}
	if rec["error"] != "boom" {
		t.Errorf("error = %v; want boom", rec["error"])
	}
	if rec["line"] != float64(3) {
		t.Errorf("line = %v; want 3", rec["line"])
	}
	id, _ := rec["run_id"].(string)
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("run_id %q is not a uuid: %v", id, err)
	}
}

func TestNop(t *testing.T) {
	lg := Nop()
	lg.Error("discarded")
	if lg.Level() != slog.LevelError {
		t.Errorf("Nop().Level() = %v; want %v", lg.Level(), slog.LevelError)
	}
}
