package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{
		Level:       "info",
		Format:      "json",
		Output:      &buf,
		ServiceName: "matchday-test",
	})

	log.Info("hello", "key", "value")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected valid JSON log line: %v", err)
	}
	if entry["msg"] != "hello" {
		t.Errorf("expected msg=hello, got %v", entry["msg"])
	}
	if entry["service"] != "matchday-test" {
		t.Errorf("expected service=matchday-test, got %v", entry["service"])
	}
	if entry["key"] != "value" {
		t.Errorf("expected key=value, got %v", entry["key"])
	}
}

func TestNewTextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{
		Level:  "info",
		Format: "text",
		Output: &buf,
	})

	log.Info("plain message")

	if !strings.Contains(buf.String(), "plain message") {
		t.Errorf("expected text output to contain message, got: %s", buf.String())
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{
		Level:  "warn",
		Format: "json",
		Output: &buf,
	})

	log.Info("should be dropped")
	log.Warn("should be kept")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "should be kept") {
		t.Error("warn message should pass at warn level")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"debug", "DEBUG"},
		{"info", "INFO"},
		{"WARN", "WARN"},
		{"warning", "WARN"},
		{"error", "ERROR"},
		{"bogus", "INFO"},
		{"", "INFO"},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.in).String(); got != tt.want {
			t.Errorf("parseLevel(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestWithRenderID(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json", Output: &buf})

	log.WithRenderID("rnd_abc123").Info("render started")

	if !strings.Contains(buf.String(), "rnd_abc123") {
		t.Errorf("expected render_id in output, got: %s", buf.String())
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "info", Format: "json", Output: &buf})

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithRenderID(ctx, "rnd-7")

	log.FromContext(ctx).Info("contextual")

	out := buf.String()
	if !strings.Contains(out, "req-1") {
		t.Errorf("expected request_id in output, got: %s", out)
	}
	if !strings.Contains(out, "rnd-7") {
		t.Errorf("expected render_id in output, got: %s", out)
	}
}

func TestWithErrorNil(t *testing.T) {
	log := NewDefault()
	if log.WithError(nil) != log {
		t.Error("WithError(nil) should return the same logger")
	}
}
