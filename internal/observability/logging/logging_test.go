package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestNewHandler_ProdJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, Config{
		Service:       ServiceInfo{Name: "flock-watch", Version: "1.2.3"},
		Environment:   EnvProd,
		Level:         slog.LevelInfo,
		DefaultModule: "ingest",
	}))

	ctx := WithRequestID(context.Background(), "req-1")
	logger.InfoContext(ctx, "pin stored", slog.String("subject_id", "ewe-1"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}

	want := map[string]string{
		"severity":   "INFO",
		"message":    "pin stored",
		"service":    "flock-watch",
		"version":    "1.2.3",
		"module":     "ingest",
		"request_id": "req-1",
		"subject_id": "ewe-1",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v, want %q", k, entry[k], v)
		}
	}
}

func TestNewHandler_ModuleOverride(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, Config{Environment: EnvDev, DefaultModule: "default"}))

	logger.InfoContext(WithModule(context.Background(), "alert"), "sent")

	if !strings.Contains(buf.String(), "module=alert") {
		t.Errorf("output %q does not carry module override", buf.String())
	}
}

func TestNewHandler_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewHandler(&buf, Config{Environment: EnvDev, Level: slog.LevelWarn}))

	logger.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info logged at warn level: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
