package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"splice/internal/config"
	"splice/internal/logging"
	"splice/internal/services"
)

func decodeJSONLine(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(data), &payload); err != nil {
		t.Fatalf("decode json log %q: %v", data, err)
	}
	return payload
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello from test")

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), "hello from test") {
		t.Fatalf("expected message in log file, got %q", content)
	}
}

func TestConsoleLineLayout(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithBatchJob(context.Background(), "intro")
	ctx = services.WithRunID(ctx, "0123456789abcdef")
	ctx = services.WithStage(ctx, "render-frames")
	logging.WithContext(ctx, logging.NewComponentLogger(logger, "concat")).Info("frames rendered",
		logging.Int("frames", 240),
		logging.Duration("elapsed", 1234567*time.Microsecond),
		logging.String("note", "two words"),
	)

	line := buf.String()
	for _, want := range []string{
		"INFO  concat [intro/render-frames] frames rendered",
		"frames=240",
		"elapsed=1.235s",
		`note="two words"`,
		"run_id=01234567\n",
	} {
		if !strings.Contains(line, want) {
			t.Fatalf("console line missing %q:\n%s", want, line)
		}
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no source at info level: %s", line)
	}
}

func TestConsoleIncludesSourceAtDebug(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "debug", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Debug("with source")
	if !strings.Contains(buf.String(), "source=logger_test.go:") {
		t.Fatalf("expected source annotation, got %q", buf.String())
	}
}

func TestJSONLoggerShape(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("json message", logging.String("k", "v"), logging.Duration("stage_duration", 1500*time.Millisecond))

	payload := decodeJSONLine(t, buf.Bytes())
	for _, key := range []string{"ts", "level", "msg", "k"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("expected key %q in %v", key, payload)
		}
	}
	if payload["level"] != "info" {
		t.Fatalf("expected lowercase level, got %v", payload["level"])
	}
	if payload["stage_duration_ms"] != float64(1500) {
		t.Fatalf("expected duration in milliseconds, got %v", payload)
	}
	if ts, _ := payload["ts"].(string); !strings.HasSuffix(ts, "Z") || !strings.Contains(ts, ".") {
		t.Fatalf("expected UTC millisecond timestamp, got %q", ts)
	}
}

func TestNewRejectsUnknownFormatAndLevel(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
	if _, err := logging.New(logging.Options{Level: "verbose"}); err == nil {
		t.Fatal("expected error for unsupported level")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range cases {
		got, err := logging.ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
}

func TestWithContextAddsFields(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRunID(ctx, "run-123")
	ctx = services.WithStage(ctx, "render-frames")
	ctx = services.WithBatchJob(ctx, "outro")

	var buf bytes.Buffer
	logging.WithContext(ctx, slog.New(slog.NewJSONHandler(&buf, nil))).Info("contextual log")

	payload := decodeJSONLine(t, buf.Bytes())
	want := map[string]string{
		logging.FieldRunID: "run-123",
		logging.FieldStage: "render-frames",
		logging.FieldJob:   "outro",
	}
	for key, value := range want {
		if payload[key] != value {
			t.Fatalf("field %s = %v, want %q", key, payload[key], value)
		}
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	logging.WarnWithContext(logger, "workspace cleanup failed", "workspace_cleanup_failed",
		logging.Impact("disk space not reclaimed"))

	payload := decodeJSONLine(t, buf.Bytes())
	if payload[logging.FieldEventType] != "workspace_cleanup_failed" {
		t.Fatalf("unexpected event type: %v", payload[logging.FieldEventType])
	}
	if payload[logging.FieldErrorHint] == nil {
		t.Fatal("expected default error hint")
	}
	if payload[logging.FieldImpact] != "disk space not reclaimed" {
		t.Fatalf("impact overwritten: %v", payload[logging.FieldImpact])
	}
}

func TestErrorWithContextDerivesHintFromError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	err := services.Wrap(services.ErrExternalTool, "transcode-video", "ffmpeg", "exit 1", errors.New("boom"))
	logging.ErrorWithContext(logger, "run failed", "run_failure", logging.Error(err))

	payload := decodeJSONLine(t, buf.Bytes())
	hint, _ := payload[logging.FieldErrorHint].(string)
	if !strings.Contains(hint, "splice doctor") {
		t.Fatalf("expected tool hint, got %q", hint)
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should not be enabled")
	}
	logging.NewComponentLogger(nil, "workspace").Info("ignored")
}
