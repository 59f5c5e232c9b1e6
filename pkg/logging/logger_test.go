package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSlogLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(WithOutput(&buf), WithJSON())

	logger.With(String("component", "register")).Info("step advanced", Int("step", 2))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "step advanced" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["component"] != "register" {
		t.Errorf("component = %v", entry["component"])
	}
	if entry["step"] != float64(2) {
		t.Errorf("step = %v", entry["step"])
	}
}

func TestSlogLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(WithOutput(&buf), WithLevel(slog.LevelWarn))

	logger.Info("hidden")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info message should be filtered at warn level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("warn message should be written")
	}
}

func TestL_FallsBackToDefault(t *testing.T) {
	if L(context.Background()) != DefaultLogger {
		t.Error("L without a context logger should return DefaultLogger")
	}

	ctx := ContextWithLogger(context.Background(), NopLogger{})
	if _, ok := L(ctx).(NopLogger); !ok {
		t.Error("L should return the context logger")
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewSlogLogger(WithOutput(&buf), WithJSON())

	var seenID string
	var seenLogger Logger
	h := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = RequestID(r.Context())
		seenLogger = LoggerFromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/register", nil))

	if seenID == "" {
		t.Fatal("request ID should be set in context")
	}
	if rec.Header().Get("X-Request-ID") != seenID {
		t.Errorf("X-Request-ID = %q, want %q", rec.Header().Get("X-Request-ID"), seenID)
	}
	if seenLogger == nil {
		t.Error("logger should be set in context")
	}
	if !strings.Contains(buf.String(), `"status":418`) {
		t.Errorf("completion log should carry the status: %s", buf.String())
	}
}

func TestRequestLogger_KeepsIncomingID(t *testing.T) {
	h := RequestLogger(NopLogger{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "abc-123" {
		t.Errorf("X-Request-ID = %q, want abc-123", got)
	}
}

func TestResponseWriter_HijackUnsupported(t *testing.T) {
	rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	if _, _, err := rw.Hijack(); err == nil {
		t.Error("Hijack on a recorder should fail")
	}
	if rw.Unwrap() == nil {
		t.Error("Unwrap should return the wrapped writer")
	}
}
