package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRun_AllPass(t *testing.T) {
	hc := NewChecker("1.0.0")
	hc.Add("ping", func(ctx context.Context) error { return nil }, time.Second)
	hc.AddCritical("catalogs", func(ctx context.Context) error { return nil }, 0)

	report := hc.Run(context.Background())

	if report.Status != StatusHealthy {
		t.Errorf("Expected healthy, got %s", report.Status)
	}
	if len(report.Checks) != 2 {
		t.Errorf("Expected 2 checks, got %d", len(report.Checks))
	}
	if report.Version != "1.0.0" {
		t.Errorf("Expected version 1.0.0, got %s", report.Version)
	}
}

func TestRun_Aggregation(t *testing.T) {
	fail := func(ctx context.Context) error { return errors.New("down") }
	pass := func(ctx context.Context) error { return nil }

	tests := []struct {
		name     string
		setup    func(hc *Checker)
		expected Status
	}{
		{"non-critical failure degrades", func(hc *Checker) {
			hc.Add("a", pass, 0)
			hc.Add("b", fail, 0)
		}, StatusDegraded},
		{"critical failure is unhealthy", func(hc *Checker) {
			hc.Add("a", fail, 0)
			hc.AddCritical("b", fail, 0)
		}, StatusUnhealthy},
		{"no checks", func(hc *Checker) {}, StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewChecker("")
			tt.setup(hc)
			if got := hc.Run(context.Background()).Status; got != tt.expected {
				t.Errorf("Status = %s, want %s", got, tt.expected)
			}
		})
	}
}

func TestRun_Timeout(t *testing.T) {
	hc := NewChecker("")
	hc.AddCritical("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}, 10*time.Millisecond)

	report := hc.Run(context.Background())
	if report.Status != StatusUnhealthy {
		t.Errorf("Expected unhealthy, got %s", report.Status)
	}
	if report.Checks["slow"].Error == "" {
		t.Error("timed out check should report its error")
	}
}

func TestHandler(t *testing.T) {
	tests := []struct {
		name   string
		fail   bool
		status int
	}{
		{"healthy", false, http.StatusOK},
		{"unhealthy", true, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewChecker("test")
			hc.AddCritical("live", func(ctx context.Context) error {
				if tt.fail {
					return errors.New("down")
				}
				return nil
			}, 0)

			rec := httptest.NewRecorder()
			hc.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			var report Report
			if err := json.NewDecoder(rec.Body).Decode(&report); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if _, ok := report.Checks["live"]; !ok {
				t.Error("report should include the live check")
			}
		})
	}
}

func TestCapacityCheck(t *testing.T) {
	n := 3
	check := CapacityCheck("sessions", func() int { return n }, 4)

	if err := check(context.Background()); err != nil {
		t.Errorf("below capacity: %v", err)
	}
	n = 4
	if err := check(context.Background()); err == nil {
		t.Error("at capacity should fail")
	}
	if err := CapacityCheck("sessions", func() int { return 99 }, 0)(context.Background()); err != nil {
		t.Errorf("disabled check failed: %v", err)
	}
}

func TestKeyParityCheck(t *testing.T) {
	ref := []string{"a", "b"}

	if err := KeyParityCheck(ref, map[string][]string{"th": {"a", "b", "c"}})(context.Background()); err != nil {
		t.Errorf("complete catalog: %v", err)
	}
	if err := KeyParityCheck(ref, map[string][]string{"th": {"a"}})(context.Background()); err == nil {
		t.Error("missing keys should fail")
	}
}
