package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hexagonlabs/hexagon/internal/config"
	"github.com/hexagonlabs/hexagon/pkg/health"
	"github.com/hexagonlabs/hexagon/pkg/i18n"
	"github.com/hexagonlabs/hexagon/pkg/logging"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv, err := newServer(config.DefaultConfig(), logging.NopLogger{})
	if err != nil {
		t.Fatalf("newServer: %v", err)
	}
	ts := httptest.NewServer(srv.http.Handler)
	t.Cleanup(ts.Close)
	return ts
}

func get(t *testing.T, url string, header http.Header) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		t.Fatal(err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp, string(body)
}

func TestRoutes(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		path   string
		status int
		want   string
	}{
		{"/", http.StatusOK, `data-live-view="landing"`},
		{"/register", http.StatusOK, `data-slot="step"`},
		{"/login", http.StatusOK, `data-slot="login"`},
		{"/auth", http.StatusOK, `data-slot="login"`},
		{"/dashboard", http.StatusOK, `data-live-view="dashboard"`},
		{"/_live/hexagon.js", http.StatusOK, "phx_join"},
		{"/metrics", http.StatusOK, ""},
		{"/missing", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, ts.URL+tt.path, nil)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if tt.want != "" && !strings.Contains(body, tt.want) {
				t.Errorf("body missing %q", tt.want)
			}
		})
	}
}

func TestPagesCarrySecurityHeaders(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts.URL+"/", nil)
	csp := resp.Header.Get("Content-Security-Policy")
	if !strings.Contains(csp, "nonce-") {
		t.Fatalf("CSP without nonce: %q", csp)
	}
	if !strings.Contains(body, `nonce="`) {
		t.Error("client script tag without nonce")
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("request ID header missing")
	}
}

func TestLanguageSelection(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts.URL+"/?lang=th", nil)
	if !strings.Contains(body, `<html lang="th">`) {
		t.Error("lang=th not rendered in Thai")
	}
	var persisted bool
	for _, c := range resp.Cookies() {
		if c.Name == i18n.LangCookieName && c.Value == "th" {
			persisted = true
		}
	}
	if !persisted {
		t.Error("language cookie not set")
	}

	_, body = get(t, ts.URL+"/", http.Header{"Cookie": {i18n.LangCookieName + "=th"}})
	if !strings.Contains(body, `<html lang="th">`) {
		t.Error("cookie locale ignored")
	}

	resp, body = get(t, ts.URL+"/", http.Header{"Accept-Language": {"th-TH,th;q=0.9"}})
	if !strings.Contains(body, `<html lang="th">`) {
		t.Error("Accept-Language ignored")
	}
	if len(resp.Cookies()) != 0 {
		t.Error("negotiated locale should not be persisted")
	}
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, body := get(t, ts.URL+"/healthz", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var report health.Report
	if err := json.Unmarshal([]byte(body), &report); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if report.Status != health.StatusHealthy {
		t.Errorf("status = %s", report.Status)
	}
	for _, name := range []string{"live_sessions", "translations"} {
		if _, ok := report.Checks[name]; !ok {
			t.Errorf("check %s missing", name)
		}
	}
}

func TestNewServerRejectsUnknownLocale(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.I18n.DefaultLocale = "fr"
	if _, err := newServer(cfg, logging.NopLogger{}); err == nil {
		t.Error("expected an error for a locale without catalog")
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	cmd := rootCmd()
	if err := cmd.ParseFlags([]string{"--addr", ":9999", "--log-level", "debug", "--dev"}); err != nil {
		t.Fatal(err)
	}

	var flags serveFlags
	flags.addr, flags.logLevel, flags.dev = ":9999", "debug", true

	cfg := config.DefaultConfig()
	if err := flags.apply(cmd, cfg); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if cfg.Server.Addr != ":9999" || cfg.Log.Level != "debug" || !cfg.Live.DevMode {
		t.Errorf("flags not applied: %+v", cfg)
	}

	flags.logLevel = "loud"
	cfg = config.DefaultConfig()
	if err := flags.apply(cmd, cfg); err == nil {
		t.Error("invalid level should fail validation")
	}
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatal(err)
	}
	if got := out.String(); got != "hexagon dev\n" {
		t.Errorf("output = %q", got)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.Addr = "127.0.0.1:0"
	srv, err := newServer(cfg, logging.NopLogger{})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}
