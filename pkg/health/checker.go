// Package health reports whether the site can serve pages and live sessions.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Status represents the health status of the service.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// defaultTimeout applies to checks registered without one.
const defaultTimeout = 2 * time.Second

// CheckResult is the outcome of a single check.
type CheckResult struct {
	Status     Status `json:"status"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// Report is the aggregated outcome served at the health endpoint.
type Report struct {
	Status    Status                 `json:"status"`
	Checks    map[string]CheckResult `json:"checks"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version,omitempty"`
}

// CheckFunc reports a problem by returning an error.
type CheckFunc func(ctx context.Context) error

type check struct {
	name     string
	fn       CheckFunc
	timeout  time.Duration
	critical bool
}

// Checker runs registered checks concurrently.
type Checker struct {
	checks  []check
	version string
	mu      sync.RWMutex
}

// NewChecker creates a checker that reports version.
func NewChecker(version string) *Checker {
	return &Checker{version: version}
}

// Add registers a check whose failure degrades the service.
func (hc *Checker) Add(name string, fn CheckFunc, timeout time.Duration) {
	hc.add(check{name: name, fn: fn, timeout: timeout})
}

// AddCritical registers a check whose failure makes the service unhealthy.
func (hc *Checker) AddCritical(name string, fn CheckFunc, timeout time.Duration) {
	hc.add(check{name: name, fn: fn, timeout: timeout, critical: true})
}

func (hc *Checker) add(c check) {
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks = append(hc.checks, c)
}

// Run executes every check and aggregates the results.
func (hc *Checker) Run(ctx context.Context) Report {
	hc.mu.RLock()
	checks := make([]check, len(hc.checks))
	copy(checks, hc.checks)
	hc.mu.RUnlock()

	report := Report{
		Status:    StatusHealthy,
		Checks:    make(map[string]CheckResult, len(checks)),
		Timestamp: time.Now().UTC(),
		Version:   hc.version,
	}

	type outcome struct {
		check  check
		result CheckResult
	}

	results := make(chan outcome, len(checks))
	var wg sync.WaitGroup
	for _, c := range checks {
		wg.Add(1)
		go func(c check) {
			defer wg.Done()

			checkCtx, cancel := context.WithTimeout(ctx, c.timeout)
			defer cancel()

			start := time.Now()
			err := c.fn(checkCtx)
			res := CheckResult{
				Status:     StatusHealthy,
				DurationMS: time.Since(start).Milliseconds(),
			}
			if err != nil {
				res.Status = StatusUnhealthy
				res.Error = err.Error()
			}
			results <- outcome{check: c, result: res}
		}(c)
	}
	wg.Wait()
	close(results)

	for o := range results {
		report.Checks[o.check.name] = o.result
		if o.result.Status == StatusHealthy {
			continue
		}
		if o.check.critical {
			report.Status = StatusUnhealthy
		} else if report.Status == StatusHealthy {
			report.Status = StatusDegraded
		}
	}

	return report
}

// Handler serves the report as JSON: 503 when unhealthy, 200 otherwise.
func (hc *Checker) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		report := hc.Run(r.Context())

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		if report.Status == StatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}
		json.NewEncoder(w).Encode(report)
	})
}

// CapacityCheck fails once count reaches max. A max of zero disables it.
func CapacityCheck(what string, count func() int, max int) CheckFunc {
	return func(ctx context.Context) error {
		if max <= 0 {
			return nil
		}
		if n := count(); n >= max {
			return fmt.Errorf("%s at capacity: %d/%d", what, n, max)
		}
		return nil
	}
}

// KeyParityCheck fails when a locale catalog lacks keys present in the
// reference catalog.
func KeyParityCheck(reference []string, catalogs map[string][]string) CheckFunc {
	return func(ctx context.Context) error {
		for locale, keys := range catalogs {
			have := make(map[string]struct{}, len(keys))
			for _, k := range keys {
				have[k] = struct{}{}
			}
			var missing int
			for _, k := range reference {
				if _, ok := have[k]; !ok {
					missing++
				}
			}
			if missing > 0 {
				return fmt.Errorf("locale %s is missing %d keys", locale, missing)
			}
		}
		return nil
	}
}
