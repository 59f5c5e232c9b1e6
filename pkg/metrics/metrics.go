// Package metrics records live connection and site activity with the
// OpenTelemetry metric SDK and serves the current values as plain text.
//
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

const meterName = "github.com/hexagonlabs/hexagon"

// Instrument names.
const (
	NameConnectionsActive = "hexagon.live.connections.active"
	NameConnectionsTotal  = "hexagon.live.connections"
	NameEvents            = "hexagon.live.events"
	NameRenderDuration    = "hexagon.live.render.duration"
	NameDiffSize          = "hexagon.live.diff.size"
	NameLoginAttempts     = "hexagon.login.attempts"
	NameRegistrations     = "hexagon.registrations"
)

// Login outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeFailure  = "failure"
	OutcomeCanceled = "canceled"
)

// Metrics owns a meter provider read on demand by Handler.
type Metrics struct {
	provider *sdkmetric.MeterProvider
	reader   *sdkmetric.ManualReader

	connectionsActive metric.Int64UpDownCounter
	connectionsTotal  metric.Int64Counter
	events            metric.Int64Counter
	renderDuration    metric.Float64Histogram
	diffSize          metric.Int64Histogram
	loginAttempts     metric.Int64Counter
	registrations     metric.Int64Counter
}

// New creates the provider and every instrument. opts are passed to the
// meter provider, e.g. sdkmetric.WithResource.
func New(opts ...sdkmetric.Option) (*Metrics, error) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(append(opts, sdkmetric.WithReader(reader))...)
	meter := provider.Meter(meterName)

	m := &Metrics{provider: provider, reader: reader}

	var errs []error
	track := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	var err error
	m.connectionsActive, err = meter.Int64UpDownCounter(NameConnectionsActive,
		metric.WithDescription("Open live connections"))
	track(err)
	m.connectionsTotal, err = meter.Int64Counter(NameConnectionsTotal,
		metric.WithDescription("Live connections accepted"))
	track(err)
	m.events, err = meter.Int64Counter(NameEvents,
		metric.WithDescription("Client events handled"))
	track(err)
	m.renderDuration, err = meter.Float64Histogram(NameRenderDuration,
		metric.WithDescription("Component render time"), metric.WithUnit("ms"))
	track(err)
	m.diffSize, err = meter.Int64Histogram(NameDiffSize,
		metric.WithDescription("Rendered HTML size"), metric.WithUnit("By"))
	track(err)
	m.loginAttempts, err = meter.Int64Counter(NameLoginAttempts,
		metric.WithDescription("Sign-in attempts by provider and outcome"))
	track(err)
	m.registrations, err = meter.Int64Counter(NameRegistrations,
		metric.WithDescription("Completed registration wizards"))
	track(err)

	if len(errs) > 0 {
		_ = provider.Shutdown(context.Background())
		return nil, fmt.Errorf("create instruments: %w", errors.Join(errs...))
	}
	return m, nil
}

// ConnectionOpened counts an accepted live connection.
func (m *Metrics) ConnectionOpened(ctx context.Context, component string) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("component", component))
	m.connectionsActive.Add(ctx, 1, attrs)
	m.connectionsTotal.Add(ctx, 1, attrs)
}

// ConnectionClosed releases a connection counted by ConnectionOpened.
func (m *Metrics) ConnectionClosed(ctx context.Context, component string) {
	if m == nil {
		return
	}
	m.connectionsActive.Add(ctx, -1, metric.WithAttributes(attribute.String("component", component)))
}

// Event counts a handled client event. Event names come from the client, so
// only the component and the result are recorded.
func (m *Metrics) Event(ctx context.Context, component string, failed bool) {
	if m == nil {
		return
	}
	status := "ok"
	if failed {
		status = "error"
	}
	m.events.Add(ctx, 1, metric.WithAttributes(
		attribute.String("component", component),
		attribute.String("status", status),
	))
}

// Render records one render of component producing size bytes.
func (m *Metrics) Render(ctx context.Context, component string, d time.Duration, size int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("component", component))
	m.renderDuration.Record(ctx, float64(d)/float64(time.Millisecond), attrs)
	m.diffSize.Record(ctx, int64(size), attrs)
}

// LoginAttempt counts a finished sign-in attempt.
func (m *Metrics) LoginAttempt(ctx context.Context, provider, outcome string) {
	if m == nil {
		return
	}
	m.loginAttempts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("outcome", outcome),
	))
}

// RegistrationCompleted counts a wizard that reached the login hand-off.
func (m *Metrics) RegistrationCompleted(ctx context.Context) {
	if m == nil {
		return
	}
	m.registrations.Add(ctx, 1)
}

// Point is one collected series. Histograms carry Count and Sum; sums carry
// Value.
type Point struct {
	Name       string
	Attributes map[string]string
	Value      float64
	Count      uint64
	Sum        float64
	Histogram  bool
}

// Snapshot collects the current value of every series, sorted by name and
// attributes.
func (m *Metrics) Snapshot(ctx context.Context) ([]Point, error) {
	if m == nil {
		return nil, nil
	}

	var rm metricdata.ResourceMetrics
	if err := m.reader.Collect(ctx, &rm); err != nil {
		return nil, fmt.Errorf("collect metrics: %w", err)
	}

	var points []Point
	for _, sm := range rm.ScopeMetrics {
		for _, md := range sm.Metrics {
			switch data := md.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					points = append(points, Point{Name: md.Name, Attributes: attrMap(dp.Attributes), Value: float64(dp.Value)})
				}
			case metricdata.Sum[float64]:
				for _, dp := range data.DataPoints {
					points = append(points, Point{Name: md.Name, Attributes: attrMap(dp.Attributes), Value: dp.Value})
				}
			case metricdata.Histogram[int64]:
				for _, dp := range data.DataPoints {
					points = append(points, Point{Name: md.Name, Attributes: attrMap(dp.Attributes), Count: dp.Count, Sum: float64(dp.Sum), Histogram: true})
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					points = append(points, Point{Name: md.Name, Attributes: attrMap(dp.Attributes), Count: dp.Count, Sum: dp.Sum, Histogram: true})
				}
			}
		}
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].Name != points[j].Name {
			return points[i].Name < points[j].Name
		}
		return labels(points[i].Attributes) < labels(points[j].Attributes)
	})
	return points, nil
}

// Handler serves the snapshot in the Prometheus text style: one line per
// series, histograms as _count and _sum.
func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		points, err := m.Snapshot(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")

		var b strings.Builder
		for _, p := range points {
			name := strings.ReplaceAll(p.Name, ".", "_")
			l := labels(p.Attributes)
			if p.Histogram {
				fmt.Fprintf(&b, "%s_count%s %d\n", name, l, p.Count)
				fmt.Fprintf(&b, "%s_sum%s %g\n", name, l, p.Sum)
				continue
			}
			fmt.Fprintf(&b, "%s%s %g\n", name, l, p.Value)
		}
		_, _ = w.Write([]byte(b.String()))
	})
}

// Shutdown stops the provider. Later records are dropped.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil {
		return nil
	}
	return m.provider.Shutdown(ctx)
}

func attrMap(set attribute.Set) map[string]string {
	if set.Len() == 0 {
		return nil
	}
	out := make(map[string]string, set.Len())
	iter := set.Iter()
	for iter.Next() {
		kv := iter.Attribute()
		out[string(kv.Key)] = kv.Value.Emit()
	}
	return out
}

func labels(attrs map[string]string) string {
	if len(attrs) == 0 {
		return ""
	}
	keys := make([]string, 0, len(attrs))
	for k := range attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%q", k, attrs[k])
	}
	return "{" + strings.Join(parts, ",") + "}"
}
