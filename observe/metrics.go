// Package observe provides the OpenTelemetry metric instruments recorded by
// the recommendation engine, search, replay runner and HTTP server.
//
// Instruments are created against a [metric.MeterProvider]. [DefaultMetrics]
// uses the global provider, which is a no-op until [InitProvider] installs
// the Prometheus exporter; tests should use [NewMetrics] with their own
// provider.
package observe

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all latif metrics.
const meterName = "github.com/poiesic/latif"

// Recommendation paths.
const (
	PathScored   = "scored"
	PathFallback = "fallback"
)

// Metrics holds all OpenTelemetry metric instruments for the application.
type Metrics struct {
	// RecommendDuration tracks the latency of one recommend call.
	RecommendDuration metric.Float64Histogram

	// Recommendations counts recommend calls. Use with attribute:
	//   attribute.String("path", PathScored|PathFallback)
	Recommendations metric.Int64Counter

	// Feedback counts feedback events. Use with attribute:
	//   attribute.Bool("relevant", ...)
	Feedback metric.Int64Counter

	// SearchQueries counts library searches.
	SearchQueries metric.Int64Counter

	// ActiveSessions tracks the number of live HTTP sessions.
	ActiveSessions metric.Int64UpDownCounter

	// ReplayScripts counts replayed scripts. Use with attribute:
	//   attribute.String("status", "passed"|"failed"|"error")
	ReplayScripts metric.Int64Counter

	// HTTPRequestDuration tracks HTTP request processing time. Use with attributes:
	//   attribute.String("method", ...), attribute.String("route", ...),
	//   attribute.Int("status", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets are histogram boundaries in seconds. Scoring is in-memory,
// so the interesting range is well under a second.
var latencyBuckets = []float64{
	0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.5,
}

// NewMetrics creates a fully initialised [Metrics] struct using mp.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	if met.RecommendDuration, err = m.Float64Histogram("latif.recommend.duration",
		metric.WithDescription("Latency of a recommend call."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.Recommendations, err = m.Int64Counter("latif.recommendations",
		metric.WithDescription("Total recommend calls by scoring path."),
	); err != nil {
		return nil, err
	}
	if met.Feedback, err = m.Int64Counter("latif.feedback",
		metric.WithDescription("Total feedback events by verdict."),
	); err != nil {
		return nil, err
	}
	if met.SearchQueries, err = m.Int64Counter("latif.search.queries",
		metric.WithDescription("Total verse library searches."),
	); err != nil {
		return nil, err
	}
	if met.ActiveSessions, err = m.Int64UpDownCounter("latif.active_sessions",
		metric.WithDescription("Number of live recommendation sessions."),
	); err != nil {
		return nil, err
	}
	if met.ReplayScripts, err = m.Int64Counter("latif.replay.scripts",
		metric.WithDescription("Total replayed session scripts by status."),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("latif.http.request.duration",
		metric.WithDescription("HTTP request latency by method and route."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, created on
// first call from [otel.GetMeterProvider].
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// RecordRecommendation records one recommend call.
func (m *Metrics) RecordRecommendation(ctx context.Context, path string, elapsed time.Duration) {
	m.Recommendations.Add(ctx, 1, metric.WithAttributes(attribute.String("path", path)))
	m.RecommendDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(attribute.String("path", path)))
}

// RecordFeedback records one feedback event.
func (m *Metrics) RecordFeedback(ctx context.Context, relevant bool) {
	m.Feedback.Add(ctx, 1, metric.WithAttributes(attribute.Bool("relevant", relevant)))
}

// RecordReplay records the outcome of one replayed script.
func (m *Metrics) RecordReplay(ctx context.Context, status string) {
	m.ReplayScripts.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// RecordRequest records one served HTTP request.
func (m *Metrics) RecordRequest(ctx context.Context, method, route string, status int, elapsed time.Duration) {
	m.HTTPRequestDuration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.Int("status", status),
	))
}

// SessionOpened increments the live session gauge.
func (m *Metrics) SessionOpened(ctx context.Context) {
	m.ActiveSessions.Add(ctx, 1)
}

// SessionClosed decrements the live session gauge.
func (m *Metrics) SessionClosed(ctx context.Context) {
	m.ActiveSessions.Add(ctx, -1)
}
