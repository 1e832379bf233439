// AngelaMos | 2026
// metrics.go

package core

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/JJ-P1114/jj-p1114-studio/internal/config"
)

// Metrics owns the application meter and its instruments. A nil *Metrics
// is valid and records nothing.
type Metrics struct {
	provider *sdkmetric.MeterProvider
	handler  http.Handler

	httpRequests     metric.Int64Counter
	httpDuration     metric.Float64Histogram
	ordersIssued     metric.Int64Counter
	issuanceFailures metric.Int64Counter
	keyCollisions    metric.Int64Counter
	revenue          metric.Float64Counter
	rateLimited      metric.Int64Counter
}

func NewMetrics(cfg config.MetricsConfig, appCfg config.AppConfig) (*Metrics, error) {
	if !cfg.Enabled {
		return newMetrics(noop.NewMeterProvider().Meter(instrumentationName))
	}

	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(appCfg.Name),
		semconv.ServiceVersion(appCfg.Version),
		attribute.String("environment", appCfg.Environment),
	)

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)

	m, err := newMetrics(provider.Meter(instrumentationName))
	if err != nil {
		return nil, err
	}

	m.provider = provider
	m.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return m, nil
}

func newMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	if m.httpRequests, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
	); err != nil {
		return nil, fmt.Errorf("create http_requests_total: %w", err)
	}

	if m.httpDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, fmt.Errorf("create http_request_duration_seconds: %w", err)
	}

	if m.ordersIssued, err = meter.Int64Counter(
		"orders_issued_total",
		metric.WithDescription("Completed orders with an issued license"),
	); err != nil {
		return nil, fmt.Errorf("create orders_issued_total: %w", err)
	}

	if m.issuanceFailures, err = meter.Int64Counter(
		"order_issuance_failures_total",
		metric.WithDescription("Purchase attempts that were rolled back"),
	); err != nil {
		return nil, fmt.Errorf("create order_issuance_failures_total: %w", err)
	}

	if m.keyCollisions, err = meter.Int64Counter(
		"license_key_collisions_total",
		metric.WithDescription("License keys rejected by the unique constraint"),
	); err != nil {
		return nil, fmt.Errorf("create license_key_collisions_total: %w", err)
	}

	if m.revenue, err = meter.Float64Counter(
		"order_revenue_total",
		metric.WithDescription("Sum of completed order totals"),
	); err != nil {
		return nil, fmt.Errorf("create order_revenue_total: %w", err)
	}

	if m.rateLimited, err = meter.Int64Counter(
		"rate_limited_requests_total",
		metric.WithDescription("Requests rejected by a rate limit policy"),
	); err != nil {
		return nil, fmt.Errorf("create rate_limited_requests_total: %w", err)
	}

	return m, nil
}

// Handler returns the Prometheus scrape handler, or nil when disabled.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return nil
	}
	return m.handler
}

func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil || m.provider == nil {
		return nil
	}
	return m.provider.Shutdown(ctx)
}

func (m *Metrics) RecordRequest(
	ctx context.Context,
	method, route string,
	status int,
	elapsed time.Duration,
) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.String("status", strconv.Itoa(status)),
	)
	m.httpRequests.Add(ctx, 1, attrs)
	m.httpDuration.Record(ctx, elapsed.Seconds(), attrs)
}

func (m *Metrics) OrderIssued(ctx context.Context, softwareID int64, amount float64) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.Int64("software_id", softwareID))
	m.ordersIssued.Add(ctx, 1, attrs)
	m.revenue.Add(ctx, amount, attrs)
}

func (m *Metrics) IssuanceFailed(ctx context.Context, reason string) {
	if m == nil {
		return
	}
	m.issuanceFailures.Add(ctx, 1, metric.WithAttributes(
		attribute.String("reason", reason),
	))
}

func (m *Metrics) LicenseKeyCollision(ctx context.Context) {
	if m == nil {
		return
	}
	m.keyCollisions.Add(ctx, 1)
}

func (m *Metrics) RateLimited(ctx context.Context, policy string) {
	if m == nil {
		return
	}
	m.rateLimited.Add(ctx, 1, metric.WithAttributes(
		attribute.String("policy", policy),
	))
}
