package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability owns the OpenTelemetry meter used for HTTP request metrics.
// The meter exports through the default Prometheus registry, so the values
// show up on /metrics next to the promauto collectors.
type Observability struct {
	meterProvider   *metric.MeterProvider
	meter           otelmetric.Meter
	requestCounter  otelmetric.Int64Counter
	requestDuration otelmetric.Float64Histogram
}

func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return &Observability{}, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	requestCounter, err := meter.Int64Counter(
		"http.server.requests",
		otelmetric.WithDescription("Number of HTTP requests served"),
	)
	if err != nil {
		return &Observability{meterProvider: provider}, err
	}

	requestDuration, err := meter.Float64Histogram(
		"http.server.duration",
		otelmetric.WithDescription("HTTP request duration"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return &Observability{meterProvider: provider}, err
	}

	return &Observability{
		meterProvider:   provider,
		meter:           meter,
		requestCounter:  requestCounter,
		requestDuration: requestDuration,
	}, nil
}

// RecordRequest is safe on a zero Observability.
func (o *Observability) RecordRequest(ctx context.Context, route, method string, status int, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("route", route),
		attribute.String("method", method),
		attribute.Int("status", status),
	)
	if o.requestCounter != nil {
		o.requestCounter.Add(ctx, 1, attrs)
	}
	if o.requestDuration != nil {
		o.requestDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	}
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = o.meterProvider.Shutdown(ctx)
}
