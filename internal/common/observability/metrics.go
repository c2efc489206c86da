package observability

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Observability owns the OpenTelemetry meter and tracer providers.
// A nil *Observability is valid and records nothing.
type Observability struct {
	meterProvider  *metric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          otelmetric.Meter
	actionCounter  otelmetric.Int64Counter
	actionDuration otelmetric.Float64Histogram
}

func New(serviceName string) *Observability {
	tracerProvider := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tracerProvider)

	exporter, err := prometheus.New()
	if err != nil {
		log.Printf("Failed to create Prometheus exporter: %v", err)
		return &Observability{tracerProvider: tracerProvider}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	actionCounter, _ := meter.Int64Counter(
		"actions.processed",
		otelmetric.WithDescription("Number of moderation actions processed"),
	)

	actionDuration, _ := meter.Float64Histogram(
		"actions.duration",
		otelmetric.WithDescription("Moderation action duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:  provider,
		tracerProvider: tracerProvider,
		meter:          meter,
		actionCounter:  actionCounter,
		actionDuration: actionDuration,
	}
}

func (o *Observability) RecordActionProcessed(ctx context.Context, action, status string) {
	if o == nil || o.actionCounter == nil {
		return
	}
	o.actionCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("action", action),
		attribute.String("status", status),
	))
}

func (o *Observability) RecordActionDuration(ctx context.Context, action string, duration time.Duration, status string) {
	if o == nil || o.actionDuration == nil {
		return
	}
	o.actionDuration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("action", action),
		attribute.String("status", status),
	))
}

// Tracer returns a named tracer from the global provider.
func (o *Observability) Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

func (o *Observability) Shutdown() {
	if o == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if o.meterProvider != nil {
		o.meterProvider.Shutdown(ctx)
	}
	if o.tracerProvider != nil {
		o.tracerProvider.Shutdown(ctx)
	}
}
