package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.32.0"

	"github.com/turbekoff/deskcalc/pkg/calc"
)

const meterName = "github.com/turbekoff/deskcalc"

type TelemetryConfig struct {
	Endpoint    string        `env:"OTLP_ENDPOINT"`
	Insecure    bool          `env:"OTLP_INSECURE" env-default:"false"`
	Interval    time.Duration `env:"METRIC_INTERVAL" env-default:"30s"`
	ServiceName string        `env:"SERVICE_NAME" env-default:"deskcalc"`
}

// InitTelemetry installs a global OTLP meter provider. Without an endpoint
// the global no-op provider stays in place and the returned shutdown does
// nothing.
func InitTelemetry(ctx context.Context, cfg TelemetryConfig) (func(context.Context) error, error) {
	if cfg.Endpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceNameKey.String(cfg.ServiceName),
	))
	if err != nil {
		return nil, fmt.Errorf("create telemetry resource: %w", err)
	}

	endpoint, insecure := splitEndpoint(cfg.Endpoint)
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(endpoint),
	}
	if insecure || cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(cfg.Interval),
		)),
	)
	otel.SetMeterProvider(mp)
	return mp.Shutdown, nil
}

// splitEndpoint drops the URL scheme the exporter does not accept. A plain
// http scheme means the collector speaks no TLS.
func splitEndpoint(endpoint string) (string, bool) {
	if rest, ok := strings.CutPrefix(endpoint, "http://"); ok {
		return rest, true
	}
	return strings.TrimPrefix(endpoint, "https://"), false
}

type botMetrics struct {
	keys            metric.Int64Counter
	nanResults      metric.Int64Counter
	throttled       metric.Int64Counter
	sessionsOpened  metric.Int64Counter
	sessionsExpired metric.Int64Counter
	pressDuration   metric.Float64Histogram
}

// newBotMetrics resolves instruments from the global provider, so it must run
// after InitTelemetry. Instruments that fail to register stay nil and are
// skipped.
func newBotMetrics() *botMetrics {
	meter := otel.Meter(meterName)
	m := &botMetrics{}

	m.keys, _ = meter.Int64Counter("calc.keys.pressed",
		metric.WithDescription("Number of calculator keys delivered to sessions"),
		metric.WithUnit("{key}"))
	m.nanResults, _ = meter.Int64Counter("calc.results.nan",
		metric.WithDescription("Number of key presses that left the display in the error state"),
		metric.WithUnit("{result}"))
	m.throttled, _ = meter.Int64Counter("calc.keys.throttled",
		metric.WithDescription("Number of key presses rejected by the session throttle"),
		metric.WithUnit("{key}"))
	m.sessionsOpened, _ = meter.Int64Counter("calc.sessions.opened",
		metric.WithDescription("Number of calculator sessions opened"),
		metric.WithUnit("{session}"))
	m.sessionsExpired, _ = meter.Int64Counter("calc.sessions.expired",
		metric.WithDescription("Number of calculator sessions dropped after inactivity"),
		metric.WithUnit("{session}"))
	m.pressDuration, _ = meter.Float64Histogram("calc.press.duration",
		metric.WithDescription("Time spent applying one key press"),
		metric.WithUnit("ms"))
	return m
}

func (m *botMetrics) recordPress(ctx context.Context, token string, r calc.Readout, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("key", token))
	if m.keys != nil {
		m.keys.Add(ctx, 1, attrs)
	}
	if r.Error && m.nanResults != nil {
		m.nanResults.Add(ctx, 1, attrs)
	}
	if m.pressDuration != nil {
		m.pressDuration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
	}
}

func (m *botMetrics) recordThrottled(ctx context.Context) {
	if m == nil || m.throttled == nil {
		return
	}
	m.throttled.Add(ctx, 1)
}

func (m *botMetrics) recordSessionOpened(ctx context.Context, preset string) {
	if m == nil || m.sessionsOpened == nil {
		return
	}
	m.sessionsOpened.Add(ctx, 1, metric.WithAttributes(attribute.String("preset", preset)))
}

func (m *botMetrics) recordSessionExpired(ctx context.Context) {
	if m == nil || m.sessionsExpired == nil {
		return
	}
	m.sessionsExpired.Add(ctx, 1)
}
