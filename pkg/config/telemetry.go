package config

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/mpapenbr/f1-visual-simulator/log"
	"github.com/mpapenbr/f1-visual-simulator/version"
)

const serviceName = "f1sim"

type Telemetry struct {
	ctx    context.Context
	metric *metric.MeterProvider
	trace  *sdktrace.TracerProvider
}

// SetupTelemetry installs global meter and tracer providers.
// Data is sent to TelemetryEndpoint via OTLP/gRPC. If no endpoint is
// set to "stdout", the data is written to stdout.
func SetupTelemetry(ctx context.Context) (*Telemetry, error) {
	res, err := resource.Merge(resource.Default(),
		resource.NewSchemaless(
			attribute.String("service.name", serviceName),
			attribute.String("service.version", version.Version)))
	if err != nil {
		return nil, err
	}
	mExp, tExp, err := newExporters(ctx)
	if err != nil {
		return nil, err
	}
	ret := &Telemetry{
		ctx: ctx,
		metric: metric.NewMeterProvider(
			metric.WithResource(res),
			metric.WithReader(metric.NewPeriodicReader(mExp,
				metric.WithInterval(15*time.Second)))),
		trace: sdktrace.NewTracerProvider(
			sdktrace.WithResource(res),
			sdktrace.WithBatcher(tExp)),
	}
	otel.SetMeterProvider(ret.metric)
	otel.SetTracerProvider(ret.trace)
	return ret, nil
}

//nolint:whitespace // can't make both editor and linter happy
func newExporters(ctx context.Context) (
	metric.Exporter, sdktrace.SpanExporter, error,
) {
	if TelemetryEndpoint == "stdout" {
		mExp, err := stdoutmetric.New()
		if err != nil {
			return nil, nil, err
		}
		tExp, err := stdouttrace.New()
		if err != nil {
			return nil, nil, err
		}
		return mExp, tExp, nil
	}
	mExp, err := otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(TelemetryEndpoint),
		otlpmetricgrpc.WithInsecure())
	if err != nil {
		return nil, nil, err
	}
	tExp, err := otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(TelemetryEndpoint),
		otlptracegrpc.WithInsecure())
	if err != nil {
		return nil, nil, err
	}
	return mExp, tExp, nil
}

// Shutdown flushes pending data and stops the providers
func (t *Telemetry) Shutdown() {
	ctx, cancel := context.WithTimeout(t.ctx, 5*time.Second)
	defer cancel()
	err := errors.Join(
		t.metric.Shutdown(ctx),
		t.trace.Shutdown(ctx))
	if err != nil {
		log.Warn("telemetry shutdown", log.ErrorField(err))
	}
}
