// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package otel wires OpenTelemetry tracing for the API process.
package otel

import (
	stdctx "context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Options selects where spans are exported.
type Options struct {
	ServiceName    string
	ServiceVersion string
	Environment    string

	// Endpoint is a full OTLP/HTTP URL such as http://collector:4318. Empty disables tracing.
	Endpoint string
	Enabled  bool
}

/*
Setup installs a global tracer provider exporting over OTLP/HTTP.

When tracing is disabled or no endpoint is configured, the global no-op
provider stays in place and the returned shutdown does nothing. Callers
defer the shutdown function to flush pending spans.
*/
func Setup(context stdctx.Context, options Options) (shutdown func(stdctx.Context) error, err error) {
	noop := func(stdctx.Context) error { return nil }

	if !options.Enabled || options.Endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(context, otlptracehttp.WithEndpointURL(options.Endpoint))
	if err != nil {
		return noop, fmt.Errorf("otel: failed to create exporter: %w", err)
	}

	res, err := resource.New(context,
		resource.WithAttributes(
			semconv.ServiceName(options.ServiceName),
			semconv.ServiceVersion(options.ServiceVersion),
			semconv.DeploymentEnvironment(options.Environment),
		),
	)
	if err != nil {
		return noop, fmt.Errorf("otel: failed to build resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.AlwaysSample())),
	)

	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return provider.Shutdown, nil
}
