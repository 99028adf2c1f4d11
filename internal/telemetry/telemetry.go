// Package telemetry configures OpenTelemetry tracing for the server and its
// upstream client.
package telemetry

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/bobmcallan/appvector-mcp/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

// Options controls tracer provider construction.
type Options struct {
	ServiceName    string
	ServiceVersion string
	// UseStdout enables the stdout exporter (local development).
	UseStdout bool
	// Writer receives stdout spans; defaults to os.Stdout.
	Writer io.Writer
}

// FromConfig maps the [telemetry] section onto Options.
func FromConfig(cfg config.TelemetryConfig) Options {
	return Options{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: config.GetVersion(),
		UseStdout:      cfg.Stdout,
	}
}

// Init installs a global tracer provider and W3C trace-context propagation
// and returns its shutdown func.
func Init(ctx context.Context, opts Options) (ShutdownFunc, error) {
	if opts.ServiceName == "" {
		opts.ServiceName = config.ServerName
	}
	if opts.ServiceVersion == "" {
		opts.ServiceVersion = config.GetVersion()
	}

	res, err := sdkresource.New(ctx,
		sdkresource.WithFromEnv(),
		sdkresource.WithProcess(),
		sdkresource.WithOS(),
		sdkresource.WithHost(),
		sdkresource.WithAttributes(
			semconv.ServiceName(opts.ServiceName),
			semconv.ServiceVersion(opts.ServiceVersion),
			attribute.String("library.language", "go"),
		),
	)
	if err != nil {
		return nil, err
	}

	var tp *sdktrace.TracerProvider
	if opts.UseStdout {
		w := opts.Writer
		if w == nil {
			w = os.Stdout
		}
		exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, err
		}
		tp = sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exp,
				sdktrace.WithMaxExportBatchSize(512),
				sdktrace.WithBatchTimeout(200*time.Millisecond),
			),
			sdktrace.WithResource(res),
		)
	} else {
		// No exporter: spans are dropped but trace context still propagates
		// upstream. Config validation keeps the server off this path.
		tp = sdktrace.NewTracerProvider(sdktrace.WithResource(res))
	}

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp.Shutdown, nil
}

// Noop is the shutdown func used when tracing is disabled.
func Noop(context.Context) error { return nil }
