package tracing

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

const defaultCollector = "http://localhost:14268/api/traces"

// InitTracer installs a global tracer provider exporting to the Jaeger
// collector and the W3C trace-context propagator. The returned provider must
// be shut down to flush buffered spans.
func InitTracer(serviceName, env, collector string) (*tracesdk.TracerProvider, error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(
		jaeger.WithEndpoint(CollectorEndpoint(collector)),
	))
	if err != nil {
		return nil, fmt.Errorf("create jaeger exporter: %w", err)
	}

	tp := tracesdk.NewTracerProvider(
		tracesdk.WithBatcher(exp),
		tracesdk.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.DeploymentEnvironment(env),
		)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return tp, nil
}

// Shutdown flushes and stops tp. A nil provider is ignored.
func Shutdown(ctx context.Context, tp *tracesdk.TracerProvider) error {
	if tp == nil {
		return nil
	}
	if err := tp.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown tracer provider: %w", err)
	}
	return nil
}

// CollectorEndpoint accepts a bare host, host:port or full URL and returns
// the Jaeger HTTP collector endpoint.
func CollectorEndpoint(value string) string {
	endpoint := strings.TrimSpace(value)
	if endpoint == "" {
		return defaultCollector
	}

	if !strings.Contains(endpoint, "://") {
		endpoint = "http://" + endpoint
	}
	if strings.HasSuffix(endpoint, "/api/traces") {
		return endpoint
	}

	return strings.TrimSuffix(endpoint, "/") + "/api/traces"
}
