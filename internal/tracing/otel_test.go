package tracing

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/propagation"
	"google.golang.org/grpc/metadata"
)

func TestCollectorEndpoint(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "empty", value: "  ", want: "http://localhost:14268/api/traces"},
		{name: "bare host", value: "jaeger", want: "http://jaeger/api/traces"},
		{name: "host and port", value: "jaeger:14268", want: "http://jaeger:14268/api/traces"},
		{name: "trailing slash", value: "http://jaeger:14268/", want: "http://jaeger:14268/api/traces"},
		{name: "full url", value: "https://collector.example/api/traces", want: "https://collector.example/api/traces"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CollectorEndpoint(tt.value); got != tt.want {
				t.Fatalf("CollectorEndpoint(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestShutdown_NilProvider(t *testing.T) {
	if err := Shutdown(context.Background(), nil); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestMetadataCarrier(t *testing.T) {
	var _ propagation.TextMapCarrier = MetadataCarrier{}

	md := metadata.MD{}
	carrier := MetadataCarrier(md)
	carrier.Set("Traceparent", "00-abc-def-01")

	if got := carrier.Get("traceparent"); got != "00-abc-def-01" {
		t.Fatalf("unexpected value %q", got)
	}
	if got := carrier.Get("missing"); got != "" {
		t.Fatalf("expected empty value, got %q", got)
	}
	if keys := carrier.Keys(); len(keys) != 1 || keys[0] != "traceparent" {
		t.Fatalf("unexpected keys %v", keys)
	}
}
