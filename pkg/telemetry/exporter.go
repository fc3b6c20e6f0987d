package telemetry

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"google.golang.org/grpc/credentials/insecure"
)

// endpointTarget is an OTLP endpoint with its scheme stripped; both OTLP
// clients want a bare host:port and their own insecure switch.
type endpointTarget struct {
	hostPort string
	insecure bool
}

func normalizeEndpoint(cfg *Config) endpointTarget {
	target := endpointTarget{hostPort: cfg.Endpoint, insecure: cfg.Insecure}
	if rest, ok := strings.CutPrefix(target.hostPort, "http://"); ok {
		target.hostPort = rest
		target.insecure = true
	} else if rest, ok := strings.CutPrefix(target.hostPort, "https://"); ok {
		target.hostPort = rest
	}
	return target
}

// newExporter creates the OTLP trace exporter for the configured protocol.
// gRPC is the default; http and http/protobuf select the HTTP client.
func newExporter(ctx context.Context, cfg *Config) (*otlptrace.Exporter, error) {
	target := normalizeEndpoint(cfg)

	switch strings.ToLower(cfg.Protocol) {
	case "http", "http/protobuf":
		opts := []otlptracehttp.Option{}
		if target.hostPort != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(target.hostPort))
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(cfg.Headers))
		}
		if target.insecure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)

	default:
		opts := []otlptracegrpc.Option{}
		if target.hostPort != "" {
			opts = append(opts, otlptracegrpc.WithEndpoint(target.hostPort))
		}
		if len(cfg.Headers) > 0 {
			opts = append(opts, otlptracegrpc.WithHeaders(cfg.Headers))
		}
		if target.insecure {
			opts = append(opts, otlptracegrpc.WithTLSCredentials(insecure.NewCredentials()))
		}
		return otlptracegrpc.New(ctx, opts...)
	}
}
