// Package telemetry wires OpenTelemetry tracing into the solver. It owns
// the span and attribute vocabulary the run pipeline emits (one span per
// run, one per hierarchy level, and one around the deferred updates) and
// initializes a global TracerProvider from the standard OTEL_* environment
// variables.
//
// Tracing is off unless OTEL_ENABLED=true; the solver then still emits
// spans through the default no-op provider at negligible cost.
package telemetry

import (
	"context"
	"os"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/trace"
)

// Config holds the exporter settings loaded from OTEL_* variables.
type Config struct {
	Enabled        bool
	ServiceName    string // OTEL_SERVICE_NAME, default "hit-leiden"
	ServiceVersion string // OTEL_SERVICE_VERSION
	Endpoint       string // OTEL_EXPORTER_OTLP_ENDPOINT
	Protocol       string // OTEL_EXPORTER_OTLP_PROTOCOL: grpc or http/protobuf
	Headers        map[string]string
	Insecure       bool
	Sampler        string // OTEL_TRACES_SAMPLER
	SamplerArg     string // OTEL_TRACES_SAMPLER_ARG
	ResourceAttrs  map[string]string
}

// LoadFromEnv reads the configuration from the environment.
func LoadFromEnv() *Config {
	cfg := &Config{
		Enabled:        envBool("OTEL_ENABLED"),
		ServiceName:    os.Getenv("OTEL_SERVICE_NAME"),
		ServiceVersion: os.Getenv("OTEL_SERVICE_VERSION"),
		Endpoint:       os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Protocol:       os.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL"),
		Headers:        envPairs("OTEL_EXPORTER_OTLP_HEADERS"),
		Insecure:       envBool("OTEL_EXPORTER_OTLP_INSECURE"),
		Sampler:        os.Getenv("OTEL_TRACES_SAMPLER"),
		SamplerArg:     os.Getenv("OTEL_TRACES_SAMPLER_ARG"),
		ResourceAttrs:  envPairs("OTEL_RESOURCE_ATTRIBUTES"),
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "hit-leiden"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "unknown"
	}
	return cfg
}

func envBool(key string) bool {
	return strings.EqualFold(os.Getenv(key), "true")
}

// envPairs parses "k1=v1,k2=v2", splitting each pair on the first '='.
func envPairs(key string) map[string]string {
	result := make(map[string]string)
	for _, pair := range strings.Split(os.Getenv(key), ",") {
		k, v, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k != "" {
			result[k] = strings.TrimSpace(v)
		}
	}
	return result
}

var (
	globalConfig *Config
	configOnce   sync.Once
)

func loadConfig() *Config {
	configOnce.Do(func() {
		globalConfig = LoadFromEnv()
	})
	return globalConfig
}

// Enabled returns whether tracing is enabled for this process.
func Enabled() bool {
	return loadConfig().Enabled
}

// ShutdownFunc flushes and stops the TracerProvider.
type ShutdownFunc func(ctx context.Context) error

func noopShutdown(_ context.Context) error { return nil }

// Init installs the global TracerProvider. With tracing disabled it leaves
// the default no-op provider in place and returns a no-op shutdown.
func Init(ctx context.Context) (ShutdownFunc, error) {
	cfg := loadConfig()
	if !cfg.Enabled {
		return noopShutdown, nil
	}

	res, err := buildResource(ctx, cfg)
	if err != nil {
		return noopShutdown, err
	}
	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return noopShutdown, err
	}

	tp := trace.NewTracerProvider(
		trace.WithResource(res),
		trace.WithBatcher(exporter),
		trace.WithSampler(newSampler(cfg.Sampler, cfg.SamplerArg)),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}
