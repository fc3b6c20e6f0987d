package telemetry

import (
	"context"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "")
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("OTEL_SERVICE_VERSION", "")

	cfg := LoadFromEnv()

	if cfg.Enabled {
		t.Error("tracing must default to disabled")
	}
	if cfg.ServiceName != "hit-leiden" {
		t.Errorf("ServiceName = %q, want hit-leiden", cfg.ServiceName)
	}
	if cfg.ServiceVersion != "unknown" {
		t.Errorf("ServiceVersion = %q, want unknown", cfg.ServiceVersion)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "TRUE")
	t.Setenv("OTEL_SERVICE_NAME", "my-solver")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "Authorization=Bearer abc, x-team = graphs")

	cfg := LoadFromEnv()

	if !cfg.Enabled {
		t.Error("OTEL_ENABLED=TRUE must enable tracing")
	}
	if cfg.ServiceName != "my-solver" {
		t.Errorf("ServiceName = %q", cfg.ServiceName)
	}
	if cfg.Endpoint != "collector:4317" {
		t.Errorf("Endpoint = %q", cfg.Endpoint)
	}
	if cfg.Headers["Authorization"] != "Bearer abc" || cfg.Headers["x-team"] != "graphs" {
		t.Errorf("Headers = %v", cfg.Headers)
	}
}

func TestEnvPairs_MalformedEntries(t *testing.T) {
	t.Setenv("OTEL_RESOURCE_ATTRIBUTES", "ok=1,,novalue,=empty, spaced = v ")

	pairs := envPairs("OTEL_RESOURCE_ATTRIBUTES")

	if pairs["ok"] != "1" || pairs["spaced"] != "v" {
		t.Errorf("pairs = %v", pairs)
	}
	if _, ok := pairs["novalue"]; ok {
		t.Error("entry without '=' must be skipped")
	}
	if _, ok := pairs[""]; ok {
		t.Error("empty key must be skipped")
	}
}

func TestNormalizeEndpoint(t *testing.T) {
	cases := []struct {
		endpoint     string
		insecure     bool
		wantHost     string
		wantInsecure bool
	}{
		{"collector:4317", false, "collector:4317", false},
		{"http://collector:4318", false, "collector:4318", true},
		{"https://collector:4318", false, "collector:4318", false},
		{"https://collector:4318", true, "collector:4318", true},
		{"", false, "", false},
	}
	for _, c := range cases {
		got := normalizeEndpoint(&Config{Endpoint: c.endpoint, Insecure: c.insecure})
		if got.hostPort != c.wantHost || got.insecure != c.wantInsecure {
			t.Errorf("normalizeEndpoint(%q, %v) = %+v", c.endpoint, c.insecure, got)
		}
	}
}

func TestNewSampler(t *testing.T) {
	cases := []struct {
		name string
		arg  string
		want string
	}{
		{"always_on", "", sdktrace.AlwaysSample().Description()},
		{"always_off", "", sdktrace.NeverSample().Description()},
		{"traceidratio", "0.25", sdktrace.TraceIDRatioBased(0.25).Description()},
		{"traceidratio", "7", sdktrace.TraceIDRatioBased(1).Description()},
		{"traceidratio", "junk", sdktrace.TraceIDRatioBased(1).Description()},
		{"parentbased_always_off", "", sdktrace.ParentBased(sdktrace.NeverSample()).Description()},
		{"", "", sdktrace.AlwaysSample().Description()},
		{"mystery", "", sdktrace.AlwaysSample().Description()},
	}
	for _, c := range cases {
		if got := newSampler(c.name, c.arg).Description(); got != c.want {
			t.Errorf("newSampler(%q, %q) = %q, want %q", c.name, c.arg, got, c.want)
		}
	}
}

func TestBuildResource(t *testing.T) {
	cfg := &Config{
		ServiceName:    "hit-leiden",
		ServiceVersion: "1.2.3",
		ResourceAttrs:  map[string]string{"deployment": "bench"},
	}

	res, err := buildResource(context.Background(), cfg)
	if err != nil {
		t.Fatalf("buildResource: %v", err)
	}

	found := map[string]string{}
	for _, kv := range res.Attributes() {
		found[string(kv.Key)] = kv.Value.Emit()
	}
	if found["service.name"] != "hit-leiden" {
		t.Errorf("service.name = %q", found["service.name"])
	}
	if found["service.version"] != "1.2.3" {
		t.Errorf("service.version = %q", found["service.version"])
	}
	if found["deployment"] != "bench" {
		t.Errorf("deployment = %q", found["deployment"])
	}
	if found["hitleiden.hardware_parallelism"] == "" {
		t.Error("hardware parallelism attribute missing")
	}
}

func TestTracer(t *testing.T) {
	if Tracer("solver") == nil {
		t.Fatal("Tracer must never return nil")
	}

	// The span vocabulary is stable: dashboards key on these names.
	if SpanRun != "solver.run" || SpanLevel != "solver.level" || SpanDeferredUpdate != "solver.deferred_update" {
		t.Error("span names changed")
	}
}

func TestInit_DisabledIsNoop(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "false")

	// Force a fresh config read despite the package-level cache.
	globalConfig = LoadFromEnv()

	shutdown, err := Init(context.Background())
	if err != nil {
		t.Fatalf("Init: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}
