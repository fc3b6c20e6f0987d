package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// scopePrefix namespaces every instrumentation scope of this module.
const scopePrefix = "hit-leiden/"

// Tracer returns the tracer for a component, e.g. Tracer("solver").
func Tracer(component string) trace.Tracer {
	return otel.Tracer(scopePrefix + component)
}

// Span names emitted by the run pipeline.
const (
	SpanRun            = "solver.run"
	SpanLevel          = "solver.level"
	SpanDeferredUpdate = "solver.deferred_update"
)

// Attribute keys shared by every span of the run pipeline, so a trace of
// one run can be filtered by dataset, mode or hierarchy level.
var (
	AttrDatasetID = attribute.Key("hitleiden.dataset_id")
	AttrRunMode   = attribute.Key("hitleiden.run_mode")
	AttrLevel     = attribute.Key("hitleiden.level")
	AttrNodeCount = attribute.Key("hitleiden.node_count")
	AttrEdgeCount = attribute.Key("hitleiden.edge_count")
)
