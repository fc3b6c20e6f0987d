package telemetry

import (
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/sdk/trace"
)

// newSampler maps an OTEL_TRACES_SAMPLER name onto an SDK sampler. The
// parentbased_ prefix wraps the base sampler; unknown names sample fully,
// which is the right default for a batch solver whose traces are sparse.
func newSampler(name, arg string) trace.Sampler {
	base, parentBased := strings.CutPrefix(name, "parentbased_")

	var sampler trace.Sampler
	switch base {
	case "always_off":
		sampler = trace.NeverSample()
	case "traceidratio":
		sampler = trace.TraceIDRatioBased(samplingRatio(arg))
	default:
		sampler = trace.AlwaysSample()
	}

	if parentBased {
		return trace.ParentBased(sampler)
	}
	return sampler
}

// samplingRatio parses the sampler argument, clamped to [0, 1]; anything
// unparsable samples fully.
func samplingRatio(arg string) float64 {
	ratio, err := strconv.ParseFloat(arg, 64)
	if err != nil {
		return 1.0
	}
	return min(max(ratio, 0), 1)
}
