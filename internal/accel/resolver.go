package accel

import (
	"github.com/hit-leiden/pkg/config"
	"github.com/hit-leiden/pkg/model"
)

// ============================================================================
// Resolution and release gate
// ============================================================================

// Resolve maps the requested source/backend/accel triple onto what this
// host can actually run. An unavailable acceleration target falls back to
// the pure CPU path and records the reason; the run still succeeds.
func Resolve(source model.GraphSource, backend model.GraphBackend, target model.AccelTarget) (Backend, model.ResolutionMetadata) {
	meta := model.ResolutionMetadata{
		SourceResolved:  source,
		BackendResolved: backend,
		AccelResolved:   target,
	}

	b := NewBackend(target)
	if !b.Available() {
		meta.AccelResolved = model.AccelPureGo
		meta.FallbackReason = config.ReasonAccelUnavailable
		b = PureBackend{}
	}
	return b, meta
}

// ReleaseGateEligible decides whether a run's measurements may promote a
// candidate build. Unpinned hardware and live query sources disqualify.
func ReleaseGateEligible(profile *model.HardwareProfile, source model.GraphSource) (bool, string) {
	if profile == nil || !profile.Pinned {
		return false, config.ReasonUnpinnedProfile
	}
	if source == model.SourceLiveNeo4j {
		return false, config.ReasonLiveQuerySource
	}
	return true, ""
}
