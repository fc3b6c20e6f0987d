package accel

import (
	"github.com/hit-leiden/pkg/model"
)

// ============================================================================
// Acceleration backends
// ============================================================================

// Backend is the capability interface an acceleration target implements.
// The orchestrator selects one at startup and every throughput-mode
// movement round runs against it for the rest of the run; deterministic
// mode evaluates nodes with EvaluateNode directly.
type Backend interface {
	// Target identifies the backend.
	Target() model.AccelTarget

	// Available reports whether the backend can run on this host.
	Available() bool

	// MovementKernel evaluates one shard of the movement frontier.
	MovementKernel(shard []int, views *KernelViews, scratch *Scratch, fr *Frontiers) ShardResult
}

// PureBackend is the CPU reference backend; always available.
type PureBackend struct{}

// Target identifies the backend.
func (PureBackend) Target() model.AccelTarget { return model.AccelPureGo }

// Available reports whether the backend can run on this host.
func (PureBackend) Available() bool { return true }

// MovementKernel evaluates one shard on the CPU.
func (PureBackend) MovementKernel(shard []int, views *KernelViews, scratch *Scratch, fr *Frontiers) ShardResult {
	return ExecuteShard(shard, views, scratch, fr)
}

// unavailableBackend covers targets whose device runtime is not linked
// into this build. Requesting one falls back to the pure CPU path.
type unavailableBackend struct {
	target model.AccelTarget
}

func (b unavailableBackend) Target() model.AccelTarget { return b.target }

func (b unavailableBackend) Available() bool { return false }

func (b unavailableBackend) MovementKernel(shard []int, views *KernelViews, scratch *Scratch, fr *Frontiers) ShardResult {
	// Never selected; resolution falls back before the hot path starts.
	return ExecuteShard(shard, views, scratch, fr)
}

// NewBackend returns the backend implementation for a target.
func NewBackend(target model.AccelTarget) Backend {
	switch target {
	case model.AccelPureGo:
		return PureBackend{}
	default:
		return unavailableBackend{target: target}
	}
}

// AllTargets lists every acceleration target.
func AllTargets() []model.AccelTarget {
	return []model.AccelTarget{
		model.AccelPureGo,
		model.AccelNative,
		model.AccelCuda,
		model.AccelRocm,
	}
}

// IsAvailable probes whether a target can run on this host.
func IsAvailable(target model.AccelTarget) bool {
	return NewBackend(target).Available()
}
