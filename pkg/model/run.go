package model

import "time"

// RunMode selects between the single-threaded tie-break reference and the
// parallel frontier execution.
type RunMode int

const (
	ModeDeterministic RunMode = 0 // single-threaded, bit-identical replay
	ModeThroughput    RunMode = 1 // parallel frontier, bounded quality delta
)

// String returns the string representation of RunMode.
func (m RunMode) String() string {
	switch m {
	case ModeDeterministic:
		return "deterministic"
	case ModeThroughput:
		return "throughput"
	default:
		return "unknown"
	}
}

// GraphSource identifies where a graph input came from.
type GraphSource int

const (
	SourceFile          GraphSource = 0 // edge-list file
	SourceNeo4jSnapshot GraphSource = 1 // exported Neo4j snapshot
	SourceLiveNeo4j     GraphSource = 2 // live query, release-gate ineligible
)

// String returns the string representation of GraphSource.
func (s GraphSource) String() string {
	switch s {
	case SourceFile:
		return "file"
	case SourceNeo4jSnapshot:
		return "neo4j_snapshot"
	case SourceLiveNeo4j:
		return "live_neo4j"
	default:
		return "unknown"
	}
}

// GraphBackend selects the in-process graph representation.
type GraphBackend int

const (
	BackendInMemory GraphBackend = 0
	BackendMmap     GraphBackend = 1
)

// String returns the string representation of GraphBackend.
func (b GraphBackend) String() string {
	switch b {
	case BackendInMemory:
		return "in_memory"
	case BackendMmap:
		return "mmap"
	default:
		return "unknown"
	}
}

// AccelTarget selects the movement-kernel acceleration backend.
type AccelTarget int

const (
	AccelPureGo AccelTarget = 0
	AccelNative AccelTarget = 1
	AccelCuda   AccelTarget = 2
	AccelRocm   AccelTarget = 3
)

// String returns the string representation of AccelTarget.
func (a AccelTarget) String() string {
	switch a {
	case AccelPureGo:
		return "pure_go"
	case AccelNative:
		return "native"
	case AccelCuda:
		return "cuda"
	case AccelRocm:
		return "rocm"
	default:
		return "unknown"
	}
}

// RunStatus is the terminal state of a run.
type RunStatus int

const (
	StatusRunning   RunStatus = 0
	StatusSucceeded RunStatus = 1
	StatusFailed    RunStatus = 2
)

// String returns the string representation of RunStatus.
func (s RunStatus) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ResolutionMetadata records what the run actually executed with after
// fallback handling.
type ResolutionMetadata struct {
	SourceResolved  GraphSource  `json:"source_resolved"`
	BackendResolved GraphBackend `json:"backend_resolved"`
	AccelResolved   AccelTarget  `json:"accel_resolved"`
	FallbackReason  string       `json:"fallback_reason,omitempty"`
}

// RunExecution describes one solver invocation.
type RunExecution struct {
	RunID          string             `json:"run_id"`
	DatasetID      string             `json:"dataset_id"`
	ConfigID       string             `json:"config_id"`
	StartedAt      time.Time          `json:"started_at"`
	CompletedAt    *time.Time         `json:"completed_at,omitempty"`
	Status         RunStatus          `json:"status"`
	Resolution     ResolutionMetadata `json:"resolution"`
	FallbackReason string             `json:"fallback_reason,omitempty"`
}

// PartitionResult is the observable output of a run.
type PartitionResult struct {
	RunID           string  `json:"run_id"`
	NodeToCommunity []int   `json:"node_to_community"`
	CommunityCount  int     `json:"community_count"`
	QualityScore    float64 `json:"quality_score"`
	IterationCount  int     `json:"iteration_count"`
}

// ValidationReport compares a candidate run against a reference.
type ValidationReport struct {
	RunID                       string   `json:"run_id"`
	HardInvariantsPassed        bool     `json:"hard_invariants_passed"`
	DeterministicIdentityPassed *bool    `json:"deterministic_identity_passed,omitempty"`
	QualityDeltaVsReference     *float64 `json:"quality_delta_vs_reference,omitempty"`
	EquivalencePassed           bool     `json:"equivalence_passed"`
	Notes                       string   `json:"notes,omitempty"`
}

// RunOutcome bundles the execution record with its partition and any
// validation performed inline.
type RunOutcome struct {
	Execution  RunExecution      `json:"execution"`
	Partition  *PartitionResult  `json:"partition,omitempty"`
	Validation *ValidationReport `json:"validation,omitempty"`
}
