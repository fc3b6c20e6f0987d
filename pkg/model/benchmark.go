package model

// HardwareProfile identifies the machine a benchmark ran on. Only pinned
// profiles are eligible for the release gate.
type HardwareProfile struct {
	ID     string `json:"id"`
	Pinned bool   `json:"pinned"`
}

// BenchmarkOutcome summarizes a baseline-vs-candidate comparison.
type BenchmarkOutcome struct {
	BaselineCommit       string  `json:"baseline_commit"`
	CandidateCommit      string  `json:"candidate_commit"`
	BenchmarkSuite       string  `json:"benchmark_suite"`
	MedianThroughputGain float64 `json:"median_throughput_gain"`
	Reproducible         bool    `json:"reproducible"`
	ReleaseGateEligible  bool    `json:"release_gate_eligible"`
	ReleaseGateReason    string  `json:"release_gate_reason,omitempty"`
}

// BatchResult records one incremental update batch.
type BatchResult struct {
	BatchIdx          int     `json:"batch_idx"`
	EdgesAdded        int     `json:"edges_added"`
	TotalEdges        int     `json:"total_edges"`
	NodesInGraph      int     `json:"nodes_in_graph"`
	IncrementalTimeMs float64 `json:"incremental_time_ms"`
	BaselineTimeMs    float64 `json:"baseline_time_ms"`
	Speedup           float64 `json:"speedup"`
	IterationCount    int     `json:"iteration_count"`
	Modularity        float64 `json:"modularity"`
}

// IncrementalOutcome aggregates all batches of an incremental benchmark.
type IncrementalOutcome struct {
	Batches           []BatchResult `json:"batches"`
	TotalTimeSeconds  float64       `json:"total_time_seconds"`
	AvgSpeedup        float64       `json:"avg_speedup"`
	CumulativeSpeedup float64       `json:"cumulative_speedup"`
}
