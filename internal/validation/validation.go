// Package validation checks partition invariants and compares runs for
// equivalence.
package validation

import (
	"math"

	"github.com/hit-leiden/pkg/model"
)

// CheckInvariants verifies the hard partition invariants: an assignment
// exists, covers every node, and every community id is in range.
func CheckInvariants(out *model.RunOutcome) bool {
	if out == nil || out.Partition == nil {
		return false
	}
	n := len(out.Partition.NodeToCommunity)
	for _, c := range out.Partition.NodeToCommunity {
		if c < 0 || c >= n {
			return false
		}
	}
	return true
}

// sameAssignments reports whether two partitions are bit-identical.
func sameAssignments(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Validate compares a candidate run against a reference. Deterministic
// mode requires bit-identical assignments; throughput mode bounds the
// quality delta by the tolerance.
func Validate(reference, candidate *model.RunOutcome, mode model.RunMode, tolerance float64) *model.ValidationReport {
	report := &model.ValidationReport{
		HardInvariantsPassed: CheckInvariants(reference) && CheckInvariants(candidate),
	}
	if candidate != nil {
		report.RunID = candidate.Execution.RunID
	}
	if reference == nil || reference.Partition == nil || candidate == nil || candidate.Partition == nil {
		report.Notes = "missing partition"
		return report
	}

	identical := sameAssignments(
		reference.Partition.NodeToCommunity,
		candidate.Partition.NodeToCommunity,
	)
	delta := math.Abs(reference.Partition.QualityScore - candidate.Partition.QualityScore)
	report.QualityDeltaVsReference = &delta

	switch mode {
	case model.ModeDeterministic:
		report.DeterministicIdentityPassed = &identical
		report.EquivalencePassed = identical
	case model.ModeThroughput:
		report.EquivalencePassed = delta <= tolerance
	}
	return report
}
