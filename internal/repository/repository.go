package repository

import (
	"context"

	"github.com/hit-leiden/pkg/model"
)

// RunRepository defines the interface for run-record persistence.
type RunRepository interface {
	// SaveOutcome stores the execution record and partition summary of a run.
	SaveOutcome(ctx context.Context, outcome *model.RunOutcome, snapshotKey string) error

	// GetRun retrieves a run execution record by run id.
	GetRun(ctx context.Context, runID string) (*RunRecord, error)

	// GetPartition retrieves the partition summary for a run.
	GetPartition(ctx context.Context, runID string) (*PartitionRecord, error)

	// ListRunsByDataset lists runs of a dataset, newest first.
	ListRunsByDataset(ctx context.Context, datasetID string, limit int) ([]*RunRecord, error)
}
