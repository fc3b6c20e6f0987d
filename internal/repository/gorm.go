package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hit-leiden/pkg/model"
)

// GormRunRepository implements RunRepository using GORM.
type GormRunRepository struct {
	db *gorm.DB
}

// NewGormRunRepository creates a new GormRunRepository.
func NewGormRunRepository(db *gorm.DB) *GormRunRepository {
	return &GormRunRepository{db: db}
}

// AutoMigrate creates or updates the run tables.
func (r *GormRunRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&RunRecord{}, &PartitionRecord{})
}

// SaveOutcome stores the execution record and partition summary of a run.
// Re-running a dataset upserts on the run id.
func (r *GormRunRepository) SaveOutcome(ctx context.Context, outcome *model.RunOutcome, snapshotKey string) error {
	if outcome == nil {
		return fmt.Errorf("outcome is nil")
	}

	run := FromExecution(&outcome.Execution)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "run_id"}},
			UpdateAll: true,
		}).Create(run).Error; err != nil {
			return fmt.Errorf("failed to save run record: %w", err)
		}

		if outcome.Partition == nil {
			return nil
		}
		part, err := FromPartition(outcome.Partition, snapshotKey)
		if err != nil {
			return fmt.Errorf("failed to encode partition record: %w", err)
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "run_id"}},
			UpdateAll: true,
		}).Create(part).Error; err != nil {
			return fmt.Errorf("failed to save partition record: %w", err)
		}
		return nil
	})
}

// GetRun retrieves a run execution record by run id.
func (r *GormRunRepository) GetRun(ctx context.Context, runID string) (*RunRecord, error) {
	var record RunRecord
	err := r.db.WithContext(ctx).Where("run_id = ?", runID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("run not found: %s", runID)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &record, nil
}

// GetPartition retrieves the partition summary for a run.
func (r *GormRunRepository) GetPartition(ctx context.Context, runID string) (*PartitionRecord, error) {
	var record PartitionRecord
	err := r.db.WithContext(ctx).Where("run_id = ?", runID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("partition not found: %s", runID)
		}
		return nil, fmt.Errorf("failed to get partition: %w", err)
	}
	return &record, nil
}

// ListRunsByDataset lists runs of a dataset, newest first.
func (r *GormRunRepository) ListRunsByDataset(ctx context.Context, datasetID string, limit int) ([]*RunRecord, error) {
	var records []*RunRecord
	err := r.db.WithContext(ctx).
		Where("dataset_id = ?", datasetID).
		Order("id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return records, nil
}
