// Package repository persists run executions and partition summaries.
package repository

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/hit-leiden/pkg/model"
)

// RunRecord represents the solver_run table.
type RunRecord struct {
	ID             int64           `gorm:"column:id;primaryKey;autoIncrement"`
	RunID          string          `gorm:"column:run_id;type:varchar(128);uniqueIndex"`
	DatasetID      string          `gorm:"column:dataset_id;type:varchar(128);index"`
	ConfigID       string          `gorm:"column:config_id;type:varchar(64)"`
	Status         model.RunStatus `gorm:"column:status"`
	SourceResolved string          `gorm:"column:source_resolved;type:varchar(32)"`
	AccelResolved  string          `gorm:"column:accel_resolved;type:varchar(32)"`
	FallbackReason string          `gorm:"column:fallback_reason;type:varchar(128)"`
	StartedAt      time.Time       `gorm:"column:started_at"`
	CompletedAt    *time.Time      `gorm:"column:completed_at"`
	CreateTime     time.Time       `gorm:"column:create_time;autoCreateTime"`
}

// TableName returns the table name for RunRecord.
func (RunRecord) TableName() string {
	return "solver_run"
}

// FromExecution builds a RunRecord from a run execution.
func FromExecution(e *model.RunExecution) *RunRecord {
	return &RunRecord{
		RunID:          e.RunID,
		DatasetID:      e.DatasetID,
		ConfigID:       e.ConfigID,
		Status:         e.Status,
		SourceResolved: e.Resolution.SourceResolved.String(),
		AccelResolved:  e.Resolution.AccelResolved.String(),
		FallbackReason: e.Resolution.FallbackReason,
		StartedAt:      e.StartedAt,
		CompletedAt:    e.CompletedAt,
	}
}

// PartitionRecord represents the solver_partition table. Assignments are
// stored as a JSON payload; the full hierarchical state lives in the
// snapshot store, this row is the queryable summary.
type PartitionRecord struct {
	ID             int64      `gorm:"column:id;primaryKey;autoIncrement"`
	RunID          string     `gorm:"column:run_id;type:varchar(128);uniqueIndex"`
	CommunityCount int        `gorm:"column:community_count"`
	QualityScore   float64    `gorm:"column:quality_score"`
	IterationCount int        `gorm:"column:iteration_count"`
	Assignments    JSONField `gorm:"column:assignments;type:json"`
	SnapshotKey    string    `gorm:"column:snapshot_key;type:varchar(256)"`
	CreateTime     time.Time `gorm:"column:create_time;autoCreateTime"`
}

// TableName returns the table name for PartitionRecord.
func (PartitionRecord) TableName() string {
	return "solver_partition"
}

// FromPartition builds a PartitionRecord from a partition result.
func FromPartition(p *model.PartitionResult, snapshotKey string) (*PartitionRecord, error) {
	payload, err := json.Marshal(p.NodeToCommunity)
	if err != nil {
		return nil, err
	}
	return &PartitionRecord{
		RunID:          p.RunID,
		CommunityCount: p.CommunityCount,
		QualityScore:   p.QualityScore,
		IterationCount: p.IterationCount,
		Assignments:    JSONField(payload),
		SnapshotKey:    snapshotKey,
	}, nil
}

// DecodeAssignments decodes the stored community assignments.
func (r *PartitionRecord) DecodeAssignments() ([]int, error) {
	var out []int
	if len(r.Assignments) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(r.Assignments, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// JSONField stores raw JSON in a database column.
type JSONField []byte

// Value implements driver.Valuer.
func (j JSONField) Value() (driver.Value, error) {
	if len(j) == 0 {
		return nil, nil
	}
	return string(j), nil
}

// Scan implements sql.Scanner.
func (j *JSONField) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = append((*j)[:0], v...)
	case string:
		*j = JSONField(v)
	default:
		return errors.New("unsupported JSON field source")
	}
	return nil
}
