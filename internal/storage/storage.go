// Package storage persists the solver's blobs: exported graph snapshots
// and partition state images, addressed by well-known keys.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/hit-leiden/pkg/config"
)

// Storage is the blob store the solver reads graph snapshots from and
// writes partition snapshots to. Implementations must make Upload
// all-or-nothing: a reader observing a key sees either the previous
// image or the complete new one, never a torn write.
type Storage interface {
	// Upload stores the reader's content under key, replacing any
	// previous content atomically.
	Upload(ctx context.Context, key string, reader io.Reader) error

	// Download opens the content stored under key.
	Download(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the content under key. Deleting a missing key is
	// not an error.
	Delete(ctx context.Context, key string) error

	// Exists reports whether content is stored under key.
	Exists(ctx context.Context, key string) (bool, error)

	// URL returns an access location for key (a path for local storage,
	// a public URL for object storage).
	URL(key string) string
}

// Key layout. Everything the solver persists lives under one of these
// prefixes so a store can be inspected or cleaned per kind.
const (
	snapshotPrefix  = "snapshots"
	partitionPrefix = "partitions"
	reportPrefix    = "reports"
)

// SnapshotKey returns the key of an exported graph snapshot.
func SnapshotKey(snapshotID string) string {
	return fmt.Sprintf("%s/%s.json", snapshotPrefix, snapshotID)
}

// PartitionKey returns the key of a persisted partition state image.
func PartitionKey(name string) string {
	return fmt.Sprintf("%s/%s.bin", partitionPrefix, name)
}

// ReportKey returns the key of a run report.
func ReportKey(runID string) string {
	return fmt.Sprintf("%s/%s.json", reportPrefix, runID)
}

// StorageType represents the type of storage backend.
type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeCOS   StorageType = "cos"
)

// NewStorage creates a Storage instance based on the configuration.
func NewStorage(cfg *config.StorageConfig) (Storage, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	switch StorageType(cfg.Type) {
	case StorageTypeCOS:
		return NewCOSStorage(&COSConfig{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			SecretID:  cfg.SecretID,
			SecretKey: cfg.SecretKey,
			Domain:    cfg.Domain,
			Scheme:    cfg.Scheme,
		})
	default:
		return NewLocalStorage(cfg.LocalPath)
	}
}

// ValidateConfig validates the storage configuration.
func ValidateConfig(cfg *config.StorageConfig) error {
	if cfg == nil {
		return fmt.Errorf("storage config is nil")
	}

	storageType := StorageType(cfg.Type)
	if storageType == "" {
		storageType = StorageTypeLocal
	}

	switch storageType {
	case StorageTypeCOS:
		if cfg.Bucket == "" {
			return fmt.Errorf("COS bucket is required")
		}
		if cfg.Region == "" {
			return fmt.Errorf("COS region is required")
		}
		if cfg.SecretID == "" || cfg.SecretKey == "" {
			return fmt.Errorf("COS credentials are required")
		}
	case StorageTypeLocal:
		if cfg.LocalPath == "" {
			return fmt.Errorf("local storage path is required")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}

	return nil
}
