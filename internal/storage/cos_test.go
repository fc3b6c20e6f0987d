package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hit-leiden/pkg/config"
)

func validCOSConfig() *COSConfig {
	return &COSConfig{
		Bucket:    "my-bucket",
		Region:    "ap-guangzhou",
		SecretID:  "test-id",
		SecretKey: "test-key",
	}
}

func TestNewCOSStorage_Validation(t *testing.T) {
	t.Run("MissingBucket", func(t *testing.T) {
		cfg := validCOSConfig()
		cfg.Bucket = ""
		_, err := NewCOSStorage(cfg)
		assert.Error(t, err)
	})

	t.Run("MissingRegion", func(t *testing.T) {
		cfg := validCOSConfig()
		cfg.Region = ""
		_, err := NewCOSStorage(cfg)
		assert.Error(t, err)
	})

	t.Run("MissingCredentials", func(t *testing.T) {
		cfg := validCOSConfig()
		cfg.SecretKey = ""
		_, err := NewCOSStorage(cfg)
		assert.Error(t, err)
	})
}

func TestCOSStorage_URL(t *testing.T) {
	store, err := NewCOSStorage(validCOSConfig())
	require.NoError(t, err)

	url := store.URL(PartitionKey("d1"))
	assert.Equal(t, "https://my-bucket.cos.ap-guangzhou.myqcloud.com/partitions/d1.bin", url)
}

func TestCOSStorage_URLWithCustomDomainAndScheme(t *testing.T) {
	cfg := validCOSConfig()
	cfg.Domain = "example.com"
	cfg.Scheme = "http"

	store, err := NewCOSStorage(cfg)
	require.NoError(t, err)
	assert.Equal(t, "http://my-bucket.cos.ap-guangzhou.example.com/k", store.URL("k"))
}

func TestNewStorage_COS(t *testing.T) {
	cfg := &config.StorageConfig{
		Type:      "cos",
		Bucket:    "test-bucket",
		Region:    "ap-guangzhou",
		SecretID:  "test-id",
		SecretKey: "test-key",
	}

	store, err := NewStorage(cfg)
	require.NoError(t, err)
	_, ok := store.(*COSStorage)
	assert.True(t, ok)
}

func TestValidateConfig(t *testing.T) {
	t.Run("NilConfig", func(t *testing.T) {
		assert.Error(t, ValidateConfig(nil))
	})

	t.Run("UnsupportedType", func(t *testing.T) {
		err := ValidateConfig(&config.StorageConfig{Type: "s3"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported storage type")
	})

	t.Run("COSMissingBucket", func(t *testing.T) {
		err := ValidateConfig(&config.StorageConfig{
			Type:      "cos",
			Region:    "ap-guangzhou",
			SecretID:  "test-id",
			SecretKey: "test-key",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "COS bucket is required")
	})

	t.Run("LocalMissingPath", func(t *testing.T) {
		err := ValidateConfig(&config.StorageConfig{Type: "local"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "local storage path is required")
	})

	t.Run("ValidLocal", func(t *testing.T) {
		assert.NoError(t, ValidateConfig(&config.StorageConfig{
			Type:      "local",
			LocalPath: "/tmp/storage",
		}))
	})

	t.Run("EmptyTypeDefaultsToLocal", func(t *testing.T) {
		assert.NoError(t, ValidateConfig(&config.StorageConfig{LocalPath: "/tmp/storage"}))
	})
}
