package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hit-leiden/pkg/config"
)

func newTestStorage(t *testing.T) *LocalStorage {
	t.Helper()
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestNewLocalStorage_CreatesBaseDir(t *testing.T) {
	base := filepath.Join(t.TempDir(), "nested", "store")

	store, err := NewLocalStorage(base)
	require.NoError(t, err)
	require.NotNil(t, store)

	info, err := os.Stat(base)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLocalStorage_UploadDownloadRoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	key := PartitionKey("d1")

	require.NoError(t, store.Upload(ctx, key, strings.NewReader("partition image")))

	body, err := store.Download(ctx, key)
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "partition image", string(data))
}

func TestLocalStorage_UploadReplacesAtomically(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	key := SnapshotKey("s1")

	require.NoError(t, store.Upload(ctx, key, strings.NewReader("v1")))
	require.NoError(t, store.Upload(ctx, key, strings.NewReader("v2")))

	body, err := store.Download(ctx, key)
	require.NoError(t, err)
	defer body.Close()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "v2", string(data))

	// No staging leftovers next to the published blob.
	entries, err := os.ReadDir(filepath.Dir(store.URL(key)))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "s1.json", entries[0].Name())
}

func TestLocalStorage_DownloadMissing(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.Download(context.Background(), PartitionKey("absent"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "blob not found")
}

func TestLocalStorage_ExistsAndDelete(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()
	key := ReportKey("run:d1")

	ok, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Upload(ctx, key, bytes.NewReader([]byte("{}"))))

	ok, err = store.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Delete(ctx, key))
	// Deleting a missing key is not an error.
	require.NoError(t, store.Delete(ctx, key))

	ok, err = store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalStorage_CancelledContext(t *testing.T) {
	store := newTestStorage(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Error(t, store.Upload(ctx, "k", strings.NewReader("x")))
	_, err := store.Download(ctx, "k")
	assert.Error(t, err)
}

func TestKeyLayout(t *testing.T) {
	assert.Equal(t, "snapshots/s1.json", SnapshotKey("s1"))
	assert.Equal(t, "partitions/d1.bin", PartitionKey("d1"))
	assert.Equal(t, "reports/run:d1.json", ReportKey("run:d1"))
}

func TestNewStorage_DefaultsToLocal(t *testing.T) {
	store, err := NewStorage(&config.StorageConfig{LocalPath: t.TempDir()})
	require.NoError(t, err)
	_, ok := store.(*LocalStorage)
	assert.True(t, ok)
}
