package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/laundry/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSystemAssetStorage_PutOpenDelete(t *testing.T) {
	s, err := NewFileSystemAssetStorage(t.TempDir(), "")
	require.NoError(t, err)
	ctx := context.Background()
	key := "tenant-1/image/2026/05/logo.png"

	require.NoError(t, s.Put(ctx, key, strings.NewReader("png-bytes"), 9, "image/png"))

	rc, err := s.Open(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, s.Put(ctx, key, strings.NewReader("replaced"), 8, "image/png"))
	rc, err = s.Open(ctx, key)
	require.NoError(t, err)
	data, _ = io.ReadAll(rc)
	_ = rc.Close()
	assert.Equal(t, "replaced", string(data))

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Open(ctx, key)
	assert.True(t, shared.IsNotFound(err))

	assert.NoError(t, s.Delete(ctx, key), "deleting a missing key is not an error")
}

func TestFileSystemAssetStorage_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileSystemAssetStorage(dir, "")
	require.NoError(t, err)

	require.NoError(t, s.Put(context.Background(), "t/pdf/a.pdf", strings.NewReader("%PDF"), 4, "application/pdf"))

	entries, err := os.ReadDir(filepath.Join(dir, "t", "pdf"))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "a.pdf", entries[0].Name())
}

func TestFileSystemAssetStorage_RejectsEscapingKeys(t *testing.T) {
	s, err := NewFileSystemAssetStorage(t.TempDir(), "")
	require.NoError(t, err)
	ctx := context.Background()

	for _, key := range []string{"", "../outside.txt", "a/../../outside.txt", "."} {
		err := s.Put(ctx, key, strings.NewReader("x"), 1, "text/plain")
		assert.Error(t, err, "key %q", key)
	}
}

func TestFileSystemAssetStorage_URL(t *testing.T) {
	s, err := NewFileSystemAssetStorage(t.TempDir(), "https://cdn.example.com/assets/")
	require.NoError(t, err)

	u, err := s.URL(context.Background(), "t1/image/2026/05/my logo.png", 0)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/assets/t1/image/2026/05/my%20logo.png", u)

	noBase, err := NewFileSystemAssetStorage(t.TempDir(), "")
	require.NoError(t, err)
	u, err = noBase.URL(context.Background(), "t1/x.png", 0)
	require.NoError(t, err)
	assert.Empty(t, u)
}

func TestNewFileSystemAssetStorage_RequiresPath(t *testing.T) {
	_, err := NewFileSystemAssetStorage("", "")
	assert.Error(t, err)
}
