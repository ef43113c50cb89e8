package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/laundry/backend/internal/domain/shared"
	"github.com/laundry/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeS3 understands the path-style object calls the storage makes
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3(t *testing.T) *httptest.Server {
	f := &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return srv
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := strings.TrimPrefix(r.URL.Path, "/")
	switch r.Method {
	case http.MethodHead:
		w.WriteHeader(http.StatusOK)
	case http.MethodPut:
		data, _ := io.ReadAll(r.Body)
		f.objects[path] = data
		f.types[path] = r.Header.Get("Content-Type")
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		data, ok := f.objects[path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", f.types[path])
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	case http.MethodDelete:
		delete(f.objects, path)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestS3Storage(t *testing.T, endpoint string) *S3AssetStorage {
	t.Helper()
	s, err := NewS3AssetStorage(context.Background(), config.StorageConfig{
		PresignExpiry: 10 * time.Minute,
		S3: config.S3Config{
			Endpoint:        endpoint,
			Region:          "ap-south-1",
			Bucket:          "laundry-assets",
			AccessKeyID:     "test-key",
			SecretAccessKey: "test-secret",
			UsePathStyle:    true,
		},
	}, WithLogger(zap.NewNop()))
	require.NoError(t, err)
	return s
}

func TestNewS3AssetStorage_RequiresBucket(t *testing.T) {
	_, err := NewS3AssetStorage(context.Background(), config.StorageConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket is required")
}

func TestS3AssetStorage_PutOpenDelete(t *testing.T) {
	srv := newFakeS3(t)
	s := newTestS3Storage(t, srv.URL)
	ctx := context.Background()
	key := "tenant-1/pdf/2026/05/invoice.pdf"

	require.NoError(t, s.EnsureBucket(ctx))
	require.NoError(t, s.Put(ctx, key, io.NopCloser(strings.NewReader("%PDF-1.7")), 8, "application/pdf"))

	rc, err := s.Open(ctx, key)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "%PDF-1.7", string(data))

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Open(ctx, key)
	assert.True(t, shared.IsNotFound(err))
}

func TestS3AssetStorage_PresignedURL(t *testing.T) {
	s := newTestS3Storage(t, "http://localhost:9000")

	u, err := s.URL(context.Background(), "tenant-1/image/2026/05/logo.png", 0)

	require.NoError(t, err)
	assert.Contains(t, u, "http://localhost:9000/laundry-assets/tenant-1/image/2026/05/logo.png")
	assert.Contains(t, u, "X-Amz-Expires=600")
	assert.Contains(t, u, "X-Amz-Signature=")
}

func TestNormalizeEndpoint(t *testing.T) {
	assert.Equal(t, "https://s3.example.com", normalizeEndpoint("s3.example.com"))
	assert.Equal(t, "http://minio:9000", normalizeEndpoint("http://minio:9000"))
}
