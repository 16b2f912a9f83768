package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ventureflow/backend/internal/domain/shared"
	"github.com/ventureflow/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.StorageConfig
		want string
	}{
		{"nil config", nil, "configuration is required"},
		{"missing bucket", &config.StorageConfig{AccessKey: "k", SecretKey: "s"}, "bucket is required"},
		{"missing access key", &config.StorageConfig{Bucket: "b", SecretKey: "s"}, "access key is required"},
		{"missing secret key", &config.StorageConfig{Bucket: "b", AccessKey: "k"}, "secret key is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3ObjectStorage(tt.cfg, zap.NewNop())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestS3ObjectStorage_URL(t *testing.T) {
	t.Run("endpoint and bucket", func(t *testing.T) {
		s, err := NewS3ObjectStorage(&config.StorageConfig{
			Bucket: "deal-room", AccessKey: "k", SecretKey: "s", Endpoint: "minio:9000", PathStyle: true,
		}, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, "deal-room", s.Bucket())
		assert.Equal(t, "http://minio:9000/deal-room/tenants/a/b.pdf", s.URL("tenants/a/b.pdf"))
	})

	t.Run("public base url wins", func(t *testing.T) {
		s, err := NewS3ObjectStorage(&config.StorageConfig{
			Bucket: "deal-room", AccessKey: "k", SecretKey: "s", Endpoint: "minio:9000", UseSSL: true,
			PublicBaseURL: "https://cdn.example.com/",
		}, zap.NewNop())
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.example.com/x.png", s.URL("x.png"))
	})

	t.Run("empty key is rejected", func(t *testing.T) {
		s, err := NewS3ObjectStorage(&config.StorageConfig{Bucket: "b", AccessKey: "k", SecretKey: "s"}, zap.NewNop())
		require.NoError(t, err)
		ctx := context.Background()
		assert.Error(t, s.Put(ctx, "", bytes.NewReader(nil), 0, ""))
		_, err = s.Open(ctx, "")
		assert.Error(t, err)
		assert.Error(t, s.Delete(ctx, ""))
	})
}

// Runs against a real S3-compatible endpoint, e.g.
// VF_TEST_S3_ENDPOINT=localhost:9000 with MinIO's default credentials.
func TestS3ObjectStorage_Integration(t *testing.T) {
	endpoint := os.Getenv("VF_TEST_S3_ENDPOINT")
	if endpoint == "" {
		t.Skip("VF_TEST_S3_ENDPOINT not set")
	}
	s, err := NewS3ObjectStorage(&config.StorageConfig{
		Bucket:    "ventureflow-test",
		AccessKey: envOr("VF_TEST_S3_ACCESS_KEY", "minioadmin"),
		SecretKey: envOr("VF_TEST_S3_SECRET_KEY", "minioadmin"),
		Endpoint:  endpoint,
		PathStyle: true,
	}, zap.NewNop())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, s.EnsureBucket(ctx))
	require.NoError(t, s.EnsureBucket(ctx))

	key := "tenants/test/deal/1/term-sheet.txt"
	body := []byte("indicative offer")
	require.NoError(t, s.Put(ctx, key, bytes.NewReader(body), int64(len(body)), "text/plain"))

	rc, err := s.Open(ctx, key)
	require.NoError(t, err)
	got, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, body, got)

	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Open(ctx, key)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
