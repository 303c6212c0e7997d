package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/granada-os/backend/internal/infrastructure/config"
)

func TestNewS3ObjectStorage_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3ObjectStorage(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Driver:   "s3",
			S3Region: "us-east-1",
		}
		_, err := NewS3ObjectStorage(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("valid config creates storage", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Driver:     "s3",
			S3Bucket:   "granada-proposals",
			S3Region:   "us-east-1",
			S3Endpoint: "http://localhost:9000",
		}
		storage, err := NewS3ObjectStorage(cfg)
		require.NoError(t, err)
		require.NotNil(t, storage)
		assert.Equal(t, "granada-proposals", storage.bucket)
		assert.Equal(t, 15*time.Minute, storage.presignExpiration)
	})

	t.Run("prefix is trimmed", func(t *testing.T) {
		cfg := &config.StorageConfig{
			Driver:   "s3",
			S3Bucket: "granada-proposals",
			S3Prefix: "/proposals/",
		}
		storage, err := NewS3ObjectStorage(cfg)
		require.NoError(t, err)
		assert.Equal(t, "proposals", storage.prefix)
	})
}

func TestS3ObjectStorage_Options(t *testing.T) {
	cfg := &config.StorageConfig{
		Driver:   "s3",
		S3Bucket: "granada-proposals",
	}

	t.Run("WithLogger", func(t *testing.T) {
		logger := zaptest.NewLogger(t)
		storage, err := NewS3ObjectStorage(cfg, WithLogger(logger))
		require.NoError(t, err)
		assert.Same(t, logger, storage.logger)
	})

	t.Run("WithPresignExpiration", func(t *testing.T) {
		storage, err := NewS3ObjectStorage(cfg, WithPresignExpiration(30*time.Minute))
		require.NoError(t, err)
		assert.Equal(t, 30*time.Minute, storage.presignExpiration)
	})
}

func TestS3ObjectStorage_ObjectKey(t *testing.T) {
	t.Run("without prefix", func(t *testing.T) {
		s := &S3ObjectStorage{bucket: "b"}
		assert.Equal(t, "users/1/doc.pdf", s.objectKey("users/1/doc.pdf"))
	})

	t.Run("with prefix", func(t *testing.T) {
		s := &S3ObjectStorage{bucket: "b", prefix: "proposals"}
		assert.Equal(t, "proposals/users/1/doc.pdf", s.objectKey("users/1/doc.pdf"))
	})
}

func TestS3ObjectStorage_EmptyKeyGuards(t *testing.T) {
	cfg := &config.StorageConfig{
		Driver:   "s3",
		S3Bucket: "granada-proposals",
	}
	storage, err := NewS3ObjectStorage(cfg, WithLogger(zap.NewNop()))
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("GenerateUploadURL", func(t *testing.T) {
		_, _, err := storage.GenerateUploadURL(ctx, "", "application/pdf", time.Minute)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage key is required")
	})

	t.Run("GenerateDownloadURL", func(t *testing.T) {
		_, _, err := storage.GenerateDownloadURL(ctx, "", time.Minute)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage key is required")
	})

	t.Run("DeleteObject", func(t *testing.T) {
		err := storage.DeleteObject(ctx, "")
		require.Error(t, err)
	})

	t.Run("ObjectExists", func(t *testing.T) {
		_, err := storage.ObjectExists(ctx, "")
		require.Error(t, err)
	})
}
