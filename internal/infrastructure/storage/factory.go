package storage

import (
	"fmt"

	"go.uber.org/zap"

	proposalapp "github.com/granada-os/backend/internal/application/proposal"
	infraconfig "github.com/granada-os/backend/internal/infrastructure/config"
)

// NewObjectStorage builds the object storage backend selected by the
// configured driver.
func NewObjectStorage(cfg *infraconfig.StorageConfig, logger *zap.Logger) (proposalapp.ObjectStorageService, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storage configuration is required")
	}

	switch cfg.Driver {
	case "local", "":
		return NewLocalObjectStorage(cfg.LocalPath)
	case "s3":
		return NewS3ObjectStorage(cfg, WithLogger(logger))
	default:
		return nil, fmt.Errorf("unknown storage driver: %q", cfg.Driver)
	}
}
