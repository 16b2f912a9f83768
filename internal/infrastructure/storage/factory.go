package storage

import (
	"context"
	"fmt"

	filefolderapp "github.com/ventureflow/backend/internal/application/filefolder"
	"github.com/ventureflow/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// New returns the driver selected by cfg.Driver. The S3 bucket is created if missing.
func New(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (filefolderapp.ObjectStorage, error) {
	switch cfg.Driver {
	case config.StorageS3:
		s, err := NewS3ObjectStorage(&cfg, logger)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		logger.Info("object storage ready", zap.String("driver", cfg.Driver), zap.String("bucket", s.Bucket()))
		return s, nil
	case config.StorageLocal, "":
		s, err := NewLocalObjectStorage(cfg.LocalPath, cfg.PublicBaseURL)
		if err != nil {
			return nil, err
		}
		logger.Info("object storage ready", zap.String("driver", config.StorageLocal), zap.String("path", s.root))
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
