package storage

import (
	"context"
	"fmt"

	"github.com/laundry/backend/internal/domain/asset"
	"github.com/laundry/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// New builds the backend selected by cfg.Backend
func New(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (asset.Storage, error) {
	switch cfg.Backend {
	case "", "fs":
		logger.Info("Using filesystem asset storage", zap.String("base_path", cfg.BasePath))
		return NewFileSystemAssetStorage(cfg.BasePath, cfg.BaseURL)
	case "s3":
		s, err := NewS3AssetStorage(ctx, cfg, WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		logger.Info("Using S3 asset storage", zap.String("bucket", s.Bucket()))
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported storage backend %q", cfg.Backend)
	}
}
