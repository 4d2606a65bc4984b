package repository

import (
	"context"
	"errors"

	"lumen/internal/models"

	"gorm.io/gorm"
)

// AssetRepository defines storage operations for uploaded image metadata.
type AssetRepository interface {
	Create(ctx context.Context, asset *models.Asset) error
	GetByHash(ctx context.Context, hash string) (*models.Asset, error)
}

type assetRepository struct {
	db *gorm.DB
}

// NewAssetRepository returns a repository implementation for asset metadata.
func NewAssetRepository(db *gorm.DB) AssetRepository {
	return &assetRepository{db: db}
}

func (r *assetRepository) Create(ctx context.Context, asset *models.Asset) error {
	if err := r.db.WithContext(ctx).Create(asset).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// GetByHash returns the asset with the given content hash, or nil when
// no such asset exists.
func (r *assetRepository) GetByHash(ctx context.Context, hash string) (*models.Asset, error) {
	var asset models.Asset
	if err := r.db.WithContext(ctx).Where("hash = ?", hash).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &asset, nil
}
