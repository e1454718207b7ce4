package repository

import (
	"context"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PriceChangeRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, pc *model.PriceChange) error
	ListByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]model.PriceChange, error)
}

type priceChangeRepo struct{ db *gorm.DB }

func NewPriceChangeRepository(db *gorm.DB) PriceChangeRepository {
	return &priceChangeRepo{db: db}
}

func (r *priceChangeRepo) CreateTx(ctx context.Context, tx *gorm.DB, pc *model.PriceChange) error {
	return tx.WithContext(ctx).Create(pc).Error
}

func (r *priceChangeRepo) ListByProduct(ctx context.Context, productID uuid.UUID, limit int) ([]model.PriceChange, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var pcs []model.PriceChange
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").Limit(limit).
		Find(&pcs).Error
	return pcs, err
}
