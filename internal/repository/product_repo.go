package repository

import (
	"context"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Product, error)
	Search(ctx context.Context, term string, limit int) ([]model.Product, error)
	LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	UpdatePriceTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, price decimal.Decimal) error
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) DB() *gorm.DB { return r.db }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	return &p, err
}

func (r *productRepo) FindByBarcode(ctx context.Context, barcode string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("barcode = ? AND active = true", barcode).
		First(&p).Error
	return &p, err
}

func (r *productRepo) Search(ctx context.Context, term string, limit int) ([]model.Product, error) {
	var ps []model.Product
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	err := r.db.WithContext(ctx).
		Where("active = true AND (name ILIKE ? OR barcode = ?)", "%"+term+"%", term).
		Order("name ASC").Limit(limit).
		Find(&ps).Error
	return ps, err
}

func (r *productRepo) LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	if err := AcquireExclusive(ctx, tx, &p, "id = ?", id); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) UpdatePriceTx(ctx context.Context, tx *gorm.DB, id uuid.UUID, price decimal.Decimal) error {
	return tx.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", id).Update("price", price).Error
}
