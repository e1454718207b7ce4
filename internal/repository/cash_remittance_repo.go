package repository

import (
	"context"
	"time"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CashRemittanceRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, rem *model.CashRemittance) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.CashRemittance, error)
	ListPending(ctx context.Context, sucursalID uuid.UUID) ([]model.CashRemittance, error)
	// ListPendingOlderThan feeds the reminder cron.
	ListPendingOlderThan(ctx context.Context, age time.Duration) ([]model.CashRemittance, error)
	Settle(ctx context.Context, id, supervisorID uuid.UUID) error
}

type cashRemittanceRepo struct{ db *gorm.DB }

func NewCashRemittanceRepository(db *gorm.DB) CashRemittanceRepository {
	return &cashRemittanceRepo{db: db}
}

func (r *cashRemittanceRepo) CreateTx(ctx context.Context, tx *gorm.DB, rem *model.CashRemittance) error {
	return tx.WithContext(ctx).Create(rem).Error
}

func (r *cashRemittanceRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.CashRemittance, error) {
	var rem model.CashRemittance
	err := r.db.WithContext(ctx).First(&rem, "id = ?", id).Error
	return &rem, err
}

func (r *cashRemittanceRepo) ListPending(ctx context.Context, sucursalID uuid.UUID) ([]model.CashRemittance, error) {
	var rems []model.CashRemittance
	err := r.db.WithContext(ctx).
		Where("sucursal_id = ? AND status = ?", sucursalID, model.RemittancePending).
		Order("created_at ASC").Find(&rems).Error
	return rems, err
}

func (r *cashRemittanceRepo) ListPendingOlderThan(ctx context.Context, age time.Duration) ([]model.CashRemittance, error) {
	cutoff := time.Now().Add(-age)
	var rems []model.CashRemittance
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", model.RemittancePending, cutoff).
		Order("created_at ASC").Find(&rems).Error
	return rems, err
}

func (r *cashRemittanceRepo) Settle(ctx context.Context, id, supervisorID uuid.UUID) error {
	now := time.Now()
	res := r.db.WithContext(ctx).Model(&model.CashRemittance{}).
		Where("id = ? AND status = ?", id, model.RemittancePending).
		Updates(map[string]any{
			"status":     model.RemittanceSettled,
			"settled_by": supervisorID,
			"settled_at": now,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
