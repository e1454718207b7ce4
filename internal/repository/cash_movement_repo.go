package repository

import (
	"context"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CashMovementRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, m *model.CashMovement) error
	ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.CashMovement, error)
	// ExpectedCashBySession folds the session ledger into the cash the drawer
	// should hold: float plus sales plus adjustments minus refunds. The
	// closing count is the declared figure, not a delta, so it is excluded.
	ExpectedCashBySession(ctx context.Context, sessionID uuid.UUID) (decimal.Decimal, error)
}

type cashMovementRepo struct{ db *gorm.DB }

func NewCashMovementRepository(db *gorm.DB) CashMovementRepository {
	return &cashMovementRepo{db: db}
}

func (r *cashMovementRepo) CreateTx(ctx context.Context, tx *gorm.DB, m *model.CashMovement) error {
	return tx.WithContext(ctx).Create(m).Error
}

func (r *cashMovementRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]model.CashMovement, error) {
	var movs []model.CashMovement
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC").Find(&movs).Error
	return movs, err
}

func (r *cashMovementRepo) ExpectedCashBySession(ctx context.Context, sessionID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.CashMovement{}).
		Select(`SUM(CASE type
			WHEN ? THEN -amount
			WHEN ? THEN 0
			ELSE amount END)`, model.MovementRefund, model.MovementCloseCount).
		Where("session_id = ?", sessionID).
		Scan(&total).Error
	if err != nil || !total.Valid {
		return decimal.Zero, err
	}
	return total.Decimal, nil
}
