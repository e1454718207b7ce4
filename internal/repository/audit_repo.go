package repository

import (
	"context"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditFilter narrows List; zero values mean "any".
type AuditFilter struct {
	UserID     uuid.UUID
	EntityType string
	EntityID   uuid.UUID
	ActionCode string
	Limit      int
}

type AuditRepository interface {
	// CreateTx writes inside the caller's transaction so mandatory records
	// commit or roll back with the mutation they document.
	CreateTx(ctx context.Context, tx *gorm.DB, rec *model.AuditRecord) error
	List(ctx context.Context, filter AuditFilter) ([]model.AuditRecord, error)
}

type auditRepo struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) AuditRepository { return &auditRepo{db: db} }

func (r *auditRepo) CreateTx(ctx context.Context, tx *gorm.DB, rec *model.AuditRecord) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).Create(rec).Error
}

func (r *auditRepo) List(ctx context.Context, filter AuditFilter) ([]model.AuditRecord, error) {
	q := r.db.WithContext(ctx).Model(&model.AuditRecord{})
	if filter.UserID != uuid.Nil {
		q = q.Where("user_id = ?", filter.UserID)
	}
	if filter.EntityType != "" {
		q = q.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != uuid.Nil {
		q = q.Where("entity_id = ?", filter.EntityID)
	}
	if filter.ActionCode != "" {
		q = q.Where("action_code = ?", filter.ActionCode)
	}
	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var recs []model.AuditRecord
	err := q.Order("created_at DESC").Limit(limit).Find(&recs).Error
	return recs, err
}
