package repository

import (
	"context"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRepository interface {
	CreateTx(ctx context.Context, tx *gorm.DB, s *model.Session) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Session, error)
	// FindOpenByTerminalUser backs the idempotency check; runs inside tx so
	// the serializable snapshot covers it.
	FindOpenByTerminalUser(ctx context.Context, tx *gorm.DB, terminalID, userID uuid.UUID) (*model.Session, error)
	FindOpenByTerminal(ctx context.Context, terminalID uuid.UUID) (*model.Session, error)
	// FindOpenByUserElsewhere returns the user's stale OPEN sessions on any
	// other terminal (the ghost-cleanup set).
	FindOpenByUserElsewhere(ctx context.Context, tx *gorm.DB, userID, exceptTerminalID uuid.UUID) ([]model.Session, error)
	// LockOpenByTerminal locks the terminal's OPEN session, NOWAIT. Callers
	// must already hold the terminal lock.
	LockOpenByTerminal(ctx context.Context, tx *gorm.DB, terminalID uuid.UUID) (*model.Session, error)
	UpdateTx(ctx context.Context, tx *gorm.DB, s *model.Session) error
	// UpdateReportPath is the report worker's only write; it touches nothing
	// the engine owns.
	UpdateReportPath(ctx context.Context, id uuid.UUID, path string) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Session, error)
}

type sessionRepo struct{ db *gorm.DB }

func NewSessionRepository(db *gorm.DB) SessionRepository { return &sessionRepo{db: db} }

func (r *sessionRepo) CreateTx(ctx context.Context, tx *gorm.DB, s *model.Session) error {
	return tx.WithContext(ctx).Create(s).Error
}

func (r *sessionRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Session, error) {
	var s model.Session
	err := r.db.WithContext(ctx).Preload("Movements").First(&s, "id = ?", id).Error
	return &s, err
}

func (r *sessionRepo) FindOpenByTerminalUser(ctx context.Context, tx *gorm.DB, terminalID, userID uuid.UUID) (*model.Session, error) {
	var s model.Session
	err := tx.WithContext(ctx).
		Where("terminal_id = ? AND user_id = ? AND status = ?", terminalID, userID, model.SessionOpen).
		First(&s).Error
	return &s, err
}

func (r *sessionRepo) FindOpenByTerminal(ctx context.Context, terminalID uuid.UUID) (*model.Session, error) {
	var s model.Session
	err := r.db.WithContext(ctx).
		Where("terminal_id = ? AND status = ?", terminalID, model.SessionOpen).
		First(&s).Error
	return &s, err
}

func (r *sessionRepo) FindOpenByUserElsewhere(ctx context.Context, tx *gorm.DB, userID, exceptTerminalID uuid.UUID) ([]model.Session, error) {
	var ss []model.Session
	err := tx.WithContext(ctx).
		Where("user_id = ? AND status = ? AND terminal_id <> ?", userID, model.SessionOpen, exceptTerminalID).
		Find(&ss).Error
	return ss, err
}

func (r *sessionRepo) LockOpenByTerminal(ctx context.Context, tx *gorm.DB, terminalID uuid.UUID) (*model.Session, error) {
	var s model.Session
	if err := AcquireExclusive(ctx, tx, &s, "terminal_id = ? AND status = ?", terminalID, model.SessionOpen); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepo) UpdateTx(ctx context.Context, tx *gorm.DB, s *model.Session) error {
	return tx.WithContext(ctx).Save(s).Error
}

func (r *sessionRepo) UpdateReportPath(ctx context.Context, id uuid.UUID, path string) error {
	return r.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ?", id).Update("report_path", path).Error
}

func (r *sessionRepo) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Session, error) {
	var ss []model.Session
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("opened_at DESC").Limit(limit).
		Find(&ss).Error
	return ss, err
}
