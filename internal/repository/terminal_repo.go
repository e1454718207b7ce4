package repository

import (
	"context"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TerminalRepository interface {
	// CreateTx inserts inside the caller's transaction; a nil tx falls back
	// to the bare connection.
	CreateTx(ctx context.Context, tx *gorm.DB, t *model.Terminal) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Terminal, error)
	ListBySucursal(ctx context.Context, sucursalID uuid.UUID) ([]model.Terminal, error)
	// LockByID takes the exclusive NOWAIT lock every mutating session flow
	// starts with. Terminal before session, always, to keep lock order global.
	LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Terminal, error)
	UpdateTx(ctx context.Context, tx *gorm.DB, t *model.Terminal) error
	// UpdateFields applies a partial update built from the present fields of
	// the admin request. DELETED terminals are never touched.
	UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type terminalRepo struct{ db *gorm.DB }

func NewTerminalRepository(db *gorm.DB) TerminalRepository { return &terminalRepo{db: db} }

func (r *terminalRepo) DB() *gorm.DB { return r.db }

func (r *terminalRepo) CreateTx(ctx context.Context, tx *gorm.DB, t *model.Terminal) error {
	db := tx
	if db == nil {
		db = r.db
	}
	return db.WithContext(ctx).Create(t).Error
}

func (r *terminalRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Terminal, error) {
	var t model.Terminal
	err := r.db.WithContext(ctx).Preload("Sucursal").First(&t, "id = ?", id).Error
	return &t, err
}

func (r *terminalRepo) ListBySucursal(ctx context.Context, sucursalID uuid.UUID) ([]model.Terminal, error) {
	var ts []model.Terminal
	err := r.db.WithContext(ctx).
		Where("sucursal_id = ? AND status <> ?", sucursalID, model.TerminalDeleted).
		Order("name ASC").Find(&ts).Error
	return ts, err
}

func (r *terminalRepo) LockByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Terminal, error) {
	var t model.Terminal
	if err := AcquireExclusive(ctx, tx, &t, "id = ?", id); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *terminalRepo) UpdateTx(ctx context.Context, tx *gorm.DB, t *model.Terminal) error {
	return tx.WithContext(ctx).Save(t).Error
}

func (r *terminalRepo) UpdateFields(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&model.Terminal{}).
		Where("id = ? AND status <> ?", id, model.TerminalDeleted).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
