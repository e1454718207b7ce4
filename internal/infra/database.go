package infra

import (
	"fmt"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (partial unique indexes, supporting indexes for the cron
// queries).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates/updates all tables and applies the SQL patches.
// Shared with integration tests so they run against the production schema.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Sucursal{},
		&model.User{},
		&model.Terminal{},
		&model.Session{},
		&model.CashMovement{},
		&model.CashRemittance{},
		&model.Product{},
		&model.PriceChange{},
		&model.AuditRecord{},
		&model.Notification{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL that GORM AutoMigrate cannot express.
// The partial unique indexes are the DB-level backstop for the session
// invariants: at most one OPEN session per terminal and per user. The row
// locks enforce them first; the indexes catch anything that slips past.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"one OPEN session per terminal", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uq_sessions_open_terminal') THEN
    CREATE UNIQUE INDEX uq_sessions_open_terminal
        ON sessions (terminal_id)
        WHERE status = 'OPEN';
  END IF;
END $$`},
		{"one OPEN session per user", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uq_sessions_open_user') THEN
    CREATE UNIQUE INDEX uq_sessions_open_user
        ON sessions (user_id)
        WHERE status = 'OPEN';
  END IF;
END $$`},
		{"pending remittances scan for the reminder cron", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_remittances_pending') THEN
    CREATE INDEX idx_remittances_pending
        ON cash_remittances (created_at)
        WHERE status = 'PENDING';
  END IF;
END $$`},
		{"audit lookups by entity", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_audit_entity') THEN
    CREATE INDEX idx_audit_entity
        ON audit_records (entity_type, entity_id, created_at DESC);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
