package service

import (
	"context"
	"database/sql"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/repository"

	"gorm.io/gorm"
)

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	// Translate covers failures fn never sees, like a serialization reject
	// at COMMIT; errors that already carry a kind pass through.
	return repository.Translate(db.WithContext(ctx).Transaction(fn))
}

// runSerializableTx is runTx at SERIALIZABLE isolation. Every mutating flow
// on contended rows (sessions, prices, account locks) goes through here so a
// read-check-write sequence can never act on a state that a concurrent
// commit invalidated; the loser gets a serialization reject instead.
func runSerializableTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	return repository.Translate(db.WithContext(ctx).Transaction(fn, &sql.TxOptions{Isolation: sql.LevelSerializable}))
}
