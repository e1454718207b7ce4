package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AcquireExclusive loads the row matching query into dest while taking an
// exclusive row lock that lasts until tx ends, failing immediately instead
// of queuing when another transaction holds it (FOR UPDATE NOWAIT).
//
// A POS operator staring at a frozen screen is worse than one told to
// retry, so nothing in this codebase ever waits on a row lock.
//
// Returns kind NotFound when no row matches and kind Busy when the row is
// held elsewhere. Must run inside an open transaction; the lock is released
// at commit or rollback.
func AcquireExclusive(ctx context.Context, tx *gorm.DB, dest any, query string, args ...any) error {
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate, Options: clause.LockingOptionsNoWait}).
		Where(query, args...).
		First(dest).Error
	return Translate(err)
}
