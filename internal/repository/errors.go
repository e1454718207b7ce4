package repository

import (
	"errors"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes the engine branches on.
const (
	pgLockNotAvailable     = "55P03"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgUndefinedTable       = "42P01"
	pgUniqueViolation      = "23505"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsLockNotAvailable reports a NOWAIT lock that found the row held elsewhere.
func IsLockNotAvailable(err error) bool { return pgCode(err) == pgLockNotAvailable }

// IsSerializationFailure covers serializable-commit rejects and deadlock
// victims; both mean "retry the whole transaction".
func IsSerializationFailure(err error) bool {
	c := pgCode(err)
	return c == pgSerializationFailure || c == pgDeadlockDetected
}

// IsUndefinedTable reports a query against a table that does not exist.
// Best-effort audit writes tolerate this during staged rollouts.
func IsUndefinedTable(err error) bool { return pgCode(err) == pgUndefinedTable }

// IsUniqueViolation reports a unique or partial-unique index conflict.
func IsUniqueViolation(err error) bool { return pgCode(err) == pgUniqueViolation }

// IsNotFound reports gorm's empty-result error.
func IsNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }

// Translate maps storage-level failures onto the shared taxonomy so raw
// driver errors never leak past the repository layer. Errors that already
// carry a kind pass through untouched.
func Translate(err error) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	switch {
	case IsNotFound(err):
		return apperr.Wrap(apperr.NotFound, "Registro no encontrado", err)
	case IsLockNotAvailable(err):
		return apperr.Wrap(apperr.Busy, "El registro está siendo usado por otra operación, reintente", err)
	case IsSerializationFailure(err):
		return apperr.Wrap(apperr.Conflict, "Otra operación simultánea modificó los datos, reintente", err)
	case IsUniqueViolation(err):
		return apperr.Wrap(apperr.Conflict, "Otra operación simultánea creó el mismo registro, reintente", err)
	default:
		return apperr.Wrap(apperr.Fault, "Error de base de datos", err)
	}
}
