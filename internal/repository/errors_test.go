package repository

import (
	"errors"
	"testing"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/apperr"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateKinds(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want apperr.Kind
	}{
		{"record not found", gorm.ErrRecordNotFound, apperr.NotFound},
		{"lock not available", &pgconn.PgError{Code: "55P03"}, apperr.Busy},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, apperr.Conflict},
		{"deadlock victim", &pgconn.PgError{Code: "40P01"}, apperr.Conflict},
		{"unique violation", &pgconn.PgError{Code: "23505"}, apperr.Conflict},
		{"anything else", errors.New("connection reset"), apperr.Fault},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Translate(tc.err)
			assert.Equal(t, tc.want, apperr.KindOf(got))
			// The cause stays in the chain for logging.
			assert.ErrorIs(t, got, tc.err)
		})
	}
}

func TestTranslateNil(t *testing.T) {
	assert.NoError(t, Translate(nil))
}

func TestTranslatePassesThroughClassifiedErrors(t *testing.T) {
	// An error that already carries a kind must keep its message; a second
	// pass through a repository boundary cannot blur it into a Fault.
	original := apperr.New(apperr.Occupied, "El terminal está ocupado por otro cajero")
	translated := Translate(original)
	assert.Equal(t, apperr.Occupied, apperr.KindOf(translated))
	assert.Equal(t, "El terminal está ocupado por otro cajero", apperr.Message(translated))
}

func TestTranslateWrappedDriverError(t *testing.T) {
	// Drivers often wrap the SQLSTATE error; detection has to unwrap.
	wrapped := &wrapErr{inner: &pgconn.PgError{Code: "55P03"}}
	assert.Equal(t, apperr.Busy, apperr.KindOf(Translate(wrapped)))
	assert.True(t, IsLockNotAvailable(wrapped))
}

type wrapErr struct{ inner error }

func (w *wrapErr) Error() string { return "tx failed: " + w.inner.Error() }
func (w *wrapErr) Unwrap() error { return w.inner }

func TestRetryableClassification(t *testing.T) {
	assert.True(t, apperr.Retryable(Translate(&pgconn.PgError{Code: "55P03"})))
	assert.True(t, apperr.Retryable(Translate(&pgconn.PgError{Code: "40001"})))
	assert.False(t, apperr.Retryable(Translate(gorm.ErrRecordNotFound)))
	assert.False(t, apperr.Retryable(Translate(errors.New("boom"))))
}

func TestIsUndefinedTable(t *testing.T) {
	assert.True(t, IsUndefinedTable(&pgconn.PgError{Code: "42P01"}))
	assert.False(t, IsUndefinedTable(errors.New("boom")))
	assert.False(t, IsUndefinedTable(nil))
}
