package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/apperr"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/dto"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Fixture ───────────────────────────────────────────────────────────────────

type accountFixture struct {
	users   *fakeUserRepo
	audit   *fakeAuditRepo
	auth    *stubAuthorizer
	svc     AccountService
	adminID uuid.UUID
	target  *model.User
}

func newAccountFixture(t *testing.T) *accountFixture {
	t.Helper()
	f := &accountFixture{
		users: newFakeUserRepo(),
		audit: &fakeAuditRepo{},
		auth:  &stubAuthorizer{},
	}
	admin := f.users.add(model.User{Username: "admin", Name: "Administrador", Role: model.RoleAdministrador, Active: true})
	f.adminID = admin.ID
	f.target = f.users.add(model.User{Username: "jrojas", Name: "Juan Rojas", Role: model.RoleCajero, Active: true})
	f.svc = NewAccountService(f.users, NewAuditRecorder(f.audit), f.auth)
	return f
}

func (f *accountFixture) targetNow(t *testing.T) *model.User {
	t.Helper()
	u, err := f.users.FindByID(context.Background(), f.target.ID)
	require.NoError(t, err)
	return u
}

func (f *accountFixture) lockReq() dto.LockAccountRequest {
	return dto.LockAccountRequest{
		UserID:        f.target.ID.String(),
		Justification: "Investigación por diferencias de caja",
	}
}

func (f *accountFixture) unlockReq(pin string) dto.UnlockAccountRequest {
	return dto.UnlockAccountRequest{
		UserID:        f.target.ID.String(),
		SupervisorPIN: pin,
		Justification: "Investigación cerrada sin cargos",
	}
}

// ── Lock ──────────────────────────────────────────────────────────────────────

func TestLockAccount(t *testing.T) {
	f := newAccountFixture(t)

	require.NoError(t, f.svc.Lock(context.Background(), f.adminID, f.lockReq()))

	target := f.targetNow(t)
	require.NotNil(t, target.LockedUntil)
	// A manual lock sits decades out so it can never be mistaken for a
	// step-up cool-down window.
	assert.True(t, target.LockedUntil.After(time.Now().AddDate(99, 0, 0)))
	assert.True(t, target.IsLocked(time.Now()))

	audits := f.audit.byAction(model.AuditAccountLock)
	require.Len(t, audits, 1)
	assert.Equal(t, f.adminID, audits[0].UserID)
	assert.Equal(t, model.EntityUser, audits[0].EntityType)
	assert.Equal(t, f.target.ID, audits[0].EntityID)
	require.NotNil(t, audits[0].Justification)
	assert.Contains(t, *audits[0].Justification, "diferencias de caja")
}

func TestLockAccountIdempotentRetry(t *testing.T) {
	f := newAccountFixture(t)

	require.NoError(t, f.svc.Lock(context.Background(), f.adminID, f.lockReq()))
	require.NoError(t, f.svc.Lock(context.Background(), f.adminID, f.lockReq()))

	// The second lock found nothing to do and wrote no second audit entry.
	assert.Len(t, f.audit.byAction(model.AuditAccountLock), 1)
}

func TestLockAccountSelf(t *testing.T) {
	f := newAccountFixture(t)

	err := f.svc.Lock(context.Background(), f.adminID, dto.LockAccountRequest{
		UserID:        f.adminID.String(),
		Justification: "Bloqueo de mi propia cuenta",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Validation))
	assert.Contains(t, apperr.Message(err), "propia cuenta")
}

func TestLockAccountShortJustification(t *testing.T) {
	f := newAccountFixture(t)

	err := f.svc.Lock(context.Background(), f.adminID, dto.LockAccountRequest{
		UserID:        f.target.ID.String(),
		Justification: "robo",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Validation))
	assert.Contains(t, apperr.Message(err), "al menos 10")
}

func TestLockAccountUnknownUser(t *testing.T) {
	f := newAccountFixture(t)

	err := f.svc.Lock(context.Background(), f.adminID, dto.LockAccountRequest{
		UserID:        uuid.NewString(),
		Justification: "Investigación por diferencias de caja",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.NotFound))
	assert.Equal(t, "Usuario no encontrado", apperr.Message(err))
}

// ── Unlock ────────────────────────────────────────────────────────────────────

func TestUnlockAccount(t *testing.T) {
	f := newAccountFixture(t)
	supervisor := f.users.add(model.User{Username: "svaldivia", Name: "Sofía Valdivia", Role: model.RoleSupervisor, Active: true})
	f.auth.user = supervisor

	require.NoError(t, f.svc.Lock(context.Background(), f.adminID, f.lockReq()))
	require.NoError(t, f.svc.Unlock(context.Background(), f.adminID, f.unlockReq("4321")))

	target := f.targetNow(t)
	assert.Nil(t, target.LockedUntil)
	assert.Zero(t, target.FailedPINAttempts)
	assert.False(t, target.IsLocked(time.Now()))

	audits := f.audit.byAction(model.AuditAccountUnlock)
	require.Len(t, audits, 1)
	require.NotNil(t, audits[0].NewValues)
	assert.Contains(t, *audits[0].NewValues, `"authorized_by":"svaldivia"`)
	require.NotNil(t, audits[0].Justification)
}

func TestUnlockAccountClearsFailedAttempts(t *testing.T) {
	f := newAccountFixture(t)
	f.auth.user = f.users.add(model.User{Username: "svaldivia", Name: "Sofía Valdivia", Role: model.RoleSupervisor, Active: true})

	// Not administratively locked, but carrying step-up failures; the unlock
	// wipes those too.
	require.NoError(t, f.users.UpdateStepUp(context.Background(), f.target.ID, 2, nil))

	require.NoError(t, f.svc.Unlock(context.Background(), f.adminID, f.unlockReq("4321")))
	assert.Zero(t, f.targetNow(t).FailedPINAttempts)
	assert.Len(t, f.audit.byAction(model.AuditAccountUnlock), 1)
}

func TestUnlockAccountIdempotentRetry(t *testing.T) {
	f := newAccountFixture(t)
	f.auth.user = f.users.add(model.User{Username: "svaldivia", Name: "Sofía Valdivia", Role: model.RoleSupervisor, Active: true})

	// Already unlocked: succeeds without writing an audit entry.
	require.NoError(t, f.svc.Unlock(context.Background(), f.adminID, f.unlockReq("4321")))
	assert.Equal(t, 0, f.audit.count())
}

func TestUnlockAccountRejectedPIN(t *testing.T) {
	f := newAccountFixture(t)
	f.auth.err = apperr.New(apperr.Unauthorized, "PIN de autorización inválido")

	require.NoError(t, f.svc.Lock(context.Background(), f.adminID, f.lockReq()))
	err := f.svc.Unlock(context.Background(), f.adminID, f.unlockReq("9999"))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Unauthorized))
	assert.True(t, f.targetNow(t).IsLocked(time.Now()))
}

func TestUnlockAccountBadPINFormat(t *testing.T) {
	f := newAccountFixture(t)

	err := f.svc.Unlock(context.Background(), f.adminID, f.unlockReq("99"))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Validation))
	assert.Equal(t, 0, f.auth.calls)
}

func TestUnlockAccountAuditFailureAborts(t *testing.T) {
	f := newAccountFixture(t)
	f.auth.user = f.users.add(model.User{Username: "svaldivia", Name: "Sofía Valdivia", Role: model.RoleSupervisor, Active: true})
	require.NoError(t, f.svc.Lock(context.Background(), f.adminID, f.lockReq()))

	f.audit.failErr = errors.New("audit tablespace full")
	err := f.svc.Unlock(context.Background(), f.adminID, f.unlockReq("4321"))
	require.Error(t, err)
	// A lockout lifted without a trace defeats the lockout; the failure
	// must abort the transaction.
	assert.True(t, apperr.Is(err, apperr.Fault))
	assert.Contains(t, apperr.Message(err), "auditoría obligatoria")
}

// ── Status ────────────────────────────────────────────────────────────────────

func TestAccountStatus(t *testing.T) {
	f := newAccountFixture(t)
	require.NoError(t, f.svc.Lock(context.Background(), f.adminID, f.lockReq()))

	status, err := f.svc.Status(context.Background(), f.target.ID)
	require.NoError(t, err)
	assert.Equal(t, "jrojas", status.Username)
	assert.Equal(t, model.RoleCajero, status.Role)
	assert.True(t, status.Locked)
	require.NotNil(t, status.LockedUntil)
	parsed, perr := time.Parse(time.RFC3339, *status.LockedUntil)
	require.NoError(t, perr)
	assert.True(t, parsed.After(time.Now()))
}

func TestAccountStatusUnlocked(t *testing.T) {
	f := newAccountFixture(t)

	status, err := f.svc.Status(context.Background(), f.target.ID)
	require.NoError(t, err)
	assert.False(t, status.Locked)
	assert.Nil(t, status.LockedUntil)
	assert.True(t, status.Active)
}

func TestAccountStatusUnknownUser(t *testing.T) {
	f := newAccountFixture(t)

	_, err := f.svc.Status(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}
