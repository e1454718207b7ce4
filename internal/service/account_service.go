package service

import (
	"context"
	"strings"
	"time"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/apperr"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/dto"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/model"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// manualLockYears pushes locked_until far enough into the future that the
// step-up cool-down can never be confused with an administrative lock.
const manualLockYears = 100

// AccountService is the account lock/unlock variant of the session engine:
// one serializable transaction, user row lock NOWAIT, audit in the same unit
// of work. Only the two derived fields (failed_pin_attempts, locked_until)
// are written; the account itself belongs to the identity flows.
type AccountService interface {
	Lock(ctx context.Context, adminID uuid.UUID, req dto.LockAccountRequest) error
	// Unlock requires a supervisor PIN and a mandatory audit entry; a lockout
	// lifted without trace defeats the point of the lockout.
	Unlock(ctx context.Context, adminID uuid.UUID, req dto.UnlockAccountRequest) error
	Status(ctx context.Context, targetID uuid.UUID) (*dto.AccountStatusResponse, error)
}

type accountService struct {
	users      repository.UserRepository
	audit      AuditRecorder
	authorizer Authorizer
	now        func() time.Time
}

func NewAccountService(users repository.UserRepository, audit AuditRecorder, authorizer Authorizer) AccountService {
	return &accountService{users: users, audit: audit, authorizer: authorizer, now: time.Now}
}

func (s *accountService) Lock(ctx context.Context, adminID uuid.UUID, req dto.LockAccountRequest) error {
	targetID, justification, err := parseAccountRequest(req.UserID, req.Justification)
	if err != nil {
		return err
	}
	if targetID == adminID {
		return apperr.New(apperr.Validation, "No puedes bloquear tu propia cuenta")
	}

	return runSerializableTx(ctx, s.users.DB(), func(tx *gorm.DB) error {
		target, err := s.users.LockByID(ctx, tx, targetID)
		if err != nil {
			return refineAccountErr(err)
		}

		horizon := s.now().AddDate(manualLockYears, 0, 0)
		// Retried lock that already landed: nothing left to do.
		if target.LockedUntil != nil && target.LockedUntil.After(s.now().AddDate(manualLockYears/2, 0, 0)) {
			return nil
		}

		before := accountSnapshot(target)
		target.LockedUntil = &horizon
		if err := s.users.UpdateTx(ctx, tx, target); err != nil {
			return repository.Translate(err)
		}

		return s.audit.Record(ctx, tx, AuditEntry{
			Actor:         adminID,
			ActionCode:    model.AuditAccountLock,
			EntityType:    model.EntityUser,
			EntityID:      targetID,
			Before:        before,
			After:         accountSnapshot(target),
			Justification: justification,
		}, BestEffort)
	})
}

func (s *accountService) Unlock(ctx context.Context, adminID uuid.UUID, req dto.UnlockAccountRequest) error {
	targetID, justification, err := parseAccountRequest(req.UserID, req.Justification)
	if err != nil {
		return err
	}
	if !pinPattern.MatchString(req.SupervisorPIN) {
		return apperr.New(apperr.Validation, "El PIN debe tener entre 4 y 8 dígitos")
	}
	supervisor, err := s.authorizer.Authorize(ctx, req.SupervisorPIN, model.AuthorizerRoles)
	if err != nil {
		return err
	}

	return runSerializableTx(ctx, s.users.DB(), func(tx *gorm.DB) error {
		target, err := s.users.LockByID(ctx, tx, targetID)
		if err != nil {
			return refineAccountErr(err)
		}

		// Retried unlock that already landed: nothing left to do.
		if target.LockedUntil == nil && target.FailedPINAttempts == 0 {
			return nil
		}

		before := accountSnapshot(target)
		target.LockedUntil = nil
		target.FailedPINAttempts = 0
		if err := s.users.UpdateTx(ctx, tx, target); err != nil {
			return repository.Translate(err)
		}

		after := accountSnapshot(target)
		after["authorized_by"] = supervisor.Username
		return s.audit.Record(ctx, tx, AuditEntry{
			Actor:         adminID,
			ActionCode:    model.AuditAccountUnlock,
			EntityType:    model.EntityUser,
			EntityID:      targetID,
			Before:        before,
			After:         after,
			Justification: justification,
		}, Mandatory)
	})
}

// Status is a pure read, used by the back office before deciding on a lock.
func (s *accountService) Status(ctx context.Context, targetID uuid.UUID) (*dto.AccountStatusResponse, error) {
	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, refineAccountErr(repository.Translate(err))
	}

	resp := &dto.AccountStatusResponse{
		UserID:            target.ID.String(),
		Username:          target.Username,
		Name:              target.Name,
		Role:              target.Role,
		Active:            target.Active,
		Locked:            target.IsLocked(s.now()),
		FailedPINAttempts: target.FailedPINAttempts,
	}
	if target.LockedUntil != nil {
		lu := target.LockedUntil.Format(time.RFC3339)
		resp.LockedUntil = &lu
	}
	return resp, nil
}

func parseAccountRequest(rawID, rawJustification string) (uuid.UUID, string, error) {
	targetID, err := uuid.Parse(rawID)
	if err != nil {
		return uuid.Nil, "", apperr.New(apperr.Validation, "user_id inválido")
	}
	justification := strings.TrimSpace(rawJustification)
	if len([]rune(justification)) < MinJustificationLen {
		return uuid.Nil, "", apperr.Newf(apperr.Validation,
			"La justificación debe tener al menos %d caracteres", MinJustificationLen)
	}
	return targetID, justification, nil
}

func accountSnapshot(u *model.User) map[string]any {
	return map[string]any{
		"active":              u.Active,
		"locked_until":        u.LockedUntil,
		"failed_pin_attempts": u.FailedPINAttempts,
	}
}

func refineAccountErr(err error) error {
	switch apperr.KindOf(err) {
	case apperr.NotFound:
		return apperr.Wrap(apperr.NotFound, "Usuario no encontrado", err)
	case apperr.Busy:
		return apperr.Wrap(apperr.Busy, "La cuenta está siendo modificada por otra operación, reintente", err)
	}
	return err
}
