package service

import (
	"context"
	"time"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/repository"

	"github.com/google/uuid"
)

// accountLimiter is the default RateLimiter: the failure counter and lock
// horizon live on the user row itself, so every server instance sees the
// same state without extra infrastructure.
type accountLimiter struct {
	users       repository.UserRepository
	maxFailures int
	lockout     time.Duration
	now         func() time.Time
}

func NewAccountRateLimiter(users repository.UserRepository, maxFailures int, lockout time.Duration) RateLimiter {
	if maxFailures <= 0 {
		maxFailures = 3
	}
	return &accountLimiter{users: users, maxFailures: maxFailures, lockout: lockout, now: time.Now}
}

func (l *accountLimiter) CheckRateLimit(ctx context.Context, userID uuid.UUID) (bool, error) {
	u, err := l.users.FindByID(ctx, userID)
	if err != nil {
		return false, repository.Translate(err)
	}
	return u.IsLocked(l.now()), nil
}

func (l *accountLimiter) RecordFailure(ctx context.Context, userID uuid.UUID) error {
	u, err := l.users.FindByID(ctx, userID)
	if err != nil {
		return repository.Translate(err)
	}
	failures := u.FailedPINAttempts + 1
	until := u.LockedUntil
	if failures >= l.maxFailures {
		// Counter restarts with the window so the account is usable again
		// once it expires.
		t := l.now().Add(l.lockout)
		until = &t
		failures = 0
	}
	return repository.Translate(l.users.UpdateStepUp(ctx, userID, failures, until))
}

func (l *accountLimiter) ResetFailures(ctx context.Context, userID uuid.UUID) error {
	return repository.Translate(l.users.UpdateStepUp(ctx, userID, 0, nil))
}
