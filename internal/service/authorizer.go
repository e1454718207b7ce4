package service

import (
	"context"
	"crypto/subtle"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/apperr"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/model"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// RateLimiter is consulted before any PIN comparison and fed after one.
// The default implementation persists on the user row (account_limiter.go);
// tests swap in fakes.
type RateLimiter interface {
	// CheckRateLimit reports whether the user is currently locked out.
	CheckRateLimit(ctx context.Context, userID uuid.UUID) (bool, error)
	RecordFailure(ctx context.Context, userID uuid.UUID) error
	ResetFailures(ctx context.Context, userID uuid.UUID) error
}

// Authorizer resolves a step-up PIN to the supervisor or admin who owns it.
type Authorizer interface {
	// Authorize scans active users holding one of the eligible roles and
	// returns the first whose PIN matches. A rate-limited user is skipped as
	// if the PIN did not match, so the response never reveals which accounts
	// are locked.
	Authorize(ctx context.Context, candidatePIN string, eligibleRoles []string) (*model.User, error)
}

type pinAuthorizer struct {
	users   repository.UserRepository
	limiter RateLimiter
	verify  func(hash, candidate string) bool
}

func NewPINAuthorizer(users repository.UserRepository, limiter RateLimiter) Authorizer {
	return &pinAuthorizer{users: users, limiter: limiter, verify: verifyBcrypt}
}

func verifyBcrypt(hash, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(candidate)) == nil
}

func (a *pinAuthorizer) Authorize(ctx context.Context, candidatePIN string, eligibleRoles []string) (*model.User, error) {
	candidates, err := a.users.FindActiveByRoles(ctx, eligibleRoles)
	if err != nil {
		return nil, repository.Translate(err)
	}

	for i := range candidates {
		u := &candidates[i]

		limited, err := a.limiter.CheckRateLimit(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		if limited {
			continue
		}

		if u.PINHash != nil && *u.PINHash != "" {
			if a.verify(*u.PINHash, candidatePIN) {
				if err := a.limiter.ResetFailures(ctx, u.ID); err != nil {
					log.Error().Err(err).Str("user_id", u.ID.String()).Msg("authorizer: reset failures failed")
				}
				return u, nil
			}
			// Only a mismatch against a real hash feeds the counter.
			if err := a.limiter.RecordFailure(ctx, u.ID); err != nil {
				log.Error().Err(err).Str("user_id", u.ID.String()).Msg("authorizer: record failure failed")
			}
			continue
		}

		// Compatibility shim: plaintext PINs imported from the old system.
		// Works until the account gets a hash, and every use is logged so
		// the migration backlog stays visible.
		if u.LegacyPIN != nil && *u.LegacyPIN != "" {
			if subtle.ConstantTimeCompare([]byte(*u.LegacyPIN), []byte(candidatePIN)) == 1 {
				log.Warn().
					Str("user_id", u.ID.String()).
					Str("username", u.Username).
					Bool("legacy_pin", true).
					Msg("authorizer: plaintext PIN matched, account pending hash migration")
				if err := a.limiter.ResetFailures(ctx, u.ID); err != nil {
					log.Error().Err(err).Str("user_id", u.ID.String()).Msg("authorizer: reset failures failed")
				}
				return u, nil
			}
			// Legacy mismatches stay out of the counter: a typo against a
			// plaintext value must not lock a supervisor out of the hash path.
		}
	}

	return nil, apperr.New(apperr.Unauthorized, "PIN de autorización inválido")
}
