package worker

// remittance_cron.go
// Background goroutine that periodically looks for cash remittances stuck in
// PENDING and reminds the administrators. A remittance that never settles is
// cash that never reached the safe.

import (
	"context"
	"fmt"
	"time"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/model"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	remittanceTickInterval = 15 * time.Minute
	// remittanceStaleAfter is how long a remittance may stay PENDING before
	// the reminder fires.
	remittanceStaleAfter = 4 * time.Hour
	// remittanceReminderTTL spaces reminders for the same remittance.
	remittanceReminderTTL = 24 * time.Hour
)

// RemittanceCronConfig holds all dependencies for the reminder goroutine.
type RemittanceCronConfig struct {
	Remittances repository.CashRemittanceRepository
	Users       repository.UserRepository
	Dispatcher  *Dispatcher
	RDB         *redis.Client
}

// StartRemittanceCron launches a background goroutine that ticks every fifteen
// minutes and enqueues reminder notifications for stale PENDING remittances.
// It respects the context for graceful shutdown.
func StartRemittanceCron(ctx context.Context, cfg RemittanceCronConfig) {
	go func() {
		ticker := time.NewTicker(remittanceTickInterval)
		defer ticker.Stop()

		log.Info().Msg("remittance_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("remittance_cron: shutting down")
				return
			case <-ticker.C:
				processStaleRemittances(ctx, cfg)
			}
		}
	}()
}

func processStaleRemittances(ctx context.Context, cfg RemittanceCronConfig) {
	stale, err := cfg.Remittances.ListPendingOlderThan(ctx, remittanceStaleAfter)
	if err != nil {
		log.Error().Err(err).Msg("remittance_cron: failed to query pending remittances")
		return
	}
	if len(stale) == 0 {
		return
	}

	admins, err := cfg.Users.FindActiveByRoles(ctx, []string{model.RoleAdministrador})
	if err != nil {
		log.Error().Err(err).Msg("remittance_cron: failed to load administrators")
		return
	}
	if len(admins) == 0 {
		log.Warn().Msg("remittance_cron: no active administrators to notify")
		return
	}

	for i := range stale {
		rem := &stale[i]

		// SETNX gate: one reminder per remittance per TTL window, even with
		// several instances running the cron.
		key := fmt.Sprintf("remittance:notified:%s", rem.ID)
		ok, err := cfg.RDB.SetNX(ctx, key, 1, remittanceReminderTTL).Result()
		if err != nil {
			log.Error().Err(err).Str("remittance_id", rem.ID.String()).
				Msg("remittance_cron: dedup check failed")
			continue
		}
		if !ok {
			continue
		}

		msg := fmt.Sprintf(
			"Remesa de $%s pendiente desde %s sin confirmar ingreso a caja fuerte.",
			rem.Amount.StringFixed(0), rem.CreatedAt.Format("02/01/2006 15:04"))

		for j := range admins {
			payload := NotificationJobPayload{
				UserID:  admins[j].ID.String(),
				Kind:    model.NotifRemittancePending,
				Message: msg,
			}
			if err := cfg.Dispatcher.EnqueueNotification(ctx, payload); err != nil {
				log.Warn().Err(err).Str("remittance_id", rem.ID.String()).
					Msg("remittance_cron: failed to enqueue reminder")
			}
		}
		log.Info().Str("remittance_id", rem.ID.String()).Int("admins", len(admins)).
			Msg("remittance_cron: reminder enqueued")
	}
}
