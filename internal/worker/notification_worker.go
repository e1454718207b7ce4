package worker

// notification_worker.go
// Processes operator notification jobs from QueueNotifications: persists the
// Notification row, then e-mails the owner when an address is on file.
// The row write is the part that matters; e-mail is best-effort on top.

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/infra"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/model"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// NotificationJobPayload is the job envelope sent to QueueNotifications.
type NotificationJobPayload struct {
	UserID  string `json:"user_id"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	// PDFPath optionally attaches a generated report to the e-mail.
	PDFPath string `json:"pdf_path,omitempty"`
}

var emailSubjects = map[string]string{
	model.NotifSessionAutoClosed: "Sesión cerrada automáticamente",
	model.NotifSessionForced:     "Sesión cerrada por un administrador",
	model.NotifRemittancePending: "Remesa de efectivo pendiente",
	model.NotifSessionReport:     "Reporte de cierre de sesión",
}

// NotificationWorker consumes QueueNotifications.
type NotificationWorker struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	mailer        *infra.Mailer
}

func NewNotificationWorker(
	notifications repository.NotificationRepository,
	users repository.UserRepository,
	mailer *infra.Mailer,
) *NotificationWorker {
	return &NotificationWorker{notifications: notifications, users: users, mailer: mailer}
}

// Process persists the notification and sends the e-mail. A failed row write
// returns an error so the pool requeues the job; a failed e-mail only logs,
// because retrying the whole job would duplicate the row.
func (w *NotificationWorker) Process(ctx context.Context, job Job) error {
	var payload NotificationJobPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		log.Error().Err(err).Msg("notification_worker: invalid payload")
		return nil // malformed jobs never become valid, drop instead of requeue
	}

	userID, err := uuid.Parse(payload.UserID)
	if err != nil {
		log.Error().Str("user_id", payload.UserID).Msg("notification_worker: invalid user_id")
		return nil
	}

	n := &model.Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Kind:    payload.Kind,
		Message: payload.Message,
	}
	if err := w.notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("notification_worker: persist: %w", err)
	}

	w.sendEmail(ctx, userID, payload)
	return nil
}

func (w *NotificationWorker) sendEmail(ctx context.Context, userID uuid.UUID, payload NotificationJobPayload) {
	if w.mailer == nil {
		return
	}
	if w.mailer.Breaker().State() == infra.CBOpen {
		log.Debug().Msg("notification_worker: SMTP circuit open, skipping e-mail")
		return
	}

	user, err := w.users.FindByID(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("notification_worker: owner lookup failed")
		return
	}
	if user.Email == nil || *user.Email == "" {
		return
	}

	subject, ok := emailSubjects[payload.Kind]
	if !ok {
		subject = "Notificación Farmacias Vallenar"
	}

	err = withRetry(ctx, 3, func(attempt int) error {
		if serr := w.mailer.Send(*user.Email, subject, payload.Message, payload.PDFPath); serr != nil {
			log.Warn().Err(serr).Int("attempt", attempt+1).Str("to", *user.Email).
				Msg("notification_worker: send attempt failed, retrying")
			return serr
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("to", *user.Email).Msg("notification_worker: e-mail gave up")
		return
	}
	log.Info().Str("to", *user.Email).Str("kind", payload.Kind).Msg("notification_worker: e-mail sent")
}

// withRetry calls fn up to maxAttempts times with exponential backoff.
// Backoff schedule: attempt 1 = immediate, 2 = 1s, 3 = 2s.
// Returns nil if any attempt succeeds; last error otherwise.
func withRetry(ctx context.Context, maxAttempts int, fn func(attempt int) error) error {
	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		if i > 0 {
			// 1s, 2s … (exponential backoff)
			wait := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
		if err := fn(i); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
