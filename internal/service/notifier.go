package service

import (
	"context"
	"fmt"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/model"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/worker"

	"github.com/rs/zerolog/log"
)

// Notifier surfaces session events to their owner after the transaction has
// committed. Delivery is best-effort: a lost notice never undoes a commit,
// so implementations log failures instead of returning them.
type Notifier interface {
	SessionAutoClosed(ctx context.Context, sess model.Session)
	SessionForceClosed(ctx context.Context, sess model.Session, justification string)
}

type queueNotifier struct {
	dispatcher *worker.Dispatcher
}

func NewQueueNotifier(dispatcher *worker.Dispatcher) Notifier {
	return &queueNotifier{dispatcher: dispatcher}
}

func (n *queueNotifier) SessionAutoClosed(ctx context.Context, sess model.Session) {
	n.enqueue(ctx, worker.NotificationJobPayload{
		UserID: sess.UserID.String(),
		Kind:   model.NotifSessionAutoClosed,
		Message: fmt.Sprintf(
			"Tu sesión abierta el %s quedó pendiente y fue cerrada automáticamente al iniciar una nueva en otro terminal.",
			sess.OpenedAt.Format("02/01/2006 15:04")),
	})
}

func (n *queueNotifier) SessionForceClosed(ctx context.Context, sess model.Session, justification string) {
	n.enqueue(ctx, worker.NotificationJobPayload{
		UserID:  sess.UserID.String(),
		Kind:    model.NotifSessionForced,
		Message: "Un administrador cerró tu sesión de forma forzada. Motivo: " + justification,
	})
}

func (n *queueNotifier) enqueue(ctx context.Context, payload worker.NotificationJobPayload) {
	if err := n.dispatcher.EnqueueNotification(ctx, payload); err != nil {
		log.Warn().Err(err).Str("kind", payload.Kind).Str("user_id", payload.UserID).
			Msg("notifier: failed to enqueue notification")
	}
}
