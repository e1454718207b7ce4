package worker

// report_worker.go
// Renders the closing report PDF for a finished session and hands it to the
// owner through a chained notification job.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/infra"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/model"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ReportJobPayload is the job envelope sent to QueueReports.
type ReportJobPayload struct {
	SessionID string `json:"session_id"`
}

// ReportWorker consumes QueueReports.
type ReportWorker struct {
	sessions       repository.SessionRepository
	terminals      repository.TerminalRepository
	movements      repository.CashMovementRepository
	users          repository.UserRepository
	dispatcher     *Dispatcher
	pdfStoragePath string
}

func NewReportWorker(
	sessions repository.SessionRepository,
	terminals repository.TerminalRepository,
	movements repository.CashMovementRepository,
	users repository.UserRepository,
	dispatcher *Dispatcher,
	pdfStoragePath string,
) *ReportWorker {
	return &ReportWorker{
		sessions:       sessions,
		terminals:      terminals,
		movements:      movements,
		users:          users,
		dispatcher:     dispatcher,
		pdfStoragePath: pdfStoragePath,
	}
}

// Process handles a single report job:
//  1. Parse ReportJobPayload from the job envelope
//  2. Fetch the session with its ledger, plus terminal and cashier
//  3. Fold the ledger into the expected cash figure
//  4. Render the PDF and store its path on the session
//  5. Chain a notification job so the owner gets the report by e-mail
func (w *ReportWorker) Process(ctx context.Context, job Job) error {
	var payload ReportJobPayload
	if err := json.Unmarshal(job.Payload, &payload); err != nil {
		log.Error().Err(err).Msg("report_worker: invalid payload")
		return nil
	}
	sessionID, err := uuid.Parse(payload.SessionID)
	if err != nil {
		log.Error().Str("session_id", payload.SessionID).Msg("report_worker: invalid session_id")
		return nil
	}

	sess, err := w.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("report_worker: session lookup: %w", err)
	}
	terminal, err := w.terminals.FindByID(ctx, sess.TerminalID)
	if err != nil {
		return fmt.Errorf("report_worker: terminal lookup: %w", err)
	}

	userName := sess.UserID.String()
	if owner, err := w.users.FindByID(ctx, sess.UserID); err == nil {
		userName = owner.Name
	}
	sucursalName := terminal.Sucursal.Name

	expected, err := w.movements.ExpectedCashBySession(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("report_worker: ledger sum: %w", err)
	}

	pdfPath, err := infra.GenerateSessionReportPDF(infra.SessionReport{
		Session:      sess,
		Movements:    sess.Movements,
		SucursalName: sucursalName,
		TerminalName: terminal.Name,
		UserName:     userName,
		ExpectedCash: expected,
	}, w.pdfStoragePath)
	if err != nil {
		return fmt.Errorf("report_worker: render: %w", err)
	}

	if err := w.sessions.UpdateReportPath(ctx, sessionID, pdfPath); err != nil {
		log.Warn().Err(err).Str("session_id", payload.SessionID).
			Msg("report_worker: failed to store report path")
	}
	log.Info().Str("pdf", pdfPath).Str("session_id", payload.SessionID).Msg("report_worker: report generated")

	if w.dispatcher != nil {
		notif := NotificationJobPayload{
			UserID:  sess.UserID.String(),
			Kind:    model.NotifSessionReport,
			Message: fmt.Sprintf("El reporte de cierre de tu sesión del %s está disponible.", sess.OpenedAt.Format("02/01/2006")),
			PDFPath: pdfPath,
		}
		if err := w.dispatcher.EnqueueNotification(ctx, notif); err != nil {
			log.Warn().Err(err).Str("session_id", payload.SessionID).
				Msg("report_worker: failed to enqueue notification")
		}
	}
	return nil
}
