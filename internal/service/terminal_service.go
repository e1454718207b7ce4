package service

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/apperr"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/dto"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/model"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/repository"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MinJustificationLen is the minimum length for force-close and account
// lock/unlock justifications. Short "asdf" justifications defeat the
// compliance trail.
const MinJustificationLen = 10

var pinPattern = regexp.MustCompile(`^[0-9]{4,8}$`)

// TerminalService is the session lifecycle engine. Every mutating operation
// runs one SERIALIZABLE transaction, takes the terminal row lock first
// (NOWAIT), then the session lock, mutates terminal+session+ledger together
// and writes its audit entry before commit. On any error the whole unit of
// work is discarded; there is no partial state.
type TerminalService interface {
	Open(ctx context.Context, userID uuid.UUID, req dto.OpenTerminalRequest) (*dto.OpenTerminalResponse, error)
	// OpenAuthorized is Open gated on a supervisor PIN; the resolved
	// supervisor is recorded on the session and the audit entry.
	OpenAuthorized(ctx context.Context, userID uuid.UUID, req dto.OpenTerminalAuthorizedRequest) (*dto.OpenTerminalResponse, error)
	Close(ctx context.Context, userID uuid.UUID, req dto.CloseTerminalRequest) error
	ForceClose(ctx context.Context, adminID uuid.UUID, req dto.ForceCloseRequest) error
	Status(ctx context.Context, terminalID uuid.UUID) (*dto.TerminalStatusResponse, error)
}

type terminalService struct {
	terminals  repository.TerminalRepository
	sessions   repository.SessionRepository
	movements  repository.CashMovementRepository
	remits     repository.CashRemittanceRepository
	users      repository.UserRepository
	audit      AuditRecorder
	authorizer Authorizer
	notifier   Notifier
	dispatcher *worker.Dispatcher
}

func NewTerminalService(
	terminals repository.TerminalRepository,
	sessions repository.SessionRepository,
	movements repository.CashMovementRepository,
	remits repository.CashRemittanceRepository,
	users repository.UserRepository,
	audit AuditRecorder,
	authorizer Authorizer,
	notifier Notifier,
	dispatcher *worker.Dispatcher,
) TerminalService {
	return &terminalService{
		terminals:  terminals,
		sessions:   sessions,
		movements:  movements,
		remits:     remits,
		users:      users,
		audit:      audit,
		authorizer: authorizer,
		notifier:   notifier,
		dispatcher: dispatcher,
	}
}

// ── Open ──────────────────────────────────────────────────────────────────────

func (s *terminalService) Open(ctx context.Context, userID uuid.UUID, req dto.OpenTerminalRequest) (*dto.OpenTerminalResponse, error) {
	terminalID, err := uuid.Parse(req.TerminalID)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "terminal_id inválido")
	}
	return s.open(ctx, terminalID, userID, req.OpeningAmount, nil)
}

func (s *terminalService) OpenAuthorized(ctx context.Context, userID uuid.UUID, req dto.OpenTerminalAuthorizedRequest) (*dto.OpenTerminalResponse, error) {
	terminalID, err := uuid.Parse(req.TerminalID)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "terminal_id inválido")
	}
	if !pinPattern.MatchString(req.SupervisorPIN) {
		return nil, apperr.New(apperr.Validation, "El PIN debe tener entre 4 y 8 dígitos")
	}

	// The authorizer runs before the engine transaction: its side effects
	// (failure counters) must survive even when the open itself fails.
	supervisor, err := s.authorizer.Authorize(ctx, req.SupervisorPIN, model.AuthorizerRoles)
	if err != nil {
		return nil, err
	}
	return s.open(ctx, terminalID, userID, req.OpeningAmount, supervisor)
}

func (s *terminalService) open(ctx context.Context, terminalID, userID uuid.UUID, openingAmount decimal.Decimal, authorizedBy *model.User) (*dto.OpenTerminalResponse, error) {
	if openingAmount.IsNegative() {
		return nil, apperr.New(apperr.Validation, "El monto de apertura no puede ser negativo")
	}

	var (
		sessionID uuid.UUID
		reused    bool
		swept     []model.Session
	)

	txErr := runSerializableTx(ctx, s.terminals.DB(), func(tx *gorm.DB) error {
		swept = nil

		// Idempotency before anything else: "it's me, again" must win even
		// while the terminal row is locked by a concurrent transaction.
		if existing, err := s.sessions.FindOpenByTerminalUser(ctx, tx, terminalID, userID); err == nil {
			sessionID = existing.ID
			reused = true
			return nil
		} else if !repository.IsNotFound(err) {
			return repository.Translate(err)
		}

		terminal, err := s.terminals.LockByID(ctx, tx, terminalID)
		if err != nil {
			return refineTerminalErr(err)
		}
		if terminal.Status == model.TerminalDeleted {
			return apperr.New(apperr.NotFound, "Terminal no encontrado")
		}
		if terminal.Status == model.TerminalOpen &&
			terminal.CurrentOccupantID != nil && *terminal.CurrentOccupantID != userID {
			return apperr.New(apperr.Occupied, "El terminal está ocupado por otro cajero")
		}

		// A user holds at most one open session system-wide: sweep any
		// session left open on another terminal before opening here.
		now := time.Now()
		stale, err := s.sessions.FindOpenByUserElsewhere(ctx, tx, userID, terminalID)
		if err != nil {
			return repository.Translate(err)
		}
		for i := range stale {
			g := &stale[i]
			g.Status = model.SessionClosedAuto
			g.ClosedAt = &now
			g.Notes = appendNote(g.Notes, "Cerrada automáticamente al abrir sesión en otro terminal.")
			if err := s.sessions.UpdateTx(ctx, tx, g); err != nil {
				return repository.Translate(err)
			}
		}
		swept = stale

		sess := &model.Session{
			ID:            uuid.New(),
			TerminalID:    terminalID,
			UserID:        userID,
			OpeningAmount: openingAmount,
			Status:        model.SessionOpen,
			OpenedAt:      now,
		}
		if authorizedBy != nil {
			authID := authorizedBy.ID
			sess.AuthorizedBy = &authID
		}
		if err := s.sessions.CreateTx(ctx, tx, sess); err != nil {
			return repository.Translate(err)
		}

		mov := &model.CashMovement{
			ID:         uuid.New(),
			SucursalID: terminal.SucursalID,
			TerminalID: terminalID,
			SessionID:  &sess.ID,
			UserID:     userID,
			Type:       model.MovementOpenFloat,
			Amount:     openingAmount,
			Reason:     "Fondo inicial de apertura",
		}
		if err := s.movements.CreateTx(ctx, tx, mov); err != nil {
			return repository.Translate(err)
		}

		terminal.Status = model.TerminalOpen
		terminal.CurrentOccupantID = &userID
		if err := s.terminals.UpdateTx(ctx, tx, terminal); err != nil {
			return repository.Translate(err)
		}
		sessionID = sess.ID

		after := map[string]any{
			"terminal_name":  terminal.Name,
			"session_id":     sess.ID,
			"opening_amount": openingAmount,
		}
		actionCode := model.AuditSessionOpen
		if authorizedBy != nil {
			actionCode = model.AuditSessionOpenAuthorized
			after["authorized_by"] = authorizedBy.Username
		}
		return s.audit.Record(ctx, tx, AuditEntry{
			Actor:      userID,
			ActionCode: actionCode,
			EntityType: model.EntityTerminal,
			EntityID:   terminalID,
			After:      after,
		}, BestEffort)
	})
	if txErr != nil {
		return nil, txErr
	}

	// Post-commit: surface swept sessions to their owner. Never inside the
	// transaction; a failed notice must not roll back a legitimate open.
	if s.notifier != nil {
		for i := range swept {
			s.notifier.SessionAutoClosed(ctx, swept[i])
		}
	}

	resp := &dto.OpenTerminalResponse{SessionID: sessionID.String(), Reused: reused}
	if authorizedBy != nil {
		authID := authorizedBy.ID.String()
		resp.AuthorizedBy = &authID
	}
	return resp, nil
}

// ── Close ─────────────────────────────────────────────────────────────────────

func (s *terminalService) Close(ctx context.Context, userID uuid.UUID, req dto.CloseTerminalRequest) error {
	terminalID, err := uuid.Parse(req.TerminalID)
	if err != nil {
		return apperr.New(apperr.Validation, "terminal_id inválido")
	}
	if req.FinalCash.IsNegative() || req.WithdrawalAmount.IsNegative() {
		return apperr.New(apperr.Validation, "Los montos de cierre no pueden ser negativos")
	}

	var closedSessionID *uuid.UUID

	txErr := runSerializableTx(ctx, s.terminals.DB(), func(tx *gorm.DB) error {
		closedSessionID = nil

		terminal, err := s.terminals.LockByID(ctx, tx, terminalID)
		if err != nil {
			return refineTerminalErr(err)
		}
		if terminal.Status == model.TerminalDeleted {
			return apperr.New(apperr.NotFound, "Terminal no encontrado")
		}

		now := time.Now()
		var before map[string]any

		sess, err := s.sessions.LockOpenByTerminal(ctx, tx, terminalID)
		switch {
		case err == nil:
			if sess.UserID != userID {
				return apperr.New(apperr.Occupied, "La sesión abierta pertenece a otro cajero")
			}
			before = map[string]any{
				"session_id":     sess.ID,
				"opening_amount": sess.OpeningAmount,
			}
			sess.Status = model.SessionClosed
			sess.ClosingAmount = &req.FinalCash
			sess.ClosedAt = &now
			if req.Comments != "" {
				sess.Notes = appendNote(sess.Notes, req.Comments)
			}
			if err := s.sessions.UpdateTx(ctx, tx, sess); err != nil {
				return repository.Translate(err)
			}
			id := sess.ID
			closedSessionID = &id

		case apperr.Is(err, apperr.NotFound):
			// No open session. A terminal already CLOSED with nothing to do
			// is a retried close: succeed without writing anything twice.
			if terminal.Status == model.TerminalClosed {
				return nil
			}
			// Ghost terminal (OPEN with no session): record the closing
			// count anyway so the cash does not vanish from the ledger.
			before = map[string]any{"ghost": true}

		default:
			return err
		}

		mov := &model.CashMovement{
			ID:         uuid.New(),
			SucursalID: terminal.SucursalID,
			TerminalID: terminalID,
			SessionID:  closedSessionID,
			UserID:     userID,
			Type:       model.MovementCloseCount,
			Amount:     req.FinalCash,
			Reason:     "Arqueo de cierre",
		}
		if err := s.movements.CreateTx(ctx, tx, mov); err != nil {
			return repository.Translate(err)
		}

		if req.WithdrawalAmount.IsPositive() {
			rem := &model.CashRemittance{
				ID:         uuid.New(),
				SucursalID: terminal.SucursalID,
				TerminalID: terminalID,
				SessionID:  closedSessionID,
				UserID:     userID,
				Amount:     req.WithdrawalAmount,
				Status:     model.RemittancePending,
			}
			if err := s.remits.CreateTx(ctx, tx, rem); err != nil {
				return repository.Translate(err)
			}
		}

		terminal.Status = model.TerminalClosed
		terminal.CurrentOccupantID = nil
		if err := s.terminals.UpdateTx(ctx, tx, terminal); err != nil {
			return repository.Translate(err)
		}

		return s.audit.Record(ctx, tx, AuditEntry{
			Actor:      userID,
			ActionCode: model.AuditSessionClose,
			EntityType: model.EntityTerminal,
			EntityID:   terminalID,
			Before:     before,
			After: map[string]any{
				"closing_amount": req.FinalCash,
				"withdrawal":     req.WithdrawalAmount,
			},
		}, BestEffort)
	})
	if txErr != nil {
		return txErr
	}

	if s.dispatcher != nil && closedSessionID != nil {
		_ = s.dispatcher.EnqueueReport(ctx, worker.ReportJobPayload{SessionID: closedSessionID.String()})
	}
	return nil
}

// ── ForceClose ────────────────────────────────────────────────────────────────
// The escape hatch for stuck terminals. The audit write is mandatory: a
// forced closure nobody can trace afterwards is worse than a stuck terminal,
// so audit failure aborts the whole operation.

func (s *terminalService) ForceClose(ctx context.Context, adminID uuid.UUID, req dto.ForceCloseRequest) error {
	terminalID, err := uuid.Parse(req.TerminalID)
	if err != nil {
		return apperr.New(apperr.Validation, "terminal_id inválido")
	}
	justification := strings.TrimSpace(req.Justification)
	if len([]rune(justification)) < MinJustificationLen {
		return apperr.Newf(apperr.Validation,
			"La justificación debe tener al menos %d caracteres", MinJustificationLen)
	}

	var forced *model.Session

	txErr := runSerializableTx(ctx, s.terminals.DB(), func(tx *gorm.DB) error {
		forced = nil

		terminal, err := s.terminals.LockByID(ctx, tx, terminalID)
		if err != nil {
			return refineTerminalErr(err)
		}
		if terminal.Status == model.TerminalDeleted {
			return apperr.New(apperr.NotFound, "Terminal no encontrado")
		}

		before := map[string]any{"terminal_status": terminal.Status}

		now := time.Now()
		sess, err := s.sessions.LockOpenByTerminal(ctx, tx, terminalID)
		switch {
		case err == nil:
			before["session_id"] = sess.ID
			before["session_user_id"] = sess.UserID
			if owner, uerr := s.users.FindByID(ctx, sess.UserID); uerr == nil {
				before["session_user"] = owner.Name
			}
			sess.Status = model.SessionClosedForce
			sess.ClosedAt = &now
			sess.Notes = appendNote(sess.Notes, "Cierre forzado: "+justification)
			if err := s.sessions.UpdateTx(ctx, tx, sess); err != nil {
				return repository.Translate(err)
			}
			forced = sess
		case apperr.Is(err, apperr.NotFound):
			// Stuck OPEN with no session row: the very case this repairs.
		default:
			return err
		}

		terminal.Status = model.TerminalClosed
		terminal.CurrentOccupantID = nil
		if err := s.terminals.UpdateTx(ctx, tx, terminal); err != nil {
			return repository.Translate(err)
		}

		return s.audit.Record(ctx, tx, AuditEntry{
			Actor:         adminID,
			ActionCode:    model.AuditSessionForceClose,
			EntityType:    model.EntityTerminal,
			EntityID:      terminalID,
			Before:        before,
			After:         map[string]any{"terminal_status": model.TerminalClosed},
			Justification: justification,
		}, Mandatory)
	})
	if txErr != nil {
		return txErr
	}

	if s.notifier != nil && forced != nil {
		s.notifier.SessionForceClosed(ctx, *forced, justification)
	}
	return nil
}

// ── Status ────────────────────────────────────────────────────────────────────

// Status is a pure read: no transaction, no lock.
func (s *terminalService) Status(ctx context.Context, terminalID uuid.UUID) (*dto.TerminalStatusResponse, error) {
	terminal, err := s.terminals.FindByID(ctx, terminalID)
	if err != nil {
		return nil, refineTerminalErr(repository.Translate(err))
	}
	if terminal.Status == model.TerminalDeleted {
		return nil, apperr.New(apperr.NotFound, "Terminal no encontrado")
	}

	resp := &dto.TerminalStatusResponse{
		TerminalID: terminal.ID.String(),
		Name:       terminal.Name,
		Status:     terminal.Status,
	}
	if terminal.CurrentOccupantID != nil {
		occ := terminal.CurrentOccupantID.String()
		resp.OccupantID = &occ
	}
	if sess, err := s.sessions.FindOpenByTerminal(ctx, terminalID); err == nil {
		sid := sess.ID.String()
		opened := sess.OpenedAt.Format(time.RFC3339)
		resp.SessionID = &sid
		resp.OpenedAt = &opened
		resp.OpeningAmount = &sess.OpeningAmount
	}
	return resp, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// refineTerminalErr renames generic storage kinds with messages that tell
// the operator it is the terminal that is missing or contended.
func refineTerminalErr(err error) error {
	switch apperr.KindOf(err) {
	case apperr.NotFound:
		return apperr.Wrap(apperr.NotFound, "Terminal no encontrado", err)
	case apperr.Busy:
		return apperr.Wrap(apperr.Busy, "El terminal está siendo operado por otra transacción, reintente", err)
	}
	return err
}

func appendNote(notes, extra string) string {
	notes = strings.TrimSpace(notes)
	if notes == "" {
		return extra
	}
	return fmt.Sprintf("%s %s", notes, extra)
}
