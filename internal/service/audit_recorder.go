package service

import (
	"context"
	"encoding/json"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/apperr"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/model"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Criticality decides what happens when an audit write fails: Mandatory
// aborts the caller's transaction, BestEffort is logged and swallowed.
// The recorder enforces this uniformly so call sites cannot get it wrong.
type Criticality int

const (
	BestEffort Criticality = iota
	Mandatory
)

// AuditEntry is one audit event before persistence. Before/After are
// marshalled to JSON snapshots; nil means "no snapshot".
type AuditEntry struct {
	Actor         uuid.UUID
	ActionCode    string
	EntityType    string
	EntityID      uuid.UUID
	Before        any
	After         any
	Justification string
}

type AuditRecorder interface {
	// Record writes the entry inside tx. Returns an error only for Mandatory
	// entries; BestEffort failures never reach the caller.
	Record(ctx context.Context, tx *gorm.DB, e AuditEntry, crit Criticality) error
}

type auditRecorder struct {
	repo repository.AuditRepository
}

func NewAuditRecorder(repo repository.AuditRepository) AuditRecorder {
	return &auditRecorder{repo: repo}
}

func (r *auditRecorder) Record(ctx context.Context, tx *gorm.DB, e AuditEntry, crit Criticality) error {
	rec := &model.AuditRecord{
		ID:         uuid.New(),
		UserID:     e.Actor,
		ActionCode: e.ActionCode,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		OldValues:  marshalSnapshot(e.Before),
		NewValues:  marshalSnapshot(e.After),
	}
	if e.Justification != "" {
		j := e.Justification
		rec.Justification = &j
	}

	if crit == Mandatory {
		if err := r.repo.CreateTx(ctx, tx, rec); err != nil {
			return apperr.Wrap(apperr.Fault, "No se pudo registrar la auditoría obligatoria", err)
		}
		return nil
	}

	// Best effort. A failed INSERT poisons the surrounding Postgres
	// transaction, so the write is fenced with a savepoint; rolling back to
	// it leaves the caller's work intact.
	if tx != nil {
		if err := tx.SavePoint("audit_record").Error; err != nil {
			log.Error().Err(err).Str("action", e.ActionCode).Msg("audit: savepoint failed, entry dropped")
			return nil
		}
		if err := r.repo.CreateTx(ctx, tx, rec); err != nil {
			if rbErr := tx.RollbackTo("audit_record").Error; rbErr != nil {
				log.Error().Err(rbErr).Msg("audit: rollback to savepoint failed")
			}
			r.logDrop(e, err)
		}
		return nil
	}

	if err := r.repo.CreateTx(ctx, nil, rec); err != nil {
		r.logDrop(e, err)
	}
	return nil
}

// logDrop records a swallowed best-effort failure. Table absence is expected
// during staged rollouts and logged at Warn; anything else is an Error.
func (r *auditRecorder) logDrop(e AuditEntry, err error) {
	ev := log.Error()
	if repository.IsUndefinedTable(err) {
		ev = log.Warn()
	}
	ev.Err(err).
		Str("action", e.ActionCode).
		Str("entity_type", e.EntityType).
		Str("entity_id", e.EntityID.String()).
		Msg("audit: best-effort entry dropped")
}

func marshalSnapshot(v any) *string {
	if v == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("audit: snapshot marshal failed")
		return nil
	}
	s := string(b)
	return &s
}
