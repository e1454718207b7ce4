package service

import (
	"context"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/apperr"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/dto"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/model"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TerminalAdminService covers the back-office side of the terminal fleet:
// create, partial update, decommission. Status and occupant stay out of
// reach; only the session engine writes those.
type TerminalAdminService interface {
	Create(ctx context.Context, actorID uuid.UUID, req dto.CreateTerminalRequest) (*dto.TerminalStatusResponse, error)
	Update(ctx context.Context, actorID uuid.UUID, terminalID uuid.UUID, req dto.UpdateTerminalRequest) error
	// Delete marks the terminal DELETED. A terminal with an open session
	// cannot be decommissioned.
	Delete(ctx context.Context, actorID uuid.UUID, terminalID uuid.UUID) error
	List(ctx context.Context, sucursalID uuid.UUID) ([]dto.TerminalStatusResponse, error)

	CreateSucursal(ctx context.Context, req dto.CreateSucursalRequest) (*dto.SucursalResponse, error)
	ListSucursales(ctx context.Context) ([]dto.SucursalResponse, error)
}

type terminalAdminService struct {
	terminals  repository.TerminalRepository
	sucursales repository.SucursalRepository
	audit      AuditRecorder
}

func NewTerminalAdminService(
	terminals repository.TerminalRepository,
	sucursales repository.SucursalRepository,
	audit AuditRecorder,
) TerminalAdminService {
	return &terminalAdminService{terminals: terminals, sucursales: sucursales, audit: audit}
}

func (s *terminalAdminService) Create(ctx context.Context, actorID uuid.UUID, req dto.CreateTerminalRequest) (*dto.TerminalStatusResponse, error) {
	sucursalID, err := uuid.Parse(req.SucursalID)
	if err != nil {
		return nil, apperr.New(apperr.Validation, "sucursal_id inválido")
	}
	if _, err := s.sucursales.FindByID(ctx, sucursalID); err != nil {
		if repository.IsNotFound(err) {
			return nil, apperr.New(apperr.NotFound, "Sucursal no encontrada")
		}
		return nil, repository.Translate(err)
	}

	terminal := &model.Terminal{
		ID:         uuid.New(),
		Name:       req.Name,
		SucursalID: sucursalID,
		Status:     model.TerminalClosed,
	}

	txErr := runTx(ctx, s.terminals.DB(), func(tx *gorm.DB) error {
		if err := s.terminals.CreateTx(ctx, tx, terminal); err != nil {
			return repository.Translate(err)
		}
		return s.audit.Record(ctx, tx, AuditEntry{
			Actor:      actorID,
			ActionCode: model.AuditTerminalCreate,
			EntityType: model.EntityTerminal,
			EntityID:   terminal.ID,
			After:      map[string]any{"name": terminal.Name, "sucursal_id": sucursalID},
		}, BestEffort)
	})
	if txErr != nil {
		return nil, txErr
	}

	return &dto.TerminalStatusResponse{
		TerminalID: terminal.ID.String(),
		Name:       terminal.Name,
		Status:     terminal.Status,
	}, nil
}

// Update applies only the fields present in the request. Absent fields stay
// untouched; there is no way to blank a name by omission.
func (s *terminalAdminService) Update(ctx context.Context, actorID uuid.UUID, terminalID uuid.UUID, req dto.UpdateTerminalRequest) error {
	updates := map[string]any{}
	after := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
		after["name"] = *req.Name
	}
	if req.SucursalID != nil {
		sucursalID, err := uuid.Parse(*req.SucursalID)
		if err != nil {
			return apperr.New(apperr.Validation, "sucursal_id inválido")
		}
		if _, err := s.sucursales.FindByID(ctx, sucursalID); err != nil {
			if repository.IsNotFound(err) {
				return apperr.New(apperr.NotFound, "Sucursal no encontrada")
			}
			return repository.Translate(err)
		}
		updates["sucursal_id"] = sucursalID
		after["sucursal_id"] = sucursalID
	}
	if len(updates) == 0 {
		return apperr.New(apperr.Validation, "Nada que actualizar")
	}

	if err := s.terminals.UpdateFields(ctx, terminalID, updates); err != nil {
		return refineTerminalErr(repository.Translate(err))
	}

	// Admin metadata changes are informational; audit outside any tx.
	_ = s.audit.Record(ctx, nil, AuditEntry{
		Actor:      actorID,
		ActionCode: model.AuditTerminalUpdate,
		EntityType: model.EntityTerminal,
		EntityID:   terminalID,
		After:      after,
	}, BestEffort)
	return nil
}

func (s *terminalAdminService) Delete(ctx context.Context, actorID uuid.UUID, terminalID uuid.UUID) error {
	return runSerializableTx(ctx, s.terminals.DB(), func(tx *gorm.DB) error {
		terminal, err := s.terminals.LockByID(ctx, tx, terminalID)
		if err != nil {
			return refineTerminalErr(err)
		}
		switch terminal.Status {
		case model.TerminalDeleted:
			return nil // retried delete, already done
		case model.TerminalOpen:
			return apperr.New(apperr.Occupied, "No se puede eliminar un terminal con sesión abierta")
		}

		before := map[string]any{"status": terminal.Status, "name": terminal.Name}
		terminal.Status = model.TerminalDeleted
		if err := s.terminals.UpdateTx(ctx, tx, terminal); err != nil {
			return repository.Translate(err)
		}

		return s.audit.Record(ctx, tx, AuditEntry{
			Actor:      actorID,
			ActionCode: model.AuditTerminalDelete,
			EntityType: model.EntityTerminal,
			EntityID:   terminalID,
			Before:     before,
			After:      map[string]any{"status": model.TerminalDeleted},
		}, BestEffort)
	})
}

func (s *terminalAdminService) List(ctx context.Context, sucursalID uuid.UUID) ([]dto.TerminalStatusResponse, error) {
	terminals, err := s.terminals.ListBySucursal(ctx, sucursalID)
	if err != nil {
		return nil, repository.Translate(err)
	}

	resp := make([]dto.TerminalStatusResponse, 0, len(terminals))
	for i := range terminals {
		t := &terminals[i]
		item := dto.TerminalStatusResponse{
			TerminalID: t.ID.String(),
			Name:       t.Name,
			Status:     t.Status,
		}
		if t.CurrentOccupantID != nil {
			occ := t.CurrentOccupantID.String()
			item.OccupantID = &occ
		}
		resp = append(resp, item)
	}
	return resp, nil
}

func (s *terminalAdminService) CreateSucursal(ctx context.Context, req dto.CreateSucursalRequest) (*dto.SucursalResponse, error) {
	suc := &model.Sucursal{
		ID:      uuid.New(),
		Code:    req.Code,
		Name:    req.Name,
		Address: req.Address,
		Comuna:  req.Comuna,
		Active:  true,
	}
	if err := s.sucursales.Create(ctx, suc); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperr.New(apperr.Conflict, "Ya existe una sucursal con ese código")
		}
		return nil, repository.Translate(err)
	}
	return sucursalResponse(suc), nil
}

func (s *terminalAdminService) ListSucursales(ctx context.Context) ([]dto.SucursalResponse, error) {
	sucs, err := s.sucursales.List(ctx)
	if err != nil {
		return nil, repository.Translate(err)
	}
	resp := make([]dto.SucursalResponse, 0, len(sucs))
	for i := range sucs {
		resp = append(resp, *sucursalResponse(&sucs[i]))
	}
	return resp, nil
}

func sucursalResponse(s *model.Sucursal) *dto.SucursalResponse {
	r := &dto.SucursalResponse{
		ID:   s.ID.String(),
		Code: s.Code,
		Name: s.Name,
	}
	if s.Address != nil {
		r.Address = *s.Address
	}
	if s.Comuna != nil {
		r.Comuna = *s.Comuna
	}
	return r
}
