package service

import (
	"context"
	"time"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/apperr"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/dto"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/repository"

	"github.com/google/uuid"
)

// RemittanceService tracks drawer withdrawals until a supervisor confirms
// the cash reached the safe. Settling twice is harmless: the second call
// finds no PENDING row and reports it.
type RemittanceService interface {
	ListPending(ctx context.Context, sucursalID uuid.UUID) ([]dto.RemittanceResponse, error)
	Settle(ctx context.Context, supervisorID, remittanceID uuid.UUID) error
}

type remittanceService struct {
	remits repository.CashRemittanceRepository
}

func NewRemittanceService(remits repository.CashRemittanceRepository) RemittanceService {
	return &remittanceService{remits: remits}
}

func (s *remittanceService) ListPending(ctx context.Context, sucursalID uuid.UUID) ([]dto.RemittanceResponse, error) {
	rems, err := s.remits.ListPending(ctx, sucursalID)
	if err != nil {
		return nil, repository.Translate(err)
	}

	resp := make([]dto.RemittanceResponse, 0, len(rems))
	for i := range rems {
		r := &rems[i]
		item := dto.RemittanceResponse{
			ID:         r.ID.String(),
			TerminalID: r.TerminalID.String(),
			UserID:     r.UserID.String(),
			Amount:     r.Amount,
			Status:     r.Status,
			CreatedAt:  r.CreatedAt.Format(time.RFC3339),
		}
		if r.SessionID != nil {
			sid := r.SessionID.String()
			item.SessionID = &sid
		}
		resp = append(resp, item)
	}
	return resp, nil
}

// Settle flips one PENDING remittance to SETTLED, recording who confirmed
// it. The status guard in the repository makes the flip single-shot.
func (s *remittanceService) Settle(ctx context.Context, supervisorID, remittanceID uuid.UUID) error {
	if err := s.remits.Settle(ctx, remittanceID, supervisorID); err != nil {
		if repository.IsNotFound(err) {
			return apperr.New(apperr.NotFound, "Remesa no encontrada o ya confirmada")
		}
		return repository.Translate(err)
	}
	return nil
}
