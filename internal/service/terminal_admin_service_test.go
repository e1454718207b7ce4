package service

import (
	"context"
	"testing"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/apperr"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/dto"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ── Fixture ───────────────────────────────────────────────────────────────────

type adminFixture struct {
	terminals  *fakeTerminalRepo
	sucursales *fakeSucursalRepo
	audit      *fakeAuditRepo
	svc        TerminalAdminService
	actorID    uuid.UUID
	sucursalID uuid.UUID
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	f := &adminFixture{
		terminals:  newFakeTerminalRepo(),
		sucursales: newFakeSucursalRepo(),
		audit:      &fakeAuditRepo{},
		actorID:    uuid.New(),
	}
	suc := &model.Sucursal{Code: "VLN01", Name: "Farmacia Vallenar Centro", Active: true}
	require.NoError(t, f.sucursales.Create(context.Background(), suc))
	f.sucursalID = suc.ID
	f.svc = NewTerminalAdminService(f.terminals, f.sucursales, NewAuditRecorder(f.audit))
	return f
}

func (f *adminFixture) addTerminal(t *testing.T, status string) uuid.UUID {
	t.Helper()
	term := &model.Terminal{ID: uuid.New(), Name: "Caja 1", SucursalID: f.sucursalID, Status: status}
	require.NoError(t, f.terminals.CreateTx(context.Background(), nil, term))
	return term.ID
}

// ── Create ────────────────────────────────────────────────────────────────────

func TestCreateTerminal(t *testing.T) {
	f := newAdminFixture(t)

	resp, err := f.svc.Create(context.Background(), f.actorID, dto.CreateTerminalRequest{
		SucursalID: f.sucursalID.String(),
		Name:       "Caja 2",
	})
	require.NoError(t, err)
	assert.Equal(t, "Caja 2", resp.Name)
	assert.Equal(t, model.TerminalClosed, resp.Status)

	id, perr := uuid.Parse(resp.TerminalID)
	require.NoError(t, perr)
	stored, ferr := f.terminals.FindByID(context.Background(), id)
	require.NoError(t, ferr)
	assert.Equal(t, f.sucursalID, stored.SucursalID)
	assert.Nil(t, stored.CurrentOccupantID)

	audits := f.audit.byAction(model.AuditTerminalCreate)
	require.Len(t, audits, 1)
	assert.Equal(t, f.actorID, audits[0].UserID)
	require.NotNil(t, audits[0].NewValues)
	assert.Contains(t, *audits[0].NewValues, "Caja 2")
}

func TestCreateTerminalUnknownSucursal(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.svc.Create(context.Background(), f.actorID, dto.CreateTerminalRequest{
		SucursalID: uuid.NewString(),
		Name:       "Caja fantasma",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.NotFound))
	assert.Equal(t, "Sucursal no encontrada", apperr.Message(err))
}

func TestCreateTerminalBadSucursalID(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.svc.Create(context.Background(), f.actorID, dto.CreateTerminalRequest{
		SucursalID: "no-es-un-uuid",
		Name:       "Caja 3",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Validation))
	assert.Equal(t, 0, f.audit.count())
}

// ── Update ────────────────────────────────────────────────────────────────────

func TestUpdateTerminalRename(t *testing.T) {
	f := newAdminFixture(t)
	id := f.addTerminal(t, model.TerminalClosed)

	name := "Caja mesón"
	require.NoError(t, f.svc.Update(context.Background(), f.actorID, id, dto.UpdateTerminalRequest{Name: &name}))

	stored, err := f.terminals.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Caja mesón", stored.Name)
	assert.Len(t, f.audit.byAction(model.AuditTerminalUpdate), 1)
}

func TestUpdateTerminalNothingToDo(t *testing.T) {
	f := newAdminFixture(t)
	id := f.addTerminal(t, model.TerminalClosed)

	err := f.svc.Update(context.Background(), f.actorID, id, dto.UpdateTerminalRequest{})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Validation))
	assert.Equal(t, 0, f.audit.count())
}

func TestUpdateTerminalUnknown(t *testing.T) {
	f := newAdminFixture(t)

	name := "Caja 9"
	err := f.svc.Update(context.Background(), f.actorID, uuid.New(), dto.UpdateTerminalRequest{Name: &name})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.NotFound))
	assert.Equal(t, "Terminal no encontrado", apperr.Message(err))
}

// ── Delete ────────────────────────────────────────────────────────────────────

func TestDeleteTerminal(t *testing.T) {
	f := newAdminFixture(t)
	id := f.addTerminal(t, model.TerminalClosed)

	require.NoError(t, f.svc.Delete(context.Background(), f.actorID, id))

	stored, err := f.terminals.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.TerminalDeleted, stored.Status)

	audits := f.audit.byAction(model.AuditTerminalDelete)
	require.Len(t, audits, 1)
	assert.Equal(t, id, audits[0].EntityID)

	// Decommissioned terminals drop out of the fleet listing.
	list, lerr := f.svc.List(context.Background(), f.sucursalID)
	require.NoError(t, lerr)
	assert.Empty(t, list)
}

func TestDeleteTerminalIdempotentRetry(t *testing.T) {
	f := newAdminFixture(t)
	id := f.addTerminal(t, model.TerminalClosed)

	require.NoError(t, f.svc.Delete(context.Background(), f.actorID, id))
	require.NoError(t, f.svc.Delete(context.Background(), f.actorID, id))

	// The retry found the terminal already gone and wrote nothing new.
	assert.Len(t, f.audit.byAction(model.AuditTerminalDelete), 1)
}

func TestDeleteTerminalWithOpenSession(t *testing.T) {
	f := newAdminFixture(t)
	id := f.addTerminal(t, model.TerminalOpen)

	err := f.svc.Delete(context.Background(), f.actorID, id)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Occupied))
	assert.Contains(t, apperr.Message(err), "sesión abierta")

	stored, ferr := f.terminals.FindByID(context.Background(), id)
	require.NoError(t, ferr)
	assert.Equal(t, model.TerminalOpen, stored.Status)
}

func TestDeleteTerminalRowHeld(t *testing.T) {
	f := newAdminFixture(t)
	id := f.addTerminal(t, model.TerminalClosed)
	f.terminals.nowait = true
	f.terminals.held[id] = true

	err := f.svc.Delete(context.Background(), f.actorID, id)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Busy))
	assert.True(t, apperr.Retryable(err))
}

// ── Sucursales ────────────────────────────────────────────────────────────────

func TestCreateSucursal(t *testing.T) {
	f := newAdminFixture(t)

	comuna := "Vallenar"
	resp, err := f.svc.CreateSucursal(context.Background(), dto.CreateSucursalRequest{
		Code:   "VLN02",
		Name:   "Farmacia Vallenar Norte",
		Comuna: &comuna,
	})
	require.NoError(t, err)
	assert.Equal(t, "VLN02", resp.Code)
	assert.Equal(t, "Vallenar", resp.Comuna)

	list, lerr := f.svc.ListSucursales(context.Background())
	require.NoError(t, lerr)
	require.Len(t, list, 2)
	// List is ordered by code.
	assert.Equal(t, "VLN01", list[0].Code)
	assert.Equal(t, "VLN02", list[1].Code)
}

func TestCreateSucursalDuplicateCode(t *testing.T) {
	f := newAdminFixture(t)

	_, err := f.svc.CreateSucursal(context.Background(), dto.CreateSucursalRequest{
		Code: "VLN01",
		Name: "Duplicada",
	})
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.Conflict))
	assert.Contains(t, apperr.Message(err), "código")
}
