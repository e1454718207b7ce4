package handler

import (
	"net/http"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/apierror"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/dto"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/middleware"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AccountHandler struct{ svc service.AccountService }

func NewAccountHandler(svc service.AccountService) *AccountHandler {
	return &AccountHandler{svc: svc}
}

// Bloquear godoc
// @Summary Bloquea la cuenta de un usuario
// @Tags cuentas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.LockAccountRequest true "Usuario y justificación (mínimo 10 caracteres)"
// @Success 204
// @Failure 422 {object} apierror.ValidationError
// @Failure 404 {object} apierror.APIError
// @Router /v1/cuentas/bloquear [post]
func (h *AccountHandler) Bloquear(c *gin.Context) {
	var req dto.LockAccountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	adminID, _ := uuid.Parse(middleware.GetClaims(c).UserID)

	if err := h.svc.Lock(c.Request.Context(), adminID, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Desbloquear godoc
// @Summary Desbloquea la cuenta de un usuario (requiere PIN de supervisor)
// @Tags cuentas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.UnlockAccountRequest true "Usuario, justificación y PIN de supervisor"
// @Success 204
// @Failure 401 {object} apierror.APIError "PIN rechazado"
// @Failure 404 {object} apierror.APIError
// @Router /v1/cuentas/desbloquear [post]
func (h *AccountHandler) Desbloquear(c *gin.Context) {
	var req dto.UnlockAccountRequest
	if !bindAndValidate(c, &req) {
		return
	}
	adminID, _ := uuid.Parse(middleware.GetClaims(c).UserID)

	if err := h.svc.Unlock(c.Request.Context(), adminID, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Estado godoc
// @Summary Estado de bloqueo de una cuenta
// @Tags cuentas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del usuario"
// @Success 200 {object} dto.AccountStatusResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/cuentas/{id}/estado [get]
func (h *AccountHandler) Estado(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de usuario inválido"))
		return
	}
	resp, err := h.svc.Status(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
