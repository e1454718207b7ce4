package handler

import (
	"net/http"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/apierror"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/middleware"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RemittancesHandler struct{ svc service.RemittanceService }

func NewRemittancesHandler(svc service.RemittanceService) *RemittancesHandler {
	return &RemittancesHandler{svc: svc}
}

// ListarPendientes godoc
// @Summary Remesas de efectivo pendientes de confirmación
// @Tags remesas
// @Produce json
// @Security BearerAuth
// @Param sucursal_id query string false "Filtrar por sucursal"
// @Success 200 {object} []dto.RemittanceResponse
// @Router /v1/remesas [get]
func (h *RemittancesHandler) ListarPendientes(c *gin.Context) {
	sucursalID := uuid.Nil
	if q := c.Query("sucursal_id"); q != "" {
		id, err := uuid.Parse(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("ID de sucursal inválido"))
			return
		}
		sucursalID = id
	}
	resp, err := h.svc.ListPending(c.Request.Context(), sucursalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Confirmar godoc
// @Summary Confirma la recepción de una remesa de efectivo
// @Tags remesas
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID de la remesa"
// @Success 204
// @Failure 404 {object} apierror.APIError "Remesa no encontrada o ya confirmada"
// @Router /v1/remesas/{id}/confirmar [post]
func (h *RemittancesHandler) Confirmar(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de remesa inválido"))
		return
	}
	supervisorID, _ := uuid.Parse(middleware.GetClaims(c).UserID)

	if err := h.svc.Settle(c.Request.Context(), supervisorID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
