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

// AdminHandler covers terminal and sucursal administration.
type AdminHandler struct{ svc service.TerminalAdminService }

func NewAdminHandler(svc service.TerminalAdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// CrearTerminal godoc
// @Summary Crea un terminal en una sucursal
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CreateTerminalRequest true "Sucursal y nombre"
// @Success 201 {object} dto.TerminalStatusResponse
// @Failure 404 {object} apierror.APIError "Sucursal no encontrada"
// @Router /v1/terminales [post]
func (h *AdminHandler) CrearTerminal(c *gin.Context) {
	var req dto.CreateTerminalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actorID, _ := uuid.Parse(middleware.GetClaims(c).UserID)

	resp, err := h.svc.Create(c.Request.Context(), actorID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AdminHandler) ActualizarTerminal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de terminal inválido"))
		return
	}
	var req dto.UpdateTerminalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	actorID, _ := uuid.Parse(middleware.GetClaims(c).UserID)

	if err := h.svc.Update(c.Request.Context(), actorID, id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// EliminarTerminal godoc
// @Summary Da de baja un terminal
// @Description Rechazado con 409 si el terminal tiene una sesión abierta.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del terminal"
// @Success 204
// @Failure 409 {object} apierror.APIError
// @Router /v1/terminales/{id} [delete]
func (h *AdminHandler) EliminarTerminal(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de terminal inválido"))
		return
	}
	actorID, _ := uuid.Parse(middleware.GetClaims(c).UserID)

	if err := h.svc.Delete(c.Request.Context(), actorID, id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) ListarTerminales(c *gin.Context) {
	sucursalID := uuid.Nil
	if q := c.Query("sucursal_id"); q != "" {
		id, err := uuid.Parse(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("ID de sucursal inválido"))
			return
		}
		sucursalID = id
	}
	resp, err := h.svc.List(c.Request.Context(), sucursalID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *AdminHandler) CrearSucursal(c *gin.Context) {
	var req dto.CreateSucursalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateSucursal(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AdminHandler) ListarSucursales(c *gin.Context) {
	resp, err := h.svc.ListSucursales(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
