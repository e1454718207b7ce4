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

type TerminalHandler struct{ svc service.TerminalService }

func NewTerminalHandler(svc service.TerminalService) *TerminalHandler {
	return &TerminalHandler{svc: svc}
}

// Abrir godoc
// @Summary Abre una sesión de caja en un terminal
// @Tags terminales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OpenTerminalRequest true "Datos de apertura"
// @Success 201 {object} dto.OpenTerminalResponse
// @Success 200 {object} dto.OpenTerminalResponse "Sesión ya abierta (reintento idempotente)"
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError "Terminal ocupado o bloqueado por otra operación"
// @Router /v1/terminales/abrir [post]
func (h *TerminalHandler) Abrir(c *gin.Context) {
	var req dto.OpenTerminalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	userID, _ := uuid.Parse(middleware.GetClaims(c).UserID)

	resp, err := h.svc.Open(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusCreated
	if resp.Reused {
		status = http.StatusOK
	}
	c.JSON(status, resp)
}

// AbrirAutorizado godoc
// @Summary Abre una sesión con autorización de supervisor (PIN)
// @Tags terminales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.OpenTerminalAuthorizedRequest true "Datos de apertura con PIN de supervisor"
// @Success 201 {object} dto.OpenTerminalResponse
// @Failure 401 {object} apierror.APIError "PIN inválido o supervisor no autorizado"
// @Failure 409 {object} apierror.APIError
// @Router /v1/terminales/abrir-autorizado [post]
func (h *TerminalHandler) AbrirAutorizado(c *gin.Context) {
	var req dto.OpenTerminalAuthorizedRequest
	if !bindAndValidate(c, &req) {
		return
	}
	userID, _ := uuid.Parse(middleware.GetClaims(c).UserID)

	resp, err := h.svc.OpenAuthorized(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	status := http.StatusCreated
	if resp.Reused {
		status = http.StatusOK
	}
	c.JSON(status, resp)
}

// Cerrar godoc
// @Summary Cierra la sesión abierta del terminal con arqueo final
// @Tags terminales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CloseTerminalRequest true "Arqueo de cierre"
// @Success 204
// @Failure 404 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError "La sesión pertenece a otro cajero"
// @Router /v1/terminales/cerrar [post]
func (h *TerminalHandler) Cerrar(c *gin.Context) {
	var req dto.CloseTerminalRequest
	if !bindAndValidate(c, &req) {
		return
	}
	userID, _ := uuid.Parse(middleware.GetClaims(c).UserID)

	if err := h.svc.Close(c.Request.Context(), userID, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ForzarCierre godoc
// @Summary Cierra forzadamente la sesión de un terminal (administrador)
// @Tags terminales
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.ForceCloseRequest true "Terminal y justificación (mínimo 10 caracteres)"
// @Success 204
// @Failure 422 {object} apierror.ValidationError
// @Failure 404 {object} apierror.APIError
// @Router /v1/terminales/forzar-cierre [post]
func (h *TerminalHandler) ForzarCierre(c *gin.Context) {
	var req dto.ForceCloseRequest
	if !bindAndValidate(c, &req) {
		return
	}
	adminID, _ := uuid.Parse(middleware.GetClaims(c).UserID)

	if err := h.svc.ForceClose(c.Request.Context(), adminID, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Estado godoc
// @Summary Estado actual de un terminal y su sesión abierta
// @Tags terminales
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID del terminal"
// @Success 200 {object} dto.TerminalStatusResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/terminales/{id}/estado [get]
func (h *TerminalHandler) Estado(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de terminal inválido"))
		return
	}
	resp, err := h.svc.Status(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
