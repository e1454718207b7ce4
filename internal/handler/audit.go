package handler

import (
	"net/http"
	"strconv"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/apierror"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuditHandler exposes the read side of the audit trail. Writes happen only
// through the services; there is no endpoint to mutate records.
type AuditHandler struct {
	repo repository.AuditRepository
}

func NewAuditHandler(repo repository.AuditRepository) *AuditHandler {
	return &AuditHandler{repo: repo}
}

// Listar godoc
// @Summary Lista registros de auditoría
// @Tags auditoria
// @Produce json
// @Security BearerAuth
// @Param user_id query string false "Filtrar por actor"
// @Param entity_type query string false "terminal | product | user"
// @Param entity_id query string false "Filtrar por entidad"
// @Param action query string false "Código de acción (p. ej. SESSION_FORCE_CLOSE)"
// @Param limit query int false "Registros (default 100, max 500)"
// @Success 200 {object} []model.AuditRecord
// @Router /v1/auditoria [get]
func (h *AuditHandler) Listar(c *gin.Context) {
	filter := repository.AuditFilter{
		EntityType: c.Query("entity_type"),
		ActionCode: c.Query("action"),
	}
	if q := c.Query("user_id"); q != "" {
		id, err := uuid.Parse(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("user_id inválido"))
			return
		}
		filter.UserID = id
	}
	if q := c.Query("entity_id"); q != "" {
		id, err := uuid.Parse(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("entity_id inválido"))
			return
		}
		filter.EntityID = id
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "100"))

	recs, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al obtener la auditoría"))
		return
	}
	c.JSON(http.StatusOK, recs)
}
