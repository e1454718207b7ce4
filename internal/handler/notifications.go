package handler

import (
	"net/http"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/apierror"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/middleware"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// NotificationsHandler lists and acknowledges the caller's own notifications.
type NotificationsHandler struct {
	repo repository.NotificationRepository
}

func NewNotificationsHandler(repo repository.NotificationRepository) *NotificationsHandler {
	return &NotificationsHandler{repo: repo}
}

// ListarNoLeidas godoc
// @Summary Notificaciones no leídas del usuario autenticado
// @Tags notificaciones
// @Produce json
// @Security BearerAuth
// @Success 200 {object} []model.Notification
// @Router /v1/notificaciones [get]
func (h *NotificationsHandler) ListarNoLeidas(c *gin.Context) {
	userID, _ := uuid.Parse(middleware.GetClaims(c).UserID)

	ns, err := h.repo.ListUnread(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al obtener notificaciones"))
		return
	}
	c.JSON(http.StatusOK, ns)
}

func (h *NotificationsHandler) MarcarLeida(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID de notificación inválido"))
		return
	}
	userID, _ := uuid.Parse(middleware.GetClaims(c).UserID)

	if err := h.repo.MarkRead(c.Request.Context(), id, userID); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al marcar la notificación"))
		return
	}
	c.Status(http.StatusNoContent)
}
