package handler

import (
	"net/http"
	"strconv"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/apierror"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// dlqQueues maps the public route segment to the internal queue name.
var dlqQueues = map[string]string{
	"notificaciones": worker.QueueNotifications,
	"reportes":       worker.QueueReports,
}

// OpsHandler exposes maintenance operations restricted to administrators.
type OpsHandler struct{ rdb *redis.Client }

func NewOpsHandler(rdb *redis.Client) *OpsHandler { return &OpsHandler{rdb: rdb} }

// ReencolarDLQ godoc
// @Summary Reencola trabajos fallidos desde la dead letter queue
// @Description Mueve hasta `limite` trabajos de la DLQ a su cola original,
// @Description una vez corregida la causa raíz (caída SMTP, plantilla rota).
// @Tags ops
// @Produce json
// @Security BearerAuth
// @Param cola path string true "notificaciones | reportes"
// @Param limite query int false "Máximo de trabajos a mover (default 100)"
// @Success 200 {object} map[string]int
// @Failure 404 {object} apierror.APIError "Cola desconocida"
// @Router /v1/ops/dlq/{cola}/reencolar [post]
func (h *OpsHandler) ReencolarDLQ(c *gin.Context) {
	queue, ok := dlqQueues[c.Param("cola")]
	if !ok {
		c.JSON(http.StatusNotFound, apierror.New("Cola desconocida"))
		return
	}

	limit := 100
	if q := c.Query("limite"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n < 1 || n > 1000 {
			c.JSON(http.StatusBadRequest, apierror.New("limite inválido: debe estar entre 1 y 1000"))
			return
		}
		limit = n
	}

	moved, err := worker.RequeueFromDLQ(c.Request.Context(), h.rdb, queue, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al reencolar trabajos"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"reencolados": moved})
}
