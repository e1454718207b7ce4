package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/infra"
	"github.com/filimorniga-ux/farmacias-vallenar-suit-sub005/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health returns a JSON health check response.
// Checks DB and Redis connectivity plus worker backlog; never exposes
// credentials or internals.
func Health(db *gorm.DB, rdb *redis.Client, smtpCB *infra.CircuitBreaker) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		dbStatus := "connected"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "error"
		}

		redisStatus := "connected"
		if rdb.Ping(ctx).Err() != nil {
			redisStatus = "error"
		}

		// DLQ depths are informational: a growing DLQ means jobs are failing
		// permanently, but the API itself is still healthy.
		dlqNotif, _ := worker.DLQLength(ctx, rdb, worker.QueueNotifications)
		dlqReports, _ := worker.DLQLength(ctx, rdb, worker.QueueReports)

		status := http.StatusOK
		if dbStatus != "connected" || redisStatus != "connected" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"ok":    status == http.StatusOK,
			"db":    dbStatus,
			"redis": redisStatus,
			"smtp": gin.H{
				"state":    smtpCB.State().String(),
				"failures": smtpCB.Failures(),
			},
			"dlq": gin.H{
				"notifications": dlqNotif,
				"reports":       dlqReports,
			},
		})
	}
}
