// internal/api/health.go
// Health check endpoint for monitoring

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"courtsched/internal/config"
	"courtsched/internal/database"
)

// HealthCheck returns a health check handler that also pings the backing
// datastores, since a schedule-mutation API is useless if MySQL, MongoDB,
// or Redis is unreachable.
func HealthCheck(cfg *config.Config, db *database.Connections) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		dbStatus := "operational"
		if err := db.HealthCheck(c.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			dbStatus = "degraded"
		}

		c.JSON(status, gin.H{
			"status":      "healthy",
			"environment": cfg.Environment,
			"version":     "1.0.0",
			"services": gin.H{
				"api":       "operational",
				"datastore": dbStatus,
				"websocket": cfg.Features.EnableWebSocket,
			},
		})
	}
}
