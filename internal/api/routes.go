// internal/api/routes.go
// Central route registration for the schedule API named in SPEC_FULL.md §6,
// narrowed from the teacher's tournament/user/payment surface down to
// operator auth plus the schedule-mutation and live-feed operations.

package api

import (
	"github.com/gin-gonic/gin"

	"courtsched/internal/auth"
	"courtsched/internal/live"
	"courtsched/internal/middleware"
	"courtsched/internal/scheduling"
)

// RegisterAuthRoutes registers operator login/registration routes.
func RegisterAuthRoutes(router *gin.RouterGroup, authService *auth.Service, authStore *auth.Store) {
	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", HandleOperatorLogin(authService))
		authGroup.POST("/register",
			middleware.RequireAuth(authService),
			middleware.RequireRole(auth.RoleAdmin),
			HandleOperatorRegister(authStore),
		)
	}
}

// RegisterScheduleRoutes registers the schedule-mutation surface, gated by
// operator authentication per SPEC_FULL.md §4.7.
func RegisterScheduleRoutes(router *gin.RouterGroup, authService *auth.Service, svc *scheduling.Service) {
	tournaments := router.Group("/tournaments/:id")
	{
		tournaments.GET("/schedule", HandleGetSchedule(svc))
		tournaments.GET("/schedule/export", HandleExportScheduleCSV(svc))

		protected := tournaments.Group("")
		protected.Use(middleware.RequireAuth(authService))
		{
			protected.POST("/schedule/reschedule", HandleRescheduleAll(svc))
			protected.PUT("/schedule/matches/:matchId", HandleUpdateMatch(svc))
			protected.PUT("/schedule/matches", HandleUpdateMany(svc))
			protected.DELETE("/schedule", HandleClearAllSchedules(svc))
			protected.POST("/schedule/import", HandleImportScheduleCSV(svc))
			protected.PUT("/categories/:cat/teams/:team", HandleUpdateTeam(svc))
			protected.POST("/categories/:cat/reset", HandleResetCategory(svc))
		}
	}
}

// RegisterLiveRoutes registers the read-only websocket schedule feed.
func RegisterLiveRoutes(router *gin.RouterGroup, authService *auth.Service, hub *live.Hub) {
	router.GET("/tournaments/:id/live", middleware.OptionalAuth(authService), live.HandleConnection(hub))
}
