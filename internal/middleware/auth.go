// internal/middleware/auth.go
// Authentication middleware validates operator JWTs and sets operator context

package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"courtsched/internal/auth"
)

// RequireAuth validates that a request has a valid operator JWT.
func RequireAuth(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization format"})
			c.Abort()
			return
		}

		operatorID, role, err := authService.Authenticate(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set("operator_id", operatorID)
		c.Set("operator_role", string(role))
		c.Set("authenticated", true)

		c.Next()
	}
}

// OptionalAuth checks for authentication but doesn't require it, used on the
// read-only live feed where anonymous viewers may watch but not mutate.
func OptionalAuth(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Set("authenticated", false)
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) == 2 && parts[0] == "Bearer" {
			if operatorID, role, err := authService.Authenticate(parts[1]); err == nil {
				c.Set("operator_id", operatorID)
				c.Set("operator_role", string(role))
				c.Set("authenticated", true)
			}
		}

		c.Next()
	}
}

// RequireRole ensures the authenticated operator holds a specific role.
// Used to gate operator account creation to admins (SPEC_FULL.md §4.7).
func RequireRole(requiredRole auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("operator_role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			c.Abort()
			return
		}

		if role.(string) != string(requiredRole) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}
