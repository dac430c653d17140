// internal/api/auth_handlers.go
// Operator login and registration, narrowed from the teacher's public
// registration/login/refresh/forgot-password surface down to the single
// "can this caller mutate the schedule" question (SPEC_FULL.md §4.7).

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"courtsched/internal/auth"
)

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// HandleOperatorLogin authenticates an operator and returns a signed JWT.
func HandleOperatorLogin(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
			return
		}

		token, err := authService.Login(c.Request.Context(), req.Username, req.Password)
		if err != nil {
			if err == auth.ErrInvalidCredentials {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to login"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
}

// HandleOperatorRegister creates a new operator account. Gated by
// RequireRole(admin) in routes.go, since only an existing admin may mint
// further operator/admin accounts.
func HandleOperatorRegister(authStore *auth.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request format"})
			return
		}

		role := auth.RoleOperator
		if req.Role == string(auth.RoleAdmin) {
			role = auth.RoleAdmin
		}

		op, err := authStore.Register(c.Request.Context(), req.Username, req.Password, role)
		if err != nil {
			if err == auth.ErrUsernameTaken {
				c.JSON(http.StatusConflict, gin.H{"error": "username already registered"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to register operator"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"id": op.ID, "username": op.Username, "role": op.Role})
	}
}
