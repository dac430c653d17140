// internal/api/errors.go
// Maps the apperr.Kind taxonomy onto HTTP status codes for every handler.

package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"courtsched/internal/apperr"
)

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindInvalidConfig:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindOutOfWindow:
		return http.StatusUnprocessableEntity
	case apperr.KindSchedulerTimeout:
		return http.StatusGatewayTimeout
	case apperr.KindPersistenceFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes a structured error body naming the failure kind, the
// shape every operation in spec.md §6 promises its callers.
func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	c.JSON(statusFor(kind), gin.H{"error": err.Error(), "kind": string(kind)})
}
