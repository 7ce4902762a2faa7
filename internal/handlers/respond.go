package handlers

import (
	"net/http"

	"match-service/internal/apperr"

	"github.com/gin-gonic/gin"
)

// statusOf maps core error kinds to HTTP status codes at the boundary.
func statusOf(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	msg := err.Error()
	if apperr.IsKind(err, apperr.KindInternal) {
		msg = "internal error"
	}
	c.JSON(statusOf(err), gin.H{"error": msg, "code": apperr.CodeOf(err)})
}
