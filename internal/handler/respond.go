package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"workload/internal/apperr"
	"workload/pkg/rbac"
)

// statusFor maps the error taxonomy onto HTTP status codes. This is the
// only place the mapping lives; services return taxonomy errors
// unchanged.
func statusFor(err error) int {
	var denied *rbac.PermissionDeniedError
	switch {
	case apperr.IsValidation(err):
		return http.StatusBadRequest
	case apperr.IsAuth(err):
		return http.StatusUnauthorized
	case errors.As(err, &denied):
		return http.StatusForbidden
	case apperr.IsNotFound(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		// Backend details stay in the logs.
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}
