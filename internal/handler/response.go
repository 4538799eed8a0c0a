package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/jwalitptl/hms-api/pkg/errors"
)

// Error writes the failure body for err. Validation failures carry the
// full errors array; everything else is a single error string. Internal
// errors never leak their cause to the client.
func Error(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) || appErr.Code == apperrors.ErrInternal {
		// The sanitized body hides the cause; attach it to the context
		// so the request log still carries it.
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if len(appErr.Details) > 0 {
		c.JSON(appErr.HTTPStatus(), gin.H{"errors": appErr.Details})
		return
	}
	c.JSON(appErr.HTTPStatus(), gin.H{"error": appErr.Message})
}

// BadRequest writes a single-message 400 for malformed input caught at
// the handler boundary.
func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// Keyed wraps a record as a one-entry map keyed by its identifier, the
// document shape clients consume.
func Keyed(key string, record interface{}) gin.H {
	return gin.H{key: record}
}
