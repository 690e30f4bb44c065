package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFoundResponse(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

func Forbidden(c *gin.Context, code, message string) {
	Write(c, http.StatusForbidden, code, message)
}

// StatusOf maps an error kind onto an HTTP status.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidOverride):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNoQualifiedStaff):
		return http.StatusNotFound
	case errors.Is(err, ErrSlotTaken):
		return http.StatusConflict
	case errors.Is(err, ErrTransient):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

var messages = map[int]string{
	http.StatusBadRequest:          "Invalid request.",
	http.StatusUnprocessableEntity: "Calendar data is inconsistent for this date.",
	http.StatusNotFound:            "Resource not found.",
	http.StatusConflict:            "The requested time is no longer available.",
	http.StatusServiceUnavailable:  "Temporarily unavailable, retry shortly.",
}

// Respond writes err using its kind and code. Errors without a kind are
// reported as internal errors without leaking their text.
func Respond(c *gin.Context, err error) {
	status := StatusOf(err)
	code := CodeOf(err)
	if status == http.StatusInternalServerError || code == "" {
		code = "internal_error"
	}
	msg, ok := messages[status]
	if !ok {
		msg = "Unexpected error."
	}
	if status == http.StatusServiceUnavailable {
		c.Header("Retry-After", "1")
	}
	Write(c, status, code, msg)
}
