package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jwalitptl/medspa-api/pkg/errors"
)

// Error is the machine-readable error body
type Error struct {
	Code      int    `json:"code"`
	Type      string `json:"type"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse wraps error responses
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   *Error `json:"error"`
}

// RespondWithJSON sends a success payload as-is; list and analytics payloads are their own envelope.
func RespondWithJSON(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	typ := errors.ErrInternal.String()
	message := "internal server error"

	if appErr, ok := errors.As(err); ok {
		status = appErr.HTTPStatus()
		typ = appErr.Type()
		message = appErr.Message
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Success: false,
		Error: &Error{
			Code:      status,
			Type:      typ,
			Message:   message,
			RequestID: c.GetString("request_id"),
		},
	})
}
