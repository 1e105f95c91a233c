package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"inkwell/pkg/apperr"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// Success writes a success envelope with the given status.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	})
}

// Error writes an error envelope with the given status and optional details.
func Error[T any](ctx *gin.Context, status int, message string, details interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.JSON(status, APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     details,
	})
}

// FromError maps a classified service error onto the envelope. The error kind
// decides the status; only the caller-facing message is exposed.
func FromError(ctx *gin.Context, err error) {
	kind := apperr.KindOf(err)
	Error[any](ctx, kind.HTTPStatus(), apperr.MessageOf(err), gin.H{"kind": kind.String()})
}
