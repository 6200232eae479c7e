package response

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/civica-app/civica-backend/pkg/apperror"
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

// Success writes a success envelope and returns it.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
	ctx.JSON(status, resp)
	return resp
}

// Error writes an error envelope and returns it. Callers in middleware still
// need to Abort.
func Error[T any](ctx *gin.Context, status int, message string, err interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	}
	ctx.JSON(status, resp)
	return resp
}

// ErrorBody is the error payload rendered for typed application errors.
type ErrorBody struct {
	Code apperror.Code `json:"code"`
}

// FromError renders err with the status of its code. Internal details are
// never sent to the client.
func FromError(ctx *gin.Context, err error) APIResponse[any] {
	var ae *apperror.Error
	if !errors.As(err, &ae) {
		ae = apperror.Internal(err, "internal server error")
	}
	status := apperror.HTTPStatus(ae.Code)
	msg := ae.Message
	if ae.Code == apperror.CodeInternal {
		msg = "internal server error"
		_ = ctx.Error(err)
	}
	return Error[any](ctx, status, msg, ErrorBody{Code: ae.Code})
}
