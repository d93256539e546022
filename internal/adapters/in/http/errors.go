package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Stable error codes returned in ErrorResponse.Code.
const (
	CodeValidationFailed  = "validation_failed"
	CodeUnauthenticated   = "unauthenticated"
	CodeUnauthorized      = "unauthorized"
	CodeNotFound          = "not_found"
	CodeInvalidTransition = "invalid_transition"
	CodeConflict          = "conflict"
	CodeInternal          = "internal"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusOf maps a use case error onto an HTTP status and error code.
// Typed errors are checked before persistence because a PersistenceError
// never wraps one of them.
func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, errs.ErrValidationFailed):
		return http.StatusBadRequest, CodeValidationFailed
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusForbidden, CodeUnauthorized
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound, CodeNotFound
	case errors.Is(err, errs.ErrInvalidTransition):
		return http.StatusConflict, CodeInvalidTransition
	case errors.Is(err, errs.ErrConflict):
		return http.StatusConflict, CodeConflict
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func (s *Server) fail(ctx echo.Context, err error) error {
	status, code := statusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method, "path", ctx.Path(), "error", err)
		msg = "internal error"
	}
	return ctx.JSON(status, ErrorResponse{Error: msg, Code: code})
}

func badRequest(ctx echo.Context, msg string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: msg, Code: CodeValidationFailed})
}
