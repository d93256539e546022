package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"required value", errs.NewValueIsRequiredError("product"), http.StatusBadRequest, CodeValidationFailed},
		{"out of range", errs.NewValueIsOutOfRangeError("rating", 9, 1, 5), http.StatusBadRequest, CodeValidationFailed},
		{"joined validation", errors.Join(errs.NewValueIsInvalidError("a"), errs.NewValueIsRequiredError("b")), http.StatusBadRequest, CodeValidationFailed},
		{"role denied", errs.NewUnauthorizedError("dispatch", "sales", []string{"dispatch"}), http.StatusForbidden, CodeUnauthorized},
		{"not found", errs.NewObjectNotFoundError("order", "x"), http.StatusNotFound, CodeNotFound},
		{"stale write", errs.NewStaleWriteError("order", "x", "created", "verified"), http.StatusConflict, CodeInvalidTransition},
		{"conflict", errs.NewConflictError("installer", "INST-1", "already registered"), http.StatusConflict, CodeConflict},
		{"persistence", errs.AsPersistence("commit", errors.New("connection reset")), http.StatusInternalServerError, CodeInternal},
		{"wrapped not found", fmt.Errorf("load: %w", errs.NewObjectNotFoundError("order", "x")), http.StatusNotFound, CodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := statusOf(tt.err)

			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}
