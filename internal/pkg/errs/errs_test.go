package errs_test

import (
	"errors"
	"testing"

	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("userId", "123")

		assert.Equal(t, "userId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("userId", "123", cause)

		assert.Equal(t, "userId", err.ParamName)
		assert.Equal(t, "123", err.ID)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: userId, ID is: 123 (cause: database connection failed)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("Error with different ID types", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderId", 456)
		assert.Equal(t, "object not found: %!s(int=456)", err.Error())
	})
}

func TestValueIsInvalidError(t *testing.T) {
	t.Run("NewValueIsInvalidError", func(t *testing.T) {
		err := errs.NewValueIsInvalidError("email")

		assert.Equal(t, "email", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: email", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})

	t.Run("NewValueIsInvalidErrorWithCause", func(t *testing.T) {
		cause := errors.New("invalid format")
		err := errs.NewValueIsInvalidErrorWithCause("email", cause)

		assert.Equal(t, "email", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is invalid: email (cause: invalid format)", err.Error())
		assert.Equal(t, errs.ErrValueIsInvalid, err.Unwrap())
	})
}

func TestValueIsOutOfRangeError(t *testing.T) {
	t.Run("NewValueIsOutOfRangeError", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("age", 150, 0, 120)

		assert.Equal(t, "age", err.ParamName)
		assert.Equal(t, 150, err.Value)
		assert.Equal(t, 0, err.Min)
		assert.Equal(t, 120, err.Max)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is invalid: 150 is age, min value is 0, max value is 120", err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("NewValueIsOutOfRangeErrorWithCause", func(t *testing.T) {
		cause := errors.New("validation failed")
		err := errs.NewValueIsOutOfRangeErrorWithCause("score", -5, 0, 100, cause)

		assert.Equal(t, "score", err.ParamName)
		assert.Equal(t, -5, err.Value)
		assert.Equal(t, 0, err.Min)
		assert.Equal(t, 100, err.Max)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"value is invalid: -5 is score, min value is 0, max value is 100 (cause: validation failed)",
			err.Error())
		assert.Equal(t, errs.ErrValueIsOutOfRange, err.Unwrap())
	})

	t.Run("sanitize function with newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)
		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestValueIsRequiredError(t *testing.T) {
	t.Run("NewValueIsRequiredError", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("username")

		assert.Equal(t, "username", err.ParamName)
		require.NoError(t, err.Cause)
		assert.Equal(t, "value is required: username", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})

	t.Run("NewValueIsRequiredErrorWithCause", func(t *testing.T) {
		cause := errors.New("missing required field")
		err := errs.NewValueIsRequiredErrorWithCause("username", cause)

		assert.Equal(t, "username", err.ParamName)
		assert.Equal(t, cause, err.Cause)
		assert.Equal(t, "value is required: username (cause: missing required field)", err.Error())
		assert.Equal(t, errs.ErrValueIsRequired, err.Unwrap())
	})
}

func TestSentinelErrors(t *testing.T) {
	t.Run("sentinel errors are defined", func(t *testing.T) {
		require.Error(t, errs.ErrObjectNotFound)
		require.Error(t, errs.ErrValueIsInvalid)
		require.Error(t, errs.ErrValueIsOutOfRange)
		require.Error(t, errs.ErrValueIsRequired)
		require.Error(t, errs.ErrInvalidTransition)
		require.Error(t, errs.ErrConflict)
	})

	t.Run("error messages match expectations", func(t *testing.T) {
		assert.Equal(t, "object not found", errs.ErrObjectNotFound.Error())
		assert.Equal(t, "value is invalid", errs.ErrValueIsInvalid.Error())
		assert.Equal(t, "value is out of range", errs.ErrValueIsOutOfRange.Error())
		assert.Equal(t, "value is required", errs.ErrValueIsRequired.Error())
		assert.Equal(t, "invalid transition", errs.ErrInvalidTransition.Error())
		assert.Equal(t, "conflict", errs.ErrConflict.Error())
	})
}

func TestErrorsCanBeUnwrapped(t *testing.T) {
	t.Run("errors.Is works with custom errors", func(t *testing.T) {
		objectNotFoundErr := errs.NewObjectNotFoundError("userId", "123")
		require.ErrorIs(t, objectNotFoundErr, errs.ErrObjectNotFound)

		valueInvalidErr := errs.NewValueIsInvalidError("email")
		require.ErrorIs(t, valueInvalidErr, errs.ErrValueIsInvalid)

		valueOutOfRangeErr := errs.NewValueIsOutOfRangeError("age", 150, 0, 120)
		require.ErrorIs(t, valueOutOfRangeErr, errs.ErrValueIsOutOfRange)

		valueRequiredErr := errs.NewValueIsRequiredError("username")
		require.ErrorIs(t, valueRequiredErr, errs.ErrValueIsRequired)

		conflictErr := errs.NewConflictError("order", "42", "already has a pending stock request")
		require.ErrorIs(t, conflictErr, errs.ErrConflict)
	})
}

func TestValidationErrorsMatchValidationFailed(t *testing.T) {
	require.ErrorIs(t, errs.NewValueIsInvalidError("email"), errs.ErrValidationFailed)
	require.ErrorIs(t, errs.NewValueIsRequiredError("name"), errs.ErrValidationFailed)
	require.ErrorIs(t, errs.NewValueIsOutOfRangeError("quantity", 0, 1, 100), errs.ErrValidationFailed)
	require.NotErrorIs(t, errs.NewObjectNotFoundError("order", "1"), errs.ErrValidationFailed)
}

func TestUnauthorizedError(t *testing.T) {
	t.Run("role mismatch names allowed roles", func(t *testing.T) {
		err := errs.NewUnauthorizedError("approveStock", "stock", []string{"hod", "admin"})

		assert.Equal(t, "unauthorized: role stock may not approveStock (allowed: hod, admin)", err.Error())
		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})

	t.Run("ownership mismatch names the reason", func(t *testing.T) {
		err := errs.NewOwnershipError("completeInstallation", "installer", "order is assigned to INST-1, not INST-2")

		assert.Equal(t,
			"unauthorized: role installer may not completeInstallation: order is assigned to INST-1, not INST-2",
			err.Error())
		require.ErrorIs(t, err, errs.ErrUnauthorized)
	})
}

func TestInvalidTransitionError(t *testing.T) {
	t.Run("names expected and actual status", func(t *testing.T) {
		err := errs.NewInvalidTransitionError("order", "42", "dispatch", []string{"verified"}, "created")

		assert.Equal(t, "invalid transition: dispatch on order 42 expects status verified, actual created", err.Error())
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("stale write", func(t *testing.T) {
		err := errs.NewStaleWriteError("stock request", "7", "pending", "approved")

		assert.Equal(t, []string{"pending"}, err.Expected)
		assert.Equal(t, "approved", err.Actual)
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestPersistenceErrorKeepsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := errs.NewPersistenceError("update order", cause)

	assert.Equal(t, "persistence failure: update order: connection reset", err.Error())
	require.ErrorIs(t, err, errs.ErrPersistence)
	require.ErrorIs(t, err, cause)
}

func TestDeliveryFailedError(t *testing.T) {
	err := errs.NewDeliveryFailedError("hod@example.com", errors.New("inbox full"))

	assert.Equal(t, "notification delivery failed: to hod@example.com (cause: inbox full)", err.Error())
	require.ErrorIs(t, err, errs.ErrNotificationDeliveryFailed)
}

func TestAsPersistence(t *testing.T) {
	require.NoError(t, errs.AsPersistence("get order", nil))

	notFound := errs.NewObjectNotFoundError("order", "1")
	assert.Same(t, notFound, errs.AsPersistence("get order", notFound))

	raw := errors.New("driver: bad connection")
	wrapped := errs.AsPersistence("get order", raw)
	require.ErrorIs(t, wrapped, errs.ErrPersistence)
	require.ErrorIs(t, wrapped, raw)
	assert.True(t, errs.IsTyped(wrapped))
	assert.False(t, errs.IsTyped(raw))
}

func TestIsConflictOn(t *testing.T) {
	err := errs.NewConflictErrorWithCause("order code", "ORD-1-AAAA", "already taken", errors.New("duplicate key"))

	assert.True(t, errs.IsConflictOn(err, "order code"))
	assert.True(t, errs.IsConflictOn(errs.AsPersistence("add order", err), "order code"))
	assert.False(t, errs.IsConflictOn(err, "idempotency key"))
	assert.False(t, errs.IsConflictOn(errs.ErrConflict, "order code"))
	assert.False(t, errs.IsConflictOn(nil, "order code"))
}
