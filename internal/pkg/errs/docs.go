// Package errs provides standardized error types for the fulfillment service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package covers the error taxonomy of the order workflow:
//   - ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError: malformed payloads,
//     all of which also match ErrValidationFailed
//   - UnauthorizedError: role or ownership mismatch
//   - ObjectNotFoundError: unresolved order, request or installer id
//   - InvalidTransitionError: current status does not admit the operation, including stale writes
//   - ConflictError: duplicate pending stock request, idempotency key or order code
//   - PersistenceError: the underlying store failed; the original cause stays reachable
//   - DeliveryFailedError: non-fatal, recorded on notification intents
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// Every message names the expected and actual state or role so that callers can tell a stale
// view apart from a missing permission.
package errs
