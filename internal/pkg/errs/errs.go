package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidationFailed           = errors.New("validation failed")
	ErrObjectNotFound             = errors.New("object not found")
	ErrValueIsInvalid             = errors.New("value is invalid")
	ErrValueIsOutOfRange          = errors.New("value is out of range")
	ErrValueIsRequired            = errors.New("value is required")
	ErrUnauthorized               = errors.New("unauthorized")
	ErrInvalidTransition          = errors.New("invalid transition")
	ErrConflict                   = errors.New("conflict")
	ErrPersistence                = errors.New("persistence failure")
	ErrNotificationDeliveryFailed = errors.New("notification delivery failed")
)

func sanitize(v any) string {
	return strings.ReplaceAll(fmt.Sprintf("%v", v), "\n", " ")
}

func withCause(msg string, cause error) string {
	if cause == nil {
		return msg
	}
	return fmt.Sprintf("%s (cause: %v)", msg, cause)
}

// ObjectNotFoundError reports an id that does not resolve to a stored object.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError reports a payload field with an unacceptable value.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName), e.Cause)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

func (e *ValueIsInvalidError) Is(target error) bool {
	return target == ErrValidationFailed
}

// ValueIsOutOfRangeError reports a numeric or ordered value outside [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string, value, minValue, maxValue any, cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s",
		ErrValueIsInvalid, sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max))
	return withCause(msg, e.Cause)
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

func (e *ValueIsOutOfRangeError) Is(target error) bool {
	return target == ErrValidationFailed
}

// ValueIsRequiredError reports a missing payload field.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName), e.Cause)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

func (e *ValueIsRequiredError) Is(target error) bool {
	return target == ErrValidationFailed
}

// UnauthorizedError reports a role that may not invoke an operation, or a principal
// that does not own the object it tries to mutate.
type UnauthorizedError struct {
	Operation string
	Role      string
	Allowed   []string
	Reason    string
}

func NewUnauthorizedError(operation, role string, allowed []string) *UnauthorizedError {
	return &UnauthorizedError{Operation: operation, Role: role, Allowed: allowed}
}

func NewOwnershipError(operation, role, reason string) *UnauthorizedError {
	return &UnauthorizedError{Operation: operation, Role: role, Reason: reason}
}

func (e *UnauthorizedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: role %s may not %s: %s", ErrUnauthorized, e.Role, e.Operation, e.Reason)
	}
	return fmt.Sprintf("%s: role %s may not %s (allowed: %s)",
		ErrUnauthorized, e.Role, e.Operation, strings.Join(e.Allowed, ", "))
}

func (e *UnauthorizedError) Unwrap() error {
	return ErrUnauthorized
}

// InvalidTransitionError reports an operation that the current status does not admit.
// Stale writes that lose an optimistic-concurrency race are reported the same way.
type InvalidTransitionError struct {
	Entity    string
	ID        string
	Operation string
	Expected  []string
	Actual    string
}

func NewInvalidTransitionError(entity, id, operation string, expected []string, actual string) *InvalidTransitionError {
	return &InvalidTransitionError{Entity: entity, ID: id, Operation: operation, Expected: expected, Actual: actual}
}

// NewStaleWriteError reports a conditional update that found the row in another status.
func NewStaleWriteError(entity, id, expected, actual string) *InvalidTransitionError {
	return &InvalidTransitionError{
		Entity:    entity,
		ID:        id,
		Operation: "conditional update",
		Expected:  []string{expected},
		Actual:    actual,
	}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s on %s %s expects status %s, actual %s",
		ErrInvalidTransition, e.Operation, e.Entity, e.ID, strings.Join(e.Expected, " or "), e.Actual)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ConflictError reports a write that collides with an existing object.
type ConflictError struct {
	ParamName string
	ID        any
	Reason    string
	Cause     error
}

func NewConflictError(paramName string, id any, reason string) *ConflictError {
	return &ConflictError{ParamName: paramName, ID: id, Reason: reason}
}

func NewConflictErrorWithCause(paramName string, id any, reason string, cause error) *ConflictError {
	return &ConflictError{ParamName: paramName, ID: id, Reason: reason, Cause: cause}
}

func (e *ConflictError) Error() string {
	return withCause(fmt.Sprintf("%s: %s %s %s", ErrConflict, e.ParamName, sanitize(e.ID), e.Reason), e.Cause)
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// IsConflictOn reports whether err carries a ConflictError about paramName.
func IsConflictOn(err error, paramName string) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict) && conflict.ParamName == paramName
}

// PersistenceError wraps a store failure. Both ErrPersistence and the original cause
// are reachable through errors.Is and errors.As.
type PersistenceError struct {
	Operation string
	Cause     error
}

func NewPersistenceError(operation string, cause error) *PersistenceError {
	return &PersistenceError{Operation: operation, Cause: cause}
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrPersistence, e.Operation, e.Cause)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Cause}
}

// DeliveryFailedError is recorded on notification intents; it never unwinds a transition.
type DeliveryFailedError struct {
	Recipient string
	Cause     error
}

func NewDeliveryFailedError(recipient string, cause error) *DeliveryFailedError {
	return &DeliveryFailedError{Recipient: recipient, Cause: cause}
}

func (e *DeliveryFailedError) Error() string {
	return withCause(fmt.Sprintf("%s: to %s", ErrNotificationDeliveryFailed, e.Recipient), e.Cause)
}

func (e *DeliveryFailedError) Unwrap() error {
	return ErrNotificationDeliveryFailed
}

// IsTyped reports whether err belongs to the taxonomy above. Anything else
// coming out of a store is wrapped in a PersistenceError before it reaches callers.
func IsTyped(err error) bool {
	for _, sentinel := range []error{
		ErrValidationFailed,
		ErrValueIsRequired,
		ErrValueIsInvalid,
		ErrValueIsOutOfRange,
		ErrObjectNotFound,
		ErrUnauthorized,
		ErrInvalidTransition,
		ErrConflict,
		ErrPersistence,
		ErrNotificationDeliveryFailed,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// AsPersistence wraps untyped errors as a PersistenceError for operation and
// passes typed errors and nil through unchanged.
func AsPersistence(operation string, err error) error {
	if err == nil || IsTyped(err) {
		return err
	}
	return NewPersistenceError(operation, err)
}
