package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrSubmitOrderCommandIsNotConstructed = errors.New(
	"SubmitOrderCommand must be created via NewSubmitOrderCommand constructor",
)

// SubmitOrderCommand carries the order intake form.
//
// Example:
//
//	cmd, err := NewSubmitOrderCommand(principal, details, r.Header.Get("Idempotency-Key"))
//	if err != nil {
//	    return err
//	}
//	result, err := engine.SubmitOrder(ctx, cmd)
type SubmitOrderCommand struct {
	actor          kernel.Principal
	details        order.Details
	idempotencyKey string

	guard guard.ConstructorGuard
}

// NewSubmitOrderCommand validates the payload. The idempotency key is optional.
func NewSubmitOrderCommand(actor kernel.Principal, details order.Details, idempotencyKey string) (SubmitOrderCommand, error) {
	details.Product = strings.TrimSpace(details.Product)
	if err := errors.Join(actor.Validate(), details.Validate()); err != nil {
		return SubmitOrderCommand{}, err
	}
	return SubmitOrderCommand{
		actor:          actor,
		details:        details,
		idempotencyKey: strings.TrimSpace(idempotencyKey),
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c SubmitOrderCommand) Validate() error {
	return c.guard.Validate(ErrSubmitOrderCommandIsNotConstructed)
}

func (c SubmitOrderCommand) Actor() kernel.Principal { return c.actor }
func (c SubmitOrderCommand) Details() order.Details  { return c.details }
func (c SubmitOrderCommand) IdempotencyKey() string  { return c.idempotencyKey }
