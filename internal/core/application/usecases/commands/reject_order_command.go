package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrRejectOrderCommandIsNotConstructed = errors.New(
	"RejectOrderCommand must be created via NewRejectOrderCommand constructor",
)

// RejectOrderCommand ends a created order at the stock desk.
type RejectOrderCommand struct {
	actor   kernel.Principal
	orderID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

// NewRejectOrderCommand takes an optional reason; the order falls back to a default one.
func NewRejectOrderCommand(actor kernel.Principal, orderID kernel.UUID, reason string) (RejectOrderCommand, error) {
	reason = strings.TrimSpace(reason)
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return RejectOrderCommand{}, err
	}
	return RejectOrderCommand{actor: actor, orderID: orderID, reason: reason, guard: guard.NewConstructorGuard()}, nil
}

func (c RejectOrderCommand) Validate() error {
	return c.guard.Validate(ErrRejectOrderCommandIsNotConstructed)
}

func (c RejectOrderCommand) Actor() kernel.Principal { return c.actor }
func (c RejectOrderCommand) OrderID() kernel.UUID    { return c.orderID }
func (c RejectOrderCommand) Reason() string          { return c.reason }
