package commands

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrEscalateStockCommandIsNotConstructed = errors.New(
	"EscalateStockCommand must be created via NewEscalateStockCommand constructor",
)

// EscalateStockCommand asks the HOD for more stock before an order can move on.
//
// An empty product and a zero quantity mean "the order's own product and
// quantity", which is what the stock desk asks for in the common case.
type EscalateStockCommand struct { //nolint:recvcheck //using for validation
	actor    kernel.Principal
	orderID  kernel.UUID
	product  string
	quantity int
	message  string

	guard guard.ConstructorGuard
}

func NewEscalateStockCommand(
	actor kernel.Principal,
	orderID kernel.UUID,
	product string,
	quantity int,
	message string,
) (EscalateStockCommand, error) {
	cmd := EscalateStockCommand{
		actor:   actor,
		orderID: orderID,
		product: strings.TrimSpace(product),
		message: strings.TrimSpace(message),
		guard:   guard.NewConstructorGuard(),
	}
	if err := errors.Join(
		actor.Validate(),
		orderID.Validate(),
		cmd.setQuantity(quantity),
	); err != nil {
		return EscalateStockCommand{}, err
	}
	return cmd, nil
}

func (c EscalateStockCommand) Validate() error {
	return c.guard.Validate(ErrEscalateStockCommandIsNotConstructed)
}

func (c EscalateStockCommand) Actor() kernel.Principal { return c.actor }
func (c EscalateStockCommand) OrderID() kernel.UUID    { return c.orderID }
func (c EscalateStockCommand) Product() string         { return c.product }
func (c EscalateStockCommand) Quantity() int           { return c.quantity }
func (c EscalateStockCommand) Message() string         { return c.message }

func (c *EscalateStockCommand) setQuantity(quantity int) error {
	if quantity < 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is negative", quantity))
	}
	c.quantity = quantity
	return nil
}
