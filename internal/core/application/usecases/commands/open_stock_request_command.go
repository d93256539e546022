package commands

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrOpenStockRequestCommandIsNotConstructed = errors.New(
	"OpenStockRequestCommand must be created via NewOpenStockRequestCommand constructor",
)

// OpenStockRequestCommand raises a stock request that is not tied to an order.
type OpenStockRequestCommand struct {
	actor    kernel.Principal
	product  string
	quantity int
	message  string

	guard guard.ConstructorGuard
}

func NewOpenStockRequestCommand(actor kernel.Principal, product string, quantity int, message string) (OpenStockRequestCommand, error) {
	product = strings.TrimSpace(product)
	var productErr, quantityErr error
	if product == "" {
		productErr = errs.NewValueIsRequiredError("product name")
	}
	if quantity < 1 {
		quantityErr = errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", quantity))
	}
	if err := errors.Join(actor.Validate(), productErr, quantityErr); err != nil {
		return OpenStockRequestCommand{}, err
	}

	return OpenStockRequestCommand{
		actor:    actor,
		product:  product,
		quantity: quantity,
		message:  strings.TrimSpace(message),
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c OpenStockRequestCommand) Validate() error {
	return c.guard.Validate(ErrOpenStockRequestCommandIsNotConstructed)
}

func (c OpenStockRequestCommand) Actor() kernel.Principal { return c.actor }
func (c OpenStockRequestCommand) Product() string         { return c.product }
func (c OpenStockRequestCommand) Quantity() int           { return c.quantity }
func (c OpenStockRequestCommand) Message() string         { return c.message }
