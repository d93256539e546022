package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrVerifyStockCommandIsNotConstructed = errors.New(
	"VerifyStockCommand must be created via NewVerifyStockCommand constructor",
)

// VerifyStockCommand attests that stock for an order is on hand. The note is
// optional and becomes the order's dispatch note.
type VerifyStockCommand struct {
	actor   kernel.Principal
	orderID kernel.UUID
	note    string

	guard guard.ConstructorGuard
}

func NewVerifyStockCommand(actor kernel.Principal, orderID kernel.UUID, note string) (VerifyStockCommand, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return VerifyStockCommand{}, err
	}
	return VerifyStockCommand{
		actor:   actor,
		orderID: orderID,
		note:    strings.TrimSpace(note),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c VerifyStockCommand) Validate() error {
	return c.guard.Validate(ErrVerifyStockCommandIsNotConstructed)
}

func (c VerifyStockCommand) Actor() kernel.Principal { return c.actor }
func (c VerifyStockCommand) OrderID() kernel.UUID    { return c.orderID }
func (c VerifyStockCommand) Note() string            { return c.note }
