package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrApproveStockCommandIsNotConstructed = errors.New(
		"ApproveStockCommand must be created via NewApproveStockCommand constructor",
	)
	ErrRejectStockCommandIsNotConstructed = errors.New(
		"RejectStockCommand must be created via NewRejectStockCommand constructor",
	)
)

// ApproveStockCommand approves a pending stock request and adds its quantity
// to inventory.
type ApproveStockCommand struct {
	actor     kernel.Principal
	requestID kernel.UUID

	guard guard.ConstructorGuard
}

func NewApproveStockCommand(actor kernel.Principal, requestID kernel.UUID) (ApproveStockCommand, error) {
	if err := errors.Join(actor.Validate(), requestID.Validate()); err != nil {
		return ApproveStockCommand{}, err
	}
	return ApproveStockCommand{actor: actor, requestID: requestID, guard: guard.NewConstructorGuard()}, nil
}

func (c ApproveStockCommand) Validate() error {
	return c.guard.Validate(ErrApproveStockCommandIsNotConstructed)
}

func (c ApproveStockCommand) Actor() kernel.Principal { return c.actor }
func (c ApproveStockCommand) RequestID() kernel.UUID  { return c.requestID }

// RejectStockCommand rejects a pending stock request. A linked order is
// rejected with it. The reason is optional.
type RejectStockCommand struct {
	actor     kernel.Principal
	requestID kernel.UUID
	reason    string

	guard guard.ConstructorGuard
}

func NewRejectStockCommand(actor kernel.Principal, requestID kernel.UUID, reason string) (RejectStockCommand, error) {
	if err := errors.Join(actor.Validate(), requestID.Validate()); err != nil {
		return RejectStockCommand{}, err
	}
	return RejectStockCommand{
		actor:     actor,
		requestID: requestID,
		reason:    strings.TrimSpace(reason),
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RejectStockCommand) Validate() error {
	return c.guard.Validate(ErrRejectStockCommandIsNotConstructed)
}

func (c RejectStockCommand) Actor() kernel.Principal { return c.actor }
func (c RejectStockCommand) RequestID() kernel.UUID  { return c.requestID }
func (c RejectStockCommand) Reason() string          { return c.reason }
