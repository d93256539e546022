package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/guard"
)

var ErrCompleteInstallationCommandIsNotConstructed = errors.New(
	"CompleteInstallationCommand must be created via NewCompleteInstallationCommand constructor",
)

// CompleteInstallationCommand closes a dispatched order with the installer's
// report. The report is stamped when the engine applies it.
type CompleteInstallationCommand struct {
	actor   kernel.Principal
	orderID kernel.UUID
	draft   order.ReportDraft

	guard guard.ConstructorGuard
}

func NewCompleteInstallationCommand(actor kernel.Principal, orderID kernel.UUID, draft order.ReportDraft) (CompleteInstallationCommand, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate()); err != nil {
		return CompleteInstallationCommand{}, err
	}
	return CompleteInstallationCommand{actor: actor, orderID: orderID, draft: draft, guard: guard.NewConstructorGuard()}, nil
}

func (c CompleteInstallationCommand) Validate() error {
	return c.guard.Validate(ErrCompleteInstallationCommandIsNotConstructed)
}

func (c CompleteInstallationCommand) Actor() kernel.Principal  { return c.actor }
func (c CompleteInstallationCommand) OrderID() kernel.UUID     { return c.orderID }
func (c CompleteInstallationCommand) Draft() order.ReportDraft { return c.draft }
