package commands

import (
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/installer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrDispatchOrderCommandIsNotConstructed = errors.New(
	"DispatchOrderCommand must be created via NewDispatchOrderCommand constructor",
)

// DispatchOrderCommand assigns a verified order to a registered installer.
//
// Example:
//
//	cmd, err := NewDispatchOrderCommand(principal, orderID, "INST-001", date, "call before arrival")
//	if err != nil {
//	    return err
//	}
//	result, err := engine.DispatchOrder(ctx, cmd)
type DispatchOrderCommand struct {
	actor         kernel.Principal
	orderID       kernel.UUID
	installerID   string
	scheduledDate time.Time
	notes         string

	guard guard.ConstructorGuard
}

func NewDispatchOrderCommand(
	actor kernel.Principal,
	orderID kernel.UUID,
	installerID string,
	scheduledDate time.Time,
	notes string,
) (DispatchOrderCommand, error) {
	installerID = installer.NormalizeID(installerID)
	var installerErr, dateErr error
	if installerID == "" {
		installerErr = errs.NewValueIsRequiredError("installer id")
	}
	if scheduledDate.IsZero() {
		dateErr = errs.NewValueIsRequiredError("installation date")
	}
	if err := errors.Join(actor.Validate(), orderID.Validate(), installerErr, dateErr); err != nil {
		return DispatchOrderCommand{}, err
	}

	return DispatchOrderCommand{
		actor:         actor,
		orderID:       orderID,
		installerID:   installerID,
		scheduledDate: scheduledDate,
		notes:         strings.TrimSpace(notes),
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c DispatchOrderCommand) Validate() error {
	return c.guard.Validate(ErrDispatchOrderCommandIsNotConstructed)
}

func (c DispatchOrderCommand) Actor() kernel.Principal  { return c.actor }
func (c DispatchOrderCommand) OrderID() kernel.UUID     { return c.orderID }
func (c DispatchOrderCommand) InstallerID() string      { return c.installerID }
func (c DispatchOrderCommand) ScheduledDate() time.Time { return c.scheduledDate }
func (c DispatchOrderCommand) Notes() string            { return c.notes }
