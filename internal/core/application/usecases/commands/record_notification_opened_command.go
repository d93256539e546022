package commands

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrRecordNotificationOpenedCommandIsNotConstructed = errors.New(
	"RecordNotificationOpenedCommand must be created via NewRecordNotificationOpenedCommand constructor",
)

// RecordNotificationOpenedCommand counts one open of a delivered notification.
// It arrives from the tracking pixel or from the receipt topic.
type RecordNotificationOpenedCommand struct {
	intentID kernel.UUID

	guard guard.ConstructorGuard
}

func NewRecordNotificationOpenedCommand(intentID kernel.UUID) (RecordNotificationOpenedCommand, error) {
	if err := intentID.Validate(); err != nil {
		return RecordNotificationOpenedCommand{}, err
	}
	return RecordNotificationOpenedCommand{intentID: intentID, guard: guard.NewConstructorGuard()}, nil
}

func (c RecordNotificationOpenedCommand) Validate() error {
	return c.guard.Validate(ErrRecordNotificationOpenedCommandIsNotConstructed)
}

func (c RecordNotificationOpenedCommand) IntentID() kernel.UUID { return c.intentID }

// RecordNotificationOpenedCommandHandler increments the open counter of an intent.
type RecordNotificationOpenedCommandHandler struct {
	uowFactory NotificationUoWFactory
}

func NewRecordNotificationOpenedCommandHandler(uowFactory NotificationUoWFactory) RecordNotificationOpenedCommandHandler {
	return RecordNotificationOpenedCommandHandler{uowFactory: uowFactory}
}

// Handle fails with ObjectNotFoundError for unknown intents.
func (h RecordNotificationOpenedCommandHandler) Handle(ctx context.Context, command RecordNotificationOpenedCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	repo := h.uowFactory.Create().NotificationRepository()
	return errs.AsPersistence("record notification opened", repo.IncrementOpenCount(ctx, command.IntentID()))
}
