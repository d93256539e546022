package commands

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/clock"
	"fulfillment/internal/pkg/errs"
)

// Planner turns a committed transition into messages.
type Planner interface {
	Plan(ev services.Event) ([]notification.Message, error)
}

// NotificationDispatcher runs strictly after commit. It plans the intents,
// tries each one on the sender, records the outcome on the intent and appends
// it to the notification log. Nothing it does is returned as an error: the
// transition it reports on is already authoritative.
type NotificationDispatcher struct {
	planner    Planner
	sender     ports.NotificationSender
	uowFactory NotificationUoWFactory
	clock      clock.Clock
	logger     *slog.Logger
}

func NewNotificationDispatcher(
	planner Planner,
	sender ports.NotificationSender,
	uowFactory NotificationUoWFactory,
	clk clock.Clock,
	logger *slog.Logger,
) *NotificationDispatcher {
	return &NotificationDispatcher{
		planner:    planner,
		sender:     sender,
		uowFactory: uowFactory,
		clock:      clk,
		logger:     logger.With("component", "NotificationDispatcher"),
	}
}

// Notify plans, sends and logs the intents for ev and returns them with their
// delivery outcome. Intents that could not be appended to the log are still
// returned.
func (d *NotificationDispatcher) Notify(ctx context.Context, ev services.Event) []*notification.Intent {
	// The caller may be gone once the transition committed; the log must still be written.
	ctx = context.WithoutCancel(ctx)

	messages, err := d.planner.Plan(ev)
	if err != nil {
		d.logger.WarnContext(ctx, "some recipients could not be resolved", "tag", ev.Tag, "error", err)
	}

	repo := d.uowFactory.Create().NotificationRepository()
	now := d.clock.Now()
	intents := make([]*notification.Intent, 0, len(messages))

	for _, msg := range messages {
		intent, err := notification.NewIntent(kernel.NewUUID(), msg, now)
		if err != nil {
			d.logger.ErrorContext(ctx, "invalid notification intent",
				"tag", msg.Tag, "category", msg.Category, "error", err)
			continue
		}

		d.deliver(ctx, intent)

		if err = repo.Append(ctx, intent); err != nil {
			d.logger.ErrorContext(ctx, "failed to append notification intent",
				"intent_id", intent.ID().String(), "tag", intent.Tag(), "error", err)
		}
		intents = append(intents, intent)
	}
	return intents
}

// deliver makes one attempt and records its outcome on the intent.
func (d *NotificationDispatcher) deliver(ctx context.Context, intent *notification.Intent) {
	if err := d.sender.Send(ctx, intent); err != nil {
		intent.MarkFailed(errs.NewDeliveryFailedError(intent.Recipient(), err))
		d.logger.WarnContext(ctx, "notification delivery failed",
			"intent_id", intent.ID().String(),
			"tag", intent.Tag(),
			"recipient", intent.Recipient(),
			"attempts", intent.Attempts(),
			"error", err)
		return
	}
	intent.MarkSent()
}
