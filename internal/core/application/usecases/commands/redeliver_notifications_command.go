package commands

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	DefaultRedeliveryMaxAttempts = 5
	DefaultRedeliveryBatch       = 50
)

var ErrRedeliverNotificationsCommandIsNotConstructed = errors.New(
	"RedeliverNotificationsCommand must be created via NewRedeliverNotificationsCommand constructor",
)

// RedeliverNotificationsCommand retries failed intents that have been tried
// fewer than maxAttempts times, at most batch of them per run.
type RedeliverNotificationsCommand struct {
	maxAttempts int
	batch       int

	guard guard.ConstructorGuard
}

// NewRedeliverNotificationsCommand uses the defaults for non-positive values.
func NewRedeliverNotificationsCommand(maxAttempts, batch int) RedeliverNotificationsCommand {
	if maxAttempts <= 0 {
		maxAttempts = DefaultRedeliveryMaxAttempts
	}
	if batch <= 0 {
		batch = DefaultRedeliveryBatch
	}
	return RedeliverNotificationsCommand{maxAttempts: maxAttempts, batch: batch, guard: guard.NewConstructorGuard()}
}

func (c RedeliverNotificationsCommand) Validate() error {
	return c.guard.Validate(ErrRedeliverNotificationsCommandIsNotConstructed)
}

func (c RedeliverNotificationsCommand) MaxAttempts() int { return c.maxAttempts }
func (c RedeliverNotificationsCommand) Batch() int       { return c.batch }

// RedeliveryReport counts what one redelivery run did.
type RedeliveryReport struct {
	Attempted int
	Sent      int
	Failed    int
}

// RedeliverNotificationsCommandHandler makes one more delivery attempt for
// each failed intent in the batch and writes the outcome back.
type RedeliverNotificationsCommandHandler struct {
	uowFactory NotificationUoWFactory
	sender     ports.NotificationSender
	logger     *slog.Logger
}

func NewRedeliverNotificationsCommandHandler(
	uowFactory NotificationUoWFactory,
	sender ports.NotificationSender,
	logger *slog.Logger,
) RedeliverNotificationsCommandHandler {
	return RedeliverNotificationsCommandHandler{
		uowFactory: uowFactory,
		sender:     sender,
		logger:     logger.With("component", "RedeliverNotificationsCommandHandler"),
	}
}

// Handle returns an error only when the batch cannot be listed. Failures to
// write back a single outcome are logged and counted as failed.
func (h RedeliverNotificationsCommandHandler) Handle(ctx context.Context, command RedeliverNotificationsCommand) (RedeliveryReport, error) {
	if err := command.Validate(); err != nil {
		return RedeliveryReport{}, err
	}

	repo := h.uowFactory.Create().NotificationRepository()
	intents, err := repo.ListUndelivered(ctx, command.MaxAttempts(), command.Batch())
	if err != nil {
		return RedeliveryReport{}, errs.AsPersistence("list undelivered notifications", err)
	}

	var report RedeliveryReport
	for _, intent := range intents {
		report.Attempted++

		if err = h.sender.Send(ctx, intent); err != nil {
			intent.MarkFailed(errs.NewDeliveryFailedError(intent.Recipient(), err))
		} else {
			intent.MarkSent()
		}

		if err = repo.UpdateDelivery(ctx, intent); err != nil {
			h.logger.ErrorContext(ctx, "failed to record redelivery outcome",
				"intent_id", intent.ID().String(), "error", err)
			report.Failed++
			continue
		}
		if intent.DeliveryStatus() == notification.DeliverySent {
			report.Sent++
		} else {
			report.Failed++
		}
	}

	if report.Attempted > 0 {
		h.logger.InfoContext(ctx, "redelivery finished",
			"attempted", report.Attempted, "sent", report.Sent, "failed", report.Failed)
	}
	return report, nil
}
