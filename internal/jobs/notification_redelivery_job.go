package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultRedeliverySchedule runs the redelivery sweep once a minute.
const DefaultRedeliverySchedule = "0 * * * * *"

// Redeliverer retries failed notification intents.
type Redeliverer interface {
	Handle(ctx context.Context, cmd commands.RedeliverNotificationsCommand) (commands.RedeliveryReport, error)
}

// NotificationRedeliveryJob periodically gives failed notifications another
// delivery attempt. A sweep that is still running when the next one is due
// is skipped.
type NotificationRedeliveryJob struct {
	handler  Redeliverer
	schedule string
	command  commands.RedeliverNotificationsCommand
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewNotificationRedeliveryJob takes a six-field cron schedule (with
// seconds) or a descriptor such as "@every 5m". An empty schedule means
// DefaultRedeliverySchedule.
func NewNotificationRedeliveryJob(
	handler Redeliverer,
	schedule string,
	maxAttempts, batch int,
	logger *slog.Logger,
) *NotificationRedeliveryJob {
	if schedule == "" {
		schedule = DefaultRedeliverySchedule
	}
	return &NotificationRedeliveryJob{
		handler:  handler,
		schedule: schedule,
		command:  commands.NewRedeliverNotificationsCommand(maxAttempts, batch),
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		logger: logger.With("component", "notification_redelivery_job"),
	}
}

// Start registers the sweep and starts the scheduler.
func (j *NotificationRedeliveryJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.runOnce); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Notification redelivery job started", "schedule", j.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running sweep to finish.
func (j *NotificationRedeliveryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Notification redelivery job stopped")
}

func (j *NotificationRedeliveryJob) runOnce() {
	ctx := context.Background()

	report, err := j.handler.Handle(ctx, j.command)
	if err != nil {
		j.logger.ErrorContext(ctx, "Notification redelivery failed", "error", err)
		return
	}
	if report.Attempted > 0 {
		j.logger.InfoContext(ctx, "Notification redelivery finished",
			"attempted", report.Attempted, "sent", report.Sent, "failed", report.Failed)
	}
}
