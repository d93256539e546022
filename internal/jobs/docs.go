// Package jobs provides scheduled background tasks for the fulfillment service.
//
// Jobs are cron based (github.com/robfig/cron/v3, seconds field enabled) and
// are started and stopped together through JobManager:
//
//	redelivery := jobs.NewNotificationRedeliveryJob(handler, cfg.RedeliveryCron, cfg.RedeliveryMaxAttempts, cfg.RedeliveryBatch, logger)
//	jobManager := jobs.NewJobManager(redelivery)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Available Jobs
//
// NotificationRedeliveryJob sweeps failed notification intents and retries
// each once per run until it is sent or reaches the attempt limit. A sweep is
// skipped while the previous one is still running; a failed sweep is logged
// and retried on the next tick.
package jobs
