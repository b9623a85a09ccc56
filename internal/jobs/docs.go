// Package jobs provides scheduled background tasks for the delivery system.
//
// Jobs are cron-based (github.com/robfig/cron/v3, with a seconds field).
//
// # Available Jobs
//
// UnclaimedOrderReminderJob re-publishes event.neworder for orders that have
// been waiting in Preparing without a courier for longer than the configured
// age. Passes never overlap.
//
// # Usage
//
//	reminder := jobs.NewUnclaimedOrderReminderJob(handler, "*/30 * * * * *", 2*time.Minute, logger)
//	jobManager := jobs.NewJobManager(reminder)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Failed passes are logged and retried on the next tick. A job that fails
// to start stops the jobs already running.
package jobs
