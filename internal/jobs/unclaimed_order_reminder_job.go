package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fooddelivery/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultReminderSchedule runs the reminder every 30 seconds.
const DefaultReminderSchedule = "*/30 * * * * *"

// RemindHandler re-announces free orders and reports how many it announced.
type RemindHandler interface {
	Handle(ctx context.Context, cmd commands.RemindUnclaimedOrdersCommand) (int, error)
}

// UnclaimedOrderReminderJob periodically re-announces orders that no courier
// has claimed, so couriers that joined the queue later still see them.
type UnclaimedOrderReminderJob struct {
	handler   RemindHandler
	schedule  string
	olderThan time.Duration
	cron      *cron.Cron
	logger    *slog.Logger
}

// NewUnclaimedOrderReminderJob creates the job. schedule is a cron
// expression with a seconds field; olderThan is how long an order stays
// free before it is announced again.
func NewUnclaimedOrderReminderJob(
	handler RemindHandler,
	schedule string,
	olderThan time.Duration,
	logger *slog.Logger,
) *UnclaimedOrderReminderJob {
	if schedule == "" {
		schedule = DefaultReminderSchedule
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &UnclaimedOrderReminderJob{
		handler:   handler,
		schedule:  schedule,
		olderThan: olderThan,
		cron:      cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:    logger.With("component", "unclaimed_order_reminder_job"),
	}
}

// Run performs one reminder pass.
func (j *UnclaimedOrderReminderJob) Run(ctx context.Context) {
	cmd, err := commands.NewRemindUnclaimedOrdersCommand(j.olderThan)
	if err != nil {
		j.logger.ErrorContext(ctx, "Invalid reminder configuration", "error", err)
		return
	}

	announced, err := j.handler.Handle(ctx, cmd)
	if err != nil {
		j.logger.ErrorContext(ctx, "Unclaimed order reminder failed", "error", err)
		return
	}
	if announced > 0 {
		j.logger.InfoContext(ctx, "Re-announced unclaimed orders", "count", announced)
	}
}

// Start schedules the job.
func (j *UnclaimedOrderReminderJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		j.Run(context.Background())
	})
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", j.schedule, err)
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Unclaimed order reminder job started",
		"schedule", j.schedule,
		"older_than", j.olderThan,
	)
	return nil
}

// Stop stops the scheduler and waits for a running pass to finish.
func (j *UnclaimedOrderReminderJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Unclaimed order reminder job stopped")
}
