package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/simulator"

	"github.com/robfig/cron/v3"
)

// ReconciliationJob periodically restarts movement tasks for shipping orders
// that lost theirs, typically after a process restart.
type ReconciliationJob struct {
	reconciler *simulator.Reconciler
	schedule   string
	cron       *cron.Cron
	logger     *slog.Logger
}

// NewReconciliationJob creates the reconciliation job. The schedule is a
// six-field cron expression with a seconds column.
func NewReconciliationJob(
	reconciler *simulator.Reconciler,
	schedule string,
	logger *slog.Logger,
) *ReconciliationJob {
	return &ReconciliationJob{
		reconciler: reconciler,
		schedule:   schedule,
		cron:       cron.New(cron.WithSeconds()),
		logger:     logger.With("component", "reconciliation_job"),
	}
}

// Start begins running the reconciliation on its schedule.
func (j *ReconciliationJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()

		if err := j.reconciler.Reconcile(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Reconciliation failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Reconciliation job started", "schedule", j.schedule)
	return nil
}

// Stop stops the reconciliation job.
func (j *ReconciliationJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Reconciliation job stopped")
}
