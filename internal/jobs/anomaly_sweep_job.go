package jobs

import (
	"context"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// AnomalySweepJob periodically scans active orders for timeout, staleness and
// route deviation anomalies.
type AnomalySweepJob struct {
	handler  commands.SweepAnomaliesCommandHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewAnomalySweepJob creates the sweep job. The schedule is a six-field cron
// expression with a seconds column.
func NewAnomalySweepJob(
	handler commands.SweepAnomaliesCommandHandler,
	schedule string,
	logger *slog.Logger,
) *AnomalySweepJob {
	return &AnomalySweepJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "anomaly_sweep_job"),
	}
}

// Start begins running the sweep on its schedule.
func (j *AnomalySweepJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		cmd := commands.NewSweepAnomaliesCommand()

		if err := j.handler.Handle(ctx, cmd); err != nil {
			j.logger.ErrorContext(ctx, "Anomaly sweep failed", "error", err)
		}
	})

	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Anomaly sweep job started", "schedule", j.schedule)
	return nil
}

// Stop stops the sweep job.
func (j *AnomalySweepJob) Stop() {
	j.cron.Stop()
	j.logger.InfoContext(context.Background(), "Anomaly sweep job stopped")
}
