package jobs

import (
	"fmt"
	"log/slog"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/simulator"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	anomalySweepJob   *AnomalySweepJob
	reconciliationJob *ReconciliationJob
}

// NewJobManager creates a new job manager with all required jobs.
func NewJobManager(
	sweepHandler commands.SweepAnomaliesCommandHandler,
	sweepSchedule string,
	reconciler *simulator.Reconciler,
	reconcileSchedule string,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		anomalySweepJob:   NewAnomalySweepJob(sweepHandler, sweepSchedule, logger),
		reconciliationJob: NewReconciliationJob(reconciler, reconcileSchedule, logger),
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.anomalySweepJob.Start(); err != nil {
		return fmt.Errorf("failed to start anomaly sweep job: %w", err)
	}

	if err := jm.reconciliationJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.anomalySweepJob.Stop()
		return fmt.Errorf("failed to start reconciliation job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.anomalySweepJob.Stop()
	jm.reconciliationJob.Stop()
}
