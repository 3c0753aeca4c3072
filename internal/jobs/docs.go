// Package jobs provides scheduled background tasks for the dispatch system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required for order tracking.
//
// # Available Jobs
//
// 1. AnomalySweepJob - Scans active orders for timeouts, stale positions and route deviation, flagging them abnormal
// 2. ReconciliationJob - Restarts movement tasks for shipping orders that lost theirs after a process restart
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	// Create job manager with required handlers
//	jobManager := jobs.NewJobManager(sweepHandler, sweepSchedule, reconciler, reconcileSchedule, logger)
//
//	// Start all jobs
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	// Stop all jobs when shutting down
//	defer jobManager.StopAll()
//
// # Scheduling
//
// Both jobs take six-field cron expressions with a seconds column, so
// sub-minute schedules like "*/10 * * * * *" are valid. The sweep cadence
// bounds how quickly anomalies surface; reconciliation mainly matters in the
// first interval after startup.
//
// # Error Handling
//
// - Sweep failures are logged; individual order checks inside a sweep never abort the run
// - Reconciliation failures are logged and retried on the next schedule
// - Failed job starts will stop any already running jobs
package jobs
