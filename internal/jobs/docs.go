// Package jobs runs the scheduled background work of the service on
// github.com/robfig/cron/v3.
//
// # Available Jobs
//
// ReconcileJob re-announces pending deliveries whose dispatch notification
// was never confirmed, so a failed publish during SubmitOrder does not strand
// the order. It runs on RECONCILE_SCHEDULE (six field cron expression with seconds,
// every minute by default) and never overlaps with itself.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(jobs.NewReconcileJob(handler, cfg, log))
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
package jobs
