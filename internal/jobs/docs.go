// Package jobs provides scheduled background tasks for the fulfillment service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
//  1. AutoReverseJob - releases claims older than the claim ttl that never got a label (hourly)
//  2. SagaRecoveryJob - resumes journaled order splits abandoned by a crashed request (every ten minutes)
//
// # Usage
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewAutoReverseJob(autoReverseHandler, cfg.SweepCron, logger),
//		jobs.NewSagaRecoveryJob(journal, saga, "", 15*time.Minute, logger),
//	)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// Cron expressions carry a seconds field.
//
// # Error Handling
//
// Jobs log failures and keep their schedule. The sweep handler itself skips
// overlapping runs; the recovery job is chained with SkipIfStillRunning.
package jobs
