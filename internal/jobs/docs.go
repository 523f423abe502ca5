// Package jobs provides scheduled background tasks for the order system.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3
// to handle periodic operations required by the order service.
//
// # Available Jobs
//
// 1. EventRelayJob - Drains the transactional outbox: reads staged domain
// events in batches, publishes them to Kafka and marks them settled.
//
// # Usage
//
// Jobs are managed through JobManager which provides a unified interface:
//
//	jobManager := jobs.NewJobManager(outboxRepo, publisher, "* * * * * *", 100, logger)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//
//	defer jobManager.StopAll()
//
// # Scheduling
//
// The relay schedule uses the six-field cron form with a seconds field; the
// default "* * * * * *" drains the outbox every second, which keeps event
// delivery latency low without holding database locks.
//
// # Error Handling
//
// A failed relay pass is logged and the batch stays in the outbox, so the
// next pass retries it. Delivery is at-least-once; consumers deduplicate on
// the event identifier.
package jobs
