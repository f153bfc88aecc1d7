package main

import (
	"log"
	"time"

	"github.com/hibiken/asynq"

	"people-api/internal/domains/person/job"
)

// asynqScheduler wraps asynq.Scheduler with additional functionality
type asynqScheduler struct {
	*asynq.Scheduler
}

// setupScheduler registers the periodic warmup cleanup task and starts the
// scheduler in a goroutine.
func setupScheduler(cfg *Config) *asynqScheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	task := asynq.NewTask(job.TypeWarmupCleanup, nil)
	if _, err := scheduler.Register(
		cfg.CleanupSchedule,
		task,
		asynq.MaxRetry(1),
		asynq.Timeout(time.Minute),
	); err != nil {
		log.Fatalf("[Scheduler] Failed to register: %v", err)
	}

	go func() {
		log.Println("[Scheduler] Starting...")
		if err := scheduler.Run(); err != nil {
			log.Fatalf("[Scheduler] Failed: %v", err)
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

// Shutdown gracefully shuts down the scheduler
func (s *asynqScheduler) Shutdown() {
	log.Println("[Scheduler] Shutting down...")
	s.Scheduler.Shutdown()
	log.Println("[Scheduler] ✓ Stopped")
}
