package background

import (
	"context"
	"log"
	"sync"
	"time"

	"rentzy/internal/caching"
	"rentzy/internal/repositories"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler runs the periodic maintenance tasks: sweeping expired
// verification codes and clearing stale password-reset tokens.
type JobScheduler struct {
	scheduler gocron.Scheduler
	cacheSvc  caching.CacheService
	userRepo  repositories.UserRepository
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

func NewJobScheduler(cacheSvc caching.CacheService, userRepo repositories.UserRepository) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		cacheSvc:  cacheSvc,
		userRepo:  userRepo,
		jobs:      make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() {
	// Verification code sweep - every 5 minutes
	sweepJob, err := js.scheduler.NewJob(
		gocron.DurationJob(5*time.Minute),
		gocron.NewTask(js.sweepVerificationCodes),
		gocron.WithName("verification-code-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create verification sweep job: %v", err)
	} else {
		js.jobs["verification-sweep"] = sweepJob
	}

	// Expired reset token cleanup - every hour
	resetJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.clearExpiredResetTokens),
		gocron.WithName("reset-token-cleanup"),
	)
	if err != nil {
		log.Printf("Failed to create reset token cleanup job: %v", err)
	} else {
		js.jobs["reset-token-cleanup"] = resetJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

// sweepVerificationCodes removes verification entries past their expiry.
// Expired codes stay readable until this runs so users get an "expired"
// message instead of "not found".
func (js *JobScheduler) sweepVerificationCodes() error {
	removed, err := js.cacheSvc.SweepExpired(context.Background())
	if err != nil {
		log.Printf("Verification code sweep failed: %v", err)
		return err
	}
	if removed > 0 {
		log.Printf("Swept %d expired verification codes", removed)
	}
	return nil
}

func (js *JobScheduler) clearExpiredResetTokens() error {
	cleared, err := js.userRepo.ClearExpiredResetTokens(context.Background())
	if err != nil {
		log.Printf("Reset token cleanup failed: %v", err)
		return err
	}
	if cleared > 0 {
		log.Printf("Cleared %d expired password reset tokens", cleared)
	}
	return nil
}

// JobStatus reports what is currently scheduled.
func (js *JobScheduler) JobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	names := make([]string, 0, len(js.jobs))
	for name := range js.jobs {
		names = append(names, name)
	}

	return map[string]interface{}{
		"total_jobs": len(js.jobs),
		"jobs":       names,
	}
}
