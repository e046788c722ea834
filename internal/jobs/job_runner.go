package jobs

import (
	"rentalworks-backend/internal/config"
	"rentalworks-backend/internal/logger"
	"rentalworks-backend/internal/repository"
	"rentalworks-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	bookingRepo     repository.BookingRepository
	installmentRepo repository.InstallmentRepository
	settlement      service.SettlementService
	email           service.EmailService
	config          *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(
	bookingRepo repository.BookingRepository,
	installmentRepo repository.InstallmentRepository,
	settlement service.SettlementService,
	email service.EmailService,
	cfg *config.Config,
) *JobRunner {
	return &JobRunner{
		bookingRepo:     bookingRepo,
		installmentRepo: installmentRepo,
		settlement:      settlement,
		email:           email,
		config:          cfg,
	}
}

// Config exposes the loaded configuration to the scheduler.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution)
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.RefreshBalances()
	jr.SendInstallmentReminders()
}
