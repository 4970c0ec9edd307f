package jobs

import (
	"nkadime-backend/internal/config"
	"nkadime-backend/internal/logger"
	"nkadime-backend/internal/repository/postgres"
)

// JobRunner coordinates all scheduled maintenance jobs.
type JobRunner struct {
	store  *postgres.Store
	config *config.Config
}

func NewJobRunner(store *postgres.Store, cfg *config.Config) *JobRunner {
	return &JobRunner{
		store:  store,
		config: cfg,
	}
}

// Config exposes the loaded configuration to the scheduler.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery so one bad job
// never takes down the scheduler.
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

// RunAllNightlyJobs runs every nightly job once, for manual execution from
// the cronjob binary.
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.SendOverdueReminders()
}
