package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	autoReverseJob  *AutoReverseJob
	sagaRecoveryJob *SagaRecoveryJob
}

// NewJobManager takes already built jobs. sagaRecoveryJob may be nil.
func NewJobManager(autoReverseJob *AutoReverseJob, sagaRecoveryJob *SagaRecoveryJob) *JobManager {
	return &JobManager{
		autoReverseJob:  autoReverseJob,
		sagaRecoveryJob: sagaRecoveryJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.autoReverseJob.Start(); err != nil {
		return fmt.Errorf("failed to start auto reverse job: %w", err)
	}

	if jm.sagaRecoveryJob != nil {
		if err := jm.sagaRecoveryJob.Start(); err != nil {
			// Stop already started jobs if this one fails
			jm.autoReverseJob.Stop()
			return fmt.Errorf("failed to start saga recovery job: %w", err)
		}
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ones.
func (jm *JobManager) StopAll() {
	if jm.sagaRecoveryJob != nil {
		jm.sagaRecoveryJob.Stop()
	}
	jm.autoReverseJob.Stop()
}
