package jobs

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/application/labeling"
	"fulfillment/internal/core/ports"

	"github.com/robfig/cron/v3"
)

// DefaultSagaRecoverySpec checks for abandoned splits every ten minutes.
const DefaultSagaRecoverySpec = "0 */10 * * * *"

// PendingRuns lists the open clone runs of the journal.
type PendingRuns interface {
	Pending(ctx context.Context) ([]ports.CloneRun, error)
}

// RunResumer continues a journaled clone run.
type RunResumer interface {
	Resume(ctx context.Context, run ports.CloneRun) (labeling.Result, error)
}

// SagaRecoveryJob finishes splits whose request died with the process. Runs
// touched within grace are left alone since their request may still be live.
type SagaRecoveryJob struct {
	runs    PendingRuns
	resumer RunResumer
	spec    string
	grace   time.Duration
	cron    *cron.Cron
	logger  *slog.Logger
	now     func() time.Time
}

func NewSagaRecoveryJob(runs PendingRuns, resumer RunResumer, spec string, grace time.Duration, logger *slog.Logger) *SagaRecoveryJob {
	if spec == "" {
		spec = DefaultSagaRecoverySpec
	}
	return &SagaRecoveryJob{
		runs:    runs,
		resumer: resumer,
		spec:    spec,
		grace:   grace,
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:  logger.With("component", "saga_recovery_job"),
		now:     time.Now,
	}
}

// Run resumes every stale run once and returns how many finished.
func (j *SagaRecoveryJob) Run(ctx context.Context) int {
	runs, err := j.runs.Pending(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Saga recovery could not list runs", "error", err)
		return 0
	}

	cutoff := j.now().Add(-j.grace)
	finished := 0
	for _, run := range runs {
		if run.UpdatedAt.After(cutoff) {
			continue
		}
		if _, err := j.resumer.Resume(ctx, run); err != nil {
			j.logger.WarnContext(ctx, "Saga recovery attempt failed",
				"order_id", run.OrderID, "vendor", run.VendorID, "run_id", run.RunID, "error", err)
			continue
		}
		finished++
	}
	if finished > 0 {
		j.logger.InfoContext(ctx, "Saga recovery finished runs", "finished", finished)
	}
	return finished
}

func (j *SagaRecoveryJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Saga recovery job started", "spec", j.spec)
	return nil
}

func (j *SagaRecoveryJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Saga recovery job stopped")
}
