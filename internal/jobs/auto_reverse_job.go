package jobs

import (
	"context"
	"log/slog"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultAutoReverseSpec runs the sweep at the top of every hour.
const DefaultAutoReverseSpec = "0 0 * * * *"

// AutoReverseHandler releases stale claims.
type AutoReverseHandler interface {
	Handle(ctx context.Context, command commands.AutoReverseExpiredCommand) (commands.AutoReverseResult, error)
}

// AutoReverseJob sweeps claims that never got a label.
type AutoReverseJob struct {
	handler AutoReverseHandler
	spec    string
	cron    *cron.Cron
	logger  *slog.Logger
}

func NewAutoReverseJob(handler AutoReverseHandler, spec string, logger *slog.Logger) *AutoReverseJob {
	if spec == "" {
		spec = DefaultAutoReverseSpec
	}
	return &AutoReverseJob{
		handler: handler,
		spec:    spec,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger.With("component", "auto_reverse_job"),
	}
}

// Run performs one sweep.
func (j *AutoReverseJob) Run(ctx context.Context) {
	res, err := j.handler.Handle(ctx, commands.NewAutoReverseExpiredCommand())
	if err != nil {
		j.logger.ErrorContext(ctx, "Auto reverse job failed", "error", err)
		return
	}
	if res.Skipped {
		j.logger.InfoContext(ctx, "Auto reverse skipped, previous sweep still running")
		return
	}
	if res.Released > 0 {
		j.logger.InfoContext(ctx, "Auto reverse released stale claims", "released", res.Released)
	}
}

func (j *AutoReverseJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		j.Run(context.Background())
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Auto reverse job started", "spec", j.spec)
	return nil
}

func (j *AutoReverseJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Auto reverse job stopped")
}
