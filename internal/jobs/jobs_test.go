package jobs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/application/labeling"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type MockAutoReverseHandler struct{ mock.Mock }

func (m *MockAutoReverseHandler) Handle(ctx context.Context, c commands.AutoReverseExpiredCommand) (commands.AutoReverseResult, error) {
	args := m.Called(ctx, c)
	return args.Get(0).(commands.AutoReverseResult), args.Error(1)
}

type MockPendingRuns struct{ mock.Mock }

func (m *MockPendingRuns) Pending(ctx context.Context) ([]ports.CloneRun, error) {
	args := m.Called(ctx)
	runs, _ := args.Get(0).([]ports.CloneRun)
	return runs, args.Error(1)
}

type MockRunResumer struct{ mock.Mock }

func (m *MockRunResumer) Resume(ctx context.Context, run ports.CloneRun) (labeling.Result, error) {
	args := m.Called(ctx, run)
	return args.Get(0).(labeling.Result), args.Error(1)
}

func TestAutoReverseJob_Run(t *testing.T) {
	handler := &MockAutoReverseHandler{}
	handler.On("Handle", mock.Anything, mock.Anything).Return(commands.AutoReverseResult{Released: 2}, nil).Once()
	handler.On("Handle", mock.Anything, mock.Anything).Return(commands.AutoReverseResult{}, errors.New("db down")).Once()

	job := jobs.NewAutoReverseJob(handler, "", discardLogger())
	job.Run(context.Background())
	job.Run(context.Background())

	handler.AssertNumberOfCalls(t, "Handle", 2)
}

func TestAutoReverseJob_StartRejectsBadSpec(t *testing.T) {
	job := jobs.NewAutoReverseJob(&MockAutoReverseHandler{}, "every hour", discardLogger())
	require.Error(t, job.Start())
}

func TestSagaRecoveryJob_Run(t *testing.T) {
	now := time.Now()
	stale := ports.CloneRun{RunID: "stale", OrderID: "O1", VendorID: "WH-1", UpdatedAt: now.Add(-time.Hour)}
	failing := ports.CloneRun{RunID: "failing", OrderID: "O2", VendorID: "WH-1", UpdatedAt: now.Add(-time.Hour)}
	fresh := ports.CloneRun{RunID: "fresh", OrderID: "O3", VendorID: "WH-2", UpdatedAt: now}

	runs := &MockPendingRuns{}
	runs.On("Pending", mock.Anything).Return([]ports.CloneRun{stale, failing, fresh}, nil).Once()
	resumer := &MockRunResumer{}
	resumer.On("Resume", mock.Anything, stale).Return(labeling.Result{OrderID: "O1_1"}, nil).Once()
	resumer.On("Resume", mock.Anything, failing).Return(labeling.Result{}, errors.New("oms down")).Once()

	finished := jobs.NewSagaRecoveryJob(runs, resumer, "", 15*time.Minute, discardLogger()).Run(context.Background())

	assert.Equal(t, 1, finished)
	resumer.AssertExpectations(t)
	resumer.AssertNotCalled(t, "Resume", mock.Anything, fresh)
}

func TestSagaRecoveryJob_Run_ListFailure(t *testing.T) {
	runs := &MockPendingRuns{}
	runs.On("Pending", mock.Anything).Return(nil, errors.New("journal closed")).Once()
	resumer := &MockRunResumer{}

	finished := jobs.NewSagaRecoveryJob(runs, resumer, "", time.Minute, discardLogger()).Run(context.Background())

	assert.Zero(t, finished)
	resumer.AssertNotCalled(t, "Resume", mock.Anything, mock.Anything)
}

func TestJobManager_StartStop(t *testing.T) {
	manager := jobs.NewJobManager(
		jobs.NewAutoReverseJob(&MockAutoReverseHandler{}, "", discardLogger()),
		jobs.NewSagaRecoveryJob(&MockPendingRuns{}, &MockRunResumer{}, "", time.Minute, discardLogger()),
	)

	require.NoError(t, manager.StartAll())
	manager.StopAll()
}
