package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 5, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}
}

type snapshot struct {
	CloneID string
}

func TestDo_SucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	var seen []string

	out, err := retry.Do(t.Context(), fastPolicy(), "create_clone", snapshot{CloneID: "O1_1"},
		func(_ context.Context, in snapshot) (string, error) {
			calls++
			seen = append(seen, in.CloneID)
			if calls < 3 {
				return "", errors.New("timeout")
			}
			return in.CloneID, nil
		}, nil)

	require.NoError(t, err)
	assert.Equal(t, "O1_1", out)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []string{"O1_1", "O1_1", "O1_1"}, seen)
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	calls := 0
	notified := 0
	cause := errors.New("502 bad gateway")

	_, err := retry.Do(t.Context(), fastPolicy(), "update_original", snapshot{},
		func(context.Context, snapshot) (struct{}, error) {
			calls++
			return struct{}{}, cause
		},
		func(step string, _ int, _ error, _ time.Duration) {
			assert.Equal(t, "update_original", step)
			notified++
		})

	require.Error(t, err)
	assert.Equal(t, 5, calls)
	assert.Equal(t, 4, notified)
	require.ErrorIs(t, err, errs.ErrSagaStepExhausted)
	require.ErrorIs(t, err, cause)

	var exhausted *errs.SagaStepExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 5, exhausted.Attempts)
	assert.Equal(t, "update_original", exhausted.Step)
}

func TestDo_PermanentErrorStopsImmediately(t *testing.T) {
	calls := 0

	_, err := retry.Do(t.Context(), fastPolicy(), "generate_label", snapshot{},
		func(context.Context, snapshot) (int, error) {
			calls++
			return 0, retry.Permanent(errs.ErrNoServiceableCarrier)
		}, nil)

	require.ErrorIs(t, err, errs.ErrNoServiceableCarrier)
	assert.NotErrorIs(t, err, errs.ErrSagaStepExhausted)
	assert.Equal(t, 1, calls)
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := retry.Do(ctx, fastPolicy(), "verify_clone", snapshot{},
		func(context.Context, snapshot) (int, error) {
			return 0, errors.New("unreachable")
		}, nil)

	require.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrSagaStepExhausted)
}

func TestDefaultPolicy(t *testing.T) {
	p := retry.DefaultPolicy()

	assert.Equal(t, 5, p.MaxAttempts)
	assert.Equal(t, time.Second, p.InitialInterval)
	assert.Equal(t, 10*time.Second, p.MaxInterval)
}
