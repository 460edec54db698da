// Package retry runs a step against one frozen input until it succeeds or
// the attempt budget is spent. Every attempt receives the same input value so
// a retried remote write never diverges from a partially applied earlier one.
package retry

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

// Policy configures attempts and exponential backoff between them.
type Policy struct {
	MaxAttempts     int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultPolicy is five attempts waiting 1s, 2s, 4s and 8s between them, capped at 10s.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:     5,
		InitialInterval: time.Second,
		MaxInterval:     10 * time.Second,
	}
}

func (p Policy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.Multiplier = 2
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	b.Reset()

	retries := p.MaxAttempts - 1
	if retries < 0 {
		retries = 0
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(retries)), ctx)
}

// Permanent marks err as not worth retrying; Do returns it unwrapped.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Notify is called after each failed attempt that will be retried.
type Notify func(step string, attempt int, err error, wait time.Duration)

// Do executes op with input under policy p. When every attempt fails the
// returned error is an *errs.SagaStepExhaustedError wrapping the last failure.
func Do[In, Out any](
	ctx context.Context,
	p Policy,
	step string,
	input In,
	op func(context.Context, In) (Out, error),
	notify Notify,
) (Out, error) {
	attempts := 0
	permanent := false

	operation := func() (Out, error) {
		attempts++
		out, err := op(ctx, input)
		if err != nil {
			var perm *backoff.PermanentError
			if errors.As(err, &perm) {
				permanent = true
			}
		}
		return out, err
	}

	onRetry := func(err error, wait time.Duration) {
		if notify != nil {
			notify(step, attempts, err, wait)
		}
	}

	out, err := backoff.RetryNotifyWithData(operation, p.backOff(ctx), onRetry)
	if err == nil {
		return out, nil
	}
	if permanent {
		return out, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return out, err
	}
	return out, errs.NewSagaStepExhaustedError(step, attempts, err)
}
