package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("unique_id", "SKU-1")

		assert.Equal(t, "unique_id", err.ParamName)
		assert.Equal(t, "SKU-1", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: SKU-1", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("order_id", "O1", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: order_id, ID is: O1 (cause: database connection failed)",
			err.Error())
	})

	t.Run("numeric ids are formatted", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("carrier_id", 456)
		assert.Equal(t, "object not found: 456", err.Error())
	})
}

func TestValueErrors(t *testing.T) {
	t.Run("invalid", func(t *testing.T) {
		err := errs.NewValueIsInvalidErrorWithCause("pincode", errors.New("must be 6 digits"))
		assert.Equal(t, "value is invalid: pincode (cause: must be 6 digits)", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("required", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("vendor")
		assert.Equal(t, "value is required: vendor", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("out of range", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("priority", -1, 0, 1000)
		assert.Equal(t, "value is out of range: -1 is priority, min value is 0, max value is 1000", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("out of range sanitizes newlines", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)
		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestFulfillmentErrors(t *testing.T) {
	t.Run("invalid state", func(t *testing.T) {
		err := errs.NewInvalidStateError("L1", "claimed", "claim")
		assert.Equal(t, "invalid claim state: cannot claim L1 while claimed", err.Error())
		require.ErrorIs(t, err, errs.ErrInvalidState)
	})

	t.Run("forbidden", func(t *testing.T) {
		err := errs.NewForbiddenError("L1", "WH-2")
		require.ErrorIs(t, err, errs.ErrForbidden)
		assert.Contains(t, err.Error(), "WH-2")
	})

	t.Run("remote unconfirmed", func(t *testing.T) {
		err := errs.NewRemoteUnconfirmedError("O1_1", "clone listed")
		require.ErrorIs(t, err, errs.ErrRemoteUnconfirmed)
		assert.Contains(t, err.Error(), "O1_1")
	})

	t.Run("saga step exhausted unwraps to class and cause", func(t *testing.T) {
		cause := errs.NewRemoteUnconfirmedError("O1_1", "clone listed")
		err := fmt.Errorf("clone O1: %w", errs.NewSagaStepExhaustedError("verify_clone", 5, cause))

		require.ErrorIs(t, err, errs.ErrSagaStepExhausted)
		require.ErrorIs(t, err, errs.ErrRemoteUnconfirmed)

		var exhausted *errs.SagaStepExhaustedError
		require.ErrorAs(t, err, &exhausted)
		assert.Equal(t, "verify_clone", exhausted.Step)
		assert.Equal(t, 5, exhausted.Attempts)
	})
}

func TestSentinelErrors(t *testing.T) {
	sentinels := map[error]string{
		errs.ErrObjectNotFound:           "object not found",
		errs.ErrInvalidState:             "invalid claim state",
		errs.ErrForbidden:                "line is not owned by vendor",
		errs.ErrUnauthorized:             "unauthorized",
		errs.ErrNoServiceableCarrier:     "no serviceable carrier",
		errs.ErrMalformedCarrierResponse: "malformed carrier response",
		errs.ErrLabelNotReady:            "label not ready",
		errs.ErrNothingClaimed:           "nothing claimed by vendor",
	}

	for err, msg := range sentinels {
		assert.Equal(t, msg, err.Error())
	}
}

func TestRemoteError(t *testing.T) {
	err := errs.NewRemoteError("push_order", 422, "DUPLICATE_ORDER", "order exists\nalready")

	require.ErrorIs(t, err, errs.ErrRemoteRejected)
	assert.Equal(t, "remote request rejected: push_order returned 422 [DUPLICATE_ORDER] order exists already", err.Error())

	var remote *errs.RemoteError
	require.ErrorAs(t, fmt.Errorf("wrapped: %w", err), &remote)
	assert.Equal(t, "DUPLICATE_ORDER", remote.Code)

	plain := errs.NewRemoteError("cancel_shipment", 500, "", "oops")
	assert.Equal(t, "remote request rejected: cancel_shipment returned 500 oops", plain.Error())
}
