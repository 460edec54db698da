package labeling_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/application/labeling"
	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestPriorityCarrierResolver_CachesPerBatch(t *testing.T) {
	ctx := t.Context()
	store := newMemStore(mustCarrier(t, "delhivery", 2), mustCarrier(t, "ekart", 1))
	svc := new(MockServiceability)
	pin := kernel.MustPincode("411001")
	svc.On("CheckPincode", mock.Anything, pin).Return([]carrier.Offer{
		{CarrierID: "delhivery", PaymentType: kernel.COD},
		{CarrierID: "ekart", PaymentType: kernel.Prepaid},
	}, nil)

	resolver := labeling.NewPriorityCarrierResolver(store, svc)
	batch, err := resolver.NewBatch(ctx)
	require.NoError(t, err)

	cod, err := batch.Resolve(ctx, pin, kernel.COD)
	require.NoError(t, err)
	prepaid, err := batch.Resolve(ctx, pin, kernel.Prepaid)
	require.NoError(t, err)

	assert.Equal(t, "delhivery", cod.ID())
	assert.Equal(t, "ekart", prepaid.ID())
	svc.AssertNumberOfCalls(t, "CheckPincode", 1)

	other, err := resolver.NewBatch(ctx)
	require.NoError(t, err)
	_, err = other.Resolve(ctx, pin, kernel.COD)
	require.NoError(t, err)
	svc.AssertNumberOfCalls(t, "CheckPincode", 2)
}

func TestPriorityCarrierResolver_Failures(t *testing.T) {
	ctx := t.Context()
	store := newMemStore(mustCarrier(t, "delhivery", 2))

	t.Run("nothing eligible", func(t *testing.T) {
		svc := new(MockServiceability)
		svc.On("CheckPincode", mock.Anything, mock.Anything).Return([]carrier.Offer{}, nil)

		batch, err := labeling.NewPriorityCarrierResolver(store, svc).NewBatch(ctx)
		require.NoError(t, err)

		_, err = batch.Resolve(ctx, kernel.MustPincode("560001"), kernel.COD)
		require.ErrorIs(t, err, errs.ErrNoServiceableCarrier)
	})

	t.Run("lookup error is not cached", func(t *testing.T) {
		svc := new(MockServiceability)
		boom := errors.New("timeout")
		svc.On("CheckPincode", mock.Anything, mock.Anything).Return(nil, boom).Once()
		svc.On("CheckPincode", mock.Anything, mock.Anything).
			Return([]carrier.Offer{{CarrierID: "delhivery", PaymentType: kernel.COD}}, nil).Once()

		batch, err := labeling.NewPriorityCarrierResolver(store, svc).NewBatch(ctx)
		require.NoError(t, err)

		_, err = batch.Resolve(ctx, kernel.MustPincode("560001"), kernel.COD)
		require.ErrorIs(t, err, boom)

		c, err := batch.Resolve(ctx, kernel.MustPincode("560001"), kernel.COD)
		require.NoError(t, err)
		assert.Equal(t, "delhivery", c.ID())
	})
}
