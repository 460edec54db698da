package services_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustCarrier(t *testing.T, id string, priority int, status carrier.Status) *carrier.Carrier {
	t.Helper()
	c, err := carrier.NewCarrier(id, id, priority, status)
	require.NoError(t, err)
	return c
}

func TestCarrierSelector_Select(t *testing.T) {
	directory := []*carrier.Carrier{
		mustCarrier(t, "ekart", 3, carrier.Active),
		mustCarrier(t, "delhivery", 2, carrier.Active),
		mustCarrier(t, "bluedart", 1, carrier.Inactive),
		mustCarrier(t, "xpressbees", 2, carrier.Active),
	}

	t.Run("lowest priority among active offered carriers", func(t *testing.T) {
		offers := []carrier.Offer{
			{CarrierID: "ekart", PaymentType: kernel.COD},
			{CarrierID: "bluedart", PaymentType: kernel.COD},
			{CarrierID: "xpressbees", PaymentType: kernel.COD},
		}

		best, err := services.NewCarrierSelector().Select(kernel.COD, offers, directory)

		require.NoError(t, err)
		assert.Equal(t, "xpressbees", best.ID())
	})

	t.Run("payment type must match exactly", func(t *testing.T) {
		offers := []carrier.Offer{
			{CarrierID: "delhivery", PaymentType: kernel.Prepaid},
			{CarrierID: "ekart", PaymentType: kernel.COD},
		}

		best, err := services.NewCarrierSelector().Select(kernel.COD, offers, directory)

		require.NoError(t, err)
		assert.Equal(t, "ekart", best.ID())
	})

	t.Run("ties break on carrier id regardless of input order", func(t *testing.T) {
		offers := []carrier.Offer{
			{CarrierID: "xpressbees", PaymentType: kernel.Prepaid},
			{CarrierID: "delhivery", PaymentType: kernel.Prepaid},
		}
		reversed := []*carrier.Carrier{directory[3], directory[2], directory[1], directory[0]}

		first, err := services.NewCarrierSelector().Select(kernel.Prepaid, offers, directory)
		require.NoError(t, err)
		second, err := services.NewCarrierSelector().Select(kernel.Prepaid, offers, reversed)
		require.NoError(t, err)

		assert.Equal(t, "delhivery", first.ID())
		assert.Equal(t, first.ID(), second.ID())
	})

	t.Run("no serviceable carrier", func(t *testing.T) {
		offers := []carrier.Offer{{CarrierID: "bluedart", PaymentType: kernel.Prepaid}}

		best, err := services.NewCarrierSelector().Select(kernel.Prepaid, offers, directory)

		require.ErrorIs(t, err, errs.ErrNoServiceableCarrier)
		assert.Nil(t, best)
	})

	t.Run("invalid payment type", func(t *testing.T) {
		_, err := services.NewCarrierSelector().Select(kernel.UnknownPaymentType, nil, directory)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
