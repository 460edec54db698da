package services

import (
	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// CarrierSelector chooses the carrier for a parcel from the carriers the
// serviceability network offers for its pincode.
//
// Business rules:
//   - only offers whose payment type equals the parcel's payment type count
//   - the offered carrier must be active in the local directory
//   - the lowest priority wins, ties are broken by carrier id ascending
//
// Example usage:
//
//	selector := NewCarrierSelector()
//	best, err := selector.Select(kernel.COD, offers, directory)
//	if errors.Is(err, errs.ErrNoServiceableCarrier) {
//	    // nothing ships there for COD
//	}
type CarrierSelector struct{}

func NewCarrierSelector() CarrierSelector {
	return CarrierSelector{}
}

// Select returns the preferred carrier or errs.ErrNoServiceableCarrier.
// The result depends only on its inputs, never on their order.
func (s CarrierSelector) Select(
	paymentType kernel.PaymentType,
	offers []carrier.Offer,
	directory []*carrier.Carrier,
) (*carrier.Carrier, error) {
	if err := paymentType.Validate(); err != nil {
		return nil, err
	}

	eligible := make(map[string]struct{}, len(offers))
	for _, offer := range offers {
		if offer.PaymentType == paymentType {
			eligible[offer.CarrierID] = struct{}{}
		}
	}

	var best *carrier.Carrier
	for _, c := range directory {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if !c.IsActive() {
			continue
		}
		if _, ok := eligible[c.ID()]; !ok {
			continue
		}
		if c.Outranks(best) {
			best = c
		}
	}

	if best == nil {
		return nil, errs.ErrNoServiceableCarrier
	}
	return best, nil
}
