package labeling

import (
	"context"
	"sync"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

// PriorityCarrierResolver hands out CarrierBatch values. A batch is the
// lifetime of the serviceability cache: one label request or one bulk
// assignment run.
type PriorityCarrierResolver struct {
	uowFactory     UoWFactory
	serviceability ports.ServiceabilityClient
	selector       services.CarrierSelector
}

func NewPriorityCarrierResolver(uowFactory UoWFactory, serviceability ports.ServiceabilityClient) *PriorityCarrierResolver {
	return &PriorityCarrierResolver{
		uowFactory:     uowFactory,
		serviceability: serviceability,
		selector:       services.NewCarrierSelector(),
	}
}

// NewBatch loads the active carrier directory and starts an empty
// serviceability cache.
func (r *PriorityCarrierResolver) NewBatch(ctx context.Context) (*CarrierBatch, error) {
	directory, err := r.uowFactory.Create().CarrierRepository().ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return &CarrierBatch{
		serviceability: r.serviceability,
		selector:       r.selector,
		directory:      directory,
		offers:         make(map[string][]carrier.Offer),
	}, nil
}

// CarrierBatch resolves carriers against one directory snapshot. It is safe
// for concurrent use.
type CarrierBatch struct {
	serviceability ports.ServiceabilityClient
	selector       services.CarrierSelector
	directory      []*carrier.Carrier

	mu     sync.Mutex
	offers map[string][]carrier.Offer
}

// Resolve returns the priority carrier for a pincode and payment type or
// errs.ErrNoServiceableCarrier.
func (b *CarrierBatch) Resolve(ctx context.Context, pincode kernel.Pincode, paymentType kernel.PaymentType) (*carrier.Carrier, error) {
	if err := pincode.Validate(); err != nil {
		return nil, err
	}
	offers, err := b.offersFor(ctx, pincode)
	if err != nil {
		return nil, err
	}
	return b.selector.Select(paymentType, offers, b.directory)
}

func (b *CarrierBatch) offersFor(ctx context.Context, pincode kernel.Pincode) ([]carrier.Offer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if cached, ok := b.offers[pincode.String()]; ok {
		return cached, nil
	}
	offers, err := b.serviceability.CheckPincode(ctx, pincode)
	if err != nil {
		return nil, err
	}
	b.offers[pincode.String()] = offers
	return offers, nil
}
