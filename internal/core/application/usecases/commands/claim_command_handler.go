package commands

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/orderline"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/metrics"
)

// ClaimCommandHandler claims lines with a compare-and-swap on the stored
// status, so of two concurrent claimants exactly one wins.
type ClaimCommandHandler struct {
	uowFactory ClaimUoWFactory
	now        func() time.Time
}

func NewClaimCommandHandler(uowFactory ClaimUoWFactory) ClaimCommandHandler {
	return ClaimCommandHandler{uowFactory: uowFactory, now: time.Now}
}

func (h ClaimCommandHandler) Handle(ctx context.Context, command ClaimCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}
	err := h.claim(ctx, command.UniqueID(), command.VendorID())
	metrics.ClaimsTotal.WithLabelValues(claimOutcome(err)).Inc()
	return err
}

// HandleBulk claims every id independently and reports a partition.
func (h ClaimCommandHandler) HandleBulk(ctx context.Context, command BulkClaimCommand) (BulkResult, error) {
	if err := command.Validate(); err != nil {
		return BulkResult{}, err
	}

	var result BulkResult
	for _, id := range command.UniqueIDs() {
		err := h.claim(ctx, id, command.VendorID())
		metrics.ClaimsTotal.WithLabelValues(claimOutcome(err)).Inc()
		result.add(id, err)
	}
	return result, nil
}

func (h ClaimCommandHandler) claim(ctx context.Context, uniqueID, vendorID string) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderLineRepository()
	line, err := repo.Get(ctx, uniqueID)
	if err != nil {
		return err
	}
	if err = line.Claim(vendorID, h.now()); err != nil {
		return err
	}
	if err = repo.UpdateIfStatus(ctx, line, orderline.Unclaimed); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func claimOutcome(err error) string {
	switch {
	case err == nil:
		return "claimed"
	case errors.Is(err, errs.ErrInvalidState):
		return "conflict"
	case errors.Is(err, errs.ErrObjectNotFound):
		return "not_found"
	default:
		return "error"
	}
}
