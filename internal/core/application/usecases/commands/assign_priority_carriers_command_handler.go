package commands

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/domain/model/orderline"
	"fulfillment/internal/pkg/errs"
)

// AssignPriorityCarriersCommandHandler resolves carriers for claimed lines in
// one batch, so each distinct pincode is looked up once.
type AssignPriorityCarriersCommandHandler struct {
	uowFactory ClaimUoWFactory
	batches    CarrierBatches
	logger     *slog.Logger
}

func NewAssignPriorityCarriersCommandHandler(
	uowFactory ClaimUoWFactory,
	batches CarrierBatches,
	logger *slog.Logger,
) AssignPriorityCarriersCommandHandler {
	return AssignPriorityCarriersCommandHandler{
		uowFactory: uowFactory,
		batches:    batches,
		logger:     logger.With("component", "assign_priority_carriers"),
	}
}

// Handle returns unique ids that got a carrier and those that did not.
// Lines without a serviceable carrier are reported, not fatal.
func (h AssignPriorityCarriersCommandHandler) Handle(
	ctx context.Context,
	command AssignPriorityCarriersCommand,
) (BulkResult, error) {
	if err := command.Validate(); err != nil {
		return BulkResult{}, err
	}

	batch, err := h.batches.NewBatch(ctx)
	if err != nil {
		return BulkResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return BulkResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderLineRepository()
	lines, err := repo.ListByStatus(ctx, orderline.Claimed, command.VendorID())
	if err != nil {
		return BulkResult{}, err
	}

	var result BulkResult
	for _, line := range lines {
		chosen, err := batch.Resolve(ctx, line.Shipping().Pincode, line.PaymentType())
		if errors.Is(err, errs.ErrNoServiceableCarrier) {
			result.add(line.UniqueID(), err)
			continue
		}
		if err != nil {
			return BulkResult{}, err
		}
		if err = line.AssignPriorityCarrier(chosen.ID()); err != nil {
			result.add(line.UniqueID(), err)
			continue
		}
		if err = repo.UpdateIfStatus(ctx, line, orderline.Claimed); err != nil {
			result.add(line.UniqueID(), err)
			continue
		}
		result.add(line.UniqueID(), nil)
	}

	if err = uow.Commit(ctx); err != nil {
		return BulkResult{}, err
	}

	h.logger.InfoContext(ctx, "priority carriers assigned",
		"assigned", len(result.Succeeded), "unserviceable", len(result.Failed))
	return result, nil
}
