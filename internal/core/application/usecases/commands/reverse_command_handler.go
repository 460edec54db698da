package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"fulfillment/internal/core/domain/model/label"
	"fulfillment/internal/core/domain/model/orderline"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/metrics"
)

// ReverseResult lists what a reversal did.
type ReverseResult struct {
	Released      []string
	CancelledAWBs []string
}

// ReverseCommandHandler unclaims lines. When a line has a downloaded label
// the remote shipment is cancelled before anything local changes; a failed
// cancellation leaves claim and label untouched.
type ReverseCommandHandler struct {
	uowFactory UoWFactory
	gateway    ports.OrderManagementGateway
	logger     *slog.Logger
}

func NewReverseCommandHandler(uowFactory UoWFactory, gateway ports.OrderManagementGateway, logger *slog.Logger) ReverseCommandHandler {
	return ReverseCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		logger:     logger.With("component", "reverse"),
	}
}

func (h ReverseCommandHandler) Handle(ctx context.Context, command ReverseCommand) (ReverseResult, error) {
	if err := command.Validate(); err != nil {
		return ReverseResult{}, err
	}

	uow := h.uowFactory.Create()
	targets, err := h.loadTargets(ctx, uow, command)
	if err != nil {
		return ReverseResult{}, err
	}

	// Orders whose label must be cancelled, in first-seen order.
	var labeled []string
	for _, line := range targets {
		if line.LabelDownloaded() && !slices.Contains(labeled, line.OrderID()) {
			labeled = append(labeled, line.OrderID())
		}
	}

	labels := make(map[string]*label.Label, len(labeled))
	var result ReverseResult
	for _, orderID := range labeled {
		l, err := uow.LabelRepository().Get(ctx, orderID)
		if errors.Is(err, errs.ErrObjectNotFound) {
			// Flag set without a stored label: there is no shipment to cancel.
			h.logger.WarnContext(ctx, "downloaded line has no label row, nothing to cancel", "order_id", orderID)
			continue
		}
		if err != nil {
			return ReverseResult{}, err
		}
		labels[orderID] = l
		if l.AWB() == "" {
			continue
		}
		if err = h.gateway.CancelShipment(ctx, l.AWB()); err != nil {
			h.logger.WarnContext(ctx, "shipment cancellation failed, reversal aborted",
				"order_id", orderID, "awb", l.AWB(), "error", err)
			return ReverseResult{}, err
		}
		result.CancelledAWBs = append(result.CancelledAWBs, l.AWB())
	}

	if err = uow.Begin(ctx); err != nil {
		return ReverseResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderLineRepository()
	released := make(map[string]bool, len(targets))
	for _, line := range targets {
		prev := line.Status()
		if err = line.Release(); err != nil {
			return ReverseResult{}, err
		}
		if err = repo.UpdateIfStatus(ctx, line, prev); err != nil {
			return ReverseResult{}, err
		}
		released[line.UniqueID()] = true
		result.Released = append(result.Released, line.UniqueID())
	}

	for orderID, l := range labels {
		l.Clear()
		if err = uow.LabelRepository().Save(ctx, l); err != nil {
			return ReverseResult{}, err
		}
		// Siblings sharing the cancelled label lose their downloaded flag too.
		siblings, err := repo.ListByOrderID(ctx, orderID)
		if err != nil {
			return ReverseResult{}, err
		}
		for _, sibling := range siblings {
			if released[sibling.UniqueID()] || !sibling.LabelDownloaded() {
				continue
			}
			sibling.ResetLabelDownloaded()
			if err = repo.Update(ctx, sibling); err != nil {
				return ReverseResult{}, err
			}
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return ReverseResult{}, err
	}

	metrics.ReversalsTotal.WithLabelValues(strconv.FormatBool(len(result.CancelledAWBs) > 0)).Add(float64(len(result.Released)))
	h.logger.InfoContext(ctx, "lines reversed", "released", result.Released, "cancelled_awbs", result.CancelledAWBs)
	return result, nil
}

func (h ReverseCommandHandler) loadTargets(ctx context.Context, uow UoW, command ReverseCommand) ([]*orderline.OrderLine, error) {
	ids := command.UniqueIDs()
	lines, err := uow.OrderLineRepository().ListByUniqueIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(lines) != len(ids) {
		found := make(map[string]bool, len(lines))
		for _, line := range lines {
			found[line.UniqueID()] = true
		}
		for _, id := range ids {
			if !found[id] {
				return nil, errs.NewObjectNotFoundError("unique_id", id)
			}
		}
	}

	for _, line := range lines {
		if command.OrderID() != "" && line.OrderID() != command.OrderID() {
			return nil, errs.NewValueIsInvalidErrorWithCause("unique_ids",
				fmt.Errorf("line %s belongs to %s, not %s", line.UniqueID(), line.OrderID(), command.OrderID()))
		}
		if command.EnforceOwner() {
			if err = line.EnsureOwnedBy(command.VendorID()); err != nil {
				return nil, err
			}
		} else if !line.Status().IsOwned() {
			return nil, errs.NewInvalidStateError(line.UniqueID(), line.Status().String(), "unassign")
		}
	}
	return lines, nil
}
