package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/orderline"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/metrics"

	"golang.org/x/sync/errgroup"
)

// MarkReadyCommandHandler creates the remote manifest first and only then
// moves the vendor's lines to ready_for_handover.
type MarkReadyCommandHandler struct {
	uowFactory UoWFactory
	gateway    ports.OrderManagementGateway
	batchSize  int
	logger     *slog.Logger
	now        func() time.Time
}

func NewMarkReadyCommandHandler(
	uowFactory UoWFactory,
	gateway ports.OrderManagementGateway,
	batchSize int,
	logger *slog.Logger,
) MarkReadyCommandHandler {
	if batchSize < 1 {
		batchSize = 1
	}
	return MarkReadyCommandHandler{
		uowFactory: uowFactory,
		gateway:    gateway,
		batchSize:  batchSize,
		logger:     logger.With("component", "mark_ready"),
		now:        time.Now,
	}
}

// Handle returns the manifest id.
func (h MarkReadyCommandHandler) Handle(ctx context.Context, command MarkReadyCommand) (string, error) {
	if err := command.Validate(); err != nil {
		return "", err
	}
	manifestID, err := h.markReady(ctx, command.OrderID(), command.VendorID())
	if err != nil {
		metrics.ManifestsTotal.WithLabelValues("failed").Inc()
		return "", err
	}
	metrics.ManifestsTotal.WithLabelValues("created").Inc()
	return manifestID, nil
}

// HandleBulk processes orders in fixed size concurrent batches.
func (h MarkReadyCommandHandler) HandleBulk(ctx context.Context, command BulkMarkReadyCommand) (BulkResult, error) {
	if err := command.Validate(); err != nil {
		return BulkResult{}, err
	}

	ids := command.OrderIDs()
	errsByOrder := make([]error, len(ids))
	for start := 0; start < len(ids); start += h.batchSize {
		end := min(start+h.batchSize, len(ids))
		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				_, errsByOrder[i] = h.Handle(ctx, MarkReadyCommand{
					orderID:  ids[i],
					vendorID: command.VendorID(),
					guard:    command.guard,
				})
				return nil
			})
		}
		_ = g.Wait()
	}

	var result BulkResult
	for i, id := range ids {
		result.add(id, errsByOrder[i])
	}
	return result, nil
}

func (h MarkReadyCommandHandler) markReady(ctx context.Context, orderID, vendorID string) (string, error) {
	uow := h.uowFactory.Create()
	lines, err := uow.OrderLineRepository().ListByOrderID(ctx, orderID)
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", errs.NewObjectNotFoundError("order_id", orderID)
	}
	owned := ownedBy(lines, vendorID)
	if len(owned) == 0 {
		return "", fmt.Errorf("%w: order %s", errs.ErrNothingClaimed, orderID)
	}
	for _, line := range owned {
		if !line.LabelDownloaded() {
			return "", fmt.Errorf("%w: line %s has no downloaded label", errs.ErrLabelNotReady, line.UniqueID())
		}
		if line.Status() != orderline.Claimed {
			return "", errs.NewInvalidStateError(line.UniqueID(), line.Status().String(), "mark ready")
		}
	}
	l, err := uow.LabelRepository().Get(ctx, orderID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", errs.ErrLabelNotReady, err)
	}
	if !l.IsDownloaded() {
		return "", fmt.Errorf("%w: order %s has no label url", errs.ErrLabelNotReady, orderID)
	}

	manifestID, err := h.gateway.CreateManifest(ctx, orderID, []string{l.AWB()})
	if err != nil {
		return "", err
	}

	if err = uow.Begin(ctx); err != nil {
		return "", err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = l.MarkManifested(manifestID, h.now()); err != nil {
		return "", err
	}
	if err = uow.LabelRepository().Save(ctx, l); err != nil {
		return "", err
	}
	repo := uow.OrderLineRepository()
	for _, line := range owned {
		if err = line.MarkReady(); err != nil {
			return "", err
		}
		if err = repo.UpdateIfStatus(ctx, line, orderline.Claimed); err != nil {
			return "", err
		}
	}
	if err = uow.Commit(ctx); err != nil {
		return "", err
	}

	h.logger.InfoContext(ctx, "order handed over", "order_id", orderID, "vendor", vendorID, "manifest_id", manifestID)
	return manifestID, nil
}

func ownedBy(lines []*orderline.OrderLine, vendorID string) []*orderline.OrderLine {
	var owned []*orderline.OrderLine
	for _, line := range lines {
		if line.IsOwnedBy(vendorID) {
			owned = append(owned, line)
		}
	}
	return owned
}
