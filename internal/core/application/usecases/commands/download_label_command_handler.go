package commands

import (
	"context"
	"errors"
	"log/slog"

	"fulfillment/internal/core/application/labeling"
	"fulfillment/internal/core/domain/model/orderline"
	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/metrics"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// LabelOutcome is the result of one order in a bulk label request.
type LabelOutcome struct {
	OrderID string
	Result  labeling.Result
	Err     error
}

// DownloadLabelCommandHandler returns the label for the vendor's lines of an
// order. A confirmed label is served from storage; a fully owned order is
// labeled directly; a partially owned one is split first.
type DownloadLabelCommandHandler struct {
	uowFactory UoWFactory
	producer   LabelProducer
	saga       SplitSaga
	notifier   ports.Notifier
	splitter   services.OrderSplitter
	batchSize  int
	inflight   *singleflight.Group
	logger     *slog.Logger
}

func NewDownloadLabelCommandHandler(
	uowFactory UoWFactory,
	producer LabelProducer,
	saga SplitSaga,
	notifier ports.Notifier,
	batchSize int,
	logger *slog.Logger,
) DownloadLabelCommandHandler {
	if batchSize < 1 {
		batchSize = 1
	}
	return DownloadLabelCommandHandler{
		uowFactory: uowFactory,
		producer:   producer,
		saga:       saga,
		notifier:   notifier,
		splitter:   services.NewOrderSplitter(),
		batchSize:  batchSize,
		inflight:   new(singleflight.Group),
		logger:     logger.With("component", "download_label"),
	}
}

func (h DownloadLabelCommandHandler) Handle(ctx context.Context, command DownloadLabelCommand) (labeling.Result, error) {
	if err := command.Validate(); err != nil {
		return labeling.Result{}, err
	}

	res, path, err := h.downloadOnce(ctx, command.OrderID(), command.Vendor())
	if err != nil {
		metrics.LabelsTotal.WithLabelValues(path, "failed").Inc()
		h.logger.WarnContext(ctx, "label request failed",
			"order_id", command.OrderID(), "vendor", command.Vendor().WarehouseID(), "path", path, "error", err)
		if IsRemoteLabelFailure(err) {
			h.notifier.Notify(ctx, ports.Notification{
				VendorID: command.Vendor().WarehouseID(),
				OrderID:  command.OrderID(),
				Err:      err,
			})
		}
		return labeling.Result{}, err
	}

	outcome := "downloaded"
	if !res.Downloaded {
		outcome = "pending"
	}
	metrics.LabelsTotal.WithLabelValues(path, outcome).Inc()
	return res, nil
}

// HandleBulk labels orders in fixed size concurrent batches. One order's
// failure never aborts its siblings.
func (h DownloadLabelCommandHandler) HandleBulk(ctx context.Context, command BulkDownloadLabelsCommand) ([]LabelOutcome, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	ids := command.OrderIDs()
	outcomes := make([]LabelOutcome, len(ids))
	for start := 0; start < len(ids); start += h.batchSize {
		end := min(start+h.batchSize, len(ids))
		var g errgroup.Group
		for i := start; i < end; i++ {
			g.Go(func() error {
				res, err := h.Handle(ctx, DownloadLabelCommand{
					orderID: ids[i],
					vendor:  command.Vendor(),
					guard:   command.guard,
				})
				outcomes[i] = LabelOutcome{OrderID: ids[i], Result: res, Err: err}
				return nil
			})
		}
		_ = g.Wait()
	}
	return outcomes, nil
}

type downloaded struct {
	res  labeling.Result
	path string
}

// downloadOnce joins concurrent requests for the same order and vendor onto
// one download so a split is never prepared twice.
func (h DownloadLabelCommandHandler) downloadOnce(ctx context.Context, orderID string, v *vendor.Vendor) (labeling.Result, string, error) {
	key := orderID + "|" + v.WarehouseID()
	out, err, shared := h.inflight.Do(key, func() (any, error) {
		res, path, err := h.download(ctx, orderID, v)
		return downloaded{res: res, path: path}, err
	})
	if shared {
		h.logger.DebugContext(ctx, "label request shared with a concurrent caller", "order_id", orderID, "vendor", v.WarehouseID())
	}
	d := out.(downloaded)
	return d.res, d.path, err
}

func (h DownloadLabelCommandHandler) download(ctx context.Context, orderID string, v *vendor.Vendor) (labeling.Result, string, error) {
	run, pending, err := h.saga.Pending(ctx, orderID, v.WarehouseID())
	if err != nil {
		return labeling.Result{}, "clone", err
	}
	if pending {
		res, err := h.saga.Resume(ctx, run)
		return res, "clone", err
	}

	uow := h.uowFactory.Create()
	lines, err := uow.OrderLineRepository().ListByOrderID(ctx, orderID)
	if err != nil {
		return labeling.Result{}, "direct", err
	}
	partition, err := h.splitter.Partition(orderID, v.WarehouseID(), lines)
	if err != nil {
		return labeling.Result{}, "direct", err
	}

	if partition.Mode == services.Clone {
		res, err := h.saga.Start(ctx, partition, v)
		return res, "clone", err
	}

	if cached, ok, err := h.cached(ctx, uow, orderID, partition.Claimed); err != nil || ok {
		return cached, "cached", err
	}

	// A split interrupted after its local move continues from its journal.
	if origin := clonedFrom(partition.Claimed); origin != "" {
		run, pending, err := h.saga.Pending(ctx, origin, v.WarehouseID())
		if err != nil {
			return labeling.Result{}, "clone", err
		}
		if pending && run.CloneOrderID == orderID {
			res, err := h.saga.Resume(ctx, run)
			return res, "clone", err
		}
	}

	snaps := make([]orderline.Snapshot, 0, len(partition.Claimed))
	for _, line := range partition.Claimed {
		snaps = append(snaps, line.Snapshot())
	}
	generated, err := h.producer.Generate(ctx, labeling.LabelRequest{
		OrderID:     orderID,
		WarehouseID: v.WarehouseID(),
		Lines:       snaps,
	}, nil)
	if err != nil {
		return labeling.Result{}, "direct", err
	}
	downloaded, err := h.producer.Commit(ctx, orderID, v.WarehouseID(), partition.ClaimedIDs(), generated)
	if err != nil {
		return labeling.Result{}, "direct", err
	}

	return labeling.Result{
		OrderID:     orderID,
		Mode:        services.Direct,
		LabelURL:    generated.LabelURL,
		AWB:         generated.AWB,
		CarrierID:   generated.CarrierID,
		CarrierName: generated.CarrierName,
		Downloaded:  downloaded,
	}, "direct", nil
}

// cached serves a stored label when every owned line already has it.
func (h DownloadLabelCommandHandler) cached(
	ctx context.Context,
	uow UoW,
	orderID string,
	owned []*orderline.OrderLine,
) (labeling.Result, bool, error) {
	for _, line := range owned {
		if !line.LabelDownloaded() {
			return labeling.Result{}, false, nil
		}
	}
	l, err := uow.LabelRepository().Get(ctx, orderID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return labeling.Result{}, false, nil
	}
	if err != nil {
		return labeling.Result{}, false, err
	}
	if !l.IsDownloaded() {
		return labeling.Result{}, false, nil
	}
	return labeling.Result{
		OrderID:     orderID,
		Mode:        services.Direct,
		LabelURL:    l.URL(),
		AWB:         l.AWB(),
		CarrierID:   l.CarrierID(),
		CarrierName: l.CarrierName(),
		Cached:      true,
		Downloaded:  true,
	}, true, nil
}

func clonedFrom(lines []*orderline.OrderLine) string {
	for _, line := range lines {
		if line.CloneStatus() == orderline.Cloned && line.ClonedOrderID() != nil {
			return *line.ClonedOrderID()
		}
	}
	return ""
}

// IsRemoteLabelFailure reports failures the vendor cannot fix by retrying
// the request with other input; those raise an alert and are answered as a
// warning.
func IsRemoteLabelFailure(err error) bool {
	switch {
	case errors.Is(err, errs.ErrNothingClaimed),
		errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, errs.ErrForbidden),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, context.Canceled):
		return false
	default:
		return true
	}
}
