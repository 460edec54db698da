package labeling

import (
	"context"
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/label"
	"fulfillment/internal/core/domain/model/orderline"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// PerLineWeightKg is the declared package weight contributed by every line.
var PerLineWeightKg = decimal.RequireFromString("0.5")

// LabelRequest describes one parcel to label.
type LabelRequest struct {
	OrderID     string
	WarehouseID string
	Lines       []orderline.Snapshot
}

// LabelGenerator talks to the order management system for labels and
// records confirmed labels locally.
type LabelGenerator struct {
	gateway    ports.OrderManagementGateway
	resolver   *PriorityCarrierResolver
	uowFactory UoWFactory
}

func NewLabelGenerator(gateway ports.OrderManagementGateway, resolver *PriorityCarrierResolver, uowFactory UoWFactory) *LabelGenerator {
	return &LabelGenerator{gateway: gateway, resolver: resolver, uowFactory: uowFactory}
}

// Generate resolves the priority carrier for the parcel and pushes the order
// requesting a label. batch may be nil, in which case a private one is used.
func (g *LabelGenerator) Generate(ctx context.Context, req LabelRequest, batch *CarrierBatch) (ports.PushOrderResult, error) {
	if len(req.Lines) == 0 {
		return ports.PushOrderResult{}, errs.NewValueIsRequiredError("lines")
	}
	if batch == nil {
		var err error
		if batch, err = g.resolver.NewBatch(ctx); err != nil {
			return ports.PushOrderResult{}, err
		}
	}

	head := req.Lines[0]
	chosen, err := batch.Resolve(ctx, head.Shipping.Pincode, head.PaymentType)
	if err != nil {
		return ports.PushOrderResult{}, err
	}

	res, err := g.gateway.PushOrder(ctx, ports.PushOrderRequest{
		Mode:          ports.UpdateOrder,
		OrderID:       req.OrderID,
		OrderDate:     head.OrderDate,
		PaymentType:   head.PaymentType,
		Shipping:      head.Shipping,
		Lines:         RemoteLines(req.Lines),
		GenerateLabel: true,
		CarrierID:     chosen.ID(),
		WarehouseID:   req.WarehouseID,
		Total:         OrderTotal(req.Lines),
		WeightKg:      PerLineWeightKg.Mul(decimalCount(len(req.Lines))),
	})
	if err != nil {
		return ports.PushOrderResult{}, err
	}
	if res.CarrierID == "" {
		res.CarrierID = chosen.ID()
	}
	if res.CarrierName == "" {
		res.CarrierName = chosen.Name()
	}
	return res, nil
}

// Commit stores res as the label of orderID and flags the vendor's lines as
// downloaded, all in one transaction. Without a label URL nothing is written
// and Commit reports false so a later request can regenerate.
func (g *LabelGenerator) Commit(ctx context.Context, orderID, vendorID string, uniqueIDs []string, res ports.PushOrderResult) (bool, error) {
	if res.LabelURL == "" {
		return false, nil
	}

	uow := g.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	labels := uow.LabelRepository()
	l, err := labels.Get(ctx, orderID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		l, err = label.NewLabel(orderID)
	}
	if err != nil {
		return false, err
	}
	if err = l.Attach(res.LabelURL, res.AWB, res.CarrierID, res.CarrierName); err != nil {
		return false, err
	}
	if err = labels.Save(ctx, l); err != nil {
		return false, err
	}

	lineRepo := uow.OrderLineRepository()
	lines, err := lineRepo.ListByUniqueIDs(ctx, uniqueIDs)
	if err != nil {
		return false, err
	}
	if len(lines) != len(uniqueIDs) {
		return false, errs.NewObjectNotFoundErrorWithCause("unique_id", uniqueIDs,
			fmt.Errorf("found %d of %d lines", len(lines), len(uniqueIDs)))
	}
	for _, line := range lines {
		if line.OrderID() != orderID {
			return false, errs.NewValueIsInvalidErrorWithCause("order_id",
				fmt.Errorf("line %s moved to %s", line.UniqueID(), line.OrderID()))
		}
		if err = line.EnsureOwnedBy(vendorID); err != nil {
			return false, err
		}
		if err = line.MarkLabelDownloaded(); err != nil {
			return false, err
		}
		if line.Status() == orderline.Claimed && res.CarrierID != "" {
			if err = line.AssignPriorityCarrier(res.CarrierID); err != nil {
				return false, err
			}
		}
		if err = lineRepo.Update(ctx, line); err != nil {
			return false, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// OrderTotal is the amount declared to the carrier: what the courier collects
// for COD parcels, otherwise the selling value of the lines in the parcel.
func OrderTotal(lines []orderline.Snapshot) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		if line.PaymentType.IsCOD() {
			total = total.Add(line.Product.CollectableAmount)
			continue
		}
		total = total.Add(line.Product.SellingPrice.Mul(decimal.NewFromInt(int64(line.Product.Quantity))))
	}
	return total
}

// RemoteLines converts snapshots to the order management line format.
func RemoteLines(lines []orderline.Snapshot) []ports.RemoteLine {
	out := make([]ports.RemoteLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, ports.RemoteLine{
			UniqueID:     line.UniqueID,
			SKU:          line.Product.SKU,
			Name:         line.Product.Name,
			Quantity:     line.Product.Quantity,
			SellingPrice: line.Product.SellingPrice,
		})
	}
	return out
}

func decimalCount(n int) decimal.Decimal {
	return decimal.NewFromInt(int64(n))
}
