package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/orderline"

	"github.com/shopspring/decimal"
)

// PushMode selects between creating a remote order and replacing one.
type PushMode int

const (
	CreateOrder PushMode = iota + 1
	UpdateOrder
)

func (m PushMode) String() string {
	if m == CreateOrder {
		return "create"
	}
	return "update"
}

// RemoteLine is one product as sent to the order management system.
type RemoteLine struct {
	UniqueID     string
	SKU          string
	Name         string
	Quantity     int
	SellingPrice decimal.Decimal
}

// PushOrderRequest is a full order document. The remote system replaces the
// order's line list with Lines on update.
type PushOrderRequest struct {
	Mode        PushMode
	OrderID     string
	OrderDate   time.Time
	PaymentType kernel.PaymentType
	Shipping    orderline.Shipping
	Lines       []RemoteLine

	GenerateLabel bool
	CarrierID     string
	WarehouseID   string
	Total         decimal.Decimal
	WeightKg      decimal.Decimal
}

// PushOrderResult is the canonical shipment answer, whatever shape the remote
// response had. LabelURL and AWB are empty when no label was requested.
type PushOrderResult struct {
	LabelURL    string
	AWB         string
	CarrierID   string
	CarrierName string
}

// RemoteOrder is an order as currently seen by the order management system.
type RemoteOrder struct {
	OrderID   string
	UniqueIDs []string
}

// OrderManagementGateway is the external order management API. It is the
// source of truth for shipment existence and is not transactional.
type OrderManagementGateway interface {
	PushOrder(ctx context.Context, req PushOrderRequest) (PushOrderResult, error)
	// ListOrders returns the subset of orderIDs that exist remotely.
	ListOrders(ctx context.Context, orderIDs []string) ([]RemoteOrder, error)
	CreateManifest(ctx context.Context, orderID string, awbs []string) (string, error)
	CancelShipment(ctx context.Context, awb string) error
}

// ServiceabilityClient asks the carrier network who delivers to a pincode.
type ServiceabilityClient interface {
	CheckPincode(ctx context.Context, pincode kernel.Pincode) ([]carrier.Offer, error)
}

// Notification describes a label failure a vendor should hear about.
type Notification struct {
	VendorID string
	OrderID  string
	Err      error
}

// Notifier turns failures into vendor alerts. Implementations must not block
// the caller for long and must swallow their own failures.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}
