package orderline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderLineIsNotConstructed is returned when an OrderLine instance was not created
	// through NewOrderLine or RestoreOrderLine.
	ErrOrderLineIsNotConstructed = errors.New("OrderLine must be created via NewOrderLine constructor")
)

// Product is the purchased item carried by a line.
type Product struct {
	SKU               string
	Name              string
	Quantity          int
	SellingPrice      decimal.Decimal
	CollectableAmount decimal.Decimal
}

// Shipping is the delivery destination of a line. Sibling lines of one order
// share it, so the first line of an order speaks for the whole parcel.
type Shipping struct {
	CustomerName string
	Phone        string
	Address      string
	City         string
	State        string
	Pincode      kernel.Pincode
}

// OrderLine is one product within a shipment order and the unit of claiming.
//
// OrderLine follows these invariants:
//   - uniqueID never changes after construction
//   - orderID changes only through MoveToClone, together with cloneStatus and clonedOrderID
//   - claimedBy and claimedAt are set exactly when status is Claimed or ReadyForHandover
//   - lastClaimedBy and lastClaimedAt are history and are never cleared
//   - labelDownloaded can only be true while the line is owned
type OrderLine struct {
	uniqueID    string
	orderID     string
	product     Product
	shipping    Shipping
	paymentType kernel.PaymentType
	orderDate   time.Time

	status        ClaimStatus
	claimedBy     *string
	claimedAt     *time.Time
	lastClaimedBy *string
	lastClaimedAt *time.Time

	cloneStatus   CloneStatus
	clonedOrderID *string

	labelDownloaded bool
	priorityCarrier *string

	isConstructed bool
}

// NewOrderLine creates an unclaimed, not cloned line as produced by order ingestion.
func NewOrderLine(
	uniqueID, orderID string,
	product Product,
	shipping Shipping,
	paymentType kernel.PaymentType,
	orderDate time.Time,
) (*OrderLine, error) {
	line := &OrderLine{
		status:        Unclaimed,
		cloneStatus:   NotCloned,
		orderDate:     orderDate,
		isConstructed: true,
	}

	if err := errors.Join(
		line.setUniqueID(uniqueID),
		line.setOrderID(orderID),
		line.setProduct(product),
		line.setShipping(shipping),
		paymentType.Validate(),
	); err != nil {
		return nil, err
	}
	line.paymentType = paymentType

	return line, nil
}

// Snapshot is the full persisted state of a line, used to restore it from
// storage and to freeze it into clone saga inputs.
type Snapshot struct {
	UniqueID        string
	OrderID         string
	Product         Product
	Shipping        Shipping
	PaymentType     kernel.PaymentType
	OrderDate       time.Time
	Status          ClaimStatus
	ClaimedBy       *string
	ClaimedAt       *time.Time
	LastClaimedBy   *string
	LastClaimedAt   *time.Time
	CloneStatus     CloneStatus
	ClonedOrderID   *string
	LabelDownloaded bool
	PriorityCarrier *string
}

// RestoreOrderLine rebuilds a line from persisted state, enforcing the
// claim invariants so corrupt rows are rejected at the repository boundary.
func RestoreOrderLine(s Snapshot) (*OrderLine, error) {
	line, err := NewOrderLine(s.UniqueID, s.OrderID, s.Product, s.Shipping, s.PaymentType, s.OrderDate)
	if err != nil {
		return nil, err
	}

	if err = s.Status.Validate(); err != nil {
		return nil, err
	}
	owned := s.ClaimedBy != nil && *s.ClaimedBy != ""
	if s.Status.IsOwned() != owned {
		return nil, errs.NewValueIsInvalidErrorWithCause(
			"claimed_by",
			fmt.Errorf("%s line %s has owner %v", s.Status, s.UniqueID, owned),
		)
	}
	if s.CloneStatus == UnknownCloneStatus {
		s.CloneStatus = NotCloned
	}

	line.status = s.Status
	line.claimedBy = s.ClaimedBy
	line.claimedAt = s.ClaimedAt
	line.lastClaimedBy = s.LastClaimedBy
	line.lastClaimedAt = s.LastClaimedAt
	line.cloneStatus = s.CloneStatus
	line.clonedOrderID = s.ClonedOrderID
	line.labelDownloaded = s.LabelDownloaded && owned
	line.priorityCarrier = s.PriorityCarrier

	return line, nil
}

// Snapshot returns a copy of the line state.
func (o *OrderLine) Snapshot() Snapshot {
	return Snapshot{
		UniqueID:        o.uniqueID,
		OrderID:         o.orderID,
		Product:         o.product,
		Shipping:        o.shipping,
		PaymentType:     o.paymentType,
		OrderDate:       o.orderDate,
		Status:          o.status,
		ClaimedBy:       o.claimedBy,
		ClaimedAt:       o.claimedAt,
		LastClaimedBy:   o.lastClaimedBy,
		LastClaimedAt:   o.lastClaimedAt,
		CloneStatus:     o.cloneStatus,
		ClonedOrderID:   o.clonedOrderID,
		LabelDownloaded: o.labelDownloaded,
		PriorityCarrier: o.priorityCarrier,
	}
}

// Validate ensures the line was created through a constructor.
func (o *OrderLine) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderLineIsNotConstructed
	}
	return nil
}

func (o *OrderLine) UniqueID() string                { return o.uniqueID }
func (o *OrderLine) OrderID() string                 { return o.orderID }
func (o *OrderLine) Product() Product                { return o.product }
func (o *OrderLine) Shipping() Shipping              { return o.shipping }
func (o *OrderLine) PaymentType() kernel.PaymentType { return o.paymentType }
func (o *OrderLine) OrderDate() time.Time            { return o.orderDate }
func (o *OrderLine) Status() ClaimStatus             { return o.status }
func (o *OrderLine) ClaimedAt() *time.Time           { return o.claimedAt }
func (o *OrderLine) LastClaimedBy() *string          { return o.lastClaimedBy }
func (o *OrderLine) LastClaimedAt() *time.Time       { return o.lastClaimedAt }
func (o *OrderLine) CloneStatus() CloneStatus        { return o.cloneStatus }
func (o *OrderLine) ClonedOrderID() *string          { return o.clonedOrderID }
func (o *OrderLine) LabelDownloaded() bool           { return o.labelDownloaded }
func (o *OrderLine) PriorityCarrier() *string        { return o.priorityCarrier }

// ClaimedBy returns the owning warehouse id, or "" when unclaimed.
func (o *OrderLine) ClaimedBy() string {
	if o.claimedBy == nil {
		return ""
	}
	return *o.claimedBy
}

// IsOwnedBy reports whether vendorID currently holds the line.
func (o *OrderLine) IsOwnedBy(vendorID string) bool {
	return o.status.IsOwned() && o.claimedBy != nil && *o.claimedBy == vendorID
}

// EnsureOwnedBy returns a ForbiddenError unless vendorID holds the line.
func (o *OrderLine) EnsureOwnedBy(vendorID string) error {
	if !o.IsOwnedBy(vendorID) {
		return errs.NewForbiddenError(o.uniqueID, vendorID)
	}
	return nil
}

// Claim hands an unclaimed line to vendorID and records it in the claim history.
// No carrier is chosen here; that happens at label time.
func (o *OrderLine) Claim(vendorID string, at time.Time) error {
	if strings.TrimSpace(vendorID) == "" {
		return errs.NewValueIsRequiredError("vendor")
	}

	newStatus, err := o.status.Claim(o.uniqueID)
	if err != nil {
		return err
	}

	claimedAt := at.UTC()
	o.status = newStatus
	o.claimedBy = &vendorID
	o.claimedAt = &claimedAt
	o.lastClaimedBy = &vendorID
	o.lastClaimedAt = &claimedAt
	return nil
}

// MarkReady moves an owned line with a downloaded label to ReadyForHandover.
func (o *OrderLine) MarkReady() error {
	if !o.labelDownloaded {
		return fmt.Errorf("%w: line %s has no downloaded label", errs.ErrLabelNotReady, o.uniqueID)
	}
	newStatus, err := o.status.MarkReady(o.uniqueID)
	if err != nil {
		return err
	}
	o.status = newStatus
	return nil
}

// Release returns the line to the pool. Claim history is preserved.
func (o *OrderLine) Release() error {
	newStatus, err := o.status.Release(o.uniqueID)
	if err != nil {
		return err
	}
	o.status = newStatus
	o.claimedBy = nil
	o.claimedAt = nil
	o.labelDownloaded = false
	return nil
}

// MoveToClone re-homes a claimed line into cloneOrderID, remembering the
// order it was split from. The label flag is reset until the clone's label
// is confirmed.
func (o *OrderLine) MoveToClone(cloneOrderID string) error {
	if o.status != Claimed {
		return errs.NewInvalidStateError(o.uniqueID, o.status.String(), "clone")
	}
	if cloneOrderID == "" || cloneOrderID == o.orderID {
		return errs.NewValueIsInvalidErrorWithCause("clone_order_id", fmt.Errorf("%q cannot replace %q", cloneOrderID, o.orderID))
	}

	original := o.orderID
	o.orderID = cloneOrderID
	o.cloneStatus = Cloned
	o.clonedOrderID = &original
	o.labelDownloaded = false
	return nil
}

// MarkLabelDownloaded records that a label with a URL exists for the line's order.
func (o *OrderLine) MarkLabelDownloaded() error {
	if !o.status.IsOwned() {
		return errs.NewInvalidStateError(o.uniqueID, o.status.String(), "download label for")
	}
	o.labelDownloaded = true
	return nil
}

// ResetLabelDownloaded clears the label flag after the shipment was cancelled.
func (o *OrderLine) ResetLabelDownloaded() {
	o.labelDownloaded = false
}

// AssignPriorityCarrier stores the carrier chosen for the line's pincode and payment type.
func (o *OrderLine) AssignPriorityCarrier(carrierID string) error {
	if o.status != Claimed || o.claimedBy == nil {
		return errs.NewInvalidStateError(o.uniqueID, o.status.String(), "assign carrier to")
	}
	if carrierID == "" {
		return errs.NewValueIsRequiredError("carrier_id")
	}
	o.priorityCarrier = &carrierID
	return nil
}

func (o *OrderLine) setUniqueID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errs.NewValueIsRequiredError("unique_id")
	}
	o.uniqueID = id
	return nil
}

func (o *OrderLine) setOrderID(id string) error {
	if strings.TrimSpace(id) == "" {
		return errs.NewValueIsRequiredError("order_id")
	}
	o.orderID = id
	return nil
}

func (o *OrderLine) setProduct(p Product) error {
	if p.Quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%d is not greater than 0", p.Quantity))
	}
	if p.SellingPrice.IsNegative() || p.CollectableAmount.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("price", errors.New("amounts cannot be negative"))
	}
	o.product = p
	return nil
}

func (o *OrderLine) setShipping(s Shipping) error {
	if err := s.Pincode.Validate(); err != nil {
		return err
	}
	o.shipping = s
	return nil
}
