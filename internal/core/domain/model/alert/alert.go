// Package alert models structured vendor alerts raised when label generation fails.
package alert

import (
	"strings"
	"time"

	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
)

// Category groups failures by the action a vendor or admin has to take.
type Category string

const (
	InsufficientBalance  Category = "insufficient_balance"
	UnserviceablePincode Category = "unserviceable_pincode"
	DuplicateOrder       Category = "duplicate_order"
	Other                Category = "other"
)

// Title is the short human readable headline shown in vendor UIs.
func (c Category) Title() string {
	switch c {
	case InsufficientBalance:
		return "Shipping wallet balance is too low"
	case UnserviceablePincode:
		return "Pincode is not serviceable"
	case DuplicateOrder:
		return "Order already exists with the carrier"
	default:
		return "Label generation failed, contact admin"
	}
}

// Alert is a single notification addressed to a vendor about one order.
type Alert struct {
	id        uuid.UUID
	vendorID  string
	orderID   string
	category  Category
	message   string
	createdAt time.Time
}

func NewAlert(vendorID, orderID string, category Category, message string, at time.Time) (*Alert, error) {
	if strings.TrimSpace(vendorID) == "" {
		return nil, errs.NewValueIsRequiredError("vendor_id")
	}
	if category == "" {
		category = Other
	}
	return &Alert{
		id:        uuid.New(),
		vendorID:  vendorID,
		orderID:   orderID,
		category:  category,
		message:   message,
		createdAt: at.UTC(),
	}, nil
}

func (a *Alert) ID() uuid.UUID {
	return a.id
}

func (a *Alert) VendorID() string {
	return a.vendorID
}

func (a *Alert) OrderID() string {
	return a.orderID
}

func (a *Alert) Category() Category {
	return a.category
}

func (a *Alert) Message() string {
	return a.message
}

func (a *Alert) CreatedAt() time.Time {
	return a.createdAt
}
