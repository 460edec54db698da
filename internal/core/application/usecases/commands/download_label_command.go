package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrDownloadLabelCommandIsNotConstructed = errors.New(
		"DownloadLabelCommand must be created via NewDownloadLabelCommand constructor",
	)
	ErrBulkDownloadLabelsCommandIsNotConstructed = errors.New(
		"BulkDownloadLabelsCommand must be created via NewBulkDownloadLabelsCommand constructor",
	)
)

// DownloadLabelCommand requests the label of an order for the vendor's lines.
type DownloadLabelCommand struct {
	orderID string
	vendor  *vendor.Vendor

	guard guard.ConstructorGuard
}

func NewDownloadLabelCommand(orderID string, v *vendor.Vendor) (DownloadLabelCommand, error) {
	if strings.TrimSpace(orderID) == "" {
		return DownloadLabelCommand{}, errs.NewValueIsRequiredError("order_id")
	}
	if v == nil {
		return DownloadLabelCommand{}, errs.NewValueIsRequiredError("vendor")
	}
	return DownloadLabelCommand{orderID: orderID, vendor: v, guard: guard.NewConstructorGuard()}, nil
}

func (c DownloadLabelCommand) OrderID() string {
	return c.orderID
}

func (c DownloadLabelCommand) Vendor() *vendor.Vendor {
	return c.vendor
}

func (c DownloadLabelCommand) Validate() error {
	return c.guard.Validate(ErrDownloadLabelCommandIsNotConstructed)
}

// BulkDownloadLabelsCommand requests labels for several orders.
type BulkDownloadLabelsCommand struct {
	orderIDs []string
	vendor   *vendor.Vendor

	guard guard.ConstructorGuard
}

func NewBulkDownloadLabelsCommand(orderIDs []string, v *vendor.Vendor) (BulkDownloadLabelsCommand, error) {
	ids, err := normalizeIDs("order_ids", orderIDs)
	if err != nil {
		return BulkDownloadLabelsCommand{}, err
	}
	if v == nil {
		return BulkDownloadLabelsCommand{}, errs.NewValueIsRequiredError("vendor")
	}
	return BulkDownloadLabelsCommand{orderIDs: ids, vendor: v, guard: guard.NewConstructorGuard()}, nil
}

func (c BulkDownloadLabelsCommand) OrderIDs() []string {
	return c.orderIDs
}

func (c BulkDownloadLabelsCommand) Vendor() *vendor.Vendor {
	return c.vendor
}

func (c BulkDownloadLabelsCommand) Validate() error {
	return c.guard.Validate(ErrBulkDownloadLabelsCommandIsNotConstructed)
}
