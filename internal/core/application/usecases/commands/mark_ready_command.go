package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrMarkReadyCommandIsNotConstructed = errors.New(
		"MarkReadyCommand must be created via NewMarkReadyCommand constructor",
	)
	ErrBulkMarkReadyCommandIsNotConstructed = errors.New(
		"BulkMarkReadyCommand must be created via NewBulkMarkReadyCommand constructor",
	)
)

// MarkReadyCommand hands a labeled order over to the carrier.
type MarkReadyCommand struct {
	orderID  string
	vendorID string

	guard guard.ConstructorGuard
}

func NewMarkReadyCommand(orderID, vendorID string) (MarkReadyCommand, error) {
	if strings.TrimSpace(orderID) == "" {
		return MarkReadyCommand{}, errs.NewValueIsRequiredError("order_id")
	}
	if strings.TrimSpace(vendorID) == "" {
		return MarkReadyCommand{}, errs.NewValueIsRequiredError("vendor")
	}
	return MarkReadyCommand{orderID: orderID, vendorID: vendorID, guard: guard.NewConstructorGuard()}, nil
}

func (c MarkReadyCommand) OrderID() string {
	return c.orderID
}

func (c MarkReadyCommand) VendorID() string {
	return c.vendorID
}

func (c MarkReadyCommand) Validate() error {
	return c.guard.Validate(ErrMarkReadyCommandIsNotConstructed)
}

// BulkMarkReadyCommand marks several orders ready, each on its own.
type BulkMarkReadyCommand struct {
	orderIDs []string
	vendorID string

	guard guard.ConstructorGuard
}

func NewBulkMarkReadyCommand(orderIDs []string, vendorID string) (BulkMarkReadyCommand, error) {
	ids, err := normalizeIDs("order_ids", orderIDs)
	if err != nil {
		return BulkMarkReadyCommand{}, err
	}
	if strings.TrimSpace(vendorID) == "" {
		return BulkMarkReadyCommand{}, errs.NewValueIsRequiredError("vendor")
	}
	return BulkMarkReadyCommand{orderIDs: ids, vendorID: vendorID, guard: guard.NewConstructorGuard()}, nil
}

func (c BulkMarkReadyCommand) OrderIDs() []string {
	return c.orderIDs
}

func (c BulkMarkReadyCommand) VendorID() string {
	return c.vendorID
}

func (c BulkMarkReadyCommand) Validate() error {
	return c.guard.Validate(ErrBulkMarkReadyCommandIsNotConstructed)
}
