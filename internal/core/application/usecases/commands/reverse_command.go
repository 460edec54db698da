package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrReverseCommandIsNotConstructed = errors.New(
	"ReverseCommand must be created via NewReverseCommand, NewReverseGroupedCommand or NewUnassignCommand",
)

// ReverseCommand returns owned lines to the pool, cancelling their shipment
// first when a label was downloaded.
type ReverseCommand struct {
	uniqueIDs []string
	orderID   string
	vendorID  string
	// enforceOwner is false only for administrative unassignment.
	enforceOwner bool

	guard guard.ConstructorGuard
}

// NewReverseCommand reverses a single line of vendorID.
func NewReverseCommand(uniqueID, vendorID string) (ReverseCommand, error) {
	if strings.TrimSpace(uniqueID) == "" {
		return ReverseCommand{}, errs.NewValueIsRequiredError("unique_id")
	}
	if strings.TrimSpace(vendorID) == "" {
		return ReverseCommand{}, errs.NewValueIsRequiredError("vendor")
	}
	return ReverseCommand{
		uniqueIDs:    []string{uniqueID},
		vendorID:     vendorID,
		enforceOwner: true,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// NewReverseGroupedCommand reverses several lines that must all belong to orderID.
func NewReverseGroupedCommand(orderID string, uniqueIDs []string, vendorID string) (ReverseCommand, error) {
	if strings.TrimSpace(orderID) == "" {
		return ReverseCommand{}, errs.NewValueIsRequiredError("order_id")
	}
	ids, err := normalizeIDs("unique_ids", uniqueIDs)
	if err != nil {
		return ReverseCommand{}, err
	}
	if strings.TrimSpace(vendorID) == "" {
		return ReverseCommand{}, errs.NewValueIsRequiredError("vendor")
	}
	return ReverseCommand{
		uniqueIDs:    ids,
		orderID:      orderID,
		vendorID:     vendorID,
		enforceOwner: true,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

// NewUnassignCommand reverses a line whoever owns it.
func NewUnassignCommand(uniqueID string) (ReverseCommand, error) {
	if strings.TrimSpace(uniqueID) == "" {
		return ReverseCommand{}, errs.NewValueIsRequiredError("unique_id")
	}
	return ReverseCommand{uniqueIDs: []string{uniqueID}, guard: guard.NewConstructorGuard()}, nil
}

func (c ReverseCommand) UniqueIDs() []string {
	return c.uniqueIDs
}

// OrderID is empty unless the command was built for a grouped reversal.
func (c ReverseCommand) OrderID() string {
	return c.orderID
}

func (c ReverseCommand) VendorID() string {
	return c.vendorID
}

func (c ReverseCommand) EnforceOwner() bool {
	return c.enforceOwner
}

func (c ReverseCommand) Validate() error {
	return c.guard.Validate(ErrReverseCommandIsNotConstructed)
}
