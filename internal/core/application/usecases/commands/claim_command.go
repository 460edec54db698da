package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrClaimCommandIsNotConstructed = errors.New(
		"ClaimCommand must be created via NewClaimCommand constructor",
	)
	ErrBulkClaimCommandIsNotConstructed = errors.New(
		"BulkClaimCommand must be created via NewBulkClaimCommand constructor",
	)
)

// ClaimCommand hands one unclaimed line to a warehouse. Admin assignment uses
// the same command with the target warehouse chosen by the administrator.
type ClaimCommand struct {
	uniqueID string
	vendorID string

	guard guard.ConstructorGuard
}

func NewClaimCommand(uniqueID, vendorID string) (ClaimCommand, error) {
	if strings.TrimSpace(uniqueID) == "" {
		return ClaimCommand{}, errs.NewValueIsRequiredError("unique_id")
	}
	if strings.TrimSpace(vendorID) == "" {
		return ClaimCommand{}, errs.NewValueIsRequiredError("vendor")
	}
	return ClaimCommand{uniqueID: uniqueID, vendorID: vendorID, guard: guard.NewConstructorGuard()}, nil
}

func (c ClaimCommand) UniqueID() string {
	return c.uniqueID
}

func (c ClaimCommand) VendorID() string {
	return c.vendorID
}

func (c ClaimCommand) Validate() error {
	return c.guard.Validate(ErrClaimCommandIsNotConstructed)
}

// BulkClaimCommand claims several lines for one warehouse, each on its own.
type BulkClaimCommand struct {
	uniqueIDs []string
	vendorID  string

	guard guard.ConstructorGuard
}

func NewBulkClaimCommand(uniqueIDs []string, vendorID string) (BulkClaimCommand, error) {
	ids, err := normalizeIDs("unique_ids", uniqueIDs)
	if err != nil {
		return BulkClaimCommand{}, err
	}
	if strings.TrimSpace(vendorID) == "" {
		return BulkClaimCommand{}, errs.NewValueIsRequiredError("vendor")
	}
	return BulkClaimCommand{uniqueIDs: ids, vendorID: vendorID, guard: guard.NewConstructorGuard()}, nil
}

func (c BulkClaimCommand) UniqueIDs() []string {
	return c.uniqueIDs
}

func (c BulkClaimCommand) VendorID() string {
	return c.vendorID
}

func (c BulkClaimCommand) Validate() error {
	return c.guard.Validate(ErrBulkClaimCommandIsNotConstructed)
}

// normalizeIDs trims ids, drops blanks and duplicates and keeps the order.
func normalizeIDs(param string, ids []string) ([]string, error) {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	if len(out) == 0 {
		return nil, errs.NewValueIsRequiredError(param)
	}
	return out, nil
}
