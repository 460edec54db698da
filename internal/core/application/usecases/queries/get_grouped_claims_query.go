// Package queries contains read operations. Handlers read with raw SQL into
// response models shaped for the HTTP surface rather than loading aggregates.
package queries

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/orderline"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

const (
	DefaultGroupedLimit = 50
	MaxGroupedLimit     = 200
)

var ErrGetGroupedClaimsQueryIsNotConstructed = errors.New(
	"GetGroupedClaimsQuery must be created via NewGetGroupedClaimsQuery constructor",
)

// GetGroupedClaimsQuery lists a vendor's owned lines grouped by order id.
type GetGroupedClaimsQuery struct {
	vendorID string
	statuses []orderline.ClaimStatus
	limit    int
	offset   int

	guard guard.ConstructorGuard
}

// NewGetGroupedClaimsQuery filters by status when it is non-empty; otherwise
// both owned statuses are listed. A zero limit means DefaultGroupedLimit.
func NewGetGroupedClaimsQuery(vendorID, status string, limit, offset int) (GetGroupedClaimsQuery, error) {
	if strings.TrimSpace(vendorID) == "" {
		return GetGroupedClaimsQuery{}, errs.NewValueIsRequiredError("vendor")
	}

	statuses := []orderline.ClaimStatus{orderline.Claimed, orderline.ReadyForHandover}
	if status != "" {
		parsed, err := orderline.ParseClaimStatus(status)
		if err != nil {
			return GetGroupedClaimsQuery{}, err
		}
		if !parsed.IsOwned() {
			return GetGroupedClaimsQuery{}, errs.NewValueIsInvalidError("status")
		}
		statuses = []orderline.ClaimStatus{parsed}
	}

	if limit == 0 {
		limit = DefaultGroupedLimit
	}
	if limit < 1 || limit > MaxGroupedLimit {
		return GetGroupedClaimsQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxGroupedLimit)
	}
	if offset < 0 {
		return GetGroupedClaimsQuery{}, errs.NewValueIsOutOfRangeError("offset", offset, 0, "unbounded")
	}

	return GetGroupedClaimsQuery{
		vendorID: vendorID,
		statuses: statuses,
		limit:    limit,
		offset:   offset,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q GetGroupedClaimsQuery) VendorID() string {
	return q.vendorID
}

func (q GetGroupedClaimsQuery) Limit() int {
	return q.limit
}

func (q GetGroupedClaimsQuery) Offset() int {
	return q.offset
}

func (q GetGroupedClaimsQuery) Validate() error {
	return q.guard.Validate(ErrGetGroupedClaimsQueryIsNotConstructed)
}

func (q GetGroupedClaimsQuery) statusStrings() []string {
	out := make([]string, 0, len(q.statuses))
	for _, s := range q.statuses {
		out = append(out, s.String())
	}
	return out
}

// GroupedOrder is one order with the vendor's lines in it. ClaimedCount
// smaller than TotalCount means the label request will split the order.
type GroupedOrder struct {
	OrderID         string        `json:"order_id"`
	ClaimedCount    int           `json:"claimed_count"`
	TotalCount      int           `json:"total_count"`
	LabelDownloaded bool          `json:"label_downloaded"`
	Lines           []GroupedLine `json:"lines"`
}

type GroupedLine struct {
	UniqueID        string  `json:"unique_id"`
	SKU             string  `json:"sku"`
	ProductName     string  `json:"product_name"`
	Quantity        int     `json:"quantity"`
	Status          string  `json:"status"`
	LabelDownloaded bool    `json:"label_downloaded"`
	PriorityCarrier *string `json:"priority_carrier,omitempty"`
}
