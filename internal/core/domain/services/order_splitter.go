package services

import (
	"fmt"
	"strconv"

	"fulfillment/internal/core/domain/model/orderline"
	"fulfillment/internal/pkg/errs"
)

// maxCloneSuffix bounds the search for a free clone order id.
const maxCloneSuffix = 1000

// LabelMode tells how a label must be produced for an order.
type LabelMode int

const (
	// Direct: the vendor owns every line of the order.
	Direct LabelMode = iota + 1
	// Clone: the vendor owns a strict subset and the order has to be split first.
	Clone
)

func (m LabelMode) String() string {
	switch m {
	case Direct:
		return "direct"
	case Clone:
		return "clone"
	default:
		return "unknown"
	}
}

// Partition splits the lines of one order into the part a vendor owns and the rest.
type Partition struct {
	OrderID   string
	Mode      LabelMode
	Claimed   []*orderline.OrderLine
	Remaining []*orderline.OrderLine
}

// ClaimedIDs returns the unique ids of the owned lines.
func (p Partition) ClaimedIDs() []string {
	return uniqueIDs(p.Claimed)
}

// OrderSplitter decides how an order is labeled for a vendor and names clone orders.
type OrderSplitter struct{}

func NewOrderSplitter() OrderSplitter {
	return OrderSplitter{}
}

// Partition classifies lines of orderID for vendorID. Lines the vendor holds in
// either owned status count as claimed.
func (s OrderSplitter) Partition(orderID, vendorID string, lines []*orderline.OrderLine) (Partition, error) {
	p := Partition{OrderID: orderID}
	if len(lines) == 0 {
		return p, errs.NewObjectNotFoundError("order_id", orderID)
	}

	for _, line := range lines {
		if err := line.Validate(); err != nil {
			return p, err
		}
		if line.OrderID() != orderID {
			return p, errs.NewValueIsInvalidErrorWithCause(
				"order_id", fmt.Errorf("line %s belongs to %s", line.UniqueID(), line.OrderID()))
		}
		if line.IsOwnedBy(vendorID) {
			p.Claimed = append(p.Claimed, line)
		} else {
			p.Remaining = append(p.Remaining, line)
		}
	}

	switch {
	case len(p.Claimed) == 0:
		return p, fmt.Errorf("%w: order %s", errs.ErrNothingClaimed, orderID)
	case len(p.Remaining) == 0:
		p.Mode = Direct
	default:
		p.Mode = Clone
	}
	return p, nil
}

// NextCloneID returns the first "<orderID>_N" id (N starting at 1) for which
// isTaken reports false. isTaken is expected to consult both the local
// datastore and the remote order system.
func (s OrderSplitter) NextCloneID(orderID string, isTaken func(candidate string) (bool, error)) (string, error) {
	if orderID == "" {
		return "", errs.NewValueIsRequiredError("order_id")
	}
	for n := 1; n <= maxCloneSuffix; n++ {
		candidate := orderID + "_" + strconv.Itoa(n)
		taken, err := isTaken(candidate)
		if err != nil {
			return "", err
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", errs.NewValueIsOutOfRangeError("clone_suffix", maxCloneSuffix+1, 1, maxCloneSuffix)
}

func uniqueIDs(lines []*orderline.OrderLine) []string {
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.UniqueID())
	}
	return ids
}
