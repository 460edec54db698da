package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/orderline"
)

// CloneRun is the durable record of one order split. It holds the input
// frozen when the split started and the last step known to be complete.
type CloneRun struct {
	RunID         string
	OrderID       string
	VendorID      string
	WarehouseID   string
	CloneOrderID  string
	Claimed       []orderline.Snapshot
	Remaining     []orderline.Snapshot
	FrozenAt      time.Time
	CompletedStep int
	Label         *PushOrderResult
	UpdatedAt     time.Time
}

// SagaJournal persists clone runs keyed by (order id, vendor id) so an
// interrupted split resumes with the same clone id.
type SagaJournal interface {
	// Load returns the open run or *errs.ObjectNotFoundError.
	Load(ctx context.Context, orderID, vendorID string) (CloneRun, error)
	Save(ctx context.Context, run CloneRun) error
	Delete(ctx context.Context, orderID, vendorID string) error
}
