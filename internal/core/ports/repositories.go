// Package ports defines the contracts between the fulfillment core and its
// infrastructure: repositories, the unit of work and remote collaborators.
package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/alert"
	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/label"
	"fulfillment/internal/core/domain/model/orderline"
	"fulfillment/internal/core/domain/model/vendor"
)

// OrderLineRepository persists OrderLine aggregates.
type OrderLineRepository interface {
	// Add stores a new line. Lines normally come from order ingestion.
	Add(ctx context.Context, line *orderline.OrderLine) error

	// Update writes every field of an existing line.
	Update(ctx context.Context, line *orderline.OrderLine) error

	// UpdateIfStatus writes line only while the stored status still equals
	// expected, as one conditional statement. When no row matches it returns
	// an *errs.InvalidStateError carrying the stored status, or
	// *errs.ObjectNotFoundError when the line does not exist.
	UpdateIfStatus(ctx context.Context, line *orderline.OrderLine, expected orderline.ClaimStatus) error

	// Get returns the line with uniqueID or *errs.ObjectNotFoundError.
	Get(ctx context.Context, uniqueID string) (*orderline.OrderLine, error)

	// ListByUniqueIDs returns the existing lines among uniqueIDs; missing ids are skipped.
	ListByUniqueIDs(ctx context.Context, uniqueIDs []string) ([]*orderline.OrderLine, error)

	// ListByOrderID returns every line of orderID ordered by unique id.
	ListByOrderID(ctx context.Context, orderID string) ([]*orderline.OrderLine, error)

	// ListByStatus returns lines in status, optionally restricted to one owner.
	ListByStatus(ctx context.Context, status orderline.ClaimStatus, vendorID string) ([]*orderline.OrderLine, error)

	// OrderIDExists reports whether any line uses orderID, now or as its pre-split id.
	OrderIDExists(ctx context.Context, orderID string) (bool, error)

	// ReleaseExpired unclaims, in a single statement, every claimed line
	// without a downloaded label claimed before cutoff. Claim history is kept.
	ReleaseExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// LabelRepository persists labels, one per order id.
type LabelRepository interface {
	// Get returns the label of orderID or *errs.ObjectNotFoundError.
	Get(ctx context.Context, orderID string) (*label.Label, error)

	// Save inserts or replaces the label of its order id.
	Save(ctx context.Context, l *label.Label) error
}

// CarrierRepository is the local carrier directory.
type CarrierRepository interface {
	ListActive(ctx context.Context) ([]*carrier.Carrier, error)
	Upsert(ctx context.Context, c *carrier.Carrier) error
}

// VendorRepository resolves vendor sessions.
type VendorRepository interface {
	// GetByToken returns the vendor owning token or *errs.ObjectNotFoundError.
	GetByToken(ctx context.Context, token string) (*vendor.Vendor, error)
}

// AlertRepository stores vendor alerts.
type AlertRepository interface {
	Add(ctx context.Context, a *alert.Alert) error
}
