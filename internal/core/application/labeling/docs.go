// Package labeling produces shipping labels for claimed lines.
//
// Three collaborators live here:
//   - PriorityCarrierResolver picks a carrier per pincode and payment type,
//     querying the serviceability network once per pincode per batch
//   - LabelGenerator pushes an order with label generation and commits a
//     confirmed label locally
//   - CloneSaga splits a partially claimed order into a clone owned by one
//     vendor before labeling it, retrying every step against a frozen input
//     and journaling progress so an interrupted split resumes with the same clone id
package labeling

import (
	"context"

	"fulfillment/internal/core/ports"
)

// UoW is the transaction scope labeling needs.
type UoW interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	OrderLineRepository() ports.OrderLineRepository
	LabelRepository() ports.LabelRepository
	CarrierRepository() ports.CarrierRepository
}

// UoWFactory creates a fresh UoW per operation.
type UoWFactory interface {
	Create() UoW
}
