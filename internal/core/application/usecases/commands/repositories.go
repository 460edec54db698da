// Package commands contains business operations that modify fulfillment state.
// Every command follows one pattern: construct and validate, open a unit of
// work, load aggregates, apply domain transitions, persist and commit.
package commands

import (
	"context"

	"fulfillment/internal/core/application/labeling"
	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
)

type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderLineRepoFactory provides the line repository within a transaction.
	OrderLineRepoFactory interface {
		OrderLineRepository() ports.OrderLineRepository
	}

	// LabelRepoFactory provides the label repository within a transaction.
	LabelRepoFactory interface {
		LabelRepository() ports.LabelRepository
	}

	// ClaimUoW is used by commands that only touch order lines.
	ClaimUoW interface {
		TxManager
		OrderLineRepoFactory
	}

	// ClaimUoWFactory creates claim units of work.
	ClaimUoWFactory interface {
		Create() ClaimUoW
	}

	// UoW spans lines and labels.
	UoW interface {
		TxManager
		OrderLineRepoFactory
		LabelRepoFactory
	}

	// UoWFactory creates units of work spanning lines and labels.
	UoWFactory interface {
		Create() UoW
	}
)

type (
	// LabelProducer generates and records labels for one parcel.
	LabelProducer interface {
		Generate(ctx context.Context, req labeling.LabelRequest, batch *labeling.CarrierBatch) (ports.PushOrderResult, error)
		Commit(ctx context.Context, orderID, vendorID string, uniqueIDs []string, res ports.PushOrderResult) (bool, error)
	}

	// SplitSaga splits partially claimed orders.
	SplitSaga interface {
		Pending(ctx context.Context, orderID, vendorID string) (ports.CloneRun, bool, error)
		Start(ctx context.Context, p services.Partition, v *vendor.Vendor) (labeling.Result, error)
		Resume(ctx context.Context, run ports.CloneRun) (labeling.Result, error)
	}

	// CarrierBatches opens carrier resolution batches.
	CarrierBatches interface {
		NewBatch(ctx context.Context) (*labeling.CarrierBatch, error)
	}
)
