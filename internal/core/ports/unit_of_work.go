package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Repositories obtained after
// Begin share its transaction; Rollback after Commit is a no-op error callers ignore.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderLineRepository() OrderLineRepository
	LabelRepository() LabelRepository
	CarrierRepository() CarrierRepository
	VendorRepository() VendorRepository
	AlertRepository() AlertRepository
}
