package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrAssignPriorityCarriersCommandIsNotConstructed = errors.New(
	"AssignPriorityCarriersCommand must be created via NewAssignPriorityCarriersCommand constructor",
)

// AssignPriorityCarriersCommand stores the priority carrier on claimed lines.
// An empty vendor id means every claimed line.
type AssignPriorityCarriersCommand struct {
	vendorID string

	guard guard.ConstructorGuard
}

func NewAssignPriorityCarriersCommand(vendorID string) AssignPriorityCarriersCommand {
	return AssignPriorityCarriersCommand{vendorID: vendorID, guard: guard.NewConstructorGuard()}
}

func (c AssignPriorityCarriersCommand) VendorID() string {
	return c.vendorID
}

func (c AssignPriorityCarriersCommand) Validate() error {
	return c.guard.Validate(ErrAssignPriorityCarriersCommandIsNotConstructed)
}
