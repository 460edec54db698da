package commands

import (
	"errors"

	"fulfillment/internal/pkg/guard"
)

var ErrAutoReverseExpiredCommandIsNotConstructed = errors.New(
	"AutoReverseExpiredCommand must be created via NewAutoReverseExpiredCommand constructor",
)

// AutoReverseExpiredCommand releases claims that never got a label in time.
type AutoReverseExpiredCommand struct {
	guard guard.ConstructorGuard
}

func NewAutoReverseExpiredCommand() AutoReverseExpiredCommand {
	return AutoReverseExpiredCommand{guard: guard.NewConstructorGuard()}
}

func (c AutoReverseExpiredCommand) Validate() error {
	return c.guard.Validate(ErrAutoReverseExpiredCommandIsNotConstructed)
}
