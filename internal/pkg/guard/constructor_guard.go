// Package guard provides ConstructorGuard, a marker embedded in commands,
// queries and aggregates to detect values that bypassed their constructor.
package guard

import "errors"

// ErrDefaultConstructorGuard is returned by Validate when no specific error is supplied.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard distinguishes constructed values from zero values.
//
// Example usage:
//
//	type ClaimCommand struct {
//	    uniqueID string
//	    guard    guard.ConstructorGuard
//	}
//
//	func NewClaimCommand(uniqueID string) ClaimCommand {
//	    return ClaimCommand{uniqueID: uniqueID, guard: guard.NewConstructorGuard()}
//	}
//
//	func (c ClaimCommand) Validate() error {
//	    return c.guard.Validate(ErrClaimCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard returns a guard marked as constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns validationError (or ErrDefaultConstructorGuard when nil)
// if the guard is a zero value.
func (g ConstructorGuard) Validate(validationError error) error {
	if validationError == nil {
		validationError = ErrDefaultConstructorGuard
	}
	if !g.isConstructed {
		return validationError
	}
	return nil
}
