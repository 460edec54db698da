// Package errs provides standardized error types for the fulfillment service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes two groups of errors:
//   - Value errors (ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError)
//     and ObjectNotFoundError for input validation and lookups
//   - Fulfillment errors (InvalidStateError, ForbiddenError, RemoteUnconfirmedError,
//     SagaStepExhaustedError and the remaining sentinels) describing why a claim,
//     label or reversal operation was refused
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrInvalidState)
//   - A struct type with fields for error details
//   - Constructor functions
//   - Error() method for formatting the error message
//   - Unwrap() method so errors.Is matches the sentinel
//
// Transports classify errors only through errors.Is against the sentinels.
package errs
