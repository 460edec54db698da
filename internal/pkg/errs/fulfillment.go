package errs

import (
	"errors"
	"fmt"
)

// Fulfillment failure classes. Every error returned by a command handler
// unwraps to exactly one of these (or to ErrObjectNotFound) so transports can
// map it without inspecting messages.
var (
	ErrInvalidState             = errors.New("invalid claim state")
	ErrForbidden                = errors.New("line is not owned by vendor")
	ErrUnauthorized             = errors.New("unauthorized")
	ErrNoServiceableCarrier     = errors.New("no serviceable carrier")
	ErrMalformedCarrierResponse = errors.New("malformed carrier response")
	ErrRemoteUnconfirmed        = errors.New("remote change not confirmed")
	ErrLabelNotReady            = errors.New("label not ready")
	ErrSagaStepExhausted        = errors.New("saga step exhausted retries")
	ErrNothingClaimed           = errors.New("nothing claimed by vendor")
	ErrRemoteRejected           = errors.New("remote request rejected")
)

// InvalidStateError reports a transition requested from the wrong claim status.
type InvalidStateError struct {
	UniqueID string
	Current  string
	Action   string
}

func NewInvalidStateError(uniqueID, current, action string) *InvalidStateError {
	return &InvalidStateError{UniqueID: uniqueID, Current: current, Action: action}
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: cannot %s %s while %s", ErrInvalidState, e.Action, e.UniqueID, e.Current)
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// ForbiddenError reports an ownership mismatch between a line and the caller.
type ForbiddenError struct {
	UniqueID string
	VendorID string
}

func NewForbiddenError(uniqueID, vendorID string) *ForbiddenError {
	return &ForbiddenError{UniqueID: uniqueID, VendorID: vendorID}
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s: %s is not claimed by %s", ErrForbidden, e.UniqueID, e.VendorID)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// RemoteUnconfirmedError reports a verification read that did not observe a
// write the order-management system had acknowledged.
type RemoteUnconfirmedError struct {
	OrderID string
	Check   string
}

func NewRemoteUnconfirmedError(orderID, check string) *RemoteUnconfirmedError {
	return &RemoteUnconfirmedError{OrderID: orderID, Check: check}
}

func (e *RemoteUnconfirmedError) Error() string {
	return fmt.Sprintf("%s: %s for order %s", ErrRemoteUnconfirmed, e.Check, e.OrderID)
}

func (e *RemoteUnconfirmedError) Unwrap() error {
	return ErrRemoteUnconfirmed
}

// SagaStepExhaustedError carries the last error of a saga step that failed
// on every attempt.
type SagaStepExhaustedError struct {
	Step     string
	Attempts int
	Cause    error
}

func NewSagaStepExhaustedError(step string, attempts int, cause error) *SagaStepExhaustedError {
	return &SagaStepExhaustedError{Step: step, Attempts: attempts, Cause: cause}
}

func (e *SagaStepExhaustedError) Error() string {
	return fmt.Sprintf("%s: step %q after %d attempts (cause: %v)", ErrSagaStepExhausted, e.Step, e.Attempts, e.Cause)
}

// Unwrap exposes both the class and the underlying cause to errors.Is.
func (e *SagaStepExhaustedError) Unwrap() []error {
	return []error{ErrSagaStepExhausted, e.Cause}
}

// RemoteError is a non-success answer of an external API. Code is the
// structured error code when the remote side sends one.
type RemoteError struct {
	Operation  string
	StatusCode int
	Code       string
	Message    string
}

func NewRemoteError(operation string, statusCode int, code, message string) *RemoteError {
	return &RemoteError{Operation: operation, StatusCode: statusCode, Code: code, Message: message}
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s returned %d [%s] %s", ErrRemoteRejected, e.Operation, e.StatusCode, e.Code, sanitize(e.Message))
	}
	return fmt.Sprintf("%s: %s returned %d %s", ErrRemoteRejected, e.Operation, e.StatusCode, sanitize(e.Message))
}

func (e *RemoteError) Unwrap() error {
	return ErrRemoteRejected
}
