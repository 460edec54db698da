// Package carrier models the shipping partners known to the local carrier directory.
package carrier

import (
	"errors"
	"fmt"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var ErrCarrierIsNotConstructed = errors.New("Carrier must be created via NewCarrier constructor")

// Status tells whether a carrier may be selected for new labels.
type Status int

const (
	UnknownStatus Status = iota
	Active
	Inactive
)

func (s Status) String() string {
	switch s {
	case Active:
		return "active"
	case Inactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// ParseStatus maps the persisted spelling to a Status.
func ParseStatus(raw string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "active":
		return Active, nil
	case "inactive":
		return Inactive, nil
	default:
		return UnknownStatus, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a carrier status", raw))
	}
}

// Carrier is a directory entry. Lower priority values are preferred.
type Carrier struct {
	id       string
	name     string
	priority int
	status   Status

	isConstructed bool
}

func NewCarrier(id, name string, priority int, status Status) (*Carrier, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errs.NewValueIsRequiredError("carrier_id")
	}
	if priority < 0 {
		return nil, errs.NewValueIsOutOfRangeError("priority", priority, 0, "unbounded")
	}
	if status != Active && status != Inactive {
		return nil, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a carrier status", status))
	}
	return &Carrier{id: id, name: name, priority: priority, status: status, isConstructed: true}, nil
}

func (c *Carrier) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCarrierIsNotConstructed
	}
	return nil
}

func (c *Carrier) ID() string {
	return c.id
}

func (c *Carrier) Name() string {
	return c.name
}

func (c *Carrier) Priority() int {
	return c.priority
}

func (c *Carrier) Status() Status {
	return c.status
}

func (c *Carrier) IsActive() bool {
	return c.status == Active
}

// Outranks reports whether c is preferred over other: lower priority wins and
// equal priorities fall back to the carrier id in ascending order.
func (c *Carrier) Outranks(other *Carrier) bool {
	if other == nil {
		return true
	}
	if c.priority != other.priority {
		return c.priority < other.priority
	}
	return c.id < other.id
}

// Offer is one serviceability answer: carrierID ships to the queried pincode
// for the given payment type.
type Offer struct {
	CarrierID   string
	Name        string
	PaymentType kernel.PaymentType
}
