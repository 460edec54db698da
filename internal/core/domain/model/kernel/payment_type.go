package kernel

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// PaymentType tells whether the customer already paid or pays the carrier on delivery.
type PaymentType int

const (
	// UnknownPaymentType is the invalid zero value.
	UnknownPaymentType PaymentType = iota
	Prepaid
	COD
)

// ParsePaymentType accepts the spellings used by the storefront and the
// serviceability network ("prepaid", "Prepaid", "cod", "COD").
func ParsePaymentType(raw string) (PaymentType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "prepaid":
		return Prepaid, nil
	case "cod":
		return COD, nil
	default:
		return UnknownPaymentType, errs.NewValueIsInvalidErrorWithCause(
			"payment_type", fmt.Errorf("%q is not prepaid or cod", raw))
	}
}

func (p PaymentType) String() string {
	switch p {
	case Prepaid:
		return "prepaid"
	case COD:
		return "cod"
	default:
		return "unknown"
	}
}

func (p PaymentType) Validate() error {
	if p != Prepaid && p != COD {
		return errs.NewValueIsInvalidErrorWithCause("payment_type", fmt.Errorf("%d is not a valid payment type", p))
	}
	return nil
}

// IsCOD reports whether the carrier collects the order total on delivery.
func (p PaymentType) IsCOD() bool {
	return p == COD
}
