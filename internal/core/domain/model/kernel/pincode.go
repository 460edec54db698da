package kernel

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// ErrPincodeIsNotConstructed is returned when validating a zero-value Pincode.
var ErrPincodeIsNotConstructed = errs.NewValueIsRequiredError("pincode must be created via NewPincode")

// Pincode is a six digit delivery postal code. Serviceability is looked up per
// pincode, so two orders with equal pincodes share one lookup per batch.
type Pincode struct {
	value string
}

// NewPincode trims surrounding whitespace and requires exactly six digits
// with a non-zero leading digit.
func NewPincode(raw string) (Pincode, error) {
	v := strings.TrimSpace(raw)
	if len(v) != 6 {
		return Pincode{}, errs.NewValueIsInvalidErrorWithCause("pincode", fmt.Errorf("%q is not 6 digits", raw))
	}
	for i, r := range v {
		if r < '0' || r > '9' || (i == 0 && r == '0') {
			return Pincode{}, errs.NewValueIsInvalidErrorWithCause("pincode", fmt.Errorf("%q is not a postal code", raw))
		}
	}
	return Pincode{value: v}, nil
}

// MustPincode is NewPincode for literals known to be valid; it panics otherwise.
func MustPincode(raw string) Pincode {
	p, err := NewPincode(raw)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Pincode) String() string {
	return p.value
}

func (p Pincode) IsEqual(other Pincode) bool {
	return p.value == other.value
}

func (p Pincode) Validate() error {
	if p.value == "" {
		return ErrPincodeIsNotConstructed
	}
	return nil
}

// MarshalText stores the pincode as its digits.
func (p Pincode) MarshalText() ([]byte, error) {
	return []byte(p.value), nil
}

// UnmarshalText accepts an empty value as the zero Pincode.
func (p *Pincode) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*p = Pincode{}
		return nil
	}
	parsed, err := NewPincode(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
