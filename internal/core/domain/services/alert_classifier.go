package services

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/alert"
	"fulfillment/internal/pkg/errs"
)

// codeCategories maps structured error codes of the order management API.
var codeCategories = map[string]alert.Category{
	"INSUFFICIENT_BALANCE":  alert.InsufficientBalance,
	"WALLET_BALANCE_LOW":    alert.InsufficientBalance,
	"PINCODE_UNSERVICEABLE": alert.UnserviceablePincode,
	"NO_COURIER_AVAILABLE":  alert.UnserviceablePincode,
	"DUPLICATE_ORDER":       alert.DuplicateOrder,
	"ORDER_ALREADY_EXISTS":  alert.DuplicateOrder,
}

// messagePatterns is the legacy fallback for responses that carry only text.
var messagePatterns = []struct {
	category alert.Category
	needles  []string
}{
	{alert.InsufficientBalance, []string{"insufficient balance", "low balance", "recharge", "wallet balance"}},
	{alert.UnserviceablePincode, []string{"not serviceable", "unserviceable", "no courier", "pincode is not"}},
	{alert.DuplicateOrder, []string{"duplicate", "already exists", "order id exists"}},
}

// AlertClassifier maps a remote failure to an alert category. Structured codes
// win over message text; text is matched only when no code is known.
type AlertClassifier struct{}

func NewAlertClassifier() AlertClassifier {
	return AlertClassifier{}
}

func (c AlertClassifier) Classify(code, message string) alert.Category {
	if category, ok := c.ClassifyCode(code); ok {
		return category
	}
	return c.ClassifyMessage(message)
}

// ClassifyCode resolves a structured error code.
func (c AlertClassifier) ClassifyCode(code string) (alert.Category, bool) {
	category, ok := codeCategories[strings.ToUpper(strings.TrimSpace(code))]
	return category, ok
}

// ClassifyMessage pattern matches free text, returning alert.Other when nothing matches.
func (c AlertClassifier) ClassifyMessage(message string) alert.Category {
	text := strings.ToLower(message)
	for _, p := range messagePatterns {
		for _, needle := range p.needles {
			if strings.Contains(text, needle) {
				return p.category
			}
		}
	}
	return alert.Other
}

// ClassifyError classifies a failed label request and returns the message
// worth showing. A missing carrier is always an unserviceable pincode.
func (c AlertClassifier) ClassifyError(err error) (alert.Category, string) {
	if errors.Is(err, errs.ErrNoServiceableCarrier) {
		return alert.UnserviceablePincode, err.Error()
	}

	var remote *errs.RemoteError
	if errors.As(err, &remote) {
		return c.Classify(remote.Code, remote.Message), remote.Message
	}
	return c.ClassifyMessage(err.Error()), err.Error()
}
