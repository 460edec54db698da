// Package label models the shipping label of one physically shippable parcel.
package label

import (
	"errors"
	"strings"
	"time"

	"fulfillment/internal/pkg/errs"
)

var ErrLabelIsNotConstructed = errors.New("Label must be created via NewLabel constructor")

// Label is the carrier document for one order id (after any split). There is
// at most one label per order id.
//
// Invariants:
//   - url is non-empty only after a confirmed label-creation response
//   - awb and carrier are set together with url and cleared together with it
//   - isManifest implies a url
type Label struct {
	orderID     string
	url         string
	awb         string
	carrierID   string
	carrierName string
	handoverAt  *time.Time
	isManifest  bool
	manifestID  string

	isConstructed bool
}

// NewLabel creates an empty label row for orderID.
func NewLabel(orderID string) (*Label, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, errs.NewValueIsRequiredError("order_id")
	}
	return &Label{orderID: orderID, isConstructed: true}, nil
}

// Snapshot is the persisted state of a label.
type Snapshot struct {
	OrderID     string
	URL         string
	AWB         string
	CarrierID   string
	CarrierName string
	HandoverAt  *time.Time
	IsManifest  bool
	ManifestID  string
}

// RestoreLabel rebuilds a label from storage.
func RestoreLabel(s Snapshot) (*Label, error) {
	l, err := NewLabel(s.OrderID)
	if err != nil {
		return nil, err
	}
	if s.IsManifest && s.URL == "" {
		return nil, errs.NewValueIsInvalidErrorWithCause("is_manifest", errors.New("manifested label without url"))
	}
	l.url = s.URL
	l.awb = s.AWB
	l.carrierID = s.CarrierID
	l.carrierName = s.CarrierName
	l.handoverAt = s.HandoverAt
	l.isManifest = s.IsManifest
	l.manifestID = s.ManifestID
	return l, nil
}

func (l *Label) Snapshot() Snapshot {
	return Snapshot{
		OrderID:     l.orderID,
		URL:         l.url,
		AWB:         l.awb,
		CarrierID:   l.carrierID,
		CarrierName: l.carrierName,
		HandoverAt:  l.handoverAt,
		IsManifest:  l.isManifest,
		ManifestID:  l.manifestID,
	}
}

func (l *Label) Validate() error {
	if l == nil || !l.isConstructed {
		return ErrLabelIsNotConstructed
	}
	return nil
}

func (l *Label) OrderID() string        { return l.orderID }
func (l *Label) URL() string            { return l.url }
func (l *Label) AWB() string            { return l.awb }
func (l *Label) CarrierID() string      { return l.carrierID }
func (l *Label) CarrierName() string    { return l.carrierName }
func (l *Label) HandoverAt() *time.Time { return l.handoverAt }
func (l *Label) IsManifest() bool       { return l.isManifest }
func (l *Label) ManifestID() string     { return l.manifestID }

// IsDownloaded reports whether the label carries a usable URL.
func (l *Label) IsDownloaded() bool {
	return l.url != ""
}

// Attach stores a confirmed label. A new label resets any previous manifest.
func (l *Label) Attach(url, awb, carrierID, carrierName string) error {
	if strings.TrimSpace(url) == "" {
		return errs.NewValueIsRequiredError("label_url")
	}
	l.url = url
	l.awb = awb
	l.carrierID = carrierID
	l.carrierName = carrierName
	l.isManifest = false
	l.manifestID = ""
	l.handoverAt = nil
	return nil
}

// Clear drops the shipment details after the remote shipment was cancelled.
func (l *Label) Clear() {
	l.url = ""
	l.awb = ""
	l.carrierID = ""
	l.carrierName = ""
	l.isManifest = false
	l.manifestID = ""
	l.handoverAt = nil
}

// MarkManifested records a confirmed handover manifest.
func (l *Label) MarkManifested(manifestID string, at time.Time) error {
	if !l.IsDownloaded() {
		return errs.ErrLabelNotReady
	}
	handover := at.UTC()
	l.isManifest = true
	l.manifestID = manifestID
	l.handoverAt = &handover
	return nil
}
