package labelrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/label"
)

type LabelDTO struct {
	ID          uint   `gorm:"primaryKey"`
	OrderID     string `gorm:"uniqueIndex;not null"`
	LabelURL    *string
	AWB         *string
	CarrierID   *string
	CarrierName *string
	HandoverAt  *time.Time
	IsManifest  bool `gorm:"not null;default:false"`
	ManifestID  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (LabelDTO) TableName() string {
	return "labels"
}

func fromDomain(l *label.Label) LabelDTO {
	s := l.Snapshot()
	return LabelDTO{
		OrderID:     s.OrderID,
		LabelURL:    nullable(s.URL),
		AWB:         nullable(s.AWB),
		CarrierID:   nullable(s.CarrierID),
		CarrierName: nullable(s.CarrierName),
		HandoverAt:  s.HandoverAt,
		IsManifest:  s.IsManifest,
		ManifestID:  nullable(s.ManifestID),
	}
}

func toDomain(dto LabelDTO) (*label.Label, error) {
	return label.RestoreLabel(label.Snapshot{
		OrderID:     dto.OrderID,
		URL:         value(dto.LabelURL),
		AWB:         value(dto.AWB),
		CarrierID:   value(dto.CarrierID),
		CarrierName: value(dto.CarrierName),
		HandoverAt:  dto.HandoverAt,
		IsManifest:  dto.IsManifest,
		ManifestID:  value(dto.ManifestID),
	})
}

// label_url stays NULL until a label is confirmed.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func value(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
