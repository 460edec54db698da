package alertrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/alert"

	"github.com/google/uuid"
)

type AlertDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	VendorID  string    `gorm:"index;not null"`
	OrderID   string    `gorm:"index"`
	Category  string    `gorm:"size:32;not null"`
	Message   string
	CreatedAt time.Time
}

func (AlertDTO) TableName() string {
	return "vendor_alerts"
}

func fromDomain(a *alert.Alert) AlertDTO {
	return AlertDTO{
		ID:        a.ID(),
		VendorID:  a.VendorID(),
		OrderID:   a.OrderID(),
		Category:  string(a.Category()),
		Message:   a.Message(),
		CreatedAt: a.CreatedAt(),
	}
}
