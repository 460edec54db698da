package carrierrepo

import (
	"fulfillment/internal/core/domain/model/carrier"
)

type CarrierDTO struct {
	CarrierID string `gorm:"primaryKey"`
	Name      string `gorm:"not null"`
	Priority  int    `gorm:"not null"`
	Status    string `gorm:"size:16;not null;index"`
}

func (CarrierDTO) TableName() string {
	return "carriers"
}

func fromDomain(c *carrier.Carrier) CarrierDTO {
	return CarrierDTO{
		CarrierID: c.ID(),
		Name:      c.Name(),
		Priority:  c.Priority(),
		Status:    c.Status().String(),
	}
}

func toDomain(dto CarrierDTO) (*carrier.Carrier, error) {
	status, err := carrier.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}
	return carrier.NewCarrier(dto.CarrierID, dto.Name, dto.Priority, status)
}
