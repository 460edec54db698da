package vendorrepo

import (
	"fulfillment/internal/core/domain/model/vendor"
)

type VendorDTO struct {
	WarehouseID   string `gorm:"primaryKey"`
	Name          string
	SessionToken  *string `gorm:"uniqueIndex"`
	ActiveSession bool    `gorm:"not null;default:false"`
	IsAdmin       bool    `gorm:"not null;default:false"`
}

func (VendorDTO) TableName() string {
	return "vendors"
}

func toDomain(dto VendorDTO) (*vendor.Vendor, error) {
	return vendor.NewVendor(dto.WarehouseID, dto.Name, dto.ActiveSession, dto.IsAdmin)
}
