package carrierrepo

import (
	"context"

	"fulfillment/internal/core/domain/model/carrier"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormCarrierRepository struct {
	db *gorm.DB
}

func NewGormCarrierRepository(db *gorm.DB) *GormCarrierRepository {
	return &GormCarrierRepository{db: db}
}

// ListActive returns the active directory ordered by preference.
func (r *GormCarrierRepository) ListActive(ctx context.Context) ([]*carrier.Carrier, error) {
	var dtos []CarrierDTO
	err := r.db.WithContext(ctx).
		Where("status = ?", carrier.Active.String()).
		Order("priority, carrier_id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	carriers := make([]*carrier.Carrier, 0, len(dtos))
	for _, dto := range dtos {
		c, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		carriers = append(carriers, c)
	}
	return carriers, nil
}

// Upsert inserts or replaces a carrier by carrier_id.
func (r *GormCarrierRepository) Upsert(ctx context.Context, c *carrier.Carrier) error {
	if err := c.Validate(); err != nil {
		return err
	}

	dto := fromDomain(c)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "carrier_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "priority", "status"}),
	}).Create(&dto).Error
}
