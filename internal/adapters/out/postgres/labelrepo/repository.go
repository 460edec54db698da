package labelrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/label"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormLabelRepository struct {
	db *gorm.DB
}

func NewGormLabelRepository(db *gorm.DB) *GormLabelRepository {
	return &GormLabelRepository{db: db}
}

func (r *GormLabelRepository) Get(ctx context.Context, orderID string) (*label.Label, error) {
	var dto LabelDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("label", orderID)
		}
		return nil, err
	}

	return toDomain(dto)
}

// Save upserts by order_id, the one label per order.
func (r *GormLabelRepository) Save(ctx context.Context, l *label.Label) error {
	if err := l.Validate(); err != nil {
		return err
	}

	dto := fromDomain(l)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"label_url", "awb", "carrier_id", "carrier_name",
			"handover_at", "is_manifest", "manifest_id", "updated_at",
		}),
	}).Create(&dto).Error
	return err
}
