package alertrepo

import (
	"context"

	"fulfillment/internal/core/domain/model/alert"

	"gorm.io/gorm"
)

type GormAlertRepository struct {
	db *gorm.DB
}

func NewGormAlertRepository(db *gorm.DB) *GormAlertRepository {
	return &GormAlertRepository{db: db}
}

func (r *GormAlertRepository) Add(ctx context.Context, a *alert.Alert) error {
	dto := fromDomain(a)
	return r.db.WithContext(ctx).Create(&dto).Error
}
