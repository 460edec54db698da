package vendorrepo

import (
	"context"
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormVendorRepository struct {
	db *gorm.DB
}

func NewGormVendorRepository(db *gorm.DB) *GormVendorRepository {
	return &GormVendorRepository{db: db}
}

func (r *GormVendorRepository) GetByToken(ctx context.Context, token string) (*vendor.Vendor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errs.NewValueIsRequiredError("token")
	}

	var dto VendorDTO
	if err := r.db.WithContext(ctx).First(&dto, "session_token = ?", token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("session_token", "<redacted>")
		}
		return nil, err
	}

	return toDomain(dto)
}

// Register creates or replaces a vendor session. It backs development
// seeding only; sessions are issued by the storefront.
func (r *GormVendorRepository) Register(ctx context.Context, v *vendor.Vendor, token string, active bool) error {
	dto := VendorDTO{
		WarehouseID:   v.WarehouseID(),
		Name:          v.Name(),
		SessionToken:  &token,
		ActiveSession: active,
		IsAdmin:       v.IsAdmin(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "warehouse_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "session_token", "active_session", "is_admin"}),
	}).Create(&dto).Error
}
