package orderlinerepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/orderline"
	"fulfillment/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type GormOrderLineRepository struct {
	db *gorm.DB
}

func NewGormOrderLineRepository(db *gorm.DB) *GormOrderLineRepository {
	return &GormOrderLineRepository{db: db}
}

func (r *GormOrderLineRepository) Add(ctx context.Context, aggregate *orderline.OrderLine) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update writes every column, nil pointers included.
func (r *GormOrderLineRepository) Update(ctx context.Context, aggregate *orderline.OrderLine) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderLineDTO{}).
		Where("unique_id = ?", dto.UniqueID).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("unique_id", dto.UniqueID)
	}

	return nil
}

// UpdateIfStatus is a compare-and-swap on the stored status. When no row
// matches it re-reads to tell a missing line from a concurrent transition.
func (r *GormOrderLineRepository) UpdateIfStatus(
	ctx context.Context,
	aggregate *orderline.OrderLine,
	expected orderline.ClaimStatus,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&OrderLineDTO{}).
		Where("unique_id = ? AND status = ?", dto.UniqueID, expected.String()).
		Select("*").
		Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		var current OrderLineDTO
		err := r.db.WithContext(ctx).Select("status").First(&current, "unique_id = ?", dto.UniqueID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewObjectNotFoundError("unique_id", dto.UniqueID)
		}
		if err != nil {
			return err
		}
		return errs.NewInvalidStateError(dto.UniqueID, current.Status, "update from "+expected.String())
	}

	return nil
}

func (r *GormOrderLineRepository) Get(ctx context.Context, uniqueID string) (*orderline.OrderLine, error) {
	if uniqueID == "" {
		return nil, errs.NewValueIsRequiredError("unique_id")
	}

	var dto OrderLineDTO
	if err := r.db.WithContext(ctx).First(&dto, "unique_id = ?", uniqueID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("unique_id", uniqueID)
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderLineRepository) ListByUniqueIDs(ctx context.Context, uniqueIDs []string) ([]*orderline.OrderLine, error) {
	if len(uniqueIDs) == 0 {
		return []*orderline.OrderLine{}, nil
	}

	var dtos []OrderLineDTO
	err := r.db.WithContext(ctx).
		Where("unique_id = ANY(?)", pq.Array(uniqueIDs)).
		Order("unique_id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

func (r *GormOrderLineRepository) ListByOrderID(ctx context.Context, orderID string) ([]*orderline.OrderLine, error) {
	var dtos []OrderLineDTO
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("unique_id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

// ListByStatus returns lines in status, restricted to vendorID unless it is empty.
func (r *GormOrderLineRepository) ListByStatus(
	ctx context.Context,
	status orderline.ClaimStatus,
	vendorID string,
) ([]*orderline.OrderLine, error) {
	q := r.db.WithContext(ctx).Where("status = ?", status.String())
	if vendorID != "" {
		q = q.Where("claimed_by = ?", vendorID)
	}

	var dtos []OrderLineDTO
	if err := q.Order("order_id, unique_id").Find(&dtos).Error; err != nil {
		return nil, err
	}

	return toDomainList(dtos)
}

func (r *GormOrderLineRepository) OrderIDExists(ctx context.Context, orderID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&OrderLineDTO{}).
		Where("order_id = ? OR cloned_order_id = ?", orderID, orderID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ReleaseExpired unclaims, in one statement, claimed lines without a label
// whose claim is older than cutoff. Claim history columns are left alone.
func (r *GormOrderLineRepository) ReleaseExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&OrderLineDTO{}).
		Where("status = ? AND label_downloaded = ? AND claimed_at < ?", orderline.Claimed.String(), false, cutoff).
		Updates(map[string]any{
			"status":     orderline.Unclaimed.String(),
			"claimed_by": nil,
			"claimed_at": nil,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
