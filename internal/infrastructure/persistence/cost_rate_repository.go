package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/billing"
	"github.com/wms/backend/internal/domain/shared"
)

// GormCostRateRepository implements CostRateRepository using GORM
type GormCostRateRepository struct {
	db *gorm.DB
}

// NewGormCostRateRepository creates a new GormCostRateRepository
func NewGormCostRateRepository(db *gorm.DB) *GormCostRateRepository {
	return &GormCostRateRepository{db: db}
}

// FindByID finds a cost rate by its ID
func (r *GormCostRateRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.CostRate, error) {
	var rate billing.CostRate
	if err := r.db.WithContext(ctx).First(&rate, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &rate, nil
}

// FindByWarehouse returns the warehouse's rate card, optionally restricted to
// the given categories. An empty card is not an error; callers decide how to
// handle missing rates.
func (r *GormCostRateRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, categories ...billing.CostCategory) (billing.RateCard, error) {
	query := r.db.WithContext(ctx).
		Where("warehouse_id = ?", warehouseID)
	if len(categories) > 0 {
		query = query.Where("cost_category IN ?", categories)
	}

	var rates []billing.CostRate
	if err := query.
		Order("cost_category ASC, cost_name ASC, effective_date ASC").
		Find(&rates).Error; err != nil {
		return nil, err
	}
	return billing.RateCard(rates), nil
}

// FindAll finds all cost rates matching the filter
func (r *GormCostRateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.CostRate, error) {
	var rates []billing.CostRate
	query := r.applyFilter(r.db.WithContext(ctx).Model(&billing.CostRate{}), filter)

	if err := query.Find(&rates).Error; err != nil {
		return nil, err
	}
	return rates, nil
}

// Count counts cost rates matching the filter
func (r *GormCostRateRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&billing.CostRate{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a cost rate
func (r *GormCostRateRepository) Save(ctx context.Context, rate *billing.CostRate) error {
	return r.db.WithContext(ctx).Save(rate).Error
}

// Delete deletes a cost rate
func (r *GormCostRateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&billing.CostRate{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormCostRateRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("cost_category ASC, effective_date DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCostRateRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("cost_name ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "cost_category":
			query = query.Where("cost_category = ?", value)
		}
	}

	return query
}

// Ensure GormCostRateRepository implements CostRateRepository
var _ billing.CostRateRepository = (*GormCostRateRepository)(nil)
