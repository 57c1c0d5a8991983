package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/shared"
)

// GormSkuRepository implements SkuRepository using GORM
type GormSkuRepository struct {
	db *gorm.DB
}

// NewGormSkuRepository creates a new GormSkuRepository
func NewGormSkuRepository(db *gorm.DB) *GormSkuRepository {
	return &GormSkuRepository{db: db}
}

// FindByID finds a SKU by its ID
func (r *GormSkuRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Sku, error) {
	var sku catalog.Sku
	if err := r.db.WithContext(ctx).First(&sku, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sku, nil
}

// FindByCode finds a SKU by its code
func (r *GormSkuRepository) FindByCode(ctx context.Context, skuCode string) (*catalog.Sku, error) {
	var sku catalog.Sku
	if err := r.db.WithContext(ctx).
		Where("sku_code = ?", skuCode).
		First(&sku).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sku, nil
}

// FindAll finds all SKUs matching the filter
func (r *GormSkuRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Sku, error) {
	var skus []catalog.Sku
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Sku{}), filter)

	if err := query.Find(&skus).Error; err != nil {
		return nil, err
	}
	return skus, nil
}

// Count counts SKUs matching the filter
func (r *GormSkuRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.Sku{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a SKU
func (r *GormSkuRepository) Save(ctx context.Context, sku *catalog.Sku) error {
	return r.db.WithContext(ctx).Save(sku).Error
}

// Delete deletes a SKU
func (r *GormSkuRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Sku{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormSkuRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("sku_code ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSkuRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("sku_code ILIKE ? OR description ILIKE ?",
			searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "is_active":
			query = query.Where("is_active = ?", value)
		}
	}

	return query
}

// Ensure GormSkuRepository implements SkuRepository
var _ catalog.SkuRepository = (*GormSkuRepository)(nil)
