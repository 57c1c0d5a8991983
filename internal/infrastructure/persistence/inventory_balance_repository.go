package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

// GormBalanceRepository implements BalanceRepository using GORM
type GormBalanceRepository struct {
	db *gorm.DB
}

// NewGormBalanceRepository creates a new GormBalanceRepository
func NewGormBalanceRepository(db *gorm.DB) *GormBalanceRepository {
	return &GormBalanceRepository{db: db}
}

// FindByKey finds the balance row for one SKU batch in a warehouse
func (r *GormBalanceRepository) FindByKey(ctx context.Context, warehouseID, skuID uuid.UUID, batchLot string) (*inventory.InventoryBalance, error) {
	var balance inventory.InventoryBalance
	if err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND sku_id = ? AND batch_lot = ?", warehouseID, skuID, batchLot).
		First(&balance).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &balance, nil
}

// FindByWarehouse returns all balance rows for a warehouse
func (r *GormBalanceRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]inventory.InventoryBalance, error) {
	var balances []inventory.InventoryBalance
	if err := r.db.WithContext(ctx).
		Where("warehouse_id = ?", warehouseID).
		Order("sku_id ASC, batch_lot ASC").
		Find(&balances).Error; err != nil {
		return nil, err
	}
	return balances, nil
}

// FindAll finds all balances matching the filter
func (r *GormBalanceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryBalance, error) {
	var balances []inventory.InventoryBalance
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.InventoryBalance{}), filter)

	if err := query.Find(&balances).Error; err != nil {
		return nil, err
	}
	return balances, nil
}

// Save creates or updates a balance row
func (r *GormBalanceRepository) Save(ctx context.Context, balance *inventory.InventoryBalance) error {
	return r.db.WithContext(ctx).Save(balance).Error
}

// applyFilter applies filter options to the query
func (r *GormBalanceRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("batch_lot ILIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "sku_id":
			query = query.Where("sku_id = ?", value)
		}
	}

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
		query = query.Order("warehouse_id ASC, sku_id ASC, batch_lot ASC")
	}

	return query
}

// Ensure GormBalanceRepository implements BalanceRepository
var _ inventory.BalanceRepository = (*GormBalanceRepository)(nil)
