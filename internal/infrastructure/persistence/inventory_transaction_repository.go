package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

// GormTransactionRepository implements TransactionRepository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryTransaction, error) {
	var tx inventory.InventoryTransaction
	if err := r.db.WithContext(ctx).
		Preload("Sku").
		First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindByWarehouseAndDateRange returns the warehouse's transactions dated in
// [from, to] ascending, with Sku preloaded for downstream cost aggregation.
func (r *GormTransactionRepository) FindByWarehouseAndDateRange(ctx context.Context, warehouseID uuid.UUID, from, to time.Time) ([]inventory.InventoryTransaction, error) {
	var transactions []inventory.InventoryTransaction
	if err := r.db.WithContext(ctx).
		Preload("Sku").
		Where("warehouse_id = ? AND transaction_date >= ? AND transaction_date <= ?",
			warehouseID, from, to).
		Order("transaction_date ASC, created_at ASC").
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// FindByBatchUpTo returns one SKU batch's transactions dated on or before
// until, ascending. Balance replay depends on this ordering.
func (r *GormTransactionRepository) FindByBatchUpTo(ctx context.Context, warehouseID, skuID uuid.UUID, batchLot string, until time.Time) ([]inventory.InventoryTransaction, error) {
	var transactions []inventory.InventoryTransaction
	if err := r.db.WithContext(ctx).
		Where("warehouse_id = ? AND sku_id = ? AND batch_lot = ? AND transaction_date <= ?",
			warehouseID, skuID, batchLot, until).
		Order("transaction_date ASC, created_at ASC").
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// FindBatchesWithActivity returns the distinct (sku, batch) pairs with any
// transaction in the warehouse dated on or before until
func (r *GormTransactionRepository) FindBatchesWithActivity(ctx context.Context, warehouseID uuid.UUID, until time.Time) ([]inventory.BatchKey, error) {
	var keys []inventory.BatchKey
	if err := r.db.WithContext(ctx).
		Model(&inventory.InventoryTransaction{}).
		Distinct("sku_id", "batch_lot").
		Where("warehouse_id = ? AND transaction_date <= ?", warehouseID, until).
		Order("sku_id ASC, batch_lot ASC").
		Find(&keys).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

// FindAll finds all transactions matching the filter
func (r *GormTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryTransaction, error) {
	var transactions []inventory.InventoryTransaction
	query := r.applyFilter(r.db.WithContext(ctx).Model(&inventory.InventoryTransaction{}).Preload("Sku"), filter)

	if err := query.Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// Count counts transactions matching the filter
func (r *GormTransactionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.InventoryTransaction{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a transaction
func (r *GormTransactionRepository) Save(ctx context.Context, tx *inventory.InventoryTransaction) error {
	return r.db.WithContext(ctx).Omit("Warehouse", "Sku").Save(tx).Error
}

// applyFilter applies filter options to the query
func (r *GormTransactionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("transaction_date DESC, created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormTransactionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("reference_id ILIKE ? OR tracking_number ILIKE ? OR batch_lot ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "warehouse_id":
			query = query.Where("warehouse_id = ?", value)
		case "sku_id":
			query = query.Where("sku_id = ?", value)
		case "transaction_type":
			query = query.Where("transaction_type = ?", value)
		case "batch_lot":
			query = query.Where("batch_lot = ?", value)
		}
	}

	return query
}

// Ensure GormTransactionRepository implements TransactionRepository
var _ inventory.TransactionRepository = (*GormTransactionRepository)(nil)
