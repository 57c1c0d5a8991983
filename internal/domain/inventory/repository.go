package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// TransactionRepository defines the persistence interface for inventory
// transactions
type TransactionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryTransaction, error)
	// FindByWarehouseAndDateRange returns the warehouse's transactions with
	// TransactionDate in [from, to], ordered by date ascending, with Sku
	// preloaded.
	FindByWarehouseAndDateRange(ctx context.Context, warehouseID uuid.UUID, from, to time.Time) ([]InventoryTransaction, error)
	// FindByBatchUpTo returns one SKU batch's transactions dated on or before
	// until, ordered by date ascending. Used for balance replay.
	FindByBatchUpTo(ctx context.Context, warehouseID, skuID uuid.UUID, batchLot string, until time.Time) ([]InventoryTransaction, error)
	// FindBatchesWithActivity returns the distinct (sku, batch) pairs that
	// have any transaction in the warehouse dated on or before until.
	FindBatchesWithActivity(ctx context.Context, warehouseID uuid.UUID, until time.Time) ([]BatchKey, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryTransaction, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, tx *InventoryTransaction) error
}

// BatchKey identifies one SKU batch within a warehouse
type BatchKey struct {
	SkuID    uuid.UUID
	BatchLot string
}

// BalanceRepository defines the persistence interface for inventory balances
type BalanceRepository interface {
	FindByKey(ctx context.Context, warehouseID, skuID uuid.UUID, batchLot string) (*InventoryBalance, error)
	FindByWarehouse(ctx context.Context, warehouseID uuid.UUID) ([]InventoryBalance, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]InventoryBalance, error)
	Save(ctx context.Context, balance *InventoryBalance) error
}
