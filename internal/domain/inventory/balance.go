package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/shared"
)

// InventoryBalance is the current stock position of a SKU batch in a
// warehouse, maintained as transactions are recorded. One row per
// (warehouse, sku, batch).
type InventoryBalance struct {
	shared.BaseEntity
	WarehouseID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_balance_wh_sku_batch" json:"warehouse_id"`
	SkuID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_balance_wh_sku_batch" json:"sku_id"`
	BatchLot       string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_balance_wh_sku_batch" json:"batch_lot"`
	CurrentCartons int       `gorm:"not null;default:0" json:"current_cartons"`
	CurrentPallets int       `gorm:"not null;default:0" json:"current_pallets"`
	CurrentUnits   int       `gorm:"not null;default:0" json:"current_units"`
	// Pallet build carried on the balance, captured from the first receive.
	// Preferred source for storage billing; zero means not captured.
	StorageCartonsPerPallet  int        `gorm:"default:0" json:"storage_cartons_per_pallet,omitempty"`
	ShippingCartonsPerPallet int        `gorm:"default:0" json:"shipping_cartons_per_pallet,omitempty"`
	LastTransactionAt        *time.Time `gorm:"type:timestamptz" json:"last_transaction_at,omitempty"`

	Warehouse *partner.Warehouse `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
	Sku       *catalog.Sku       `gorm:"foreignKey:SkuID" json:"sku,omitempty"`
}

// TableName returns the table name for GORM
func (InventoryBalance) TableName() string {
	return "inventory_balances"
}

// NewInventoryBalance creates an empty balance for a SKU batch
func NewInventoryBalance(warehouseID, skuID uuid.UUID, batchLot string) (*InventoryBalance, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if skuID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU ID cannot be empty")
	}
	if batchLot == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_LOT", "Batch lot cannot be empty")
	}

	return &InventoryBalance{
		BaseEntity:  shared.NewBaseEntity(),
		WarehouseID: warehouseID,
		SkuID:       skuID,
		BatchLot:    batchLot,
	}, nil
}

// Apply folds a transaction into the balance. Stock never goes negative:
// over-shipments clamp to zero rather than fail, matching how corrections
// arrive from the floor.
func (b *InventoryBalance) Apply(tx *InventoryTransaction, unitsPerCarton int) {
	b.CurrentCartons += tx.CartonsIn - tx.CartonsOut
	b.CurrentPallets += tx.StoragePalletsIn - tx.ShippingPalletsOut
	if b.CurrentCartons < 0 {
		b.CurrentCartons = 0
	}
	if b.CurrentPallets < 0 {
		b.CurrentPallets = 0
	}
	if unitsPerCarton > 0 {
		b.CurrentUnits = b.CurrentCartons * unitsPerCarton
	}
	if tx.StorageCartonsPerPallet > 0 && b.StorageCartonsPerPallet == 0 {
		b.StorageCartonsPerPallet = tx.StorageCartonsPerPallet
	}
	if tx.ShippingCartonsPerPallet > 0 && b.ShippingCartonsPerPallet == 0 {
		b.ShippingCartonsPerPallet = tx.ShippingCartonsPerPallet
	}
	when := tx.TransactionDate
	b.LastTransactionAt = &when
}

// CartonBalanceAsOf replays transactions for one SKU batch and returns the
// carton count at end of day on asOf. Transactions must all belong to the
// same (warehouse, sku, batch); later-dated ones are ignored. The running
// balance is floored at zero.
func CartonBalanceAsOf(transactions []InventoryTransaction, asOf time.Time) int {
	cutoff := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 23, 59, 59, 0, asOf.Location())

	balance := 0
	for i := range transactions {
		tx := &transactions[i]
		if tx.TransactionDate.After(cutoff) {
			continue
		}
		balance += tx.CartonsIn - tx.CartonsOut
		if balance < 0 {
			balance = 0
		}
	}
	return balance
}
