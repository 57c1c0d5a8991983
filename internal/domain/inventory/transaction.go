package inventory

import (
	"time"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/shared"
)

// TransactionType represents the type of inventory movement
type TransactionType string

const (
	// TransactionTypeReceive is inbound goods arriving at the warehouse
	TransactionTypeReceive TransactionType = "RECEIVE"
	// TransactionTypeShip is outbound goods leaving the warehouse
	TransactionTypeShip TransactionType = "SHIP"
	// TransactionTypeAdjustIn is a positive stock correction
	TransactionTypeAdjustIn TransactionType = "ADJUST_IN"
	// TransactionTypeAdjustOut is a negative stock correction
	TransactionTypeAdjustOut TransactionType = "ADJUST_OUT"
)

// String returns the string representation of the transaction type
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeReceive, TransactionTypeShip, TransactionTypeAdjustIn, TransactionTypeAdjustOut:
		return true
	}
	return false
}

// IsInbound returns true for movements that add stock
func (t TransactionType) IsInbound() bool {
	return t == TransactionTypeReceive || t == TransactionTypeAdjustIn
}

// IsOutbound returns true for movements that remove stock
func (t TransactionType) IsOutbound() bool {
	return t == TransactionTypeShip || t == TransactionTypeAdjustOut
}

// InventoryTransaction is one inventory movement for a SKU batch in a
// warehouse. Transactions are the source of truth for both stock balances and
// transaction-based billing: receives carry container and inbound handling
// quantities, ships carry shipment and outbound handling quantities.
type InventoryTransaction struct {
	shared.BaseEntity
	TransactionType TransactionType `gorm:"type:varchar(20);not null;index" json:"transaction_type"`
	TransactionDate time.Time       `gorm:"type:timestamptz;not null;index:idx_inv_tx_wh_date" json:"transaction_date"`
	WarehouseID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_inv_tx_wh_date" json:"warehouse_id"`
	SkuID           uuid.UUID       `gorm:"type:uuid;not null;index" json:"sku_id"`
	BatchLot        string          `gorm:"type:varchar(100);not null;index" json:"batch_lot"`
	// ReferenceID groups outbound transactions into shipments (order or
	// pick-list number). TrackingNumber identifies the inbound container.
	ReferenceID    string `gorm:"type:varchar(100)" json:"reference_id,omitempty"`
	TrackingNumber string `gorm:"type:varchar(100)" json:"tracking_number,omitempty"`

	CartonsIn          int `gorm:"not null;default:0" json:"cartons_in"`
	CartonsOut         int `gorm:"not null;default:0" json:"cartons_out"`
	StoragePalletsIn   int `gorm:"not null;default:0" json:"storage_pallets_in"`
	ShippingPalletsOut int `gorm:"not null;default:0" json:"shipping_pallets_out"`

	// Pallet build recorded at transaction time. Zero means not captured;
	// billing falls back to the SKU default.
	StorageCartonsPerPallet  int `gorm:"default:0" json:"storage_cartons_per_pallet,omitempty"`
	ShippingCartonsPerPallet int `gorm:"default:0" json:"shipping_cartons_per_pallet,omitempty"`

	Notes string `gorm:"type:text" json:"notes,omitempty"`

	Warehouse *partner.Warehouse `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
	Sku       *catalog.Sku       `gorm:"foreignKey:SkuID" json:"sku,omitempty"`
}

// TableName returns the table name for GORM
func (InventoryTransaction) TableName() string {
	return "inventory_transactions"
}

// NewInventoryTransaction creates a new inventory transaction
func NewInventoryTransaction(
	txType TransactionType,
	warehouseID uuid.UUID,
	skuID uuid.UUID,
	batchLot string,
	transactionDate time.Time,
) (*InventoryTransaction, error) {
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid transaction type")
	}
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if skuID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU ID cannot be empty")
	}
	if batchLot == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_LOT", "Batch lot cannot be empty")
	}
	if transactionDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Transaction date cannot be empty")
	}

	return &InventoryTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		TransactionType: txType,
		TransactionDate: transactionDate,
		WarehouseID:     warehouseID,
		SkuID:           skuID,
		BatchLot:        batchLot,
	}, nil
}

// WithInbound sets received quantities on an inbound transaction
func (t *InventoryTransaction) WithInbound(cartons, storagePallets int) *InventoryTransaction {
	t.CartonsIn = cartons
	t.StoragePalletsIn = storagePallets
	return t
}

// WithOutbound sets shipped quantities on an outbound transaction
func (t *InventoryTransaction) WithOutbound(cartons, shippingPallets int) *InventoryTransaction {
	t.CartonsOut = cartons
	t.ShippingPalletsOut = shippingPallets
	return t
}

// WithReference sets the shipment reference
func (t *InventoryTransaction) WithReference(referenceID string) *InventoryTransaction {
	t.ReferenceID = referenceID
	return t
}

// WithTrackingNumber sets the container tracking number
func (t *InventoryTransaction) WithTrackingNumber(trackingNumber string) *InventoryTransaction {
	t.TrackingNumber = trackingNumber
	return t
}

// WithPalletConfig records the pallet build observed at transaction time
func (t *InventoryTransaction) WithPalletConfig(storageCartonsPerPallet, shippingCartonsPerPallet int) *InventoryTransaction {
	t.StorageCartonsPerPallet = storageCartonsPerPallet
	t.ShippingCartonsPerPallet = shippingCartonsPerPallet
	return t
}

// Validate checks that quantities are consistent with the transaction type
func (t *InventoryTransaction) Validate() error {
	if t.CartonsIn < 0 || t.CartonsOut < 0 || t.StoragePalletsIn < 0 || t.ShippingPalletsOut < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantities cannot be negative")
	}
	if t.TransactionType.IsInbound() && t.CartonsOut > 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Inbound transactions cannot ship cartons")
	}
	if t.TransactionType.IsOutbound() && t.CartonsIn > 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Outbound transactions cannot receive cartons")
	}
	if t.TransactionType.IsInbound() && t.CartonsIn == 0 && t.StoragePalletsIn == 0 {
		return shared.NewDomainError("EMPTY_TRANSACTION", "Inbound transaction must move at least one carton or pallet")
	}
	if t.TransactionType.IsOutbound() && t.CartonsOut == 0 && t.ShippingPalletsOut == 0 {
		return shared.NewDomainError("EMPTY_TRANSACTION", "Outbound transaction must move at least one carton or pallet")
	}
	return nil
}
