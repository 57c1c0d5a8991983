package partner

import (
	"strings"

	"github.com/wms/backend/internal/domain/shared"
)

// WarehouseType distinguishes self-operated facilities from Amazon FBA
// warehouses, which are billed by cubic foot instead of by pallet.
type WarehouseType string

const (
	// WarehouseTypeStandard is a regular 3PL facility billed per pallet-week
	WarehouseTypeStandard WarehouseType = "standard"
	// WarehouseTypeAmazonFBA is an Amazon fulfillment center billed per cubic foot
	WarehouseTypeAmazonFBA WarehouseType = "amazon_fba"
)

// IsValid returns true if the warehouse type is valid
func (t WarehouseType) IsValid() bool {
	return t == WarehouseTypeStandard || t == WarehouseTypeAmazonFBA
}

// WarehouseStatus represents the lifecycle status of a warehouse
type WarehouseStatus string

const (
	WarehouseStatusActive   WarehouseStatus = "active"
	WarehouseStatusInactive WarehouseStatus = "inactive"
)

// Warehouse is a storage facility that inventory moves through and that cost
// rates are configured against.
type Warehouse struct {
	shared.BaseEntity
	Code        string          `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Name        string          `gorm:"type:varchar(200);not null" json:"name"`
	Type        WarehouseType   `gorm:"type:varchar(30);not null" json:"type"`
	ContactName string          `gorm:"type:varchar(100)" json:"contact_name,omitempty"`
	Email       string          `gorm:"type:varchar(200)" json:"email,omitempty"`
	Address     string          `gorm:"type:varchar(500)" json:"address,omitempty"`
	Status      WarehouseStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	IsDefault   bool            `gorm:"not null;default:false" json:"is_default"`
	Notes       string          `gorm:"type:text" json:"notes,omitempty"`
}

// TableName returns the table name for GORM
func (Warehouse) TableName() string {
	return "warehouses"
}

// NewWarehouse creates a new warehouse
func NewWarehouse(code, name string, whType WarehouseType) (*Warehouse, error) {
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Warehouse code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Warehouse name cannot be empty")
	}
	if !whType.IsValid() {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE_TYPE", "Invalid warehouse type")
	}

	return &Warehouse{
		BaseEntity: shared.NewBaseEntity(),
		Code:       code,
		Name:       name,
		Type:       whType,
		Status:     WarehouseStatusActive,
	}, nil
}

// IsActive returns true if the warehouse is active
func (w *Warehouse) IsActive() bool {
	return w.Status == WarehouseStatusActive
}

// IsAmazonFBA reports whether storage at this warehouse is billed by cubic
// foot. Legacy records predate the Type column and are recognized by code or
// name instead.
func (w *Warehouse) IsAmazonFBA() bool {
	if w.Type == WarehouseTypeAmazonFBA {
		return true
	}
	return strings.Contains(w.Code, "AMZN") || strings.Contains(strings.ToLower(w.Name), "amazon")
}

// Disable marks the warehouse inactive
func (w *Warehouse) Disable() {
	w.Status = WarehouseStatusInactive
}

// Enable marks the warehouse active
func (w *Warehouse) Enable() {
	w.Status = WarehouseStatusActive
}
