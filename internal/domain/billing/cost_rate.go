package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/shared"
)

// CostCategory classifies a cost rate and the line items derived from it
type CostCategory string

const (
	// CostCategoryStorage is weekly pallet (or cubic-foot) storage
	CostCategoryStorage CostCategory = "Storage"
	// CostCategoryContainer is container unloading, charged once per container
	CostCategoryContainer CostCategory = "Container"
	// CostCategoryCarton is per-carton handling, inbound or outbound
	CostCategoryCarton CostCategory = "Carton"
	// CostCategoryPallet is per-pallet handling, inbound or outbound
	CostCategoryPallet CostCategory = "Pallet"
	// CostCategoryUnit is per-unit pick/pack handling
	CostCategoryUnit CostCategory = "Unit"
	// CostCategoryShipment is a flat charge per outbound shipment
	CostCategoryShipment CostCategory = "Shipment"
	// CostCategoryAccessorial covers ad-hoc charges (labeling, rework, etc.)
	CostCategoryAccessorial CostCategory = "Accessorial"
)

// String returns the string representation of the category
func (c CostCategory) String() string {
	return string(c)
}

// IsValid returns true if the category is a known cost category
func (c CostCategory) IsValid() bool {
	switch c {
	case CostCategoryStorage,
		CostCategoryContainer,
		CostCategoryCarton,
		CostCategoryPallet,
		CostCategoryUnit,
		CostCategoryShipment,
		CostCategoryAccessorial:
		return true
	}
	return false
}

// TransactionCostCategories are the categories applied by the transaction
// cost aggregator. Storage is billed from the ledger, not from transactions.
var TransactionCostCategories = []CostCategory{
	CostCategoryContainer,
	CostCategoryCarton,
	CostCategoryPallet,
	CostCategoryUnit,
	CostCategoryShipment,
}

// CostRate is a priced unit charge for a warehouse, effective over a time
// window. EndDate nil means open-ended.
type CostRate struct {
	shared.BaseEntity
	WarehouseID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_cost_rate_warehouse" json:"warehouse_id"`
	CostCategory  CostCategory    `gorm:"type:varchar(30);not null;index" json:"cost_category"`
	CostName      string          `gorm:"type:varchar(200);not null" json:"cost_name"`
	CostValue     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"cost_value"`
	UnitOfMeasure string          `gorm:"type:varchar(50);not null" json:"unit_of_measure"`
	EffectiveDate time.Time       `gorm:"type:timestamptz;not null;index" json:"effective_date"`
	EndDate       *time.Time      `gorm:"type:timestamptz" json:"end_date,omitempty"`
}

// TableName returns the table name for GORM
func (CostRate) TableName() string {
	return "cost_rates"
}

// NewCostRate creates a new cost rate
func NewCostRate(
	warehouseID uuid.UUID,
	category CostCategory,
	costName string,
	costValue decimal.Decimal,
	unitOfMeasure string,
	effectiveDate time.Time,
) (*CostRate, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse ID cannot be empty")
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_COST_CATEGORY", "Invalid cost category")
	}
	if costName == "" {
		return nil, shared.NewDomainError("INVALID_COST_NAME", "Cost name cannot be empty")
	}
	if costValue.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST_VALUE", "Cost value cannot be negative")
	}
	if unitOfMeasure == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit of measure cannot be empty")
	}

	return &CostRate{
		BaseEntity:    shared.NewBaseEntity(),
		WarehouseID:   warehouseID,
		CostCategory:  category,
		CostName:      costName,
		CostValue:     costValue,
		UnitOfMeasure: unitOfMeasure,
		EffectiveDate: effectiveDate,
	}, nil
}

// WithEndDate closes the rate's effective window
func (r *CostRate) WithEndDate(end time.Time) *CostRate {
	r.EndDate = &end
	return r
}

// IsApplicableAt reports whether the rate is effective at t:
// effectiveDate <= t and (endDate is unset or endDate > t).
func (r *CostRate) IsApplicableAt(t time.Time) bool {
	if r.EffectiveDate.After(t) {
		return false
	}
	return r.EndDate == nil || r.EndDate.After(t)
}

// RateCard is the set of cost rates configured for one warehouse. Resolution
// is done in memory after a single fetch.
type RateCard []CostRate

// Resolve returns the rate for the category effective at asOf, or nil when no
// rate is configured. nameContains, when non-empty, restricts candidates to
// rates whose cost name contains the substring (case-insensitive); this is how
// inbound and outbound handling rates within one category are told apart.
// Overlapping effective windows are a data-quality violation upstream; the
// rate with the latest effective date wins so resolution stays deterministic.
func (rc RateCard) Resolve(category CostCategory, nameContains string, asOf time.Time) *CostRate {
	var match *CostRate
	for i := range rc {
		rate := &rc[i]
		if rate.CostCategory != category {
			continue
		}
		if nameContains != "" && !strings.Contains(strings.ToLower(rate.CostName), strings.ToLower(nameContains)) {
			continue
		}
		if !rate.IsApplicableAt(asOf) {
			continue
		}
		if match == nil || rate.EffectiveDate.After(match.EffectiveDate) {
			match = rate
		}
	}
	return match
}
