package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/shared"
)

// StorageLedgerEntry is one weekly storage snapshot: the pallets (or cubic
// feet) a SKU batch occupied in a warehouse at end of Monday, priced at the
// weekly rate effective that day. Entries are generated per billing period
// and re-generation upserts on SlID, so the ledger is idempotent.
type StorageLedgerEntry struct {
	shared.BaseEntity
	// SlID is the natural key: SL-<monday>-<warehouse>-<sku>-<batch>
	SlID                  string             `gorm:"type:varchar(300);not null;uniqueIndex" json:"sl_id"`
	WeekEndingDate        time.Time          `gorm:"type:date;not null;index" json:"week_ending_date"`
	WarehouseID           uuid.UUID          `gorm:"type:uuid;not null;index:idx_storage_ledger_wh_period" json:"warehouse_id"`
	SkuID                 uuid.UUID          `gorm:"type:uuid;not null;index" json:"sku_id"`
	BatchLot              string             `gorm:"type:varchar(100);not null" json:"batch_lot"`
	CartonsEndOfMonday    int                `gorm:"not null" json:"cartons_end_of_monday"`
	StoragePalletsCharged int                `gorm:"not null" json:"storage_pallets_charged"`
	ApplicableWeeklyRate  decimal.Decimal    `gorm:"type:decimal(18,4);not null" json:"applicable_weekly_rate"`
	CalculatedWeeklyCost  decimal.Decimal    `gorm:"type:decimal(18,4);not null" json:"calculated_weekly_cost"`
	BillingPeriodStart    time.Time          `gorm:"type:timestamptz;not null;index:idx_storage_ledger_wh_period" json:"billing_period_start"`
	BillingPeriodEnd      time.Time          `gorm:"type:timestamptz;not null" json:"billing_period_end"`
	Warehouse             *partner.Warehouse `gorm:"foreignKey:WarehouseID" json:"warehouse,omitempty"`
	Sku                   *catalog.Sku       `gorm:"foreignKey:SkuID" json:"sku,omitempty"`
}

// TableName returns the table name for GORM
func (StorageLedgerEntry) TableName() string {
	return "storage_ledger"
}

// NewStorageLedgerEntry creates a weekly snapshot entry. palletsCharged is the
// billable quantity for the week: whole pallets for standard warehouses,
// cubic feet rounded up for Amazon FBA. Cost is palletsCharged x weeklyRate.
func NewStorageLedgerEntry(
	warehouse *partner.Warehouse,
	sku *catalog.Sku,
	batchLot string,
	weekEnding time.Time,
	period BillingPeriod,
	cartonsEndOfMonday int,
	palletsCharged int,
	weeklyRate decimal.Decimal,
) (*StorageLedgerEntry, error) {
	if warehouse == nil {
		return nil, shared.NewDomainError("INVALID_WAREHOUSE", "Warehouse cannot be nil")
	}
	if sku == nil {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be nil")
	}
	if cartonsEndOfMonday < 0 || palletsCharged < 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Snapshot quantities cannot be negative")
	}
	if weeklyRate.IsNegative() {
		return nil, shared.NewDomainError("INVALID_RATE", "Weekly rate cannot be negative")
	}

	return &StorageLedgerEntry{
		BaseEntity:            shared.NewBaseEntity(),
		SlID:                  StorageLedgerID(weekEnding, warehouse.Code, sku.SkuCode, batchLot),
		WeekEndingDate:        weekEnding,
		WarehouseID:           warehouse.ID,
		SkuID:                 sku.ID,
		BatchLot:              batchLot,
		CartonsEndOfMonday:    cartonsEndOfMonday,
		StoragePalletsCharged: palletsCharged,
		ApplicableWeeklyRate:  weeklyRate,
		CalculatedWeeklyCost:  weeklyRate.Mul(decimal.NewFromInt(int64(palletsCharged))),
		BillingPeriodStart:    period.Start,
		BillingPeriodEnd:      period.End,
		Warehouse:             warehouse,
		Sku:                   sku,
	}, nil
}

// StorageLedgerID builds the natural key an entry is upserted on.
func StorageLedgerID(weekEnding time.Time, warehouseCode, skuCode, batchLot string) string {
	return fmt.Sprintf("SL-%s-%s-%s-%s", weekEnding.Format("2006-01-02"), warehouseCode, skuCode, batchLot)
}
