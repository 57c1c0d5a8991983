package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wms/backend/internal/domain/billing"
	"github.com/wms/backend/internal/domain/shared"
)

// GormStorageLedgerRepository implements StorageLedgerRepository using GORM
type GormStorageLedgerRepository struct {
	db *gorm.DB
}

// NewGormStorageLedgerRepository creates a new GormStorageLedgerRepository
func NewGormStorageLedgerRepository(db *gorm.DB) *GormStorageLedgerRepository {
	return &GormStorageLedgerRepository{db: db}
}

// FindBySlID finds a ledger entry by its natural key
func (r *GormStorageLedgerRepository) FindBySlID(ctx context.Context, slID string) (*billing.StorageLedgerEntry, error) {
	var entry billing.StorageLedgerEntry
	if err := r.db.WithContext(ctx).
		Where("sl_id = ?", slID).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindForPeriod returns the warehouse's entries bucketed into the period,
// ordered by week then SKU for stable aggregation. Entries carry their billing
// period columns from generation time; matching on those keeps boundary weeks
// with the period they were snapshotted into.
func (r *GormStorageLedgerRepository) FindForPeriod(ctx context.Context, warehouseID uuid.UUID, period billing.BillingPeriod) ([]billing.StorageLedgerEntry, error) {
	var entries []billing.StorageLedgerEntry
	if err := r.db.WithContext(ctx).
		Preload("Warehouse").
		Preload("Sku").
		Where("warehouse_id = ? AND billing_period_start = ? AND billing_period_end = ?",
			warehouseID, period.Start, period.End).
		Order("week_ending_date ASC, sku_id ASC, batch_lot ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Upsert inserts the entry or replaces the existing row with the same SlID.
// Re-running a period's snapshot generation is idempotent because of this.
func (r *GormStorageLedgerRepository) Upsert(ctx context.Context, entry *billing.StorageLedgerEntry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "sl_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"week_ending_date",
				"cartons_end_of_monday",
				"storage_pallets_charged",
				"applicable_weekly_rate",
				"calculated_weekly_cost",
				"billing_period_start",
				"billing_period_end",
				"updated_at",
			}),
		}).
		Omit("Warehouse", "Sku").
		Create(entry).Error
}

// DeleteForPeriod removes all of the warehouse's entries for the period
func (r *GormStorageLedgerRepository) DeleteForPeriod(ctx context.Context, warehouseID uuid.UUID, period billing.BillingPeriod) error {
	return r.db.WithContext(ctx).
		Where("warehouse_id = ? AND billing_period_start = ? AND billing_period_end = ?",
			warehouseID, period.Start, period.End).
		Delete(&billing.StorageLedgerEntry{}).Error
}

// Ensure GormStorageLedgerRepository implements StorageLedgerRepository
var _ billing.StorageLedgerRepository = (*GormStorageLedgerRepository)(nil)
