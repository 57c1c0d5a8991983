package billing

import (
	"context"

	"github.com/google/uuid"

	"github.com/wms/backend/internal/domain/shared"
)

// CostRateRepository defines the persistence interface for cost rates
type CostRateRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*CostRate, error)
	// FindByWarehouse returns every rate configured for the warehouse,
	// optionally restricted to the given categories. Resolution against a
	// point in time happens in memory on the returned RateCard.
	FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, categories ...CostCategory) (RateCard, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]CostRate, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, rate *CostRate) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// StorageLedgerRepository defines the persistence interface for weekly
// storage snapshots
type StorageLedgerRepository interface {
	FindBySlID(ctx context.Context, slID string) (*StorageLedgerEntry, error)
	// FindForPeriod returns the warehouse's entries whose week ending date
	// falls inside the period, with Warehouse and Sku preloaded.
	FindForPeriod(ctx context.Context, warehouseID uuid.UUID, period BillingPeriod) ([]StorageLedgerEntry, error)
	// Upsert inserts the entry or replaces the existing one with the same SlID.
	Upsert(ctx context.Context, entry *StorageLedgerEntry) error
	DeleteForPeriod(ctx context.Context, warehouseID uuid.UUID, period BillingPeriod) error
}

// InvoiceRepository defines the persistence interface for invoices
type InvoiceRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Invoice, error)
	FindByNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)
	FindByWarehouseAndPeriod(ctx context.Context, warehouseID uuid.UUID, period BillingPeriod) (*Invoice, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Invoice, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, invoice *Invoice) error
	Delete(ctx context.Context, id uuid.UUID) error
}
