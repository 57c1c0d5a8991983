package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/wms/backend/internal/domain/billing"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/shared"
)

type mockWarehouseRepository struct {
	mock.Mock
}

func (m *mockWarehouseRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Warehouse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Warehouse), args.Error(1)
}

func (m *mockWarehouseRepository) FindByCode(ctx context.Context, code string) (*partner.Warehouse, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Warehouse), args.Error(1)
}

func (m *mockWarehouseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Warehouse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]partner.Warehouse), args.Error(1)
}

func (m *mockWarehouseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockWarehouseRepository) Save(ctx context.Context, warehouse *partner.Warehouse) error {
	args := m.Called(ctx, warehouse)
	return args.Error(0)
}

func (m *mockWarehouseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockCostRateRepository struct {
	mock.Mock
}

func (m *mockCostRateRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.CostRate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.CostRate), args.Error(1)
}

func (m *mockCostRateRepository) FindByWarehouse(ctx context.Context, warehouseID uuid.UUID, categories ...billing.CostCategory) (billing.RateCard, error) {
	args := m.Called(ctx, warehouseID, categories)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(billing.RateCard), args.Error(1)
}

func (m *mockCostRateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.CostRate, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.CostRate), args.Error(1)
}

func (m *mockCostRateRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockCostRateRepository) Save(ctx context.Context, rate *billing.CostRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *mockCostRateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockStorageLedgerRepository struct {
	mock.Mock
}

func (m *mockStorageLedgerRepository) FindBySlID(ctx context.Context, slID string) (*billing.StorageLedgerEntry, error) {
	args := m.Called(ctx, slID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.StorageLedgerEntry), args.Error(1)
}

func (m *mockStorageLedgerRepository) FindForPeriod(ctx context.Context, warehouseID uuid.UUID, period billing.BillingPeriod) ([]billing.StorageLedgerEntry, error) {
	args := m.Called(ctx, warehouseID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.StorageLedgerEntry), args.Error(1)
}

func (m *mockStorageLedgerRepository) Upsert(ctx context.Context, entry *billing.StorageLedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *mockStorageLedgerRepository) DeleteForPeriod(ctx context.Context, warehouseID uuid.UUID, period billing.BillingPeriod) error {
	args := m.Called(ctx, warehouseID, period)
	return args.Error(0)
}

type mockTransactionRepository struct {
	mock.Mock
}

func (m *mockTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryTransaction, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.InventoryTransaction), args.Error(1)
}

func (m *mockTransactionRepository) FindByWarehouseAndDateRange(ctx context.Context, warehouseID uuid.UUID, from, to time.Time) ([]inventory.InventoryTransaction, error) {
	args := m.Called(ctx, warehouseID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.InventoryTransaction), args.Error(1)
}

func (m *mockTransactionRepository) FindByBatchUpTo(ctx context.Context, warehouseID, skuID uuid.UUID, batchLot string, until time.Time) ([]inventory.InventoryTransaction, error) {
	args := m.Called(ctx, warehouseID, skuID, batchLot, until)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.InventoryTransaction), args.Error(1)
}

func (m *mockTransactionRepository) FindBatchesWithActivity(ctx context.Context, warehouseID uuid.UUID, until time.Time) ([]inventory.BatchKey, error) {
	args := m.Called(ctx, warehouseID, until)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.BatchKey), args.Error(1)
}

func (m *mockTransactionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]inventory.InventoryTransaction, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.InventoryTransaction), args.Error(1)
}

func (m *mockTransactionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockTransactionRepository) Save(ctx context.Context, tx *inventory.InventoryTransaction) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

type mockSkuRepository struct {
	mock.Mock
}

func (m *mockSkuRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Sku, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Sku), args.Error(1)
}

func (m *mockSkuRepository) FindByCode(ctx context.Context, skuCode string) (*catalog.Sku, error) {
	args := m.Called(ctx, skuCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Sku), args.Error(1)
}

func (m *mockSkuRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Sku, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Sku), args.Error(1)
}

func (m *mockSkuRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSkuRepository) Save(ctx context.Context, sku *catalog.Sku) error {
	args := m.Called(ctx, sku)
	return args.Error(0)
}

func (m *mockSkuRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockInvoiceRepository struct {
	mock.Mock
}

func (m *mockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *mockInvoiceRepository) FindByNumber(ctx context.Context, invoiceNumber string) (*billing.Invoice, error) {
	args := m.Called(ctx, invoiceNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *mockInvoiceRepository) FindByWarehouseAndPeriod(ctx context.Context, warehouseID uuid.UUID, period billing.BillingPeriod) (*billing.Invoice, error) {
	args := m.Called(ctx, warehouseID, period)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *mockInvoiceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *mockInvoiceRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *mockInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockRateCardCache struct {
	mock.Mock
}

func (m *mockRateCardCache) Get(ctx context.Context, warehouseID uuid.UUID) (billing.RateCard, error) {
	args := m.Called(ctx, warehouseID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(billing.RateCard), args.Error(1)
}

func (m *mockRateCardCache) Set(ctx context.Context, warehouseID uuid.UUID, card billing.RateCard) error {
	args := m.Called(ctx, warehouseID, card)
	return args.Error(0)
}

func (m *mockRateCardCache) Invalidate(ctx context.Context, warehouseID uuid.UUID) error {
	args := m.Called(ctx, warehouseID)
	return args.Error(0)
}
