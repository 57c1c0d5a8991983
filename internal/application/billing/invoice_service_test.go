package billing

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/billing"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/shared"
)

func invoiceServiceFixture(t *testing.T) (*InvoiceService, *mockWarehouseRepository, *mockInvoiceRepository, *mockStorageLedgerRepository, *mockTransactionRepository) {
	warehouseRepo := new(mockWarehouseRepository)
	invoiceRepo := new(mockInvoiceRepository)
	ledgerRepo := new(mockStorageLedgerRepository)
	txRepo := new(mockTransactionRepository)
	costService := newTestService(warehouseRepo, new(mockCostRateRepository), ledgerRepo, txRepo, nil)
	service := NewInvoiceService(warehouseRepo, invoiceRepo, costService, zap.NewNop())
	return service, warehouseRepo, invoiceRepo, ledgerRepo, txRepo
}

func TestGenerateInvoice(t *testing.T) {
	warehouse := testWarehouse(t)
	sku := testSku(t, "SKU-A")
	period := billing.BillingPeriodStarting(2024, time.March, time.UTC)

	entries := []billing.StorageLedgerEntry{
		testLedgerEntry(t, warehouse, sku, "B1", period, time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC), 48, 1, 5.00),
	}

	service, warehouseRepo, invoiceRepo, ledgerRepo, txRepo := invoiceServiceFixture(t)
	warehouseRepo.On("FindByID", mock.Anything, warehouse.ID).Return(warehouse, nil)
	invoiceRepo.On("FindByWarehouseAndPeriod", mock.Anything, warehouse.ID, period).Return(nil, shared.ErrNotFound)
	ledgerRepo.On("FindForPeriod", mock.Anything, warehouse.ID, period).Return(entries, nil)
	txRepo.On("FindByWarehouseAndDateRange", mock.Anything, warehouse.ID, period.Start, period.End).Return([]inventory.InventoryTransaction{}, nil)
	invoiceRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	invoice, err := service.GenerateInvoice(context.Background(), warehouse.ID, period)
	require.NoError(t, err)

	assert.Equal(t, "INV-WH-LA-20240316-20240415", invoice.InvoiceNumber)
	assert.Equal(t, billing.InvoiceStatusDraft, invoice.Status)
	assert.True(t, invoice.TotalAmount.Equal(decimal.NewFromInt(5)))
	require.Len(t, invoice.LineItems, 1)
}

func TestGenerateInvoice_ReplacesExistingDraft(t *testing.T) {
	warehouse := testWarehouse(t)
	period := billing.BillingPeriodStarting(2024, time.March, time.UTC)

	existing, err := billing.NewInvoiceFromSummary(warehouse.ID, warehouse.Code, period, nil)
	require.NoError(t, err)

	service, warehouseRepo, invoiceRepo, ledgerRepo, txRepo := invoiceServiceFixture(t)
	warehouseRepo.On("FindByID", mock.Anything, warehouse.ID).Return(warehouse, nil)
	invoiceRepo.On("FindByWarehouseAndPeriod", mock.Anything, warehouse.ID, period).Return(existing, nil)
	ledgerRepo.On("FindForPeriod", mock.Anything, warehouse.ID, period).Return([]billing.StorageLedgerEntry{}, nil)
	txRepo.On("FindByWarehouseAndDateRange", mock.Anything, warehouse.ID, period.Start, period.End).Return([]inventory.InventoryTransaction{}, nil)
	invoiceRepo.On("Delete", mock.Anything, existing.ID).Return(nil)
	invoiceRepo.On("Save", mock.Anything, mock.Anything).Return(nil)

	_, err = service.GenerateInvoice(context.Background(), warehouse.ID, period)
	require.NoError(t, err)
	invoiceRepo.AssertCalled(t, "Delete", mock.Anything, existing.ID)
}

func TestGenerateInvoice_FinalizedBlocksRegeneration(t *testing.T) {
	warehouse := testWarehouse(t)
	period := billing.BillingPeriodStarting(2024, time.March, time.UTC)

	existing, err := billing.NewInvoiceFromSummary(warehouse.ID, warehouse.Code, period, nil)
	require.NoError(t, err)
	require.NoError(t, existing.Finalize())

	service, warehouseRepo, invoiceRepo, _, _ := invoiceServiceFixture(t)
	warehouseRepo.On("FindByID", mock.Anything, warehouse.ID).Return(warehouse, nil)
	invoiceRepo.On("FindByWarehouseAndPeriod", mock.Anything, warehouse.ID, period).Return(existing, nil)

	_, err = service.GenerateInvoice(context.Background(), warehouse.ID, period)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "finalized")
	invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestReconcileInvoice_FlagsOverbilledStorage(t *testing.T) {
	warehouse := testWarehouse(t)
	sku := testSku(t, "SKU-A")
	period := billing.BillingPeriodStarting(2024, time.March, time.UTC)

	// Invoice billed 11 pallet-weeks; the ledger now holds only 10
	invoice, err := billing.NewInvoiceFromSummary(warehouse.ID, warehouse.Code, period, []billing.CostCategorySummary{
		{
			CostCategory:  billing.CostCategoryStorage,
			CostName:      billing.CostNameWeeklyStorage,
			TotalQuantity: decimal.NewFromInt(11),
			TotalAmount:   decimal.NewFromInt(55),
			UnitRate:      decimal.NewFromInt(5),
			Unit:          billing.UnitPalletWeek,
		},
	})
	require.NoError(t, err)

	entries := []billing.StorageLedgerEntry{
		testLedgerEntry(t, warehouse, sku, "B1", period, time.Date(2024, 3, 18, 0, 0, 0, 0, time.UTC), 240, 5, 5.00),
		testLedgerEntry(t, warehouse, sku, "B1", period, time.Date(2024, 3, 25, 0, 0, 0, 0, time.UTC), 240, 5, 5.00),
	}

	service, warehouseRepo, invoiceRepo, ledgerRepo, txRepo := invoiceServiceFixture(t)
	invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)
	warehouseRepo.On("FindByID", mock.Anything, warehouse.ID).Return(warehouse, nil)
	ledgerRepo.On("FindForPeriod", mock.Anything, warehouse.ID, period).Return(entries, nil)
	txRepo.On("FindByWarehouseAndDateRange", mock.Anything, warehouse.ID, period.Start, period.End).Return([]inventory.InventoryTransaction{}, nil)

	report, err := service.ReconcileInvoice(context.Background(), invoice.ID)
	require.NoError(t, err)

	require.Len(t, report.Items, 1)
	item := report.Items[0]
	assert.Equal(t, billing.ReconciliationStatusVariance, item.Status)
	assert.True(t, item.ExpectedAmount.Equal(decimal.NewFromInt(50)))
	assert.True(t, item.InvoicedAmount.Equal(decimal.NewFromInt(55)))
	assert.True(t, item.Difference.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, 1, report.Summary.VarianceCount)
	assert.False(t, report.Summary.Clean())
}

func TestReconcileInvoice_VoidedIsRejected(t *testing.T) {
	warehouse := testWarehouse(t)
	period := billing.BillingPeriodStarting(2024, time.March, time.UTC)
	invoice, err := billing.NewInvoiceFromSummary(warehouse.ID, warehouse.Code, period, nil)
	require.NoError(t, err)
	require.NoError(t, invoice.Void())

	service, _, invoiceRepo, _, _ := invoiceServiceFixture(t)
	invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)

	_, err = service.ReconcileInvoice(context.Background(), invoice.ID)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATUS", domainErr.Code)
}

func TestFinalizeInvoice(t *testing.T) {
	warehouse := testWarehouse(t)
	period := billing.BillingPeriodStarting(2024, time.March, time.UTC)
	invoice, err := billing.NewInvoiceFromSummary(warehouse.ID, warehouse.Code, period, nil)
	require.NoError(t, err)

	service, _, invoiceRepo, _, _ := invoiceServiceFixture(t)
	invoiceRepo.On("FindByID", mock.Anything, invoice.ID).Return(invoice, nil)
	invoiceRepo.On("Save", mock.Anything, invoice).Return(nil)

	finalized, err := service.FinalizeInvoice(context.Background(), invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, billing.InvoiceStatusFinalized, finalized.Status)
}
