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
	"github.com/wms/backend/internal/domain/partner"
)

func newLedgerTestService(warehouseRepo *mockWarehouseRepository, skuRepo *mockSkuRepository, txRepo *mockTransactionRepository, rateRepo *mockCostRateRepository, ledgerRepo *mockStorageLedgerRepository) *StorageLedgerService {
	return NewStorageLedgerService(warehouseRepo, skuRepo, txRepo, rateRepo, ledgerRepo, zap.NewNop())
}

func TestGenerateForPeriod(t *testing.T) {
	warehouse := testWarehouse(t)
	sku := testSku(t, "CS-007")
	sku.StorageCartonsPerPallet = 48
	period := billing.BillingPeriodStarting(2024, time.March, time.UTC)

	// Received 100 cartons before the period; no other movement
	receive := receiveTx(t, warehouse.ID, sku, "B1", "MSKU1", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 100, 3)
	transactions := []inventory.InventoryTransaction{receive}
	batches := []inventory.BatchKey{{SkuID: sku.ID, BatchLot: "B1"}}
	rateCard := billing.RateCard{
		testRate(t, warehouse.ID, billing.CostCategoryStorage, "Weekly Pallet Storage", 5.00),
	}

	warehouseRepo := new(mockWarehouseRepository)
	skuRepo := new(mockSkuRepository)
	txRepo := new(mockTransactionRepository)
	rateRepo := new(mockCostRateRepository)
	ledgerRepo := new(mockStorageLedgerRepository)

	warehouseRepo.On("FindByID", mock.Anything, warehouse.ID).Return(warehouse, nil)
	rateRepo.On("FindByWarehouse", mock.Anything, warehouse.ID, mock.Anything).Return(rateCard, nil)
	txRepo.On("FindBatchesWithActivity", mock.Anything, warehouse.ID, period.End).Return(batches, nil)
	txRepo.On("FindByBatchUpTo", mock.Anything, warehouse.ID, sku.ID, "B1", mock.Anything).Return(transactions, nil)
	skuRepo.On("FindByID", mock.Anything, sku.ID).Return(sku, nil)

	var written []*billing.StorageLedgerEntry
	ledgerRepo.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		written = append(written, args.Get(1).(*billing.StorageLedgerEntry))
	}).Return(nil)

	service := newLedgerTestService(warehouseRepo, skuRepo, txRepo, rateRepo, ledgerRepo)

	count, err := service.GenerateForPeriod(context.Background(), warehouse.ID, period)
	require.NoError(t, err)

	// One entry per Monday in the period
	mondays := period.Mondays()
	assert.Equal(t, len(mondays), count)
	require.Len(t, written, len(mondays))

	first := written[0]
	assert.Equal(t, 100, first.CartonsEndOfMonday)
	// ceil(100/48) pallets at 5.00 per week
	assert.Equal(t, 3, first.StoragePalletsCharged)
	assert.True(t, first.CalculatedWeeklyCost.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, billing.StorageLedgerID(mondays[0], warehouse.Code, sku.SkuCode, "B1"), first.SlID)
}

func TestGenerateForPeriod_ZeroBalanceWeeksSkipped(t *testing.T) {
	warehouse := testWarehouse(t)
	sku := testSku(t, "SKU-A")
	sku.StorageCartonsPerPallet = 10
	period := billing.BillingPeriodStarting(2024, time.March, time.UTC)
	mondays := period.Mondays()

	// Stock arrives after the second Monday and ships out before the last
	receive := receiveTx(t, warehouse.ID, sku, "B1", "", mondays[1].AddDate(0, 0, 2), 20, 0)
	ship := shipTx(t, warehouse.ID, sku, "B1", "ORD-1", mondays[3].AddDate(0, 0, 2), 20, 0)
	transactions := []inventory.InventoryTransaction{receive, ship}
	batches := []inventory.BatchKey{{SkuID: sku.ID, BatchLot: "B1"}}
	rateCard := billing.RateCard{
		testRate(t, warehouse.ID, billing.CostCategoryStorage, "Weekly Pallet Storage", 5.00),
	}

	warehouseRepo := new(mockWarehouseRepository)
	skuRepo := new(mockSkuRepository)
	txRepo := new(mockTransactionRepository)
	rateRepo := new(mockCostRateRepository)
	ledgerRepo := new(mockStorageLedgerRepository)

	warehouseRepo.On("FindByID", mock.Anything, warehouse.ID).Return(warehouse, nil)
	rateRepo.On("FindByWarehouse", mock.Anything, warehouse.ID, mock.Anything).Return(rateCard, nil)
	txRepo.On("FindBatchesWithActivity", mock.Anything, warehouse.ID, period.End).Return(batches, nil)
	txRepo.On("FindByBatchUpTo", mock.Anything, warehouse.ID, sku.ID, "B1", mock.Anything).Return(transactions, nil)
	skuRepo.On("FindByID", mock.Anything, sku.ID).Return(sku, nil)
	ledgerRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	service := newLedgerTestService(warehouseRepo, skuRepo, txRepo, rateRepo, ledgerRepo)

	count, err := service.GenerateForPeriod(context.Background(), warehouse.ID, period)
	require.NoError(t, err)

	// Only the Mondays with stock on hand produce entries
	assert.Equal(t, 2, count)
}

func TestGenerateForPeriod_AmazonFBAChargedByCubicFoot(t *testing.T) {
	warehouse, err := partner.NewWarehouse("AMZN-ONT8", "Ontario 8", partner.WarehouseTypeAmazonFBA)
	require.NoError(t, err)
	sku := testSku(t, "SKU-A")
	sku.CartonDimensionsCm = "60x40x30" // ~2.54 cubic feet per carton
	period := billing.BillingPeriodStarting(2024, time.March, time.UTC)

	receive := receiveTx(t, warehouse.ID, sku, "B1", "", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 10, 0)
	transactions := []inventory.InventoryTransaction{receive}
	batches := []inventory.BatchKey{{SkuID: sku.ID, BatchLot: "B1"}}
	rateCard := billing.RateCard{
		testRate(t, warehouse.ID, billing.CostCategoryStorage, "Monthly Cubic Foot Storage", 0.78),
	}

	warehouseRepo := new(mockWarehouseRepository)
	skuRepo := new(mockSkuRepository)
	txRepo := new(mockTransactionRepository)
	rateRepo := new(mockCostRateRepository)
	ledgerRepo := new(mockStorageLedgerRepository)

	warehouseRepo.On("FindByID", mock.Anything, warehouse.ID).Return(warehouse, nil)
	rateRepo.On("FindByWarehouse", mock.Anything, warehouse.ID, mock.Anything).Return(rateCard, nil)
	txRepo.On("FindBatchesWithActivity", mock.Anything, warehouse.ID, period.End).Return(batches, nil)
	txRepo.On("FindByBatchUpTo", mock.Anything, warehouse.ID, sku.ID, "B1", mock.Anything).Return(transactions, nil)
	skuRepo.On("FindByID", mock.Anything, sku.ID).Return(sku, nil)

	var entries []*billing.StorageLedgerEntry
	ledgerRepo.On("Upsert", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		entries = append(entries, args.Get(1).(*billing.StorageLedgerEntry))
	}).Return(nil)

	service := newLedgerTestService(warehouseRepo, skuRepo, txRepo, rateRepo, ledgerRepo)

	_, err = service.GenerateForPeriod(context.Background(), warehouse.ID, period)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	// ceil(10 cartons x 2.5423 cubic feet) = 26
	assert.Equal(t, 26, entries[0].StoragePalletsCharged)
}

func TestGenerateForPeriod_NoStorageRate(t *testing.T) {
	warehouse := testWarehouse(t)
	sku := testSku(t, "SKU-A")
	period := billing.BillingPeriodStarting(2024, time.March, time.UTC)
	batches := []inventory.BatchKey{{SkuID: sku.ID, BatchLot: "B1"}}

	warehouseRepo := new(mockWarehouseRepository)
	txRepo := new(mockTransactionRepository)
	rateRepo := new(mockCostRateRepository)
	ledgerRepo := new(mockStorageLedgerRepository)

	warehouseRepo.On("FindByID", mock.Anything, warehouse.ID).Return(warehouse, nil)
	rateRepo.On("FindByWarehouse", mock.Anything, warehouse.ID, mock.Anything).Return(billing.RateCard{}, nil)
	txRepo.On("FindBatchesWithActivity", mock.Anything, warehouse.ID, period.End).Return(batches, nil)

	service := newLedgerTestService(warehouseRepo, new(mockSkuRepository), txRepo, rateRepo, ledgerRepo)

	count, err := service.GenerateForPeriod(context.Background(), warehouse.ID, period)
	require.NoError(t, err)
	assert.Zero(t, count)
	ledgerRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}
