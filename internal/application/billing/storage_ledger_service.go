package billing

import (
	"context"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/billing"
	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/partner"
)

// StorageLedgerService generates the weekly storage snapshots a billing
// period's storage costs are computed from. Each Monday in the period gets
// one entry per SKU batch with stock on hand, priced at the storage rate
// effective that Monday. Entries upsert on their natural key, so the
// generation can be re-run after corrections.
type StorageLedgerService struct {
	warehouseRepo partner.WarehouseRepository
	skuRepo       catalog.SkuRepository
	txRepo        inventory.TransactionRepository
	rateRepo      billing.CostRateRepository
	ledgerRepo    billing.StorageLedgerRepository
	logger        *zap.Logger
}

// NewStorageLedgerService creates a new StorageLedgerService
func NewStorageLedgerService(
	warehouseRepo partner.WarehouseRepository,
	skuRepo catalog.SkuRepository,
	txRepo inventory.TransactionRepository,
	rateRepo billing.CostRateRepository,
	ledgerRepo billing.StorageLedgerRepository,
	logger *zap.Logger,
) *StorageLedgerService {
	return &StorageLedgerService{
		warehouseRepo: warehouseRepo,
		skuRepo:       skuRepo,
		txRepo:        txRepo,
		rateRepo:      rateRepo,
		ledgerRepo:    ledgerRepo,
		logger:        logger,
	}
}

// GenerateForPeriod builds or refreshes the warehouse's storage ledger for
// the period and returns the number of entries written. Batches with zero
// balance on a Monday produce no entry for that week. Mondays with no
// effective storage rate are skipped with a warning.
func (s *StorageLedgerService) GenerateForPeriod(
	ctx context.Context,
	warehouseID uuid.UUID,
	period billing.BillingPeriod,
) (int, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		return 0, err
	}

	rateCard, err := s.rateRepo.FindByWarehouse(ctx, warehouseID, billing.CostCategoryStorage)
	if err != nil {
		return 0, err
	}

	batches, err := s.txRepo.FindBatchesWithActivity(ctx, warehouseID, period.End)
	if err != nil {
		return 0, err
	}
	if len(batches) == 0 {
		return 0, nil
	}

	skus := make(map[uuid.UUID]*catalog.Sku)
	written := 0

	for _, monday := range period.Mondays() {
		rate := rateCard.Resolve(billing.CostCategoryStorage, "", monday)
		if rate == nil {
			s.logger.Warn("no storage rate effective, skipping snapshot week",
				zap.String("warehouse_id", warehouseID.String()),
				zap.Time("week", monday))
			continue
		}

		for _, batch := range batches {
			transactions, err := s.txRepo.FindByBatchUpTo(ctx, warehouseID, batch.SkuID, batch.BatchLot, monday)
			if err != nil {
				return written, err
			}

			cartons := inventory.CartonBalanceAsOf(transactions, monday)
			if cartons == 0 {
				continue
			}

			sku, ok := skus[batch.SkuID]
			if !ok {
				sku, err = s.skuRepo.FindByID(ctx, batch.SkuID)
				if err != nil {
					return written, err
				}
				skus[batch.SkuID] = sku
			}

			charged := chargedQuantity(warehouse, sku, transactions, cartons)

			entry, err := billing.NewStorageLedgerEntry(
				warehouse, sku, batch.BatchLot, monday, period, cartons, charged, rate.CostValue)
			if err != nil {
				return written, err
			}
			if err := s.ledgerRepo.Upsert(ctx, entry); err != nil {
				return written, err
			}
			written++
		}
	}

	s.logger.Info("storage ledger generated",
		zap.String("warehouse_id", warehouseID.String()),
		zap.String("period", period.Label()),
		zap.Int("entries", written))

	return written, nil
}

// GetLedgerForPeriod returns the period's snapshots for review
func (s *StorageLedgerService) GetLedgerForPeriod(
	ctx context.Context,
	warehouseID uuid.UUID,
	period billing.BillingPeriod,
) ([]billing.StorageLedgerEntry, error) {
	if _, err := s.warehouseRepo.FindByID(ctx, warehouseID); err != nil {
		return nil, err
	}
	return s.ledgerRepo.FindForPeriod(ctx, warehouseID, period)
}

// chargedQuantity converts a carton balance into the billable storage
// quantity: whole pallets for standard warehouses, whole cubic feet for
// Amazon FBA.
func chargedQuantity(
	warehouse *partner.Warehouse,
	sku *catalog.Sku,
	transactions []inventory.InventoryTransaction,
	cartons int,
) int {
	if warehouse.IsAmazonFBA() {
		return int(math.Ceil(float64(cartons) * sku.CartonCubicFeet()))
	}
	return int(math.Ceil(float64(cartons) / float64(cartonsPerPallet(transactions, sku))))
}

// cartonsPerPallet picks the pallet build for a batch: the configuration
// captured on the earliest transaction that has one, then the SKU default,
// then a conservative one carton per pallet.
func cartonsPerPallet(transactions []inventory.InventoryTransaction, sku *catalog.Sku) int {
	for i := range transactions {
		if transactions[i].StorageCartonsPerPallet > 0 {
			return transactions[i].StorageCartonsPerPallet
		}
	}
	if sku.StorageCartonsPerPallet > 0 {
		return sku.StorageCartonsPerPallet
	}
	return 1
}
