package billing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wms/backend/internal/domain/billing"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/partner"
)

// shipmentRefNone keys outbound transactions that carry no shipment reference.
// They still group by calendar day so one day's unreferenced shipping is one
// shipment charge.
const shipmentRefNone = "NO_REF"

// RateCardCache is a read-through cache for per-warehouse rate cards. A miss
// returns (nil, nil); cache failures are soft and never block aggregation.
type RateCardCache interface {
	Get(ctx context.Context, warehouseID uuid.UUID) (billing.RateCard, error)
	Set(ctx context.Context, warehouseID uuid.UUID, card billing.RateCard) error
	Invalidate(ctx context.Context, warehouseID uuid.UUID) error
}

// CostAggregationService computes billing-period costs for a warehouse from
// the storage ledger and the inventory transaction log. It never writes;
// aggregation is a pure read over already-recorded data, so recalculating a
// period is always safe.
type CostAggregationService struct {
	warehouseRepo partner.WarehouseRepository
	rateRepo      billing.CostRateRepository
	ledgerRepo    billing.StorageLedgerRepository
	txRepo        inventory.TransactionRepository
	rateCache     RateCardCache
	logger        *zap.Logger
}

// NewCostAggregationService creates a new CostAggregationService. rateCache
// may be nil, in which case every calculation fetches rates from the
// repository.
func NewCostAggregationService(
	warehouseRepo partner.WarehouseRepository,
	rateRepo billing.CostRateRepository,
	ledgerRepo billing.StorageLedgerRepository,
	txRepo inventory.TransactionRepository,
	rateCache RateCardCache,
	logger *zap.Logger,
) *CostAggregationService {
	return &CostAggregationService{
		warehouseRepo: warehouseRepo,
		rateRepo:      rateRepo,
		ledgerRepo:    ledgerRepo,
		txRepo:        txRepo,
		rateCache:     rateCache,
		logger:        logger,
	}
}

// CalculateStorageCosts aggregates the period's weekly storage ledger entries
// into a single "Weekly Pallet Storage" line item. Quantity is the total
// pallet-weeks, Amount the sum of the pre-computed weekly costs, and the
// details break the total down per SKU batch. Returns an empty slice when the
// ledger has no entries for the period.
func (s *CostAggregationService) CalculateStorageCosts(
	ctx context.Context,
	warehouseID uuid.UUID,
	period billing.BillingPeriod,
) ([]billing.CostLineItem, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	entries, err := s.ledgerRepo.FindForPeriod(ctx, warehouseID, period)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []billing.CostLineItem{}, nil
	}

	type batchGroup struct {
		index  int
		detail billing.CostDetail
	}
	groups := make(map[string]*batchGroup)
	groupCount := 0

	totalPalletWeeks := 0
	totalCost := decimal.Zero

	for i := range entries {
		entry := &entries[i]
		totalPalletWeeks += entry.StoragePalletsCharged
		totalCost = totalCost.Add(entry.CalculatedWeeklyCost)

		key := entry.SkuID.String() + "|" + entry.BatchLot
		group, ok := groups[key]
		if !ok {
			skuID := entry.SkuID
			detail := billing.CostDetail{
				SkuID:    &skuID,
				BatchLot: entry.BatchLot,
			}
			if entry.Sku != nil {
				detail.SkuCode = entry.Sku.SkuCode
				detail.Description = entry.Sku.Description
			}
			group = &batchGroup{index: groupCount, detail: detail}
			groups[key] = group
			groupCount++
		}
		group.detail.Count += entry.StoragePalletsCharged
	}

	details := make([]billing.CostDetail, groupCount)
	for _, group := range groups {
		details[group.index] = group.detail
	}

	// The displayed unit rate is taken from the first ledger entry. When
	// rates changed mid-period the amount stays exact because it is summed
	// from the weekly snapshots, only the single displayed rate is
	// approximate.
	unitRate := entries[0].ApplicableWeeklyRate

	s.logger.Debug("aggregated storage costs",
		zap.String("warehouse_id", warehouseID.String()),
		zap.String("period", period.Label()),
		zap.Int("ledger_entries", len(entries)),
		zap.Int("pallet_weeks", totalPalletWeeks))

	return []billing.CostLineItem{{
		WarehouseID:   warehouse.ID,
		WarehouseName: warehouse.Name,
		CostCategory:  billing.CostCategoryStorage,
		CostName:      billing.CostNameWeeklyStorage,
		Quantity:      decimal.NewFromInt(int64(totalPalletWeeks)),
		UnitRate:      unitRate,
		Unit:          billing.UnitPalletWeek,
		Amount:        totalCost,
		Details:       details,
	}}, nil
}

// CalculateTransactionCosts aggregates the period's inventory transactions
// into container, carton, pallet and shipment charges. Categories without an
// applicable rate are skipped without error so partially configured
// warehouses still produce the charges they have rates for.
func (s *CostAggregationService) CalculateTransactionCosts(
	ctx context.Context,
	warehouseID uuid.UUID,
	period billing.BillingPeriod,
) ([]billing.CostLineItem, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	transactions, err := s.txRepo.FindByWarehouseAndDateRange(ctx, warehouseID, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	if len(transactions) == 0 {
		return []billing.CostLineItem{}, nil
	}

	rateCard, err := s.fetchRateCard(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	agg := newTransactionAggregator(warehouse, period, rateCard, s.logger)
	return agg.run(transactions), nil
}

// CalculateAllCosts computes storage and transaction costs concurrently and
// returns them as one list, storage first.
func (s *CostAggregationService) CalculateAllCosts(
	ctx context.Context,
	warehouseID uuid.UUID,
	period billing.BillingPeriod,
) ([]billing.CostLineItem, error) {
	var storageCosts, transactionCosts []billing.CostLineItem

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		storageCosts, err = s.CalculateStorageCosts(gctx, warehouseID, period)
		return err
	})
	g.Go(func() error {
		var err error
		transactionCosts, err = s.CalculateTransactionCosts(gctx, warehouseID, period)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	all := make([]billing.CostLineItem, 0, len(storageCosts)+len(transactionCosts))
	all = append(all, storageCosts...)
	all = append(all, transactionCosts...)
	return all, nil
}

// GetCalculatedCostsSummary returns the period's costs collapsed to one row
// per (category, name).
func (s *CostAggregationService) GetCalculatedCostsSummary(
	ctx context.Context,
	warehouseID uuid.UUID,
	period billing.BillingPeriod,
) ([]billing.CostCategorySummary, error) {
	all, err := s.CalculateAllCosts(ctx, warehouseID, period)
	if err != nil {
		return nil, err
	}
	return billing.SummarizeCosts(all), nil
}

// GetRateCard returns the warehouse's rate card, read through the cache.
func (s *CostAggregationService) GetRateCard(ctx context.Context, warehouseID uuid.UUID) (billing.RateCard, error) {
	if _, err := s.warehouseRepo.FindByID(ctx, warehouseID); err != nil {
		return nil, err
	}
	return s.fetchRateCard(ctx, warehouseID)
}

func (s *CostAggregationService) fetchRateCard(ctx context.Context, warehouseID uuid.UUID) (billing.RateCard, error) {
	if s.rateCache != nil {
		card, err := s.rateCache.Get(ctx, warehouseID)
		if err != nil {
			s.logger.Warn("rate card cache read failed",
				zap.String("warehouse_id", warehouseID.String()), zap.Error(err))
		} else if card != nil {
			return card, nil
		}
	}

	card, err := s.rateRepo.FindByWarehouse(ctx, warehouseID)
	if err != nil {
		return nil, err
	}

	if s.rateCache != nil {
		if err := s.rateCache.Set(ctx, warehouseID, card); err != nil {
			s.logger.Warn("rate card cache write failed",
				zap.String("warehouse_id", warehouseID.String()), zap.Error(err))
		}
	}
	return card, nil
}

// transactionAggregator holds the per-run state of one transaction cost pass
type transactionAggregator struct {
	warehouse *partner.Warehouse
	period    billing.BillingPeriod
	rateCard  billing.RateCard
	logger    *zap.Logger
	items     []billing.CostLineItem
}

func newTransactionAggregator(
	warehouse *partner.Warehouse,
	period billing.BillingPeriod,
	rateCard billing.RateCard,
	logger *zap.Logger,
) *transactionAggregator {
	return &transactionAggregator{
		warehouse: warehouse,
		period:    period,
		rateCard:  rateCard,
		logger:    logger,
	}
}

func (a *transactionAggregator) run(transactions []inventory.InventoryTransaction) []billing.CostLineItem {
	a.items = []billing.CostLineItem{}
	a.aggregateContainers(transactions)
	a.aggregateCartons(transactions)
	a.aggregatePallets(transactions)
	a.aggregateShipments(transactions)
	return a.items
}

// resolveRate finds the applicable rate for the category or logs and returns
// nil; a missing rate skips the category rather than failing the run.
func (a *transactionAggregator) resolveRate(category billing.CostCategory, nameContains string) *billing.CostRate {
	rate := a.rateCard.Resolve(category, nameContains, a.period.End)
	if rate == nil {
		a.logger.Warn("no applicable rate, skipping category",
			zap.String("warehouse_id", a.warehouse.ID.String()),
			zap.String("cost_category", category.String()),
			zap.String("name_filter", nameContains))
	}
	return rate
}

func (a *transactionAggregator) addItem(rate *billing.CostRate, quantity int64, details []billing.CostDetail) {
	if quantity <= 0 {
		return
	}
	q := decimal.NewFromInt(quantity)
	a.items = append(a.items, billing.CostLineItem{
		WarehouseID:   a.warehouse.ID,
		WarehouseName: a.warehouse.Name,
		CostCategory:  rate.CostCategory,
		CostName:      rate.CostName,
		Quantity:      q,
		UnitRate:      rate.CostValue,
		Unit:          rate.UnitOfMeasure,
		Amount:        q.Mul(rate.CostValue),
		Details:       details,
	})
}

// aggregateContainers charges once per distinct tracking number across the
// period's receives, however many SKUs arrived in the container.
func (a *transactionAggregator) aggregateContainers(transactions []inventory.InventoryTransaction) {
	rate := a.resolveRate(billing.CostCategoryContainer, "")
	if rate == nil {
		return
	}

	seen := make(map[string]bool)
	var details []billing.CostDetail
	for i := range transactions {
		tx := &transactions[i]
		if tx.TransactionType != inventory.TransactionTypeReceive || tx.TrackingNumber == "" {
			continue
		}
		if seen[tx.TrackingNumber] {
			continue
		}
		seen[tx.TrackingNumber] = true
		details = append(details, billing.CostDetail{
			TransactionType: tx.TransactionType.String(),
			Reference:       tx.TrackingNumber,
			Count:           1,
		})
	}

	a.addItem(rate, int64(len(details)), details)
}

func (a *transactionAggregator) aggregateCartons(transactions []inventory.InventoryTransaction) {
	if rate := a.resolveRate(billing.CostCategoryCarton, "inbound"); rate != nil {
		var total int64
		var details []billing.CostDetail
		for i := range transactions {
			tx := &transactions[i]
			// Adjustments correct the balance without physical handling, so
			// only receives are billable.
			if tx.TransactionType != inventory.TransactionTypeReceive || tx.CartonsIn == 0 {
				continue
			}
			total += int64(tx.CartonsIn)
			details = append(details, cartonDetail(tx, tx.CartonsIn))
		}
		a.addItem(rate, total, details)
	}

	if rate := a.resolveRate(billing.CostCategoryCarton, "outbound"); rate != nil {
		var total int64
		var details []billing.CostDetail
		for i := range transactions {
			tx := &transactions[i]
			// Palletized shipments are charged per pallet; carton handling
			// applies only when goods leave loose.
			if tx.TransactionType != inventory.TransactionTypeShip || tx.CartonsOut == 0 || tx.ShippingPalletsOut > 0 {
				continue
			}
			total += int64(tx.CartonsOut)
			details = append(details, cartonDetail(tx, tx.CartonsOut))
		}
		a.addItem(rate, total, details)
	}
}

func (a *transactionAggregator) aggregatePallets(transactions []inventory.InventoryTransaction) {
	if rate := a.resolveRate(billing.CostCategoryPallet, "inbound"); rate != nil {
		var total int64
		var details []billing.CostDetail
		for i := range transactions {
			tx := &transactions[i]
			if tx.TransactionType != inventory.TransactionTypeReceive || tx.StoragePalletsIn == 0 {
				continue
			}
			total += int64(tx.StoragePalletsIn)
			details = append(details, cartonDetail(tx, tx.StoragePalletsIn))
		}
		a.addItem(rate, total, details)
	}

	if rate := a.resolveRate(billing.CostCategoryPallet, "outbound"); rate != nil {
		var total int64
		var details []billing.CostDetail
		for i := range transactions {
			tx := &transactions[i]
			if tx.TransactionType != inventory.TransactionTypeShip || tx.ShippingPalletsOut == 0 {
				continue
			}
			total += int64(tx.ShippingPalletsOut)
			details = append(details, cartonDetail(tx, tx.ShippingPalletsOut))
		}
		a.addItem(rate, total, details)
	}
}

// aggregateShipments charges once per (calendar day, reference) across the
// period's ships. Multi-SKU orders shipped the same day are one shipment;
// transactions without a reference still group by day.
func (a *transactionAggregator) aggregateShipments(transactions []inventory.InventoryTransaction) {
	rate := a.resolveRate(billing.CostCategoryShipment, "")
	if rate == nil {
		return
	}

	seen := make(map[string]bool)
	var details []billing.CostDetail
	for i := range transactions {
		tx := &transactions[i]
		if tx.TransactionType != inventory.TransactionTypeShip {
			continue
		}
		ref := tx.ReferenceID
		if ref == "" {
			ref = shipmentRefNone
		}
		key := tx.TransactionDate.Format(time.DateOnly) + "|" + ref
		if seen[key] {
			continue
		}
		seen[key] = true
		details = append(details, billing.CostDetail{
			TransactionType: tx.TransactionType.String(),
			Reference:       ref,
			Count:           1,
		})
	}

	a.addItem(rate, int64(len(details)), details)
}

func cartonDetail(tx *inventory.InventoryTransaction, count int) billing.CostDetail {
	skuID := tx.SkuID
	detail := billing.CostDetail{
		SkuID:           &skuID,
		BatchLot:        tx.BatchLot,
		TransactionType: tx.TransactionType.String(),
		Reference:       tx.ReferenceID,
		Count:           count,
	}
	if tx.Sku != nil {
		detail.SkuCode = tx.Sku.SkuCode
		detail.Description = tx.Sku.Description
	}
	return detail
}
