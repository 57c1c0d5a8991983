package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wms/backend/internal/domain/catalog"
	"github.com/wms/backend/internal/domain/inventory"
	"github.com/wms/backend/internal/domain/partner"
	"github.com/wms/backend/internal/domain/shared"
)

// TransactionService records inventory movements and keeps the running
// balances in step with the transaction log.
type TransactionService struct {
	warehouseRepo partner.WarehouseRepository
	skuRepo       catalog.SkuRepository
	txRepo        inventory.TransactionRepository
	balanceRepo   inventory.BalanceRepository
	logger        *zap.Logger
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	warehouseRepo partner.WarehouseRepository,
	skuRepo catalog.SkuRepository,
	txRepo inventory.TransactionRepository,
	balanceRepo inventory.BalanceRepository,
	logger *zap.Logger,
) *TransactionService {
	return &TransactionService{
		warehouseRepo: warehouseRepo,
		skuRepo:       skuRepo,
		txRepo:        txRepo,
		balanceRepo:   balanceRepo,
		logger:        logger,
	}
}

// RecordTransactionRequest carries the fields for one inventory movement
type RecordTransactionRequest struct {
	TransactionType          string    `json:"transaction_type" binding:"required"`
	TransactionDate          time.Time `json:"transaction_date" binding:"required"`
	WarehouseID              uuid.UUID `json:"warehouse_id" binding:"required"`
	SkuID                    uuid.UUID `json:"sku_id" binding:"required"`
	BatchLot                 string    `json:"batch_lot" binding:"required"`
	ReferenceID              string    `json:"reference_id,omitempty"`
	TrackingNumber           string    `json:"tracking_number,omitempty"`
	CartonsIn                int       `json:"cartons_in,omitempty"`
	CartonsOut               int       `json:"cartons_out,omitempty"`
	StoragePalletsIn         int       `json:"storage_pallets_in,omitempty"`
	ShippingPalletsOut       int       `json:"shipping_pallets_out,omitempty"`
	StorageCartonsPerPallet  int       `json:"storage_cartons_per_pallet,omitempty"`
	ShippingCartonsPerPallet int       `json:"shipping_cartons_per_pallet,omitempty"`
	Notes                    string    `json:"notes,omitempty"`
}

// RecordTransaction validates and persists a movement, then folds it into
// the batch balance. The balance row is created on first receive.
func (s *TransactionService) RecordTransaction(ctx context.Context, req RecordTransactionRequest) (*inventory.InventoryTransaction, error) {
	warehouse, err := s.warehouseRepo.FindByID(ctx, req.WarehouseID)
	if err != nil {
		return nil, err
	}
	if !warehouse.IsActive() {
		return nil, shared.NewDomainError("WAREHOUSE_INACTIVE", "Cannot record transactions against an inactive warehouse")
	}

	sku, err := s.skuRepo.FindByID(ctx, req.SkuID)
	if err != nil {
		return nil, err
	}

	tx, err := inventory.NewInventoryTransaction(
		inventory.TransactionType(req.TransactionType),
		req.WarehouseID,
		req.SkuID,
		req.BatchLot,
		req.TransactionDate,
	)
	if err != nil {
		return nil, err
	}
	tx.CartonsIn = req.CartonsIn
	tx.CartonsOut = req.CartonsOut
	tx.StoragePalletsIn = req.StoragePalletsIn
	tx.ShippingPalletsOut = req.ShippingPalletsOut
	tx.WithReference(req.ReferenceID).
		WithTrackingNumber(req.TrackingNumber).
		WithPalletConfig(req.StorageCartonsPerPallet, req.ShippingCartonsPerPallet)
	tx.Notes = req.Notes

	if err := tx.Validate(); err != nil {
		return nil, err
	}

	balance, err := s.balanceRepo.FindByKey(ctx, req.WarehouseID, req.SkuID, req.BatchLot)
	if err != nil {
		if !shared.IsNotFound(err) {
			return nil, err
		}
		if tx.TransactionType.IsOutbound() {
			return nil, shared.NewDomainError("UNKNOWN_BATCH", "Cannot ship from a batch that was never received")
		}
		balance, err = inventory.NewInventoryBalance(req.WarehouseID, req.SkuID, req.BatchLot)
		if err != nil {
			return nil, err
		}
	}

	if err := s.txRepo.Save(ctx, tx); err != nil {
		return nil, err
	}

	balance.Apply(tx, sku.UnitsPerCarton)
	if err := s.balanceRepo.Save(ctx, balance); err != nil {
		return nil, err
	}

	s.logger.Info("inventory transaction recorded",
		zap.String("transaction_id", tx.ID.String()),
		zap.String("type", tx.TransactionType.String()),
		zap.String("warehouse_id", req.WarehouseID.String()),
		zap.String("batch_lot", req.BatchLot))

	return tx, nil
}

// GetTransaction returns one transaction by ID
func (s *TransactionService) GetTransaction(ctx context.Context, id uuid.UUID) (*inventory.InventoryTransaction, error) {
	return s.txRepo.FindByID(ctx, id)
}

// ListTransactions returns transactions matching the filter with total count
func (s *TransactionService) ListTransactions(ctx context.Context, filter shared.Filter) ([]inventory.InventoryTransaction, int64, error) {
	transactions, err := s.txRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.txRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return transactions, total, nil
}

// GetBalances returns the current stock positions for a warehouse
func (s *TransactionService) GetBalances(ctx context.Context, warehouseID uuid.UUID) ([]inventory.InventoryBalance, error) {
	if _, err := s.warehouseRepo.FindByID(ctx, warehouseID); err != nil {
		return nil, err
	}
	return s.balanceRepo.FindByWarehouse(ctx, warehouseID)
}
