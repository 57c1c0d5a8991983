package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionType_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		txType   TransactionType
		expected bool
	}{
		{"RECEIVE is valid", TransactionTypeReceive, true},
		{"SHIP is valid", TransactionTypeShip, true},
		{"ADJUST_IN is valid", TransactionTypeAdjustIn, true},
		{"ADJUST_OUT is valid", TransactionTypeAdjustOut, true},
		{"INVALID is not valid", TransactionType("INVALID"), false},
		{"empty is not valid", TransactionType(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.txType.IsValid())
		})
	}
}

func TestTransactionType_Direction(t *testing.T) {
	assert.True(t, TransactionTypeReceive.IsInbound())
	assert.True(t, TransactionTypeAdjustIn.IsInbound())
	assert.False(t, TransactionTypeShip.IsInbound())

	assert.True(t, TransactionTypeShip.IsOutbound())
	assert.True(t, TransactionTypeAdjustOut.IsOutbound())
	assert.False(t, TransactionTypeReceive.IsOutbound())
}

func TestNewInventoryTransaction_Success(t *testing.T) {
	warehouseID := uuid.New()
	skuID := uuid.New()
	txDate := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)

	tx, err := NewInventoryTransaction(TransactionTypeReceive, warehouseID, skuID, "BATCH-01", txDate)
	require.NoError(t, err)
	require.NotNil(t, tx)

	tx.WithInbound(120, 3).
		WithTrackingNumber("MSKU1234567").
		WithPalletConfig(48, 40)

	assert.NotEqual(t, uuid.Nil, tx.ID)
	assert.Equal(t, warehouseID, tx.WarehouseID)
	assert.Equal(t, skuID, tx.SkuID)
	assert.Equal(t, "BATCH-01", tx.BatchLot)
	assert.Equal(t, 120, tx.CartonsIn)
	assert.Equal(t, 3, tx.StoragePalletsIn)
	assert.Equal(t, "MSKU1234567", tx.TrackingNumber)
	assert.Equal(t, 48, tx.StorageCartonsPerPallet)
	require.NoError(t, tx.Validate())
}

func TestNewInventoryTransaction_Validation(t *testing.T) {
	warehouseID := uuid.New()
	skuID := uuid.New()
	txDate := time.Now()

	tests := []struct {
		name          string
		txType        TransactionType
		warehouseID   uuid.UUID
		skuID         uuid.UUID
		batchLot      string
		txDate        time.Time
		expectedError string
	}{
		{"invalid type", TransactionType("BAD"), warehouseID, skuID, "B1", txDate, "Invalid transaction type"},
		{"empty warehouse", TransactionTypeReceive, uuid.Nil, skuID, "B1", txDate, "Warehouse ID cannot be empty"},
		{"empty sku", TransactionTypeReceive, warehouseID, uuid.Nil, "B1", txDate, "SKU ID cannot be empty"},
		{"empty batch", TransactionTypeReceive, warehouseID, skuID, "", txDate, "Batch lot cannot be empty"},
		{"zero date", TransactionTypeReceive, warehouseID, skuID, "B1", time.Time{}, "Transaction date cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx, err := NewInventoryTransaction(tt.txType, tt.warehouseID, tt.skuID, tt.batchLot, tt.txDate)
			assert.Nil(t, tx)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestInventoryTransaction_Validate(t *testing.T) {
	newTx := func(txType TransactionType) *InventoryTransaction {
		tx, err := NewInventoryTransaction(txType, uuid.New(), uuid.New(), "B1", time.Now())
		require.NoError(t, err)
		return tx
	}

	t.Run("inbound with outbound quantities", func(t *testing.T) {
		tx := newTx(TransactionTypeReceive)
		tx.CartonsIn = 10
		tx.CartonsOut = 5
		assert.Error(t, tx.Validate())
	})

	t.Run("outbound with inbound quantities", func(t *testing.T) {
		tx := newTx(TransactionTypeShip)
		tx.CartonsOut = 10
		tx.CartonsIn = 5
		assert.Error(t, tx.Validate())
	})

	t.Run("empty movement", func(t *testing.T) {
		tx := newTx(TransactionTypeReceive)
		assert.Error(t, tx.Validate())
	})

	t.Run("negative quantity", func(t *testing.T) {
		tx := newTx(TransactionTypeShip)
		tx.CartonsOut = -1
		assert.Error(t, tx.Validate())
	})

	t.Run("pallet-only movement is valid", func(t *testing.T) {
		tx := newTx(TransactionTypeShip).WithOutbound(0, 2)
		assert.NoError(t, tx.Validate())
	})
}

func TestInventoryTransaction_TableName(t *testing.T) {
	assert.Equal(t, "inventory_transactions", InventoryTransaction{}.TableName())
}
