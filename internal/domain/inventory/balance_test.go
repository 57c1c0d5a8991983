package inventory

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txOn(t *testing.T, txType TransactionType, day time.Time, cartonsIn, cartonsOut int) InventoryTransaction {
	t.Helper()
	tx, err := NewInventoryTransaction(txType, uuid.New(), uuid.New(), "B1", day)
	require.NoError(t, err)
	tx.CartonsIn = cartonsIn
	tx.CartonsOut = cartonsOut
	return *tx
}

func TestCartonBalanceAsOf(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2024, 3, d, 10, 0, 0, 0, time.UTC)
	}

	transactions := []InventoryTransaction{
		txOn(t, TransactionTypeReceive, day(1), 100, 0),
		txOn(t, TransactionTypeShip, day(5), 0, 30),
		txOn(t, TransactionTypeReceive, day(10), 50, 0),
		txOn(t, TransactionTypeShip, day(20), 0, 80),
	}

	tests := []struct {
		name     string
		asOf     time.Time
		expected int
	}{
		{"before any activity", day(1).AddDate(0, 0, -1), 0},
		{"same day counts through end of day", day(1), 100},
		{"after first ship", day(7), 70},
		{"after second receive", day(12), 120},
		{"after all activity", day(25), 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CartonBalanceAsOf(transactions, tt.asOf))
		})
	}
}

func TestCartonBalanceAsOf_NeverNegative(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	transactions := []InventoryTransaction{
		txOn(t, TransactionTypeShip, day, 0, 50),
		txOn(t, TransactionTypeReceive, day.AddDate(0, 0, 1), 20, 0),
	}

	// Over-shipment clamps at zero instead of carrying a negative balance
	assert.Equal(t, 0, CartonBalanceAsOf(transactions, day))
	assert.Equal(t, 20, CartonBalanceAsOf(transactions, day.AddDate(0, 0, 2)))
}

func TestInventoryBalance_Apply(t *testing.T) {
	balance, err := NewInventoryBalance(uuid.New(), uuid.New(), "B1")
	require.NoError(t, err)

	receive, err := NewInventoryTransaction(TransactionTypeReceive, balance.WarehouseID, balance.SkuID, "B1",
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	receive.WithInbound(96, 2).WithPalletConfig(48, 40)

	balance.Apply(receive, 12)
	assert.Equal(t, 96, balance.CurrentCartons)
	assert.Equal(t, 2, balance.CurrentPallets)
	assert.Equal(t, 96*12, balance.CurrentUnits)
	assert.Equal(t, 48, balance.StorageCartonsPerPallet)
	require.NotNil(t, balance.LastTransactionAt)

	ship, err := NewInventoryTransaction(TransactionTypeShip, balance.WarehouseID, balance.SkuID, "B1",
		time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	ship.WithOutbound(40, 1).WithPalletConfig(50, 45)

	balance.Apply(ship, 12)
	assert.Equal(t, 56, balance.CurrentCartons)
	assert.Equal(t, 1, balance.CurrentPallets)
	// Pallet config from the first transaction is kept
	assert.Equal(t, 48, balance.StorageCartonsPerPallet)
	assert.Equal(t, 40, balance.ShippingCartonsPerPallet)
}

func TestInventoryBalance_ApplyClampsAtZero(t *testing.T) {
	balance, err := NewInventoryBalance(uuid.New(), uuid.New(), "B1")
	require.NoError(t, err)

	ship, err := NewInventoryTransaction(TransactionTypeShip, balance.WarehouseID, balance.SkuID, "B1", time.Now())
	require.NoError(t, err)
	ship.WithOutbound(10, 1)

	balance.Apply(ship, 0)
	assert.Equal(t, 0, balance.CurrentCartons)
	assert.Equal(t, 0, balance.CurrentPallets)
}
