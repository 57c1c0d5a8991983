package partner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWarehouse(t *testing.T) {
	warehouse, err := NewWarehouse("WH-LA", "Los Angeles DC", WarehouseTypeStandard)
	require.NoError(t, err)

	assert.Equal(t, "WH-LA", warehouse.Code)
	assert.Equal(t, WarehouseStatusActive, warehouse.Status)
	assert.True(t, warehouse.IsActive())
	assert.False(t, warehouse.IsAmazonFBA())
}

func TestNewWarehouse_Validation(t *testing.T) {
	_, err := NewWarehouse("", "Name", WarehouseTypeStandard)
	assert.Error(t, err)

	_, err = NewWarehouse("WH-1", "", WarehouseTypeStandard)
	assert.Error(t, err)

	_, err = NewWarehouse("WH-1", "Name", WarehouseType("weird"))
	assert.Error(t, err)
}

func TestWarehouse_IsAmazonFBA(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		whName   string
		whType   WarehouseType
		expected bool
	}{
		{"typed FBA warehouse", "WH-1", "FBA ONT8", WarehouseTypeAmazonFBA, true},
		{"legacy AMZN code", "AMZN-ONT8", "Ontario 8", WarehouseTypeStandard, true},
		{"legacy amazon name", "WH-2", "Amazon Ontario", WarehouseTypeStandard, true},
		{"standard warehouse", "WH-LA", "Los Angeles DC", WarehouseTypeStandard, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warehouse, err := NewWarehouse(tt.code, tt.whName, tt.whType)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, warehouse.IsAmazonFBA())
		})
	}
}

func TestWarehouse_EnableDisable(t *testing.T) {
	warehouse, err := NewWarehouse("WH-1", "Main", WarehouseTypeStandard)
	require.NoError(t, err)

	warehouse.Disable()
	assert.False(t, warehouse.IsActive())

	warehouse.Enable()
	assert.True(t, warehouse.IsActive())
}
